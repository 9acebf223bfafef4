package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer belongs to exactly one partner. AnnualIncome and MaxLoanAmount
// are computed by the backend and may be absent.
type Customer struct {
	ID            int64               `json:"id"`
	FirstName     string              `json:"first_name"`
	LastName      string              `json:"last_name"`
	FullName      string              `json:"full_name"`
	Email         string              `json:"email"`
	Income        decimal.Decimal     `json:"income"`
	AnnualIncome  decimal.NullDecimal `json:"annual_income"`
	MaxLoanAmount decimal.NullDecimal `json:"max_loan_amount"`
	CreditScore   int                 `json:"credit_score"`
	PhoneNumber   *string             `json:"phone_number"`
	Address       *string             `json:"address"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// DisplayName prefers the backend's full name and falls back to first + last.
func (c Customer) DisplayName() string {
	if name := strings.TrimSpace(c.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// CustomerRequest is the create-customer payload. Income is sent as a JSON
// number. Optional fields are nil when left blank and are then omitted.
type CustomerRequest struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Income      json.Number `json:"income"`
	CreditScore int         `json:"credit_score"`
	PhoneNumber *string     `json:"phone_number,omitempty"`
	Address     *string     `json:"address,omitempty"`
}
