package form

import (
	"encoding/json"
	"strconv"
	"strings"

	"loan-console/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// Credit score bounds, inclusive.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// CustomerDraft is the raw text of the customer form.
type CustomerDraft struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Income      string `json:"income"`
	CreditScore string `json:"credit_score"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

func (d CustomerDraft) trimmed() CustomerDraft {
	return CustomerDraft{
		FirstName:   strings.TrimSpace(d.FirstName),
		LastName:    strings.TrimSpace(d.LastName),
		Email:       strings.TrimSpace(d.Email),
		Income:      strings.TrimSpace(d.Income),
		CreditScore: strings.TrimSpace(d.CreditScore),
		PhoneNumber: strings.TrimSpace(d.PhoneNumber),
		Address:     strings.TrimSpace(d.Address),
	}
}

// CustomerForm controls the create-customer draft.
type CustomerForm struct {
	controller[CustomerDraft, model.CustomerRequest]
}

// NewCustomerForm returns an empty customer form.
func NewCustomerForm() *CustomerForm {
	return &CustomerForm{controller[CustomerDraft, model.CustomerRequest]{
		validate: ValidateCustomer,
		known: map[string]bool{
			"first_name": true, "last_name": true, "email": true, "income": true,
			"credit_score": true, "phone_number": true, "address": true,
		},
	}}
}

// ValidateCustomer checks every field of the draft and, when all pass,
// returns the normalised request. Blank optional fields become absent.
func ValidateCustomer(draft CustomerDraft) (model.CustomerRequest, error) {
	d := draft.trimmed()

	err := validation.ValidateStruct(&d,
		validation.Field(&d.FirstName,
			validation.Required.Error("First name is required."),
		),
		validation.Field(&d.LastName,
			validation.Required.Error("Last name is required."),
		),
		validation.Field(&d.Email,
			validation.Required.Error("Email is required."),
			is.EmailFormat.Error("Enter a valid email address."),
		),
		validation.Field(&d.Income,
			validation.Required.Error("Income is required."),
			positiveDecimal("validation_income", "Income must be a positive number."),
		),
		validation.Field(&d.CreditScore,
			validation.Required.Error("Credit score is required."),
			intBetween(MinCreditScore, MaxCreditScore, "validation_credit_score",
				"Credit score must be a whole number between 300 and 850."),
		),
	)
	if err != nil {
		return model.CustomerRequest{}, toValidationError(err)
	}

	income, _ := decimal.NewFromString(d.Income)
	score, _ := strconv.Atoi(d.CreditScore)

	return model.CustomerRequest{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Income:      json.Number(income.String()),
		CreditScore: score,
		PhoneNumber: optional(d.PhoneNumber),
		Address:     optional(d.Address),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
