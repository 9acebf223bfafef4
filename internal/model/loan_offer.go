package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// LoanOffer is a persisted offer for one customer. MonthlyPayments is
// computed by the backend; the console only displays it.
type LoanOffer struct {
	ID              int64           `json:"id"`
	Customer        int64           `json:"customer"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	AnnualRate      decimal.Decimal `json:"annual_rate"`
	TermMonths      int             `json:"term_months"`
	MonthlyPayments decimal.Decimal `json:"monthly_payments"`
	// IssueDate is a plain calendar date (YYYY-MM-DD) and is displayed verbatim.
	IssueDate string    `json:"issue_date"`
	CreatedAt time.Time `json:"created_at"`
}

// LoanOfferRequest is the create-loan-offer payload; the customer is part of
// the route, not the body.
type LoanOfferRequest struct {
	LoanAmount json.Number `json:"loan_amount"`
	AnnualRate json.Number `json:"annual_rate"`
	TermMonths int         `json:"term_months"`
}
