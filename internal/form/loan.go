package form

import (
	"encoding/json"
	"strconv"
	"strings"

	"loan-console/internal/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Loan bounds, inclusive.
const (
	MinAnnualRate = 0
	MaxAnnualRate = 100
	MinTermMonths = 1
	MaxTermMonths = 600
)

// LoanDraft is the raw text of the loan-offer form. Customer holds the
// selected customer id.
type LoanDraft struct {
	Customer   string `json:"customer"`
	LoanAmount string `json:"loan_amount"`
	AnnualRate string `json:"annual_rate"`
	TermMonths string `json:"term_months"`
}

// LoanSubmission is a validated loan draft: the route target and the body.
type LoanSubmission struct {
	CustomerID int64
	Request    model.LoanOfferRequest
}

// LoanForm controls the create-loan-offer draft.
type LoanForm struct {
	controller[LoanDraft, LoanSubmission]
}

// NewLoanForm returns an empty loan form.
func NewLoanForm() *LoanForm {
	return &LoanForm{controller[LoanDraft, LoanSubmission]{
		validate: ValidateLoan,
		known: map[string]bool{
			"customer": true, "loan_amount": true, "annual_rate": true, "term_months": true,
		},
	}}
}

// ValidateLoan checks every field of the draft. Whether the customer belongs
// to the loaded list is not checked here.
func ValidateLoan(draft LoanDraft) (LoanSubmission, error) {
	d := LoanDraft{
		Customer:   strings.TrimSpace(draft.Customer),
		LoanAmount: strings.TrimSpace(draft.LoanAmount),
		AnnualRate: strings.TrimSpace(draft.AnnualRate),
		TermMonths: strings.TrimSpace(draft.TermMonths),
	}

	err := validation.ValidateStruct(&d,
		validation.Field(&d.Customer,
			validation.Required.Error("Please select a customer."),
			positiveID("validation_customer", "Please select a customer."),
		),
		validation.Field(&d.LoanAmount,
			validation.Required.Error("Loan amount is required."),
			positiveDecimal("validation_loan_amount", "Loan amount must be greater than zero."),
		),
		validation.Field(&d.AnnualRate,
			validation.Required.Error("Interest rate is required."),
			decimalBetween(MinAnnualRate, MaxAnnualRate, "validation_annual_rate",
				"Interest rate must be between 0 and 100."),
		),
		validation.Field(&d.TermMonths,
			validation.Required.Error("Term is required."),
			intBetween(MinTermMonths, MaxTermMonths, "validation_term_months",
				"Term must be a whole number of months between 1 and 600."),
		),
	)
	if err != nil {
		return LoanSubmission{}, toValidationError(err)
	}

	customerID, _ := strconv.ParseInt(d.Customer, 10, 64)
	amount, _ := decimal.NewFromString(d.LoanAmount)
	rate, _ := decimal.NewFromString(d.AnnualRate)
	term, _ := strconv.Atoi(d.TermMonths)

	return LoanSubmission{
		CustomerID: customerID,
		Request: model.LoanOfferRequest{
			LoanAmount: json.Number(amount.String()),
			AnnualRate: json.Number(rate.String()),
			TermMonths: term,
		},
	}, nil
}
