// Package view turns a console snapshot into what the templates render.
// Nothing here talks to the backend.
package view

import (
	"strconv"
	"strings"

	"loan-console/internal/console"
	"loan-console/internal/form"
	"loan-console/internal/model"

	"github.com/shopspring/decimal"
)

const (
	partnerPlaceholder  = "-- Select a Partner --"
	customerPlaceholder = "-- Select a Customer --"

	submitIdle    = "Create Customer"
	submitLoan    = "Create Loan Offer"
	submitPending = "Creating..."

	noCustomersHint = "No customers found. Create a customer first."
	noLoans         = "No loans found"
)

// Option is one entry of a select element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PartnerOptions lists the partners after an empty placeholder entry.
func PartnerOptions(partners []model.Partner, selectedID int64) []Option {
	opts := make([]Option, 0, len(partners)+1)
	opts = append(opts, Option{Value: "", Label: partnerPlaceholder, Selected: selectedID == 0})
	for _, p := range partners {
		opts = append(opts, Option{
			Value:    strconv.FormatInt(p.ID, 10),
			Label:    p.CompanyName + " - " + p.Address,
			Selected: p.ID == selectedID,
		})
	}
	return opts
}

// CustomerOptions lists the customers after an empty placeholder entry.
func CustomerOptions(customers []model.Customer, selectedID int64) []Option {
	opts := make([]Option, 0, len(customers)+1)
	opts = append(opts, Option{Value: "", Label: customerPlaceholder, Selected: selectedID == 0})
	for _, c := range customers {
		opts = append(opts, Option{
			Value:    strconv.FormatInt(c.ID, 10),
			Label:    c.DisplayName() + " (" + c.Email + ")",
			Selected: c.ID == selectedID,
		})
	}
	return opts
}

// CustomerRow is one line of the customer list.
type CustomerRow struct {
	ID            int64
	Name          string
	Email         string
	CreditScore   int
	AnnualIncome  string
	MaxLoanAmount string
	LoansOpen     bool
}

// CustomerList is the customer table of the selected partner.
type CustomerList struct {
	Rows []CustomerRow
}

// NewCustomerList returns nil when there is nothing to list.
func NewCustomerList(page console.Page) *CustomerList {
	if page.PartnerState == console.NoPartnerSelected || len(page.Customers) == 0 {
		return nil
	}
	list := &CustomerList{Rows: make([]CustomerRow, 0, len(page.Customers))}
	for _, c := range page.Customers {
		list.Rows = append(list.Rows, CustomerRow{
			ID:            c.ID,
			Name:          c.DisplayName(),
			Email:         c.Email,
			CreditScore:   c.CreditScore,
			AnnualIncome:  nullMoney(c.AnnualIncome),
			MaxLoanAmount: nullMoney(c.MaxLoanAmount),
			LoansOpen:     page.ShowLoanList && page.SelectedCustomerID == c.ID,
		})
	}
	return list
}

// LoanRow is one line of the loan list.
type LoanRow struct {
	ID              int64
	LoanAmount      string
	AnnualRate      string
	TermMonths      int
	MonthlyPayments string
	IssueDate       string
}

// LoanList is the expanded loan offers of one customer.
type LoanList struct {
	Title        string
	Loading      bool
	Empty        bool
	EmptyMessage string
	Rows         []LoanRow
}

// NewLoanList renders offers in the order the backend returned them.
func NewLoanList(offers []model.LoanOffer) LoanList {
	list := LoanList{
		Empty:        len(offers) == 0,
		EmptyMessage: noLoans,
		Rows:         make([]LoanRow, 0, len(offers)),
	}
	for _, o := range offers {
		list.Rows = append(list.Rows, LoanRow{
			ID:              o.ID,
			LoanAmount:      money(o.LoanAmount),
			AnnualRate:      o.AnnualRate.StringFixed(2) + "%",
			TermMonths:      o.TermMonths,
			MonthlyPayments: money(o.MonthlyPayments),
			IssueDate:       o.IssueDate,
		})
	}
	return list
}

// Banner is the visible status message.
type Banner struct {
	Text  string
	Class string
}

// NewBanner returns nil when there is no message to show.
func NewBanner(msg console.StatusMessage) *Banner {
	if msg.Empty() {
		return nil
	}
	class := "status-success"
	if msg.Kind == console.StatusError {
		class = "status-error"
	}
	return &Banner{Text: msg.Text, Class: class}
}

// FormView is what a form template needs.
type FormView[D any] struct {
	Draft        D
	Errors       form.Errors
	GeneralError string
	SubmitLabel  string
	Disabled     bool
}

// PageData is the root template value.
type PageData struct {
	Title            string
	Partners         []Option
	PartnerSelected  bool
	LoadingCustomers bool
	Customers        *CustomerList
	NoCustomersHint  string
	CustomerOptions  []Option
	CustomerForm     FormView[form.CustomerDraft]
	LoanForm         FormView[form.LoanDraft]
	Loans            *LoanList
	Banner           *Banner
	Loading          bool
}

// NewPageData builds the whole page from one snapshot.
func NewPageData(page console.Page) PageData {
	partnerSelected := page.PartnerState != console.NoPartnerSelected
	data := PageData{
		Title:            "Bees & Bears Loan Console",
		Partners:         PartnerOptions(page.Partners, page.SelectedPartnerID),
		PartnerSelected:  partnerSelected,
		LoadingCustomers: page.PartnerState == console.LoadingCustomers,
		Customers:        NewCustomerList(page),
		CustomerOptions:  CustomerOptions(page.Customers, draftID(page.LoanForm.Draft.Customer)),
		Banner:           NewBanner(page.Status),
		Loading:          page.Loading,
	}
	if page.PartnerState == console.CustomersLoaded && len(page.Customers) == 0 {
		data.NoCustomersHint = noCustomersHint
	}

	data.CustomerForm = FormView[form.CustomerDraft]{
		Draft:        page.CustomerForm.Draft,
		Errors:       page.CustomerForm.Errors,
		GeneralError: page.CustomerForm.GeneralError,
		SubmitLabel:  submitLabel(submitIdle, page.CustomerForm.Submitting),
		Disabled:     page.Loading || page.CustomerForm.Submitting || !partnerSelected,
	}
	data.LoanForm = FormView[form.LoanDraft]{
		Draft:        page.LoanForm.Draft,
		Errors:       page.LoanForm.Errors,
		GeneralError: page.LoanForm.GeneralError,
		SubmitLabel:  submitLabel(submitLoan, page.LoanForm.Submitting),
		Disabled:     page.Loading || page.LoanForm.Submitting || len(page.Customers) == 0,
	}

	if page.ShowLoanList {
		loans := NewLoanList(page.LoanOffers)
		loans.Loading = !page.LoansLoaded
		if cust, ok := page.SelectedCustomer(); ok {
			loans.Title = "Loan Offers for " + cust.DisplayName()
		} else {
			loans.Title = "Loan Offers"
		}
		data.Loans = &loans
	}
	return data
}

func submitLabel(idle string, submitting bool) string {
	if submitting {
		return submitPending
	}
	return idle
}

func draftID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return money(d.Decimal)
}
