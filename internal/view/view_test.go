package view

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"loan-console/internal/console"
	"loan-console/internal/form"
	"loan-console/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePartners() []model.Partner {
	return []model.Partner{
		{ID: 3, CompanyName: "SunCo", Address: "1 Main St"},
		{ID: 4, CompanyName: "BeeSolar", Address: "2 Hive Rd"},
	}
}

func sampleCustomers() []model.Customer {
	return []model.Customer{
		{
			ID:            7,
			FullName:      "Ben Ortiz",
			Email:         "ben@x.com",
			CreditScore:   700,
			AnnualIncome:  decimal.NewNullDecimal(decimal.RequireFromString("48000")),
			MaxLoanAmount: decimal.NewNullDecimal(decimal.RequireFromString("96000.5")),
		},
		{ID: 8, FirstName: "Cy", LastName: "Young", Email: "cy@x.com", CreditScore: 650},
	}
}

func TestPartnerOptions(t *testing.T) {
	opts := PartnerOptions(samplePartners(), 0)

	require.Len(t, opts, 3)
	assert.Equal(t, Option{Value: "", Label: "-- Select a Partner --", Selected: true}, opts[0])
	assert.Equal(t, Option{Value: "3", Label: "SunCo - 1 Main St"}, opts[1])

	opts = PartnerOptions(samplePartners(), 4)
	assert.False(t, opts[0].Selected)
	assert.True(t, opts[2].Selected)
}

func TestPartnerOptions_EmptyHasOnlyPlaceholder(t *testing.T) {
	opts := PartnerOptions(nil, 0)

	require.Len(t, opts, 1)
	assert.Equal(t, "", opts[0].Value)
}

func TestCustomerOptions(t *testing.T) {
	opts := CustomerOptions(sampleCustomers(), 8)

	require.Len(t, opts, 3)
	assert.Equal(t, "-- Select a Customer --", opts[0].Label)
	assert.Equal(t, "Ben Ortiz (ben@x.com)", opts[1].Label)
	assert.Equal(t, Option{Value: "8", Label: "Cy Young (cy@x.com)", Selected: true}, opts[2])
}

func TestNewCustomerList(t *testing.T) {
	tests := []struct {
		name   string
		page   console.Page
		isNil  bool
		rowLen int
	}{
		{"no partner", console.Page{PartnerState: console.NoPartnerSelected, Customers: sampleCustomers()}, true, 0},
		{"empty list", console.Page{PartnerState: console.CustomersLoaded}, true, 0},
		{"loaded", console.Page{PartnerState: console.CustomersLoaded, Customers: sampleCustomers()}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := NewCustomerList(tt.page)
			if tt.isNil {
				assert.Nil(t, list)
				return
			}
			require.NotNil(t, list)
			assert.Len(t, list.Rows, tt.rowLen)
		})
	}
}

func TestNewCustomerList_Rows(t *testing.T) {
	list := NewCustomerList(console.Page{
		PartnerState:       console.CustomersLoaded,
		Customers:          sampleCustomers(),
		SelectedCustomerID: 7,
		ShowLoanList:       true,
	})

	require.NotNil(t, list)
	assert.Equal(t, CustomerRow{
		ID:            7,
		Name:          "Ben Ortiz",
		Email:         "ben@x.com",
		CreditScore:   700,
		AnnualIncome:  "$48000.00",
		MaxLoanAmount: "$96000.50",
		LoansOpen:     true,
	}, list.Rows[0])
	assert.Equal(t, "-", list.Rows[1].AnnualIncome)
	assert.False(t, list.Rows[1].LoansOpen)
}

func TestNewLoanList(t *testing.T) {
	empty := NewLoanList(nil)
	assert.True(t, empty.Empty)
	assert.Equal(t, "No loans found", empty.EmptyMessage)

	list := NewLoanList([]model.LoanOffer{{
		ID:              1,
		LoanAmount:      decimal.RequireFromString("10000"),
		AnnualRate:      decimal.RequireFromString("5.5"),
		TermMonths:      36,
		MonthlyPayments: decimal.RequireFromString("301.96"),
		IssueDate:       "2024-05-01",
	}})
	assert.False(t, list.Empty)
	assert.Equal(t, LoanRow{
		ID:              1,
		LoanAmount:      "$10000.00",
		AnnualRate:      "5.50%",
		TermMonths:      36,
		MonthlyPayments: "$301.96",
		IssueDate:       "2024-05-01",
	}, list.Rows[0])
}

func TestNewBanner(t *testing.T) {
	assert.Nil(t, NewBanner(console.StatusMessage{}))
	assert.Equal(t, &Banner{Text: "ok", Class: "status-success"}, NewBanner(console.StatusMessage{Kind: console.StatusSuccess, Text: "ok"}))
	assert.Equal(t, &Banner{Text: "bad", Class: "status-error"}, NewBanner(console.StatusMessage{Kind: console.StatusError, Text: "bad"}))
}

func TestNewPageData_Buttons(t *testing.T) {
	page := console.Page{PartnerState: console.NoPartnerSelected}
	data := NewPageData(page)
	assert.True(t, data.CustomerForm.Disabled)
	assert.True(t, data.LoanForm.Disabled)
	assert.Equal(t, "Create Customer", data.CustomerForm.SubmitLabel)

	page = console.Page{
		PartnerState:      console.CustomersLoaded,
		SelectedPartnerID: 3,
		Customers:         sampleCustomers(),
	}
	data = NewPageData(page)
	assert.False(t, data.CustomerForm.Disabled)
	assert.False(t, data.LoanForm.Disabled)

	page.CustomerForm.Submitting = true
	page.Loading = true
	data = NewPageData(page)
	assert.True(t, data.CustomerForm.Disabled)
	assert.Equal(t, "Creating...", data.CustomerForm.SubmitLabel)
	assert.True(t, data.LoanForm.Disabled)
}

func TestNewPageData_NoCustomersHint(t *testing.T) {
	data := NewPageData(console.Page{PartnerState: console.CustomersLoaded, SelectedPartnerID: 3})
	assert.Equal(t, "No customers found. Create a customer first.", data.NoCustomersHint)
	assert.Nil(t, data.Customers)

	data = NewPageData(console.Page{PartnerState: console.LoadingCustomers, SelectedPartnerID: 3})
	assert.Empty(t, data.NoCustomersHint)
	assert.True(t, data.LoadingCustomers)
}

func TestNewPageData_LoanList(t *testing.T) {
	page := console.Page{
		PartnerState:       console.CustomersLoaded,
		Customers:          sampleCustomers(),
		SelectedCustomerID: 7,
		ShowLoanList:       true,
	}
	data := NewPageData(page)
	require.NotNil(t, data.Loans)
	assert.True(t, data.Loans.Loading)
	assert.Equal(t, "Loan Offers for Ben Ortiz", data.Loans.Title)

	page.LoansLoaded = true
	data = NewPageData(page)
	assert.False(t, data.Loans.Loading)
	assert.True(t, data.Loans.Empty)

	page.ShowLoanList = false
	assert.Nil(t, NewPageData(page).Loans)
}

func TestRenderer_Page(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	page := console.Page{
		Partners:          samplePartners(),
		PartnerState:      console.CustomersLoaded,
		SelectedPartnerID: 3,
		Customers:         sampleCustomers(),
		Status:            console.StatusMessage{Kind: console.StatusError, Text: "Email already exists"},
		CustomerForm: console.FormState[form.CustomerDraft]{
			Draft:  form.CustomerDraft{FirstName: "Ana", Email: "ana@x.com"},
			Errors: form.Errors{"last_name": "Last name is required."},
		},
	}

	var buf bytes.Buffer
	c := echo.New().NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
	require.NoError(t, r.Render(&buf, "page", NewPageData(page), c))

	html := buf.String()
	assert.Contains(t, html, "-- Select a Partner --")
	assert.Contains(t, html, `<option value="3" selected>SunCo - 1 Main St</option>`)
	assert.Contains(t, html, "Email already exists")
	assert.Contains(t, html, "Last name is required.")
	assert.Contains(t, html, `value="Ana"`)
	assert.Contains(t, html, "Ben Ortiz")
	assert.Contains(t, html, `action="/customers/7/loans"`)
}

func TestRenderer_StatusFragment(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	c := echo.New().NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "status", NewBanner(console.StatusMessage{}), c))
	assert.Empty(t, buf.String())

	buf.Reset()
	banner := NewBanner(console.StatusMessage{Kind: console.StatusSuccess, Text: "Loan offer created! Monthly payment: $301.96"})
	require.NoError(t, r.Render(&buf, "status", banner, c))
	assert.Contains(t, buf.String(), "status-success")
	assert.Contains(t, buf.String(), "$301.96")
}
