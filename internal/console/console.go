// Package console owns the state of the loan console page: the selected
// partner and its customers, the expanded customer's loan offers, the two
// forms, and the status banner. Every backend call goes through Backend.
package console

import (
	"context"
	"errors"
	"slices"
	"sync"

	"loan-console/internal/form"
	"loan-console/internal/model"
	"loan-console/prometheus"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Backend is the subset of the loan API the console needs.
type Backend interface {
	ListPartners(ctx context.Context) ([]model.Partner, error)
	ListPartnerCustomers(ctx context.Context, partnerID int64) ([]model.Customer, error)
	CreatePartnerCustomer(ctx context.Context, partnerID int64, req model.CustomerRequest) (*model.Customer, error)
	CreateLoanOffer(ctx context.Context, customerID int64, req model.LoanOfferRequest) (*model.LoanOffer, error)
	ListCustomerLoanOffers(ctx context.Context, customerID int64) ([]model.LoanOffer, error)
}

var (
	ErrNoPartnerSelected  = errors.New("no partner selected")
	ErrNoCustomerSelected = errors.New("customer is not in the loaded list")
	ErrInvalidPartner     = errors.New("invalid partner id")
)

// User-facing banner texts.
const (
	msgSelectPartner   = "Please select a partner first"
	msgSelectCustomer  = "Please select a customer"
	msgInvalidPartner  = "Please select a valid partner"
	msgCustomerCreated = "Customer created successfully!"
	msgLoanCreated     = "Loan offer created! Monthly payment: $"
	msgFixFields       = "Please correct the highlighted fields"
)

// PartnerState is the partner/customer part of the page.
type PartnerState int

const (
	NoPartnerSelected PartnerState = iota
	LoadingCustomers
	CustomersLoaded
)

func (s PartnerState) String() string {
	switch s {
	case NoPartnerSelected:
		return "no_partner_selected"
	case LoadingCustomers:
		return "loading_customers"
	case CustomersLoaded:
		return "customers_loaded"
	default:
		return "unknown"
	}
}

// FormState is a read-only view of a form controller.
type FormState[D any] struct {
	Draft        D
	Errors       form.Errors
	GeneralError string
	Submitting   bool
}

// Page is a snapshot of the console for rendering.
type Page struct {
	Partners          []model.Partner
	PartnerState      PartnerState
	SelectedPartnerID int64 // 0 when none

	Customers []model.Customer

	SelectedCustomerID int64 // customer whose offers were requested, 0 when none
	LoanOffers         []model.LoanOffer
	LoansLoaded        bool
	ShowLoanList       bool

	Loading bool
	Status  StatusMessage

	CustomerForm FormState[form.CustomerDraft]
	LoanForm     FormState[form.LoanDraft]
}

// SelectedCustomer returns the customer whose loan list is selected.
func (p Page) SelectedCustomer() (model.Customer, bool) {
	for _, c := range p.Customers {
		if c.ID == p.SelectedCustomerID {
			return c, true
		}
	}
	return model.Customer{}, false
}

// Console is the page orchestrator. It is safe for concurrent use; backend
// calls are made without holding the lock.
type Console struct {
	api     Backend
	clock   clockwork.Clock
	log     *zap.Logger
	metrics *prometheus.Metrics

	customerForm *form.CustomerForm
	loanForm     *form.LoanForm

	mu         sync.Mutex
	partners   []model.Partner
	state      PartnerState
	partnerID  int64
	partnerGen uint64
	customers  []model.Customer

	customerID  int64
	loanGen     uint64
	offers      []model.LoanOffer
	loansLoaded bool
	showLoans   bool

	inFlight int
	status   statusSlot
}

// New creates a console with empty state.
func New(api Backend, clock clockwork.Clock, log *zap.Logger, metrics *prometheus.Metrics) *Console {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{
		api:          api,
		clock:        clock,
		log:          log,
		metrics:      metrics,
		customerForm: form.NewCustomerForm(),
		loanForm:     form.NewLoanForm(),
	}
}

// Page returns a snapshot of the current state.
func (c *Console) Page() Page {
	c.mu.Lock()
	p := Page{
		Partners:           slices.Clone(c.partners),
		PartnerState:       c.state,
		SelectedPartnerID:  c.partnerID,
		Customers:          slices.Clone(c.customers),
		SelectedCustomerID: c.customerID,
		LoanOffers:         slices.Clone(c.offers),
		LoansLoaded:        c.loansLoaded,
		ShowLoanList:       c.showLoans,
		Loading:            c.inFlight > 0,
		Status:             c.status.current(c.clock.Now()),
	}
	c.mu.Unlock()

	p.CustomerForm = FormState[form.CustomerDraft]{
		Draft:        c.customerForm.Draft(),
		Errors:       c.customerForm.Errors(),
		GeneralError: c.customerForm.GeneralError(),
		Submitting:   c.customerForm.Submitting(),
	}
	p.LoanForm = FormState[form.LoanDraft]{
		Draft:        c.loanForm.Draft(),
		Errors:       c.loanForm.Errors(),
		GeneralError: c.loanForm.GeneralError(),
		Submitting:   c.loanForm.Submitting(),
	}
	return p
}

// Status returns the banner message currently visible.
func (c *Console) Status() StatusMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.current(c.clock.Now())
}

func (c *Console) show(kind StatusKind, text string) {
	c.mu.Lock()
	c.status.set(StatusMessage{Kind: kind, Text: text}, c.clock.Now())
	c.mu.Unlock()

	c.metrics.RecordStatusMessage(string(kind))
}

// begin and end bracket a backend call for the loading flag.
func (c *Console) begin() {
	c.mu.Lock()
	c.inFlight++
	c.mu.Unlock()
}

func (c *Console) end() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}
