package handler

import (
	"context"
	"net/http"
	"strconv"

	"loan-console/internal/console"
	"loan-console/internal/form"
	"loan-console/internal/view"
	"loan-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Orchestrator is the part of the console the handlers drive.
type Orchestrator interface {
	Page() console.Page
	LoadPartners(ctx context.Context) error
	Status() console.StatusMessage
	SelectPartner(ctx context.Context, rawID string) error
	CreateCustomer(ctx context.Context, draft form.CustomerDraft) error
	CreateLoanOffer(ctx context.Context, draft form.LoanDraft) error
	ToggleLoanOffers(ctx context.Context, customerID int64) error
}

// ConsoleHandler serves the console page and its form posts. Every post
// redirects back to the page; outcomes are reported through the banner.
type ConsoleHandler struct {
	console Orchestrator
}

// NewConsoleHandler creates a handler over the given console.
func NewConsoleHandler(c Orchestrator) *ConsoleHandler {
	return &ConsoleHandler{console: c}
}

// Register mounts the console routes on e.
func (h *ConsoleHandler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/partner", h.SelectPartner)
	e.POST("/customers", h.CreateCustomer)
	e.POST("/loanoffers", h.CreateLoanOffer)
	e.POST("/customers/:id/loans", h.ToggleLoans)
	e.GET("/fragments/status", h.StatusFragment)
}

// Index refreshes the partner list and renders the whole page. A failed
// refresh keeps the previous list and shows the error in the banner.
func (h *ConsoleHandler) Index(c echo.Context) error {
	if err := h.console.LoadPartners(c.Request().Context()); err != nil {
		logger.FromEcho(c).Warn("Partner refresh failed", zap.Error(err))
	}
	page := h.console.Page()
	return c.Render(http.StatusOK, "page", view.NewPageData(page))
}

// StatusFragment renders only the banner, or nothing once it expired
func (h *ConsoleHandler) StatusFragment(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Render(http.StatusOK, "status", view.NewBanner(h.console.Status()))
}

// SelectPartner handles the partner selector
func (h *ConsoleHandler) SelectPartner(c echo.Context) error {
	log := logger.FromEcho(c)
	partnerID := c.FormValue("partner_id")
	log.Info("Selecting partner", zap.String("partner_id", partnerID))

	if err := h.console.SelectPartner(c.Request().Context(), partnerID); err != nil {
		log.Warn("Partner selection failed", zap.String("partner_id", partnerID), zap.Error(err))
	}
	return backToPage(c)
}

// CreateCustomer handles the new customer form
func (h *ConsoleHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	draft := form.CustomerDraft{
		FirstName:   c.FormValue("first_name"),
		LastName:    c.FormValue("last_name"),
		Email:       c.FormValue("email"),
		Income:      c.FormValue("income"),
		CreditScore: c.FormValue("credit_score"),
		PhoneNumber: c.FormValue("phone_number"),
		Address:     c.FormValue("address"),
	}
	log.Info("Customer form submitted", zap.String("email", draft.Email))

	if err := h.console.CreateCustomer(c.Request().Context(), draft); err != nil {
		log.Info("Customer not created", zap.Error(err))
	}
	return backToPage(c)
}

// CreateLoanOffer handles the new loan offer form
func (h *ConsoleHandler) CreateLoanOffer(c echo.Context) error {
	log := logger.FromEcho(c)
	draft := form.LoanDraft{
		Customer:   c.FormValue("customer"),
		LoanAmount: c.FormValue("loan_amount"),
		AnnualRate: c.FormValue("annual_rate"),
		TermMonths: c.FormValue("term_months"),
	}
	log.Info("Loan offer form submitted", zap.String("customer", draft.Customer))

	if err := h.console.CreateLoanOffer(c.Request().Context(), draft); err != nil {
		log.Info("Loan offer not created", zap.Error(err))
	}
	return backToPage(c)
}

// ToggleLoans opens or closes a customer's loan list
func (h *ConsoleHandler) ToggleLoans(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	// An unparseable id is reported by the console like any unknown customer.
	customerID, _ := strconv.ParseInt(id, 10, 64)
	if err := h.console.ToggleLoanOffers(c.Request().Context(), customerID); err != nil {
		log.Warn("Loan list toggle failed", zap.String("customer_id", id), zap.Error(err))
	}
	return backToPage(c)
}

func backToPage(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/")
}
