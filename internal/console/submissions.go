package console

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"loan-console/internal/form"
	"loan-console/internal/model"

	"go.uber.org/zap"
)

const (
	formCustomer = "customer"
	formLoan     = "loan"
)

// CreateCustomer submits the customer draft for the selected partner. On
// success the partner's customers are fetched again rather than appended.
func (c *Console) CreateCustomer(ctx context.Context, draft form.CustomerDraft) error {
	c.customerForm.Update(draft)

	c.mu.Lock()
	partnerID := c.partnerID
	c.mu.Unlock()

	if partnerID == 0 {
		c.show(StatusError, msgSelectPartner)
		return ErrNoPartnerSelected
	}

	var created *model.Customer
	err := c.customerForm.Submit(ctx, func(ctx context.Context, req model.CustomerRequest) error {
		c.begin()
		defer c.end()

		var err error
		created, err = c.api.CreatePartnerCustomer(ctx, partnerID, req)
		return err
	})
	if err != nil {
		return c.submissionFailed(formCustomer, err)
	}

	c.metrics.RecordSubmission(formCustomer, "success")
	c.log.Info("Customer created",
		zap.Int64("partner_id", partnerID),
		zap.Int64("customer_id", created.ID))
	c.show(StatusSuccess, msgCustomerCreated)

	// A failed refresh is reported on its own; the customer exists either way.
	// Nothing is fetched when the user moved to another partner meanwhile.
	if err := c.loadCustomers(ctx, partnerID); err != nil {
		c.log.Warn("Customer created but refresh failed", zap.Error(err))
	}
	return nil
}

// CreateLoanOffer submits the loan draft. The customer must be one of the
// loaded customers. The banner shows the backend's monthly payment.
func (c *Console) CreateLoanOffer(ctx context.Context, draft form.LoanDraft) error {
	c.loanForm.Update(draft)

	if !c.loanCustomerAllowed(draft.Customer) {
		c.show(StatusError, msgSelectCustomer)
		return ErrNoCustomerSelected
	}

	var offer *model.LoanOffer
	err := c.loanForm.Submit(ctx, func(ctx context.Context, sub form.LoanSubmission) error {
		c.begin()
		defer c.end()

		var err error
		offer, err = c.api.CreateLoanOffer(ctx, sub.CustomerID, sub.Request)
		return err
	})
	if err != nil {
		return c.submissionFailed(formLoan, err)
	}

	c.metrics.RecordSubmission(formLoan, "success")
	c.log.Info("Loan offer created",
		zap.Int64("customer_id", offer.Customer),
		zap.Int64("loan_offer_id", offer.ID),
		zap.String("monthly_payments", offer.MonthlyPayments.String()))
	c.show(StatusSuccess, msgLoanCreated+offer.MonthlyPayments.StringFixed(2))

	c.mu.Lock()
	refresh := c.showLoans && c.customerID == offer.Customer
	c.mu.Unlock()
	if refresh {
		if err := c.loadLoanOffers(ctx, offer.Customer); err != nil {
			c.log.Warn("Loan offer created but refresh failed", zap.Error(err))
		}
	}
	return nil
}

// loanCustomerAllowed rejects a submission when no customers are loaded or
// the chosen id is not one of them. Unparseable ids are left to validation.
func (c *Console) loanCustomerAllowed(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.partnerID == 0 || len(c.customers) == 0 {
		return false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return true
	}
	for _, cust := range c.customers {
		if cust.ID == id {
			return true
		}
	}
	return false
}

func (c *Console) submissionFailed(formName string, err error) error {
	var verr *form.ValidationError
	switch {
	case errors.Is(err, form.ErrSubmissionInFlight):
		c.log.Debug("Ignoring duplicate submission", zap.String("form", formName))
	case errors.As(err, &verr):
		for _, field := range verr.Fields.Fields() {
			c.metrics.RecordValidationFailure(formName, field)
		}
		c.metrics.RecordSubmission(formName, "invalid")
		c.log.Debug("Form rejected locally",
			zap.String("form", formName),
			zap.Strings("fields", verr.Fields.Fields()))
		c.show(StatusError, msgFixFields)
	default:
		c.metrics.RecordSubmission(formName, "error")
		c.log.Warn("Submission failed", zap.String("form", formName), zap.Error(err))
		c.show(StatusError, err.Error())
	}
	return err
}
