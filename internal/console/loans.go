package console

import (
	"context"

	"go.uber.org/zap"
)

// ToggleLoanOffers expands the loan list of customerID, or collapses it when
// it is already the open one. Expanding always fetches.
func (c *Console) ToggleLoanOffers(ctx context.Context, customerID int64) error {
	c.mu.Lock()
	if c.showLoans && c.customerID == customerID {
		c.showLoans = false
		c.mu.Unlock()
		return nil
	}
	known := false
	for _, cust := range c.customers {
		if cust.ID == customerID {
			known = true
			break
		}
	}
	c.mu.Unlock()

	if !known {
		c.show(StatusError, msgSelectCustomer)
		return ErrNoCustomerSelected
	}
	return c.loadLoanOffers(ctx, customerID)
}

func (c *Console) loadLoanOffers(ctx context.Context, customerID int64) error {
	c.mu.Lock()
	c.loanGen++
	gen := c.loanGen
	c.customerID = customerID
	c.offers = nil
	c.loansLoaded = false
	c.showLoans = true
	c.inFlight++
	c.mu.Unlock()

	offers, err := c.api.ListCustomerLoanOffers(ctx, customerID)

	c.mu.Lock()
	c.inFlight--
	if gen != c.loanGen {
		c.mu.Unlock()
		c.log.Debug("Dropping stale loan offers", zap.Int64("customer_id", customerID))
		return nil
	}
	if err != nil {
		c.showLoans = false
		c.mu.Unlock()

		c.log.Warn("Failed to load loan offers", zap.Int64("customer_id", customerID), zap.Error(err))
		c.show(StatusError, err.Error())
		return err
	}
	c.offers = offers
	c.loansLoaded = true
	c.mu.Unlock()

	c.log.Info("Loan offers loaded",
		zap.Int64("customer_id", customerID),
		zap.Int("count", len(offers)))
	return nil
}
