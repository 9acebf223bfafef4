package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LoadPartners fetches the partner list shown in the selector.
func (c *Console) LoadPartners(ctx context.Context) error {
	c.begin()
	partners, err := c.api.ListPartners(ctx)
	c.end()

	if err != nil {
		c.log.Warn("Failed to load partners", zap.Error(err))
		c.show(StatusError, err.Error())
		return err
	}

	c.mu.Lock()
	c.partners = partners
	c.mu.Unlock()

	c.log.Info("Partners loaded", zap.Int("count", len(partners)))
	return nil
}

// SelectPartner switches the page to another partner and loads its
// customers. An empty id clears the selection.
func (c *Console) SelectPartner(ctx context.Context, rawID string) error {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		c.ClearPartner()
		return nil
	}

	partnerID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || partnerID <= 0 {
		c.show(StatusError, msgInvalidPartner)
		return fmt.Errorf("%w: %q", ErrInvalidPartner, rawID)
	}

	c.mu.Lock()
	c.partnerID = partnerID
	c.customers = nil
	c.resetCustomerSelectionLocked()
	gen := c.startCustomerLoadLocked()
	c.mu.Unlock()

	c.log.Info("Partner selected", zap.Int64("partner_id", partnerID))
	return c.fetchCustomers(ctx, partnerID, gen)
}

// ClearPartner returns to NoPartnerSelected and drops every list that
// depended on the old partner.
func (c *Console) ClearPartner() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partnerGen++
	c.partnerID = 0
	c.state = NoPartnerSelected
	c.customers = nil
	c.resetCustomerSelectionLocked()

	c.log.Info("Partner selection cleared")
}

func (c *Console) resetCustomerSelectionLocked() {
	c.loanGen++
	c.customerID = 0
	c.offers = nil
	c.loansLoaded = false
	c.showLoans = false
}

// loadCustomers refetches the customers of partnerID if it is still the
// selected partner. The current list stays visible until the response
// arrives.
func (c *Console) loadCustomers(ctx context.Context, partnerID int64) error {
	c.mu.Lock()
	if c.partnerID != partnerID {
		c.mu.Unlock()
		c.log.Debug("Skipping refresh for deselected partner", zap.Int64("partner_id", partnerID))
		return nil
	}
	gen := c.startCustomerLoadLocked()
	c.mu.Unlock()

	return c.fetchCustomers(ctx, partnerID, gen)
}

// startCustomerLoadLocked begins a customer fetch for the current partner.
// It must run in the same critical section that chose the partner.
func (c *Console) startCustomerLoadLocked() uint64 {
	c.partnerGen++
	c.state = LoadingCustomers
	c.inFlight++
	return c.partnerGen
}

// fetchCustomers completes a load started with startCustomerLoadLocked. A
// response that arrives after the selection changed is dropped.
func (c *Console) fetchCustomers(ctx context.Context, partnerID int64, gen uint64) error {
	customers, err := c.api.ListPartnerCustomers(ctx, partnerID)

	c.mu.Lock()
	c.inFlight--
	if gen != c.partnerGen || partnerID != c.partnerID {
		c.mu.Unlock()
		c.log.Debug("Dropping stale customer list", zap.Int64("partner_id", partnerID))
		return nil
	}
	c.state = CustomersLoaded
	if err != nil {
		c.customers = nil
		c.mu.Unlock()

		c.log.Warn("Failed to load customers", zap.Int64("partner_id", partnerID), zap.Error(err))
		c.show(StatusError, err.Error())
		return err
	}
	c.customers = customers
	c.mu.Unlock()

	c.log.Info("Customers loaded",
		zap.Int64("partner_id", partnerID),
		zap.Int("count", len(customers)))
	return nil
}
