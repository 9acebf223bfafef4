package loanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"loan-console/internal/model"
	"loan-console/pkg/logger"
	"loan-console/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Client talks to the loan backend REST API. It is the only component that
// issues HTTP calls; nothing is retried.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *prometheus.Metrics
}

// NewClient creates a new backend client instance
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger, metrics *prometheus.Metrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     log,
		Metrics:    metrics,
	}
}

// ListPartners returns every partner.
func (c *Client) ListPartners(ctx context.Context) ([]model.Partner, error) {
	var partners []model.Partner
	if err := c.call(ctx, OpListPartners, http.MethodGet, "/partners/", nil, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

// ListPartnerCustomers returns the customers of one partner. A 404 is an
// error, not an empty list.
func (c *Client) ListPartnerCustomers(ctx context.Context, partnerID int64) ([]model.Customer, error) {
	var customers []model.Customer
	path := fmt.Sprintf("/partners/%d/customers/", partnerID)
	if err := c.call(ctx, OpListPartnerCustomers, http.MethodGet, path, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreatePartnerCustomer creates a customer owned by the partner. It does not
// touch any local list; callers re-fetch.
func (c *Client) CreatePartnerCustomer(ctx context.Context, partnerID int64, req model.CustomerRequest) (*model.Customer, error) {
	var customer model.Customer
	path := fmt.Sprintf("/partners/%d/customers/", partnerID)
	if err := c.call(ctx, OpCreatePartnerCustomer, http.MethodPost, path, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateLoanOffer creates a loan offer for the customer. The returned offer
// carries the backend-computed monthly payment.
func (c *Client) CreateLoanOffer(ctx context.Context, customerID int64, req model.LoanOfferRequest) (*model.LoanOffer, error) {
	var offer model.LoanOffer
	path := fmt.Sprintf("/customers/%d/loanoffers/", customerID)
	if err := c.call(ctx, OpCreateLoanOffer, http.MethodPost, path, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListCustomerLoanOffers returns the loan offers of one customer.
func (c *Client) ListCustomerLoanOffers(ctx context.Context, customerID int64) ([]model.LoanOffer, error) {
	var offers []model.LoanOffer
	path := fmt.Sprintf("/customers/%d/loanoffers/", customerID)
	if err := c.call(ctx, OpListCustomerLoanOffers, http.MethodGet, path, nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// call performs one request and decodes a 2xx body into out. Every failure
// is returned as a *FetchError.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) (err error) {
	done := c.Metrics.TrackBackendCall(op)
	defer func() { done(err) }()

	log := c.Logger.With(
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("path", path),
	)
	requestID := logger.RequestIDFromContext(ctx)
	if requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			log.Error("Failed to encode request body", zap.Error(err))
			return transportError(op, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		log.Error("Failed to create request", zap.Error(err))
		return transportError(op, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if requestID != "" {
		req.Header.Set(echo.HeaderXRequestID, requestID)
	}

	log.Debug("Calling loan backend")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Error("Backend request failed", zap.Error(err))
		return transportError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return transportError(op, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := statusError(op, resp.StatusCode, respBody)
		log.Warn("Backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("message", fe.Message),
			zap.String("response", string(respBody)))
		return fe
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Error("Failed to parse backend response",
				zap.Int("status", resp.StatusCode),
				zap.Error(err))
			return &FetchError{
				Op:         op,
				StatusCode: resp.StatusCode,
				Message:    fallbackMessage(op),
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	}

	log.Info("Backend call successful", zap.Int("status", resp.StatusCode))
	return nil
}
