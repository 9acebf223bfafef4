package loanapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-console/internal/model"
	"loan-console/pkg/logger"
	"loan-console/prometheus"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordedRequest struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL+"/api", 5*time.Second, zaptest.NewLogger(t), nil)
	return client, &requests
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_ListPartners(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": 3, "company_name": "SunCo", "address": "1 Main St"}]`)
	})

	partners, err := client.ListPartners(context.Background())
	require.NoError(t, err)

	require.Len(t, partners, 1)
	assert.Equal(t, int64(3), partners[0].ID)
	assert.Equal(t, "SunCo", partners[0].CompanyName)
	assert.Equal(t, "GET", (*requests)[0].Method)
	assert.Equal(t, "/api/partners/", (*requests)[0].Path)
}

func TestClient_Routes(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusCreated, `{"id": 1}`)
		default:
			writeJSON(w, http.StatusOK, `[]`)
		}
	})
	ctx := context.Background()

	_, err := client.ListPartnerCustomers(ctx, 3)
	require.NoError(t, err)
	_, err = client.CreatePartnerCustomer(ctx, 3, model.CustomerRequest{Income: json.Number("1")})
	require.NoError(t, err)
	_, err = client.CreateLoanOffer(ctx, 7, model.LoanOfferRequest{LoanAmount: "1", AnnualRate: "1", TermMonths: 1})
	require.NoError(t, err)
	_, err = client.ListCustomerLoanOffers(ctx, 7)
	require.NoError(t, err)

	got := make([]string, 0, len(*requests))
	for _, r := range *requests {
		got = append(got, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{
		"GET /api/partners/3/customers/",
		"POST /api/partners/3/customers/",
		"POST /api/customers/7/loanoffers/",
		"GET /api/customers/7/loanoffers/",
	}, got)
}

func TestClient_CreateLoanOfferPayload(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id": 9, "customer": 7, "loan_amount": "10000.00", "annual_rate": "5.50", "term_months": 36, "monthly_payments": 301.96, "issue_date": "2025-03-01"}`)
	})

	offer, err := client.CreateLoanOffer(context.Background(), 7, model.LoanOfferRequest{
		LoanAmount: json.Number("10000"),
		AnnualRate: json.Number("5.5"),
		TermMonths: 36,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"loan_amount": 10000, "annual_rate": 5.5, "term_months": 36}`, (*requests)[0].Body)
	assert.Equal(t, "301.96", offer.MonthlyPayments.StringFixed(2))
	assert.Equal(t, int64(7), offer.Customer)
}

func TestClient_ForwardsRequestID(t *testing.T) {
	client, requests := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	ctx := logger.WithRequestID(context.Background(), "req-7")
	_, err := client.ListPartners(ctx)
	require.NoError(t, err)

	assert.Equal(t, "req-7", (*requests)[0].RequestID)
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:    "detail field",
			status:  http.StatusBadRequest,
			body:    `{"detail": "Email already exists"}`,
			wantMsg: "Email already exists",
		},
		{
			name:    "error field",
			status:  http.StatusNotFound,
			body:    `{"error": "Partner not found"}`,
			wantMsg: "Partner not found",
		},
		{
			name:    "per-field messages",
			status:  http.StatusBadRequest,
			body:    `{"email": ["customer with this email already exists."], "credit_score": "Credit score must be between 300 and 850."}`,
			wantMsg: "credit_score: Credit score must be between 300 and 850., email: customer with this email already exists.",
			wantFields: map[string]string{
				"email":        "customer with this email already exists.",
				"credit_score": "Credit score must be between 300 and 850.",
			},
		},
		{
			name:    "empty detail falls back",
			status:  http.StatusInternalServerError,
			body:    `{"detail": ""}`,
			wantMsg: "Failed to create customer",
		},
		{
			name:    "non-json body falls back",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantMsg: "Failed to create customer",
		},
		{
			name:    "unexpected shapes fall back",
			status:  http.StatusBadRequest,
			body:    `{"detail": {"nested": true}, "count": 3}`,
			wantMsg: "Failed to create customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.CreatePartnerCustomer(context.Background(), 3, model.CustomerRequest{Income: "1"})
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantMsg, fe.Error())
			assert.Equal(t, tt.status, fe.StatusCode)
			assert.Equal(t, tt.wantFields, fe.FieldErrors())
		})
	}
}

func TestClient_NotFoundIsError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"detail": "Not found."}`)
	})

	customers, err := client.ListPartnerCustomers(context.Background(), 99)

	assert.Nil(t, customers)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, "Not found.", fe.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	m := prometheus.InitMetrics("test", promclient.NewRegistry())
	client := NewClient(srv.URL, time.Second, zaptest.NewLogger(t), m)

	_, err := client.ListPartners(context.Background())

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Failed to fetch partners", fe.Message)
	assert.Zero(t, fe.StatusCode)
	assert.NotNil(t, fe.Unwrap())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequestsTotal.WithLabelValues(OpListPartners, "error")))
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"not": "a list"}`)
	})

	_, err := client.ListCustomerLoanOffers(context.Background(), 7)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Failed to fetch loan offers", fe.Message)
}
