package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the console exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Backend API metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec

	// Form metrics
	FormValidationFailures *prometheus.CounterVec
	SubmissionsTotal       *prometheus.CounterVec

	// Status messages shown, by kind
	StatusMessagesTotal *prometheus.CounterVec
}

// InitMetrics creates the console metrics and registers them with reg.
func InitMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		BackendRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_backend_requests_total",
				Help: "Total number of calls to the loan backend",
			},
			[]string{"operation", "outcome"},
		),
		BackendRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_backend_request_duration_seconds",
				Help:    "Duration of loan backend calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		FormValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_form_validation_failures_total",
				Help: "Total number of client-side field validation failures",
			},
			[]string{"form", "field"},
		),
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_submissions_total",
				Help: "Total number of form submissions by outcome",
			},
			[]string{"form", "outcome"},
		),
		StatusMessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_status_messages_total",
				Help: "Total number of status messages shown",
			},
			[]string{"kind"},
		),
	}
}

// RecordHTTPRequest records one handled inbound request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())
}

// TrackBackendCall returns a function that records the outcome and duration
// of a backend call started now.
func (m *Metrics) TrackBackendCall(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		m.BackendRequestsTotal.WithLabelValues(operation, outcome).Inc()
		m.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// RecordValidationFailure increments the failure counter for a form field
func (m *Metrics) RecordValidationFailure(form, field string) {
	if m == nil {
		return
	}
	m.FormValidationFailures.WithLabelValues(form, field).Inc()
}

// RecordSubmission increments the submission counter for a form
func (m *Metrics) RecordSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(form, outcome).Inc()
}

// RecordStatusMessage counts a status banner by kind
func (m *Metrics) RecordStatusMessage(kind string) {
	if m == nil {
		return
	}
	m.StatusMessagesTotal.WithLabelValues(kind).Inc()
}
