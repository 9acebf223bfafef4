package loanapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Operation names, used for fallback messages, logs and metric labels.
const (
	OpListPartners           = "list_partners"
	OpListPartnerCustomers   = "list_partner_customers"
	OpCreatePartnerCustomer  = "create_partner_customer"
	OpCreateLoanOffer        = "create_loan_offer"
	OpListCustomerLoanOffers = "list_customer_loan_offers"
)

var fallbackMessages = map[string]string{
	OpListPartners:           "Failed to fetch partners",
	OpListPartnerCustomers:   "Failed to fetch customers",
	OpCreatePartnerCustomer:  "Failed to create customer",
	OpCreateLoanOffer:        "Failed to create loan offer",
	OpListCustomerLoanOffers: "Failed to fetch loan offers",
}

// FetchError is returned for any backend call that did not succeed, whether
// the request never completed or the backend answered with a non-2xx status.
// Message is always non-empty and safe to show to the user.
type FetchError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	// Fields holds per-field messages when the backend rejected the payload.
	Fields map[string][]string
	Err    error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FieldErrors flattens the backend's per-field messages, one string per field.
func (e *FetchError) FieldErrors() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for field, msgs := range e.Fields {
		out[field] = strings.Join(msgs, " ")
	}
	return out
}

func fallbackMessage(op string) string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed"
}

func transportError(op string, err error) *FetchError {
	return &FetchError{
		Op:      op,
		Message: fallbackMessage(op),
		Err:     err,
	}
}

// statusError builds a FetchError from a non-2xx response body. The body may
// be `{"detail": "..."}`, `{"error": "..."}`, a map of field -> messages, or
// anything else; the message falls back to the per-operation default.
func statusError(op string, status int, body []byte) *FetchError {
	fe := &FetchError{
		Op:         op,
		StatusCode: status,
		Err:        fmt.Errorf("%s: unexpected status %d", op, status),
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := stringField(payload, "detail"); msg != "" {
			fe.Message = msg
		} else if msg := stringField(payload, "error"); msg != "" {
			fe.Message = msg
		} else {
			fe.Fields = fieldMessages(payload)
			fe.Message = joinFieldMessages(fe.Fields)
		}
	}

	if fe.Message == "" {
		fe.Message = fallbackMessage(op)
	}
	return fe
}

func stringField(payload map[string]json.RawMessage, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// fieldMessages accepts both `"field": "msg"` and `"field": ["msg", ...]`.
// Values of any other shape are ignored.
func fieldMessages(payload map[string]json.RawMessage) map[string][]string {
	fields := make(map[string][]string)
	for key, raw := range payload {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			var kept []string
			for _, msg := range list {
				if msg = strings.TrimSpace(msg); msg != "" {
					kept = append(kept, msg)
				}
			}
			if len(kept) > 0 {
				fields[key] = kept
			}
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && strings.TrimSpace(single) != "" {
			fields[key] = []string{strings.TrimSpace(single)}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func joinFieldMessages(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fields[k], " "))
	}
	return strings.Join(parts, ", ")
}
