package form

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrSubmissionInFlight is returned by Submit while a previous submission of
// the same form has not finished.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Errors maps a field name (the backend's json key) to its message.
type Errors map[string]string

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) clone() Errors {
	if len(e) == 0 {
		return Errors{}
	}
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ValidationError is a client-side rejection of a draft. It is raised before
// any network call and lists every failing field.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields.Fields(), ", ")
}

// fieldErrorer is implemented by backend errors that carry per-field messages.
type fieldErrorer interface {
	FieldErrors() map[string]string
}

func toValidationError(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(Errors, len(verrs))
	for field, ferr := range verrs {
		fields[field] = ferr.Error()
	}
	return &ValidationError{Fields: fields}
}
