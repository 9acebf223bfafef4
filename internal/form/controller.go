package form

import (
	"context"
	"errors"
	"sync"
)

// controller holds one draft of type D and turns it into a payload P. It is
// shared by the customer and loan forms.
type controller[D any, P any] struct {
	mu         sync.Mutex
	draft      D
	errs       Errors
	general    string
	submitting bool

	validate func(D) (P, error)
	known    map[string]bool
}

// Update replaces the draft with the user's current input.
func (c *controller[D, P]) Update(draft D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

// Draft returns the current draft.
func (c *controller[D, P]) Draft() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Errors returns a copy of the field-keyed error map.
func (c *controller[D, P]) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.clone()
}

// GeneralError returns the last submission failure, or "".
func (c *controller[D, P]) GeneralError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.general
}

// Submitting reports whether a submission is in flight.
func (c *controller[D, P]) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Reset returns the form to its initial empty state.
func (c *controller[D, P]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero D
	c.draft = zero
	c.errs = nil
	c.general = ""
}

// Validate checks every field of the draft and records the error map. It
// never touches the network.
func (c *controller[D, P]) Validate() (P, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *controller[D, P]) validateLocked() (P, error) {
	payload, err := c.validate(c.draft)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.errs = verr.Fields.clone()
		}
		return payload, err
	}
	c.errs = nil
	return payload, nil
}

// Submit validates the draft and, when valid, hands the payload to send.
// Only one submission may be in flight at a time. On success the form is
// reset; on failure the draft is kept and the error becomes the general
// error, with any backend field errors merged into the error map.
func (c *controller[D, P]) Submit(ctx context.Context, send func(context.Context, P) error) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.general = ""
	payload, err := c.validateLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.mu.Unlock()

	err = send(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.general = err.Error()
		var fe fieldErrorer
		if errors.As(err, &fe) {
			for field, msg := range fe.FieldErrors() {
				if c.known[field] {
					if c.errs == nil {
						c.errs = Errors{}
					}
					c.errs[field] = msg
				}
			}
		}
		return err
	}

	var zero D
	c.draft = zero
	c.errs = nil
	c.general = ""
	return nil
}
