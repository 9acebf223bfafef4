package console

import "time"

// StatusTTL is how long a status message stays visible. A newer message
// restarts the window.
const StatusTTL = 5 * time.Second

// StatusKind selects the banner style.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// StatusMessage is the transient banner shown after an operation.
type StatusMessage struct {
	Kind StatusKind
	Text string
}

// Empty reports whether there is nothing to show.
func (m StatusMessage) Empty() bool {
	return m.Text == ""
}

type statusSlot struct {
	msg     StatusMessage
	expires time.Time
}

func (s *statusSlot) set(msg StatusMessage, now time.Time) {
	s.msg = msg
	s.expires = now.Add(StatusTTL)
}

func (s *statusSlot) current(now time.Time) StatusMessage {
	if s.msg.Empty() || !now.Before(s.expires) {
		return StatusMessage{}
	}
	return s.msg
}
