package telemetry

import (
	"errors"
	"fmt"
)

// ErrNotStarted is returned when Read is called before Start.
var ErrNotStarted = errors.New("source not started")

// ErrNotConfigured is returned by a detached source that was constructed
// without a port or file to read from.
var ErrNotConfigured = errors.New("source not configured")

// ErrStreamExhausted is returned when the physical link reports end of
// stream. It is terminal: the source closes its handle and will not
// deliver further samples.
var ErrStreamExhausted = errors.New("stream exhausted")

// MalformedRowError reports a CSV row that cannot be parsed into a
// reading. It aborts only the Read call that encountered it; the cursor
// has already advanced past the offending row.
type MalformedRowError struct {
	File   string   // which file role produced the row, e.g. "accelerometer"
	Row    []string // the raw cells as read
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed %s row %v: %s", e.File, e.Row, e.Reason)
}
