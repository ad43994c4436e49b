package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured is returned before any network call when the
	// Airtable credentials are incomplete.
	ErrNotConfigured = errors.New("leads: airtable credentials not configured")

	// ErrSubmissionInFlight rejects a submit while another is pending.
	ErrSubmissionInFlight = errors.New("leads: submission already in flight")

	// ErrInvalidTransition is returned when an event does not apply to the
	// current form state.
	ErrInvalidTransition = errors.New("leads: invalid form transition")
)

// StatusError is a non-2xx response from the Airtable API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Failure reasons used as the metrics label and stored in the submission log.
const (
	ReasonNone          = ""
	ReasonNotConfigured = "not_configured"
	ReasonTimeout       = "timeout"
	ReasonCanceled      = "canceled"
	ReasonRejected      = "rejected"
	ReasonUpstream      = "upstream_error"
	ReasonUnreachable   = "unreachable"
	ReasonUnknown       = "unknown"
)

// Reason classifies a submission error.
func Reason(err error) string {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, ErrNotConfigured) {
		return ReasonNotConfigured
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ReasonCanceled
	}

	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode >= 500 {
			return ReasonUpstream
		}
		return ReasonRejected
	}

	msg := err.Error()
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "dial tcp") {
		return ReasonUnreachable
	}
	return ReasonUnknown
}
