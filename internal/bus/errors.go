package bus

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWaitInProgress is returned when a second signal wait is started on a
	// Waiter that is already waiting.
	ErrWaitInProgress = errors.New("bus: a signal wait is already in progress on this connection")
	// ErrNoUnixFDs is returned when a descriptor must be sent over a connection
	// that did not negotiate fd passing.
	ErrNoUnixFDs = errors.New("bus: connection does not support passing file descriptors")
)

// TransportError reports that the connection could not carry a call or
// subscription.
type TransportError struct {
	Member string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bus transport failure on %s: %v", e.Member, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that no reply or signal arrived within the budget.
type TimeoutError struct {
	// Waiting names what was awaited, e.g. "reply to org.chromium.VmConcierge.StartVm".
	Waiting string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Waiting)
}

// DecodeError reports a payload that does not parse against the expected schema.
type DecodeError struct {
	Member string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding payload of %s: %v", e.Member, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
