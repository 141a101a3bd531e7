// Package status classifies the per-method status codes returned by the VM
// services into a small set of outcomes.
package status

import (
	"fmt"
)

// Outcome is what a reply status means for the caller.
type Outcome int

const (
	// Failed means the operation did not take effect.
	Failed Outcome = iota
	// Completed means the operation took effect with this request.
	Completed
	// AlreadyDone means the desired state already held before the request.
	AlreadyDone
	// InProgress means the service accepted the request and will report the
	// result later as a signal.
	InProgress
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Completed:
		return "completed"
	case AlreadyDone:
		return "already done"
	case InProgress:
		return "in progress"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Code is a status enumeration carried in a reply or signal.
type Code interface {
	~int32
	fmt.Stringer
}

// Table maps the status codes of one operation onto outcomes. Any code not
// listed is a failure.
type Table[S Code] struct {
	Operation   string
	Completed   []S
	AlreadyDone []S
	InProgress  []S
}

// Classify returns the outcome for s. Failures are returned as *Error
// carrying the service's reason.
func (t Table[S]) Classify(s S, reason string) (Outcome, error) {
	switch {
	case contains(t.Completed, s):
		return Completed, nil
	case contains(t.AlreadyDone, s):
		return AlreadyDone, nil
	case contains(t.InProgress, s):
		return InProgress, nil
	}
	return Failed, &Error{
		Operation: t.Operation,
		Status:    s.String(),
		Code:      int32(s),
		Reason:    reason,
	}
}

// Require succeeds only if s is a completed or already-done status.
func (t Table[S]) Require(s S, reason string) error {
	outcome, err := t.Classify(s, reason)
	if err != nil {
		return err
	}
	if outcome == InProgress {
		return &Error{
			Operation: t.Operation,
			Status:    s.String(),
			Code:      int32(s),
			Reason:    "service reported the operation as still in progress",
		}
	}
	return nil
}

func contains[S comparable](set []S, s S) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Error reports a status that means the operation failed.
type Error struct {
	Operation string
	Status    string
	Code      int32
	Reason    string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s failed with status %s", e.Operation, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Failure builds an *Error for replies that carry only a success flag.
func Failure(operation, reason string) *Error {
	return &Error{Operation: operation, Status: "FAILURE", Reason: reason}
}
