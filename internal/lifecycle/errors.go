package lifecycle

import (
	"fmt"
	"math"
)

// OpError adds the failing operation and the VM or container it acted on to
// an underlying error.
type OpError struct {
	Op        string
	VM        string
	Container string
	Err       error
}

func (e *OpError) Error() string {
	target := e.VM
	if e.Container != "" {
		target += "/" + e.Container
	}
	if target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// ServiceStartError reports that the VM services could not be brought up.
type ServiceStartError struct {
	Step   string
	Reason string
}

func (e *ServiceStartError) Error() string {
	return fmt.Sprintf("starting VM services: %s: %s", e.Step, e.Reason)
}

// HandleOverflowError reports a file server handle too wide for a share request.
type HandleOverflowError struct {
	Handle uint64
}

func (e *HandleOverflowError) Error() string {
	return fmt.Sprintf("file server handle %d exceeds %d", e.Handle, uint64(math.MaxUint32))
}

// SessionLookupError reports that the active sessions could not be retrieved.
type SessionLookupError struct {
	Err error
}

func (e *SessionLookupError) Error() string {
	return fmt.Sprintf("failed to retrieve active sessions: %v", e.Err)
}

func (e *SessionLookupError) Unwrap() error {
	return e.Err
}
