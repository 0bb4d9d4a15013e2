package linkedin

import (
	"errors"
	"fmt"
)

// ErrIdentityUnresolved is returned when an operation needs the member URN
// and no identity candidate answered.
var ErrIdentityUnresolved = errors.New("could not resolve LinkedIn member identity")

// OperationError is returned when a mutating operation fails. It describes the
// last candidate that was tried.
type OperationError struct {
	Operation  string
	Candidate  string
	StatusCode int
	Body       string
	Err        error
}

func (e *OperationError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s failed at %s (status %d): %v", e.Operation, e.Candidate, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed at %s with status %d: %s", e.Operation, e.Candidate, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s failed at %s: %v", e.Operation, e.Candidate, e.Err)
	default:
		return fmt.Sprintf("%s failed", e.Operation)
	}
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// SoftFailure is the result of a read-only operation whose chain failed.
type SoftFailure struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Details    string `json:"details,omitempty"`
}

func (f *SoftFailure) String() string {
	if f.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", f.Message, f.StatusCode)
	}
	return f.Message
}

func softFailure(message string, opErr *OperationError) *SoftFailure {
	f := &SoftFailure{Message: message, StatusCode: opErr.StatusCode, Details: opErr.Body}
	if f.Details == "" && opErr.Err != nil {
		f.Details = opErr.Err.Error()
	}
	return f
}
