package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenNotFound indicates a completion event referenced a correlation
	// key with no stored record. There is no continuation to resume.
	ErrTokenNotFound = errors.New("correlation record not found")

	// ErrStatementNotFound indicates a diagnostics lookup referenced an
	// unknown execution id.
	ErrStatementNotFound = errors.New("statement record not found")
)

// WorkflowErrorCode is the error field sent with a failure resumption.
const WorkflowErrorCode = "RemoteJob.Failed"

// ValidationError rejects malformed input at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid completion event: %s %s", e.Field, e.Reason)
}
