package domain

// CompletionEvent is the detail body of a completion notification: the
// remote job system reporting that one statement reached a terminal state.
type CompletionEvent struct {
	CorrelationKey string `json:"correlationKey"`
	ExecutionID    string `json:"executionId"`
	State          string `json:"state"`
}

// CompletionNotification is the envelope published on the event channel,
// matching the shape the warehouse emits.
type CompletionNotification struct {
	Detail CompletionEvent `json:"detail"`
}

// Status parses the event's state field into a statement status. Unknown
// states are carried through verbatim; anything that is not FINISHED routes
// down the failure path, so an unrecognised terminal state is still handled.
func (e CompletionEvent) Status() StatementStatus {
	return StatementStatus(e.State)
}

// Validate rejects malformed events at the boundary, before any lookup or
// notification runs.
func (e CompletionEvent) Validate() error {
	if e.CorrelationKey == "" {
		return &ValidationError{Field: "correlationKey", Reason: "must not be empty"}
	}
	if e.ExecutionID == "" {
		return &ValidationError{Field: "executionId", Reason: "must not be empty"}
	}
	if e.State == "" {
		return &ValidationError{Field: "state", Reason: "must not be empty"}
	}
	return nil
}
