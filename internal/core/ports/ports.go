package ports

import (
	"context"

	"jobrelay/internal/domain"

	"github.com/google/uuid"
)

// TokenStore is the durable home of correlation records. It is the only
// state shared between the submission path and the completion path.
type TokenStore interface {
	// Put durably upserts the record keyed by its correlation key. It must
	// have committed before the remote job is submitted.
	Put(ctx context.Context, record *domain.CorrelationRecord) error

	// Get reads the record for a correlation key with read-after-write
	// consistency: a Get issued any time after a successful Put for the
	// same key observes that record, from any process. Returns
	// domain.ErrTokenNotFound when no record exists.
	Get(ctx context.Context, correlationKey string) (*domain.CorrelationRecord, error)
}

// StatementStore persists the warehouse-side execution rows.
type StatementStore interface {
	Create(ctx context.Context, record *domain.StatementRecord) error

	// MarkStarted records that a run left the submission queue.
	MarkStarted(ctx context.Context, id uuid.UUID) error

	// MarkTerminal records the final state and error text of a run.
	MarkTerminal(ctx context.Context, id uuid.UUID, status domain.StatementStatus, errText string) error

	Get(ctx context.Context, id uuid.UUID) (*domain.StatementRecord, error)
}

// JobRunner is the asynchronous entry point of the remote job system.
type JobRunner interface {
	// Execute submits the stored procedure call for asynchronous execution
	// under the given correlation key and returns the execution id. The
	// completion notification is emitted out-of-band once the run finishes.
	Execute(ctx context.Context, correlationKey, procedureName string, payload string) (executionID string, err error)
}

// JobDiagnostics is the best-effort lookup of a finished run's recorded
// status and error, used to enrich failure resumptions.
type JobDiagnostics interface {
	Describe(ctx context.Context, executionID string) (*domain.DiagnosticsDetail, error)
}

// WorkflowNotifier delivers exactly one resumption to a paused workflow
// continuation. A token is single-use: invoking either method twice for the
// same token is a caller error, and callers must not attempt it.
type WorkflowNotifier interface {
	NotifySuccess(ctx context.Context, continuationToken string, output any) error
	NotifyFailure(ctx context.Context, continuationToken string, errorCode string, cause any) error
}

// EventBus carries completion notifications from the job system to the
// completion router.
type EventBus interface {
	PublishCompletion(ctx context.Context, event domain.CompletionNotification) error

	// SubscribeCompletions opens a continuous stream of completion events.
	SubscribeCompletions(ctx context.Context) (<-chan domain.CompletionNotification, error)
}
