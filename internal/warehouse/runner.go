package warehouse

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"

	"gorm.io/gorm"
)

// procedure names are interpolated into the CALL statement, so they are
// restricted to plain (optionally schema-qualified) identifiers.
var procedureNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// Runner executes stored procedures asynchronously in the warehouse. The
// synchronous part of Execute only records the statement and returns its
// execution id; the procedure itself runs in the background and the terminal
// state is reported out-of-band on the event bus, labelled with the
// correlation key the caller supplied.
type Runner struct {
	db         *gorm.DB
	statements ports.StatementStore
	bus        ports.EventBus
	runTimeout time.Duration
}

func NewRunner(db *gorm.DB, statements ports.StatementStore, bus ports.EventBus, runTimeout time.Duration) *Runner {
	return &Runner{
		db:         db,
		statements: statements,
		bus:        bus,
		runTimeout: runTimeout,
	}
}

func validateProcedureName(procedureName string) error {
	if !procedureNamePattern.MatchString(procedureName) {
		return &domain.ValidationError{Field: "procedureName", Reason: "is not a valid procedure identifier"}
	}
	return nil
}

func (r *Runner) Execute(ctx context.Context, correlationKey, procedureName string, payload string) (string, error) {
	if err := validateProcedureName(procedureName); err != nil {
		return "", err
	}

	record := domain.NewStatementRecord(correlationKey, procedureName, []byte(payload))
	if err := r.statements.Create(ctx, record); err != nil {
		return "", fmt.Errorf("warehouse: submit %s: %w", procedureName, err)
	}

	// Detached from the request context: the submission ack returns now and
	// the run continues on its own deadline.
	go r.run(record)

	return record.ID.String(), nil
}

// run drives one statement to a terminal state and emits the completion
// notification carrying the statement's correlation key.
func (r *Runner) run(record *domain.StatementRecord) {
	runCtx, cancelRun := context.WithTimeout(context.Background(), r.runTimeout)
	defer cancelRun()

	if err := r.statements.MarkStarted(runCtx, record.ID); err != nil {
		log.Printf("Warehouse: failed to mark %s started: %v", record.ID, err)
	}

	err := r.db.WithContext(runCtx).
		Exec("CALL "+record.ProcedureName+"(?)", string(record.Payload)).Error

	status := domain.StatementFinished
	errText := ""
	if err != nil {
		status = domain.StatementFailed
		errText = err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			status = domain.StatementAborted
		}
		log.Printf("Warehouse: statement %s (%s) failed: %v", record.ID, record.ProcedureName, err)
	}

	// Fresh context for the bookkeeping: the run context is already dead
	// when the statement timed out.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.statements.MarkTerminal(ctx, record.ID, status, errText); err != nil {
		log.Printf("Warehouse: failed to record terminal state for %s: %v", record.ID, err)
	}

	event := domain.CompletionNotification{
		Detail: domain.CompletionEvent{
			CorrelationKey: record.Name,
			ExecutionID:    record.ID.String(),
			State:          string(status),
		},
	}
	if err := r.bus.PublishCompletion(ctx, event); err != nil {
		// No retry here: an undelivered completion means the workflow times
		// out on its own side rather than receiving a synthesized outcome.
		log.Printf("Warehouse: failed to publish completion for %s: %v", record.ID, err)
	}
}
