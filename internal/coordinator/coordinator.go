package coordinator

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"
	"jobrelay/internal/metrics"
)

// HandledOutcome names the terminal state a completion event reached.
type HandledOutcome string

const (
	OutcomeSuccess HandledOutcome = "success"
	OutcomeFailure HandledOutcome = "failure"
)

// Coordinator joins completion events back to their waiting continuations.
// Per event it resolves the correlation record, branches on the terminal
// state, and dispatches exactly one resumption to the workflow engine.
// It never retries the job and never mutates the correlation record.
type Coordinator struct {
	tokens      ports.TokenStore
	diagnostics ports.JobDiagnostics
	notifier    ports.WorkflowNotifier
	eventBus    ports.EventBus
	callTimeout time.Duration
}

func NewCoordinator(
	tokens ports.TokenStore,
	diagnostics ports.JobDiagnostics,
	notifier ports.WorkflowNotifier,
	bus ports.EventBus,
	callTimeout time.Duration,
) *Coordinator {
	return &Coordinator{
		tokens:      tokens,
		diagnostics: diagnostics,
		notifier:    notifier,
		eventBus:    bus,
		callTimeout: callTimeout,
	}
}

// Start begins the infinite listening loop. Call this in main.go as a goroutine.
func (c *Coordinator) Start(ctx context.Context) {
	log.Println("Coordinator started, listening for completion events...")

	eventChannel, err := c.eventBus.SubscribeCompletions(ctx)
	if err != nil {
		log.Fatalf("Failed to subscribe to event bus: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Coordinator shutting down...")
			return

		case event := <-eventChannel:
			if _, err := c.Handle(ctx, event.Detail); err != nil {
				log.Printf("Coordinator: completion %s not handled: %v", event.Detail.CorrelationKey, err)
			}
		}
	}
}

// Handle maps one completion event to one workflow resumption.
func (c *Coordinator) Handle(ctx context.Context, event domain.CompletionEvent) (HandledOutcome, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	log.Printf("Coordinator: completion %s (execution %s) state %s", event.CorrelationKey, event.ExecutionID, event.State)

	getCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	record, err := c.tokens.Get(getCtx, event.CorrelationKey)
	if err != nil {
		// Unresolvable or storage failure: either way there is no token in
		// hand, so no notification can be sent.
		metrics.CompletionsTotal.WithLabelValues("unresolvable").Inc()
		return "", fmt.Errorf("handle completion %s: %w", event.CorrelationKey, err)
	}

	if event.Status().IsSuccess() {
		return c.notifySuccess(ctx, record)
	}
	return c.notifyFailure(ctx, record, event)
}

func (c *Coordinator) notifySuccess(ctx context.Context, record *domain.CorrelationRecord) (HandledOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := c.notifier.NotifySuccess(ctx, record.ContinuationToken, record); err != nil {
		metrics.CompletionsTotal.WithLabelValues("notify_error").Inc()
		return "", fmt.Errorf("handle completion %s: notify success: %w", record.CorrelationKey, err)
	}

	metrics.CompletionsTotal.WithLabelValues("success").Inc()
	return OutcomeSuccess, nil
}

func (c *Coordinator) notifyFailure(ctx context.Context, record *domain.CorrelationRecord, event domain.CompletionEvent) (HandledOutcome, error) {
	describeCtx, cancelDescribe := context.WithTimeout(ctx, c.callTimeout)
	defer cancelDescribe()

	// Enrich the failure with the run's recorded diagnostics. A failed
	// lookup must not cost the workflow its resumption, so the lookup error
	// itself becomes the cause.
	var cause any
	detail, err := c.diagnostics.Describe(describeCtx, event.ExecutionID)
	if err != nil {
		log.Printf("Coordinator: diagnostics lookup for %s failed: %v", event.ExecutionID, err)
		cause = domain.DiagnosticsDetail{
			Status: event.State,
			Error:  fmt.Sprintf("diagnostics lookup failed: %v", err),
		}
	} else {
		cause = *detail
	}

	notifyCtx, cancelNotify := context.WithTimeout(ctx, c.callTimeout)
	defer cancelNotify()

	if err := c.notifier.NotifyFailure(notifyCtx, record.ContinuationToken, domain.WorkflowErrorCode, cause); err != nil {
		metrics.CompletionsTotal.WithLabelValues("notify_error").Inc()
		return "", fmt.Errorf("handle completion %s: notify failure: %w", record.CorrelationKey, err)
	}

	metrics.CompletionsTotal.WithLabelValues("failure").Inc()
	return OutcomeFailure, nil
}
