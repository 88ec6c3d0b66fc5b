package coordinator

import (
	"context"
	"testing"
	"time"

	"jobrelay/internal/api/dto"
	"jobrelay/internal/domain"
	"jobrelay/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type instantRunner struct{}

func (instantRunner) Execute(ctx context.Context, correlationKey, procedureName string, payload string) (string, error) {
	return "stmt-1", nil
}

// A remote job can finish within milliseconds of submission. Because the
// record is persisted before the job is submitted, a completion event that
// arrives immediately after the ack must already resolve.
func TestCompletionImmediatelyAfterSubmissionResolves(t *testing.T) {
	tokens := &fakeTokenStore{}
	notif := &fakeNotifier{}

	svc := service.NewSubmitService(tokens, instantRunner{}, time.Second)
	router := newTestCoordinator(tokens, &fakeDiagnostics{}, notif)

	ack, err := svc.Submit(context.Background(), dto.SubmitJobRequest{
		ContinuationToken: "abc123",
		ProcedureName:     "sp_load_data",
		EventMessage:      `{"batch":5}`,
	})
	require.NoError(t, err)

	outcome, err := router.Handle(context.Background(), domain.CompletionEvent{
		CorrelationKey: ack.CorrelationKey,
		ExecutionID:    ack.JobCallResponse,
		State:          "FINISHED",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	require.Len(t, notif.successes, 1)
	assert.Equal(t, "abc123", notif.successes[0].token)
}
