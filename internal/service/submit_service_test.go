package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobrelay/internal/api/dto"
	"jobrelay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenStore struct {
	records map[string]*domain.CorrelationRecord
	putErr  error
}

func (f *fakeTokenStore) Put(ctx context.Context, record *domain.CorrelationRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.records == nil {
		f.records = make(map[string]*domain.CorrelationRecord)
	}
	f.records[record.CorrelationKey] = record
	return nil
}

func (f *fakeTokenStore) Get(ctx context.Context, correlationKey string) (*domain.CorrelationRecord, error) {
	record, ok := f.records[correlationKey]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	return record, nil
}

type executeCall struct {
	correlationKey string
	procedureName  string
	payload        string
	recordVisible  bool
}

// fakeRunner records each submission and, like a fast remote job, checks
// whether the correlation record was already resolvable at submission time.
type fakeRunner struct {
	tokens      *fakeTokenStore
	executionID string
	err         error

	calls []executeCall
}

func (f *fakeRunner) Execute(ctx context.Context, correlationKey, procedureName string, payload string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	visible := false
	if f.tokens != nil {
		_, err := f.tokens.Get(ctx, correlationKey)
		visible = err == nil
	}
	f.calls = append(f.calls, executeCall{
		correlationKey: correlationKey,
		procedureName:  procedureName,
		payload:        payload,
		recordVisible:  visible,
	})
	return f.executionID, nil
}

func TestSubmitPersistsRecordBeforeExecuting(t *testing.T) {
	tokens := &fakeTokenStore{}
	runner := &fakeRunner{tokens: tokens, executionID: "stmt-1"}
	svc := NewSubmitService(tokens, runner, time.Second)

	ack, err := svc.Submit(context.Background(), dto.SubmitJobRequest{
		ContinuationToken: "abc123",
		ProcedureName:     "sp_load_data",
		EventMessage:      `{"batch":5}`,
	})

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.True(t, runner.calls[0].recordVisible, "record must be resolvable before the job is submitted")
	assert.Equal(t, "sp_load_data", runner.calls[0].procedureName)
	assert.Equal(t, `{"batch":5}`, runner.calls[0].payload)

	assert.Equal(t, "stmt-1", ack.JobCallResponse)
	assert.Equal(t, "success", ack.Status)
	assert.True(t, strings.HasPrefix(ack.CorrelationKey, domain.CorrelationKeyPrefix))

	record := tokens.records[ack.CorrelationKey]
	require.NotNil(t, record)
	assert.Equal(t, "abc123", record.ContinuationToken)
}

func TestSubmitStorageFailureAbortsBeforeExecuting(t *testing.T) {
	storageErr := errors.New("write failed")
	tokens := &fakeTokenStore{putErr: storageErr}
	runner := &fakeRunner{tokens: tokens, executionID: "stmt-1"}
	svc := NewSubmitService(tokens, runner, time.Second)

	_, err := svc.Submit(context.Background(), dto.SubmitJobRequest{
		ContinuationToken: "abc123",
		ProcedureName:     "sp_load_data",
		EventMessage:      "{}",
	})

	require.ErrorIs(t, err, storageErr)
	assert.Empty(t, runner.calls, "no remote job call may happen when the record was not persisted")
}

func TestSubmitExecutionFailureLeavesRecordOrphaned(t *testing.T) {
	tokens := &fakeTokenStore{}
	runner := &fakeRunner{tokens: tokens, err: errors.New("warehouse rejected statement")}
	svc := NewSubmitService(tokens, runner, time.Second)

	_, err := svc.Submit(context.Background(), dto.SubmitJobRequest{
		ContinuationToken: "abc123",
		ProcedureName:     "sp_load_data",
		EventMessage:      "{}",
	})

	require.Error(t, err)
	// The record stays behind; external cleanup owns it.
	assert.Len(t, tokens.records, 1)
}

func TestSubmitGeneratesUniqueCorrelationKeys(t *testing.T) {
	tokens := &fakeTokenStore{}
	runner := &fakeRunner{tokens: tokens, executionID: "stmt-1"}
	svc := NewSubmitService(tokens, runner, time.Second)

	req := dto.SubmitJobRequest{
		ContinuationToken: "abc123",
		ProcedureName:     "sp_load_data",
		EventMessage:      "{}",
	}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ack, err := svc.Submit(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, seen[ack.CorrelationKey], "correlation keys must not collide")
		seen[ack.CorrelationKey] = true
	}
}
