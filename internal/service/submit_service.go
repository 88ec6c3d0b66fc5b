package service

import (
	"context"
	"fmt"
	"time"

	"jobrelay/internal/api/dto"
	"jobrelay/internal/core/ports"
	"jobrelay/internal/domain"
	"jobrelay/internal/metrics"
)

type SubmitService interface {
	Submit(ctx context.Context, req dto.SubmitJobRequest) (*dto.SubmitJobResponse, error)
}

// The Implementation
type submitService struct {
	tokens      ports.TokenStore
	runner      ports.JobRunner
	callTimeout time.Duration
}

// Constructor
func NewSubmitService(tokens ports.TokenStore, runner ports.JobRunner, callTimeout time.Duration) SubmitService {
	return &submitService{
		tokens:      tokens,
		runner:      runner,
		callTimeout: callTimeout,
	}
}

// Submit persists the correlation record and only then submits the remote
// job. The ordering is the correctness guarantee of the whole system: a job
// can finish within milliseconds, and its completion event must always find
// a resolvable record.
func (s *submitService) Submit(ctx context.Context, req dto.SubmitJobRequest) (*dto.SubmitJobResponse, error) {
	record := domain.NewCorrelationRecord(req.ContinuationToken)

	putCtx, cancelPut := context.WithTimeout(ctx, s.callTimeout)
	defer cancelPut()

	if err := s.tokens.Put(putCtx, record); err != nil {
		// Abort before submission: a job without a resolvable token could
		// never resume its workflow.
		metrics.SubmissionsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("submit: persist correlation record: %w", err)
	}

	execCtx, cancelExec := context.WithTimeout(ctx, s.callTimeout)
	defer cancelExec()

	executionID, err := s.runner.Execute(execCtx, record.CorrelationKey, req.ProcedureName, req.EventMessage)
	if err != nil {
		// The record stays behind, orphaned; external cleanup owns it.
		metrics.SubmissionsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("submit: execute %s: %w", req.ProcedureName, err)
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()

	return &dto.SubmitJobResponse{
		JobCallResponse: executionID,
		CorrelationKey:  record.CorrelationKey,
		Status:          "success",
	}, nil
}
