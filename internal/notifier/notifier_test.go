package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobrelay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySuccessPostsOutput(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	record := &domain.CorrelationRecord{CorrelationKey: "job-evt-|k1", ContinuationToken: "abc123"}

	err := client.NotifySuccess(context.Background(), "abc123", record)

	require.NoError(t, err)
	assert.Equal(t, "/continuations/abc123/success", gotPath)

	output, ok := gotBody["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "job-evt-|k1", output["correlationKey"])
}

func TestNotifyFailurePostsErrorCodeAndCause(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	cause := domain.DiagnosticsDetail{Status: "ABORTED", Error: "OutOfMemory"}

	err := client.NotifyFailure(context.Background(), "abc123", domain.WorkflowErrorCode, cause)

	require.NoError(t, err)
	assert.Equal(t, "/continuations/abc123/failure", gotPath)
	assert.Equal(t, domain.WorkflowErrorCode, gotBody["error"])

	got, ok := gotBody["cause"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "OutOfMemory", got["error"])
}

func TestNotifyRejectionIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Engine behaviour for an already-consumed token.
		http.Error(w, "token already consumed", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	err := client.NotifySuccess(context.Background(), "abc123", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestNotifyUnreachableEngineIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before the call

	client := NewClient(srv.URL, time.Second)

	err := client.NotifyFailure(context.Background(), "abc123", domain.WorkflowErrorCode, nil)

	require.Error(t, err)
}
