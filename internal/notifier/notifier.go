package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jobrelay/internal/metrics"
)

// Client resumes paused workflow continuations over the engine's callback
// API. Each continuation token is single-use: the engine consumes it on the
// first delivery and rejects anything after that, so callers dispatch at
// most once per token.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type successBody struct {
	Output any `json:"output"`
}

type failureBody struct {
	Error string `json:"error"`
	Cause any    `json:"cause"`
}

func (c *Client) NotifySuccess(ctx context.Context, continuationToken string, output any) error {
	err := c.post(ctx, continuationToken, "success", successBody{Output: output})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("success", "error").Inc()
		return fmt.Errorf("notify success: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues("success", "ok").Inc()
	return nil
}

func (c *Client) NotifyFailure(ctx context.Context, continuationToken string, errorCode string, cause any) error {
	err := c.post(ctx, continuationToken, "failure", failureBody{Error: errorCode, Cause: cause})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failure", "error").Inc()
		return fmt.Errorf("notify failure: %w", err)
	}
	metrics.NotificationsTotal.WithLabelValues("failure", "ok").Inc()
	return nil
}

func (c *Client) post(ctx context.Context, continuationToken, kind string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/continuations/%s/%s", c.baseURL, url.PathEscape(continuationToken), kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call workflow engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("workflow engine rejected resumption: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
