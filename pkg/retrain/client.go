// Package retrain notifies the model retraining pipeline. Delivery is best
// effort: a failed trigger is logged by the caller and never blocks or alters
// governance state.
package retrain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dtri/shared/logging"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultRetryPause     = 2 * time.Second
)

// Request is the JSON body posted to the retrain endpoint.
type Request struct {
	EntityID    string    `json:"entity_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// Client posts retrain requests over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	retryPause time.Duration
}

// New creates a client for the given endpoint.
func New(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		retryPause: defaultRetryPause,
	}
}

// Trigger posts one retrain request, retrying once after a short pause. The
// returned error is informational; callers log it and move on.
func (c *Client) Trigger(ctx context.Context, entityID, reason string) error {
	payload, err := json.Marshal(Request{
		EntityID:    entityID,
		Reason:      reason,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal retrain request: %w", err)
	}

	err = c.post(ctx, payload)
	if err == nil {
		return nil
	}
	logging.Warnf("[retrain] trigger for %s failed, retrying once: %v", entityID, err)

	select {
	case <-time.After(c.retryPause):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.post(ctx, payload); err != nil {
		return fmt.Errorf("retrain trigger for %s: %w", entityID, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("retrain endpoint returned %d", resp.StatusCode)
	}
	return nil
}
