// Package webhook delivers grading reports to an HTTP endpoint with retries.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Client posts JSON payloads to a configured endpoint.
type Client struct {
	httpClient *http.Client
	config     *Config
	retry      *RetryConfig
	logger     *zap.Logger
}

// NewClient creates a client. A nil retry config uses DefaultRetryConfig and
// a nil logger discards events.
func NewClient(config *Config, retry *RetryConfig, logger *zap.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     config,
		retry:      retry,
		logger:     logger.Named("webhook"),
	}
}

// Send delivers payload, tagging the request with reportID.
//
// Network errors and 408, 429 and 5xx responses are retried; any other
// non-2xx status ends delivery immediately.
func (c *Client) Send(ctx context.Context, reportID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	log := c.logger.With(zap.String("report_id", reportID), zap.String("url", c.config.URL))

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(attempt, c.retry)
			log.Debug("retrying webhook",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.retry.MaxRetries),
				zap.Duration("delay", delay))

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("webhook timeout after %d attempts: %w", attempt, ctx.Err())
			}
		}

		status, err := c.post(ctx, reportID, body)
		if err == nil && status >= 200 && status < 300 {
			log.Info("webhook delivered", zap.Int("status", status), zap.Int("attempts", attempt+1))
			return nil
		}

		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed: %w", attempt+1, err)
		} else {
			lastErr = fmt.Errorf("attempt %d failed with status %d", attempt+1, status)
		}
		log.Warn("webhook attempt failed", zap.Error(lastErr))

		if status > 0 && !retryable(status) {
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", c.retry.MaxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, reportID string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if reportID != "" {
		req.Header.Set(ReportIDHeader, reportID)
	}

	switch c.config.AuthType {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
