// Package evaluator is the HTTP client the intake service uses to forward
// accepted readings to the alert service's /evaluate endpoint.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitals/vitals/internal/platform/middleware"
	"github.com/vitals/vitals/pkg/vitals"
)

type Client struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewClient creates a client for the alert service at baseURL. The timeout
// bounds the whole forward call; on expiry the call is abandoned and reported
// as an error to the caller, which treats it as a forwarding failure.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Evaluate posts the readings to /evaluate as one batch and decodes the
// alerts created for them.
func (c *Client) Evaluate(ctx context.Context, readings []*vitals.Reading) ([]vitals.Alert, error) {
	body, err := json.Marshal(readings)
	if err != nil {
		return nil, fmt.Errorf("encode readings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build evaluate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid := middleware.RequestIDFromContext(ctx); rid != "" {
		req.Header.Set(middleware.RequestIDHeader, rid)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call alert service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("alert service returned %d: %s", resp.StatusCode, snippet)
	}

	var alerts []vitals.Alert
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}

	c.logger.Debug().Int("readings", len(readings)).Int("alerts", len(alerts)).
		Msg("evaluate call succeeded")
	return alerts, nil
}
