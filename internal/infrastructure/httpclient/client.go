// Package httpclient talks to the downstream "fake" API the service proxies.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/teste-tivit/secure-api/internal/core/domain"
	"github.com/teste-tivit/secure-api/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Client is a ports.ExternalClient backed by net/http.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for baseURL. A non-positive timeout falls back to the
// default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Get fetches an endpoint ("health", "user", "admin") from the downstream API.
func (c *Client) Get(ctx context.Context, endpoint string) (*ports.ExternalResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

// PostToken posts login metadata to the downstream token endpoint.
func (c *Client) PostToken(ctx context.Context, notification domain.TokenNotification) (*ports.ExternalResult, error) {
	body, err := json.Marshal(notification)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*ports.ExternalResult, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return failureResult(err), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read downstream response: %w", err)
	}

	return &ports.ExternalResult{
		Data:       normalizePayload(resp.Header.Get("Content-Type"), body),
		StatusCode: resp.StatusCode,
	}, nil
}

// failureResult turns a transport failure into a typed result so the caller
// can persist the capture: 408 for timeouts, 500 for any other request error.
func failureResult(err error) *ports.ExternalResult {
	status := http.StatusInternalServerError
	msg := "request error: " + err.Error()

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		status = http.StatusRequestTimeout
		msg = "request timeout"
	}

	payload, marshalErr := json.Marshal(map[string]string{"error": msg})
	if marshalErr != nil {
		payload = json.RawMessage(`{"error":"request error"}`)
	}
	return &ports.ExternalResult{Data: payload, StatusCode: status}
}

// normalizePayload keeps JSON bodies as-is and wraps anything else so the
// stored payload is always valid JSON.
func normalizePayload(contentType string, body []byte) json.RawMessage {
	if strings.HasPrefix(contentType, "application/json") && json.Valid(body) {
		return body
	}
	wrapped, err := json.Marshal(map[string]string{"text": string(body)})
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return wrapped
}
