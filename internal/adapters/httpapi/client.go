// Package httpapi talks to the platform REST backend over HTTP+JSON with a
// bearer credential. Every failure is reduced to either a
// *domain.StatusError (the backend answered) or an error wrapping
// domain.ErrUnreachable (it did not).
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mktautomations/opsc/internal/domain"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorBodyLen  = 512
	userAgent        = "opsc"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	newID      func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds every request that has no earlier caller deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.DiscardHandler),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 && client.httpClient.Timeout == 0 {
		bounded := *client.httpClient
		bounded.Timeout = client.timeout
		client.httpClient = &bounded
	}
	return client
}

// raw performs one request and returns the status and body. A transport
// failure wraps domain.ErrUnreachable; the status is not interpreted.
func (c *Client) raw(ctx context.Context, method, path string, credential domain.Credential, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	requestID := c.newID()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if !credential.Empty() {
		request.Header.Set("Authorization", "Bearer "+string(credential))
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", domain.ErrUnreachable, method, path, err)
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s %s: %w", domain.ErrUnreachable, method, path, err)
	}

	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(started),
	)

	return response.StatusCode, data, nil
}

// call performs a request and decodes a 2xx body into out (when non-nil).
func (c *Client) call(ctx context.Context, op, method, path string, credential domain.Credential, payload, out any) error {
	status, data, err := c.raw(ctx, method, path, credential, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &domain.StatusError{Op: op, Status: status, Body: errorBody(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.StatusError{Op: op, Status: domain.StatusMalformedPayload, Body: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func errorBody(data []byte) string {
	body := strings.TrimSpace(string(data))
	if len(body) > maxErrorBodyLen {
		body = body[:maxErrorBodyLen] + "..."
	}
	return body
}
