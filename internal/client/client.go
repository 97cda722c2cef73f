// Package client talks to a nixdle game server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joss/nixdle/internal/api"
	"github.com/joss/nixdle/internal/logging"
)

// ErrServer matches every non-200 response.
var ErrServer = errors.New("server error")

// StatusError is a non-200 response from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrServer
}

// Client is a nixdle API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL. A nil httpClient gets a
// default with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Start fetches the day's session parameters.
func (c *Client) Start(ctx context.Context) (*api.StartMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/start", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var msg api.StartMessage
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Attempt submits a guess to attemptURL, as advertised by Start. A nil
// message with a nil error means the server does not know the guess.
func (c *Client) Attempt(ctx context.Context, attemptURL string, attempt api.AttemptRequest) (*api.AttemptMessage, error) {
	body, err := json.Marshal(attempt)
	if err != nil {
		return nil, fmt.Errorf("marshal attempt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, attemptURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var msg *api.AttemptMessage
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	reqID := logging.NewRequestID()
	req.Header.Set(logging.RequestIDHeader, reqID)
	log := logging.New("client").WithRequest(reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.TimedEvent("api_call", start, map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
