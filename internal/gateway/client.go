// Package gateway calls the remote agent platform and normalizes its
// responses into the envelope the workflow controller consumes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/config"
)

// StatusSuccess is the only response status treated as a successful call.
const StatusSuccess = "success"

// Envelope is the normalized result of one agent invocation.
type Envelope struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Response carries the agent's status and its structured result payload.
type Response struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// OK reports whether the envelope represents a successful agent run.
func (e Envelope) OK() bool {
	return e.Success && e.Response != nil && e.Response.Status == StatusSuccess
}

// Message returns the gateway-provided error text, if any.
func (e Envelope) Message() string {
	return strings.TrimSpace(e.Error)
}

// Client invokes a named agent with a free-text prompt.
type Client interface {
	Call(ctx context.Context, prompt, agentID string) (Envelope, error)
}

type inferenceRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// HTTPClient talks to the agent platform's inference endpoint. One client
// holds one session identifier for the lifetime of the TUI.
type HTTPClient struct {
	baseURL string
	apiKey  string
	userID  string
	session string
	httpc   *http.Client
}

// NewHTTPClient builds a gateway client from project configuration.
func NewHTTPClient(cfg config.GatewayConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	userID := cfg.UserID
	if userID == "" {
		userID = "council@localhost"
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		userID:  userID,
		session: uuid.NewString(),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SessionID returns the session identifier attached to every call.
func (c *HTTPClient) SessionID() string {
	return c.session
}

// Call posts the prompt to the named agent and decodes the envelope.
func (c *HTTPClient) Call(ctx context.Context, prompt, agentID string) (Envelope, error) {
	body, err := json.Marshal(inferenceRequest{
		UserID:    c.userID,
		AgentID:   agentID,
		SessionID: c.session,
		Message:   prompt,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("gateway: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Envelope{}, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("gateway: call agent %s: %w", agentID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Envelope{}, fmt.Errorf("gateway: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Envelope{}, fmt.Errorf("gateway: agent %s returned HTTP %d: %s", agentID, resp.StatusCode, compact(data))
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("gateway: decode envelope: %w", err)
	}
	return envelope, nil
}

func compact(data []byte) string {
	text := strings.Join(strings.Fields(string(data)), " ")
	if len(text) > 200 {
		text = text[:200] + "…"
	}
	return text
}
