package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/config"
)

func testGatewayConfig(url string) config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL:        url,
		APIKey:         "test-key",
		UserID:         "tester@example.com",
		TimeoutSeconds: 5,
	}
}

func TestCallDecodesSuccessEnvelope(t *testing.T) {
	var captured inferenceRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "response": {"status": "success", "result": {"answer": 42}}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(server.URL))
	envelope, err := client.Call(context.Background(), "should we?", "agent-1")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !envelope.OK() {
		t.Fatalf("expected OK envelope, got %+v", envelope)
	}
	if string(envelope.Response.Result) != `{"answer": 42}` {
		t.Fatalf("unexpected result payload %s", envelope.Response.Result)
	}
	if captured.AgentID != "agent-1" || captured.Message != "should we?" {
		t.Fatalf("unexpected request %+v", captured)
	}
	if captured.SessionID != client.SessionID() {
		t.Fatalf("session id mismatch: %q vs %q", captured.SessionID, client.SessionID())
	}
	if captured.UserID != "tester@example.com" {
		t.Fatalf("unexpected user id %q", captured.UserID)
	}
}

func TestCallPassesThroughFailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "quota exceeded"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(server.URL))
	envelope, err := client.Call(context.Background(), "prompt", "agent-1")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if envelope.OK() {
		t.Fatalf("failure envelope must not be OK")
	}
	if got := envelope.Message(); got != "quota exceeded" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCallRejectsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(server.URL))
	if _, err := client.Call(context.Background(), "prompt", "agent-1"); err == nil {
		t.Fatalf("expected error for HTTP 502")
	}
}

func TestCallRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewHTTPClient(testGatewayConfig(server.URL))
	if _, err := client.Call(context.Background(), "prompt", "agent-1"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCallSurfacesTransportFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewHTTPClient(testGatewayConfig(server.URL))
	if _, err := client.Call(context.Background(), "prompt", "agent-1"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestEnvelopeOKRequiresSuccessStatus(t *testing.T) {
	cases := []struct {
		name     string
		envelope Envelope
		want     bool
	}{
		{"success", Envelope{Success: true, Response: &Response{Status: "success"}}, true},
		{"partial status", Envelope{Success: true, Response: &Response{Status: "partial"}}, false},
		{"flag false", Envelope{Success: false, Response: &Response{Status: "success"}}, false},
		{"missing response", Envelope{Success: true}, false},
	}
	for _, tc := range cases {
		if got := tc.envelope.OK(); got != tc.want {
			t.Errorf("%s: OK() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
