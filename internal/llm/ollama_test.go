package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient_Request_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.System != "system prompt" {
			t.Errorf("Expected system prompt in system field, got %q", req.System)
		}
		if req.Stream {
			t.Error("Expected stream to be disabled")
		}

		resp := ollamaResponse{
			Model:           "llama3.1",
			Response:        "Claims:\n- Laksa originated in Malaysia",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "llama3.1",
		Timeout: 5,
	}
	client, err := NewOllamaClient(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	response, err := client.Request(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if response != "Claims:\n- Laksa originated in Malaysia" {
		t.Errorf("Unexpected response: %s", response)
	}
}

func TestOllamaClient_Request_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	config := Config{
		BaseURL: server.URL,
		Model:   "missing-model",
		Timeout: 5,
	}
	client, err := NewOllamaClient(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Request(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("Expected error, got none")
	}
}

func TestOllamaClient_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected path /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewOllamaClient(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if !client.IsAvailable(context.Background()) {
		t.Error("Expected client to be available")
	}
}
