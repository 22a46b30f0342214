package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestOpenAIGenerateSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "A sharper prompt"}}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(OpenAIConfig{
		APIKey:       "test-key",
		DefaultModel: "test-model",
		BaseURL:      server.URL,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClient() error = %v", err)
	}

	result, err := client.Generate(context.Background(), &GenerateRequest{
		SystemInstruction: "enhance",
		UserContent:       "a prompt",
		ResponseMIMEType:  MIMEJSON,
		Temperature:       0.7,
		TopP:              0.9,
		TopK:              50,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Text != "A sharper prompt" {
		t.Errorf("Text = %q", result.Text)
	}
	if result.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", result.TotalTokens)
	}

	messages, _ := payload["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	if _, ok := payload["response_format"]; ok {
		t.Error("response_format must not be sent: json_object mode cannot return a top-level array")
	}
	if _, ok := payload["top_k"]; ok {
		t.Error("top_k must not be sent to chat completions")
	}
}

func TestOpenAIGenerateErrors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		retryAfter     string
		wantAuth       bool
		wantQuota      bool
		wantRetryAfter time.Duration
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantAuth: true},
		{name: "rate limited", status: http.StatusTooManyRequests, retryAfter: "3", wantQuota: true, wantRetryAfter: 3 * time.Second},
		{name: "bad gateway", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "failure", "type": "error"}}`))
			}))
			defer server.Close()

			client, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: server.URL})
			if err != nil {
				t.Fatalf("NewOpenAIClient() error = %v", err)
			}

			_, err = client.Generate(context.Background(), &GenerateRequest{UserContent: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("server called %d times, want exactly 1", n)
			}

			var authErr *AuthError
			var quotaErr *QuotaError
			if got := errors.As(err, &authErr); got != tt.wantAuth {
				t.Errorf("AuthError = %v, want %v (err = %v)", got, tt.wantAuth, err)
			}
			if got := errors.As(err, &quotaErr); got != tt.wantQuota {
				t.Errorf("QuotaError = %v, want %v (err = %v)", got, tt.wantQuota, err)
			}
			if quotaErr != nil && quotaErr.RetryAfter != tt.wantRetryAfter {
				t.Errorf("RetryAfter = %v, want %v", quotaErr.RetryAfter, tt.wantRetryAfter)
			}
		})
	}
}
