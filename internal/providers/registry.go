package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client types accepted by NewClient.
const (
	TypeGemini = "gemini"
	TypeOpenAI = "openai"
	TypeMock   = "mock"
)

// DefaultTimeout is the HTTP timeout when none is configured.
const DefaultTimeout = 120 * time.Second

// ClientConfig describes the generator to build for a credential.
type ClientConfig struct {
	Type       string // "gemini" (default), "openai", "mock"
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)

	// Mock is returned as-is when Type is "mock".
	Mock *MockClient
}

// NewClient creates a Generator for cfg. An empty API key is an error for
// every remote type.
func NewClient(ctx context.Context, cfg ClientConfig) (Generator, error) {
	switch cfg.Type {
	case "", TypeGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
			BaseURL:      cfg.BaseURL,
			HTTPClient:   cfg.HTTPClient,
		})
	case TypeOpenAI:
		baseURL, model := openAIEndpoint(cfg)
		return NewOpenAIClient(OpenAIConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: model,
			Timeout:      cfg.Timeout,
			BaseURL:      baseURL,
			HTTPClient:   cfg.HTTPClient,
		})
	case TypeMock:
		if cfg.Mock != nil {
			return cfg.Mock, nil
		}
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// NeedsUpdate reports whether client was built from a different
// configuration than cfg and must be recreated.
func NeedsUpdate(client Generator, cfg ClientConfig) bool {
	switch c := client.(type) {
	case *GeminiClient:
		return (cfg.Type != "" && cfg.Type != TypeGemini) ||
			c.apiKey != cfg.APIKey ||
			c.baseURL != cfg.BaseURL ||
			c.timeout != timeoutOrDefault(cfg.Timeout) ||
			c.defaultModel != modelOrDefault(cfg.Model, GeminiDefaultModel)
	case *OpenAIClient:
		baseURL, model := openAIEndpoint(cfg)
		return cfg.Type != TypeOpenAI ||
			c.apiKey != cfg.APIKey ||
			c.baseURL != baseURL ||
			c.timeout != timeoutOrDefault(cfg.Timeout) ||
			c.defaultModel != model
	case *MockClient:
		return cfg.Type != TypeMock || (cfg.Mock != nil && cfg.Mock != c)
	default:
		return true
	}
}

// openAIEndpoint resolves the base URL and model for the openai type.
// Without a base URL the client talks to Gemini's OpenAI-compatible endpoint,
// so the default model is the Gemini one.
func openAIEndpoint(cfg ClientConfig) (baseURL, model string) {
	if cfg.BaseURL == "" {
		return GeminiOpenAIBaseURL, modelOrDefault(cfg.Model, GeminiDefaultModel)
	}
	return cfg.BaseURL, modelOrDefault(cfg.Model, OpenAIDefaultModel)
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return DefaultTimeout
	}
	return timeout
}

func modelOrDefault(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
