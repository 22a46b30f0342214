package providers

import (
	"context"
	"time"
)

// MIMEJSON asks the service to answer with JSON.
const MIMEJSON = "application/json"

// Generator is the remote text generation service.
// One call to Generate is one outbound request; implementations never retry.
type Generator interface {
	// Generate sends one request and returns the text payload.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g., "gemini").
	Name() string
}

// GenerateRequest is one call to the remote service.
type GenerateRequest struct {
	// Model selection (uses client default if empty)
	Model string

	SystemInstruction string
	UserContent       string

	// ResponseMIMEType is empty for plain text or MIMEJSON.
	ResponseMIMEType string

	// Sampling parameters
	Temperature float64
	TopP        float64
	TopK        int

	// Request tracking
	RequestID string
}

// GenerateResult is the response from the remote service.
type GenerateResult struct {
	Text string `json:"text"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`
}
