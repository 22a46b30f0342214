package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a Generator for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ResponseText string
	Err          error
	FailAfter    int // Fail after N requests (0 = never)

	// State
	requestCount atomic.Int64
	mu           sync.Mutex
	lastRequest  *GenerateRequest
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Generate records the request and returns the configured response or error.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	c.mu.Lock()
	copied := *req
	c.lastRequest = &copied
	c.mu.Unlock()

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.Err != nil {
		return nil, c.Err
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return nil, fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}

	promptTokens := (len(req.SystemInstruction) + len(req.UserContent)) / 4
	completionTokens := len(c.ResponseText) / 4

	return &GenerateResult{
		Text:             c.ResponseText,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		ExecutionTime:    time.Since(start),
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", count),
	}, nil
}

// LastRequest returns a copy of the most recent request, or nil.
func (c *MockClient) LastRequest() *GenerateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRequest == nil {
		return nil
	}
	copied := *c.lastRequest
	return &copied
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Reset resets the request counter.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.mu.Lock()
	c.lastRequest = nil
	c.mu.Unlock()
}

// Verify interface
var _ Generator = (*MockClient)(nil)
