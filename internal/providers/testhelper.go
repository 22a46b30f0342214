package providers

import (
	"os"
)

// TestConfig holds live service credentials loaded from environment variables.
type TestConfig struct {
	GeminiAPIKey string
}

// LoadTestConfig loads API keys from environment variables.
func LoadTestConfig() TestConfig {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	return TestConfig{GeminiAPIKey: key}
}

// HasGemini returns true if a Gemini API key is configured.
func (c TestConfig) HasGemini() bool {
	return c.GeminiAPIKey != ""
}
