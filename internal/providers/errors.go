package providers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AuthError is returned when the service rejects the credential.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected (status %d): %s", e.StatusCode, e.Message)
}

// QuotaError is returned when the service reports a rate or usage limit.
type QuotaError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded (status %d): %s", e.StatusCode, e.Message)
}

// statusError turns an HTTP-level failure reported by an SDK into a typed
// error when the status identifies the cause, or a plain error otherwise.
// Gemini reports an invalid key as 400 INVALID_ARGUMENT, so the status text
// and message are consulted as well as the code.
func statusError(provider string, code int, status, message string) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &AuthError{StatusCode: code, Message: message}
	case code == http.StatusBadRequest && isInvalidKeyMessage(message):
		return &AuthError{StatusCode: code, Message: message}
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return &QuotaError{StatusCode: code, Message: message}
	}
	if status != "" {
		return fmt.Errorf("%s error (status %d %s): %s", provider, code, status, message)
	}
	return fmt.Errorf("%s error (status %d): %s", provider, code, message)
}

func isInvalidKeyMessage(message string) bool {
	return strings.Contains(message, "API key not valid") || strings.Contains(message, "API_KEY_INVALID")
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(value, "%d", &seconds); err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
