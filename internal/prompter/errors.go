package prompter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackzampolin/promptforge/internal/persona"
	"github.com/jackzampolin/promptforge/internal/providers"
)

// Kind is the user-facing failure category of an executor call.
type Kind string

const (
	NotConfigured     Kind = "not_configured"
	InvalidInput      Kind = "invalid_input"
	AuthRejected      Kind = "auth_rejected"
	QuotaExceeded     Kind = "quota_exceeded"
	MalformedResponse Kind = "malformed_response"
	Transport         Kind = "transport"
)

// User-facing messages.
const (
	MsgNotConfigured = "Gemini API is not available. Please configure your API Key with `promptforge key set`."
	MsgBlankIdea     = "Please enter an idea to generate prompts."
	MsgBlankPrompt   = "Please enter a prompt to enhance."
	MsgAuthRejected  = "The API Key is invalid or has expired. Please check it and update it with `promptforge key set`."
	MsgQuota         = "API usage limit reached. Please try again later."
	MsgInvalidJSON   = "Error processing AI response. Invalid JSON format."
	MsgNotPromptList = "Invalid response format from AI. The AI did not return the expected list of prompts."
)

// Error is the only error type returned by the executors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// errNotPromptList is returned when the response is JSON but not an array
// of strings.
var errNotPromptList = errors.New("response is not a JSON array of strings")

// Classify maps any failure from a generate or enhance call onto exactly one
// Kind. Typed transport errors win; message inspection is the fallback for
// errors that only carry text.
func Classify(op persona.Operation, err error) *Error {
	if err == nil {
		return nil
	}

	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}

	var authErr *providers.AuthError
	if errors.As(err, &authErr) {
		return NewError(AuthRejected, MsgAuthRejected, err)
	}
	var quotaErr *providers.QuotaError
	if errors.As(err, &quotaErr) {
		return NewError(QuotaExceeded, MsgQuota, err)
	}

	msg := err.Error()
	if strings.Contains(msg, "API key not valid") || strings.Contains(msg, "API_KEY_INVALID") {
		return NewError(AuthRejected, MsgAuthRejected, err)
	}
	if strings.Contains(strings.ToLower(msg), "quota") {
		return NewError(QuotaExceeded, MsgQuota, err)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return NewError(MalformedResponse, MsgInvalidJSON, err)
	}
	if errors.Is(err, errNotPromptList) {
		return NewError(MalformedResponse, MsgNotPromptList, err)
	}

	return NewError(Transport, transportMessage(op, err), err)
}

func transportMessage(op persona.Operation, err error) string {
	if op == persona.Enhance {
		return fmt.Sprintf("Could not enhance prompt: %v", err)
	}
	return fmt.Sprintf("Could not generate prompts: %v", err)
}
