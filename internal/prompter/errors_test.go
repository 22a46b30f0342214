package prompter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackzampolin/promptforge/internal/persona"
	"github.com/jackzampolin/promptforge/internal/providers"
)

func TestClassify(t *testing.T) {
	var syntaxErr error
	{
		var v any
		syntaxErr = json.Unmarshal([]byte("nope"), &v)
	}

	tests := []struct {
		name    string
		op      persona.Operation
		err     error
		want    Kind
		wantMsg string
	}{
		{
			name:    "typed auth",
			err:     &providers.AuthError{StatusCode: 401, Message: "bad"},
			want:    AuthRejected,
			wantMsg: MsgAuthRejected,
		},
		{
			name:    "wrapped typed quota",
			err:     fmt.Errorf("call: %w", &providers.QuotaError{StatusCode: 429}),
			want:    QuotaExceeded,
			wantMsg: MsgQuota,
		},
		{
			name: "invalid key text",
			err:  errors.New("got status 400: API key not valid. Please pass a valid API key."),
			want: AuthRejected,
		},
		{
			name: "API_KEY_INVALID text",
			err:  errors.New("reason API_KEY_INVALID"),
			want: AuthRejected,
		},
		{
			name: "quota text any case",
			err:  errors.New("You exceeded your current QUOTA"),
			want: QuotaExceeded,
		},
		{
			name:    "syntax",
			err:     syntaxErr,
			want:    MalformedResponse,
			wantMsg: MsgInvalidJSON,
		},
		{
			name:    "wrong shape",
			err:     fmt.Errorf("%w: expected array", errNotPromptList),
			want:    MalformedResponse,
			wantMsg: MsgNotPromptList,
		},
		{
			name:    "generate transport",
			op:      persona.Generate,
			err:     errors.New("connection refused"),
			want:    Transport,
			wantMsg: "Could not generate prompts: connection refused",
		},
		{
			name:    "enhance transport",
			op:      persona.Enhance,
			err:     errors.New("connection refused"),
			want:    Transport,
			wantMsg: "Could not enhance prompt: connection refused",
		},
		{
			name: "cancelled",
			err:  context.Canceled,
			want: Transport,
		},
		{
			name:    "already classified",
			err:     NewError(NotConfigured, MsgNotConfigured, nil),
			want:    NotConfigured,
			wantMsg: MsgNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op
			if op == "" {
				op = persona.Generate
			}
			got := Classify(op, tt.err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.want)
			}
			if tt.wantMsg != "" && got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the cause")
			}
		})
	}

	if Classify(persona.Generate, nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(QuotaExceeded, MsgQuota, nil))
	if !IsKind(err, QuotaExceeded) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, Transport) {
		t.Error("IsKind matched the wrong kind")
	}
	if IsKind(nil, Transport) {
		t.Error("IsKind(nil) should be false")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain error) should be empty")
	}
	if !strings.Contains(NewError(Transport, "boom", nil).Error(), "boom") {
		t.Error("Error() should return the message")
	}
}
