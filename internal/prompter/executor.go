// Package prompter runs the two requests against the generation service:
// generating candidate prompts from an idea and enhancing an existing
// prompt. Executors translate every failure into an *Error and never touch
// history or storage.
package prompter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/promptforge/internal/persona"
	"github.com/jackzampolin/promptforge/internal/providers"
)

// Session supplies the current generation client.
type Session interface {
	Generator() (providers.Generator, bool)
	Model() string
}

// Executor issues one outbound request per call.
type Executor struct {
	session Session
	logger  *slog.Logger
}

// NewExecutor creates an executor bound to session.
func NewExecutor(session Session, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{session: session, logger: logger}
}

// GeneratePrompts asks the service for 3-5 prompts derived from idea and
// returns them in the order given. Blank ideas are not rejected here.
func (e *Executor) GeneratePrompts(ctx context.Context, idea string, p persona.Persona) ([]string, error) {
	gen, ok := e.session.Generator()
	if !ok {
		return nil, NewError(NotConfigured, MsgNotConfigured, nil)
	}

	inst, err := persona.BuildInstruction(persona.Generate, p)
	if err != nil {
		return nil, Classify(persona.Generate, err)
	}

	result, err := e.call(ctx, gen, inst, ideaContent(idea))
	if err != nil {
		return nil, Classify(persona.Generate, err)
	}

	prompts, err := parsePromptList(result.Text)
	if err != nil {
		e.logger.Warn("unexpected generate response",
			"request_id", result.RequestID,
			"error", err,
			"response_len", len(result.Text))
		return nil, Classify(persona.Generate, err)
	}
	return prompts, nil
}

// EnhancePrompt asks the service to rewrite prompt and returns the trimmed
// plain-text result.
func (e *Executor) EnhancePrompt(ctx context.Context, prompt string, p persona.Persona) (string, error) {
	gen, ok := e.session.Generator()
	if !ok {
		return "", NewError(NotConfigured, MsgNotConfigured, nil)
	}

	inst, err := persona.BuildInstruction(persona.Enhance, p)
	if err != nil {
		return "", Classify(persona.Enhance, err)
	}

	result, err := e.call(ctx, gen, inst, prompt)
	if err != nil {
		return "", Classify(persona.Enhance, err)
	}
	return strings.TrimSpace(result.Text), nil
}

// ideaContent frames the idea as the user turn of a generate request.
func ideaContent(idea string) string {
	return `User's core idea: "` + idea + `"`
}

func (e *Executor) call(ctx context.Context, gen providers.Generator, inst persona.Instruction, userContent string) (*providers.GenerateResult, error) {
	req := &providers.GenerateRequest{
		Model:             e.session.Model(),
		SystemInstruction: inst.Text,
		UserContent:       userContent,
		ResponseMIMEType:  inst.Sampling.ResponseMIMEType,
		Temperature:       inst.Sampling.Temperature,
		TopP:              inst.Sampling.TopP,
		TopK:              inst.Sampling.TopK,
		RequestID:         uuid.New().String(),
	}

	start := time.Now()
	result, err := gen.Generate(ctx, req)
	if err != nil {
		e.logger.Warn("generation request failed",
			"provider", gen.Name(),
			"instruction", inst.Key,
			"request_id", req.RequestID,
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}

	e.logger.Debug("generation request completed",
		"provider", result.Provider,
		"model", result.ModelUsed,
		"instruction", inst.Key,
		"instruction_hash", inst.Hash[:12],
		"request_id", result.RequestID,
		"tokens", result.TotalTokens,
		"duration", time.Since(start))
	return result, nil
}
