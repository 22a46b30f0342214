// Package app composes the credential store, client session, executors and
// history ledger into one application-state object. It is the only surface
// the CLI (or any other front end) calls.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackzampolin/promptforge/internal/credential"
	"github.com/jackzampolin/promptforge/internal/history"
	"github.com/jackzampolin/promptforge/internal/persona"
	"github.com/jackzampolin/promptforge/internal/prompter"
	"github.com/jackzampolin/promptforge/internal/providers"
	"github.com/jackzampolin/promptforge/internal/session"
	"github.com/jackzampolin/promptforge/internal/storage"
)

// Config configures an App.
type Config struct {
	// Store is the durable key-value store. The App closes it on Close.
	Store storage.Store

	// Provider selects and configures the generation client.
	Provider providers.ClientConfig

	// FallbackAPIKey is used in memory when storage holds no key.
	FallbackAPIKey string

	HistoryMaxItems int

	// Factory overrides client construction (tests).
	Factory session.Factory

	Logger *slog.Logger
}

// App is the explicit application state. Construct one per process (or per
// test) and Close it when done.
type App struct {
	kv          storage.Store
	credentials *credential.Store
	session     *session.Session
	executor    *prompter.Executor
	history     *history.Ledger
	logger      *slog.Logger
}

// New builds an App and loads the persisted credential and history.
func New(ctx context.Context, cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	kv := cfg.Store
	if kv == nil {
		kv = storage.NewMemoryStore()
	}

	sess := session.New(session.Config{
		Provider: cfg.Provider,
		Factory:  cfg.Factory,
		Logger:   logger.With("component", "session"),
	})

	a := &App{
		kv:          kv,
		credentials: credential.NewStore(kv, logger.With("component", "credential")),
		session:     sess,
		executor:    prompter.NewExecutor(sess, logger.With("component", "prompter")),
		history: history.New(history.Config{
			Store:    kv,
			MaxItems: cfg.HistoryMaxItems,
			Logger:   logger.With("component", "history"),
		}),
		logger: logger,
	}

	// Every credential change re-derives the session handle.
	rebindCtx := context.WithoutCancel(ctx)
	a.credentials.OnChange(func(value string) {
		a.session.Rebind(rebindCtx, value)
	})

	a.credentials.Load(ctx, cfg.FallbackAPIKey)
	a.history.Load(ctx)

	logger.Debug("app initialized",
		"configured", a.IsConfigured(),
		"history", a.history.Len())
	return a
}

// IsConfigured reports whether a usable session exists.
func (a *App) IsConfigured() bool {
	return a.session.IsReady()
}

// SetCredential stores raw (trimmed) or clears the credential when blank.
// Returns whether the app is configured afterwards.
func (a *App) SetCredential(ctx context.Context, raw string) bool {
	a.credentials.Set(ctx, raw)
	return a.IsConfigured()
}

// CurrentCredential returns the in-memory credential.
func (a *App) CurrentCredential() (string, bool) {
	return a.credentials.Current()
}

// Model returns the configured model identifier (may be empty).
func (a *App) Model() string {
	return a.session.Model()
}

// Reconfigure swaps the provider configuration, keeping the credential.
func (a *App) Reconfigure(ctx context.Context, provider providers.ClientConfig) bool {
	return a.session.Reconfigure(ctx, provider)
}

// GeneratePrompts validates idea, runs the generate executor and records
// the idea followed by each generated prompt.
func (a *App) GeneratePrompts(ctx context.Context, idea string, p persona.Persona) ([]string, error) {
	if !a.IsConfigured() {
		return nil, prompter.NewError(prompter.NotConfigured, prompter.MsgNotConfigured, nil)
	}
	if strings.TrimSpace(idea) == "" {
		return nil, prompter.NewError(prompter.InvalidInput, prompter.MsgBlankIdea, nil)
	}

	prompts, err := a.executor.GeneratePrompts(ctx, idea, p)
	if err != nil {
		a.logger.Info("generate failed", "persona", p, "kind", prompter.KindOf(err))
		return nil, err
	}

	a.history.Append(ctx, idea, history.KindIdea, "")
	for _, prompt := range prompts {
		a.history.Append(ctx, prompt, history.KindGenerated, idea)
	}
	return prompts, nil
}

// EnhancePrompt validates prompt, records it as an enhancement source, runs
// the enhance executor and records the result.
func (a *App) EnhancePrompt(ctx context.Context, prompt string, p persona.Persona) (string, error) {
	if !a.IsConfigured() {
		return "", prompter.NewError(prompter.NotConfigured, prompter.MsgNotConfigured, nil)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", prompter.NewError(prompter.InvalidInput, prompter.MsgBlankPrompt, nil)
	}

	a.history.Append(ctx, prompt, history.KindEnhancementSource, "")

	enhanced, err := a.executor.EnhancePrompt(ctx, prompt, p)
	if err != nil {
		a.logger.Info("enhance failed", "persona", p, "kind", prompter.KindOf(err))
		return "", err
	}

	a.history.Append(ctx, enhanced, history.KindEnhanced, "")
	return enhanced, nil
}

// HistorySnapshot returns the history, most recent first.
func (a *App) HistorySnapshot() []history.Record {
	return a.history.Snapshot()
}

// AppendHistory records an interaction directly.
func (a *App) AppendHistory(ctx context.Context, prompt string, kind history.Kind, relatedIdea string) (history.Record, bool) {
	return a.history.Append(ctx, prompt, kind, relatedIdea)
}

// ClearHistory empties the history.
func (a *App) ClearHistory(ctx context.Context) {
	a.history.Clear(ctx)
}

// SelectForReuse maps a record to the fields it prefills.
func (a *App) SelectForReuse(r history.Record) history.Reuse {
	return history.SelectForReuse(r)
}

// FindHistory returns the record with id.
func (a *App) FindHistory(id string) (history.Record, bool) {
	return a.history.Find(id)
}

// Close releases the session and the store.
func (a *App) Close() error {
	a.session.Close()
	return a.kv.Close()
}
