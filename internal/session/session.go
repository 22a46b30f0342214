// Package session owns the connection handle to the remote generation
// service. The handle is derived from the current credential and the
// provider configuration; no other package constructs one.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackzampolin/promptforge/internal/providers"
)

// State is the session state.
type State string

const (
	StateUnready State = "unready"
	StateReady   State = "ready"
)

// Factory builds a Generator. providers.NewClient in production.
type Factory func(ctx context.Context, cfg providers.ClientConfig) (providers.Generator, error)

// Config configures a Session.
type Config struct {
	// Provider is the client configuration without the API key.
	Provider providers.ClientConfig
	Factory  Factory
	Logger   *slog.Logger
}

// Session is a two-state machine: Unready (no handle) or Ready (handle bound
// to one credential value).
type Session struct {
	mu         sync.RWMutex
	provider   providers.ClientConfig
	credential string
	client     providers.Generator
	factory    Factory
	logger     *slog.Logger
}

// New creates an Unready session.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	factory := cfg.Factory
	if factory == nil {
		factory = providers.NewClient
	}
	provider := cfg.Provider
	provider.APIKey = ""
	return &Session{
		provider: provider,
		factory:  factory,
		logger:   logger,
	}
}

// Rebind re-derives the handle from credential. An empty credential or a
// construction failure leaves the session Unready and releases any prior
// handle. Returns whether the session is Ready afterwards.
func (s *Session) Rebind(ctx context.Context, credential string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = strings.TrimSpace(credential)
	return s.rebuildLocked(ctx)
}

// Reconfigure replaces the provider configuration and re-derives the handle
// from the current credential. The handle is kept when nothing relevant
// changed.
func (s *Session) Reconfigure(ctx context.Context, provider providers.ClientConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	provider.APIKey = ""
	s.provider = provider

	if s.client != nil && !providers.NeedsUpdate(s.client, s.clientConfigLocked()) {
		return true
	}
	return s.rebuildLocked(ctx)
}

func (s *Session) clientConfigLocked() providers.ClientConfig {
	cfg := s.provider
	cfg.APIKey = s.credential
	return cfg
}

func (s *Session) rebuildLocked(ctx context.Context) bool {
	s.client = nil
	if s.credential == "" {
		s.logger.Debug("session unready", "reason", "no credential")
		return false
	}

	client, err := s.factory(ctx, s.clientConfigLocked())
	if err != nil {
		s.logger.Warn("failed to create generation client", "error", err)
		return false
	}
	s.client = client
	s.logger.Debug("session ready", "provider", client.Name())
	return true
}

// IsReady reports whether a usable handle exists.
func (s *Session) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client != nil
}

// State returns the current state.
func (s *Session) State() State {
	if s.IsReady() {
		return StateReady
	}
	return StateUnready
}

// Generator returns the current handle. ok is false when Unready.
func (s *Session) Generator() (providers.Generator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client, s.client != nil
}

// Model returns the configured model identifier (may be empty).
func (s *Session) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider.Model
}

// Close releases the handle.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = nil
	s.credential = ""
}
