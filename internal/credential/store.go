// Package credential owns the lifecycle of the API key: load at startup,
// persist on change, and notify listeners so the client session can be
// re-derived.
package credential

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackzampolin/promptforge/internal/storage"
)

// StorageKey is the durable storage key holding the raw API key.
const StorageKey = "geminiApiKey_v1"

// Store holds at most one credential process-wide.
// No operation returns an error: storage failures are logged and the
// credential is treated as absent on read.
type Store struct {
	mu        sync.RWMutex
	kv        storage.Store
	logger    *slog.Logger
	value     string
	callbacks []func(value string)
}

// NewStore creates an empty store backed by kv.
func NewStore(kv storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// OnChange registers fn to be called with the new value after every Load and
// Set. An empty value means the credential is absent.
func (s *Store) OnChange(fn func(value string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Load reads the credential from durable storage.
// If storage holds none (or cannot be read), fallback is used as an
// in-memory-only credential; it is never persisted.
func (s *Store) Load(ctx context.Context, fallback string) (string, bool) {
	value, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("could not read API key from storage", "error", err)
		value, ok = "", false
	}
	value = strings.TrimSpace(value)

	if !ok || value == "" {
		value = strings.TrimSpace(fallback)
		if value != "" {
			s.logger.Info("using fallback API key from configuration")
		}
	}

	s.apply(value)
	return value, value != ""
}

// Set trims raw; an empty result clears the stored credential, anything else
// is persisted. Listeners are notified in both cases.
func (s *Store) Set(ctx context.Context, raw string) bool {
	value := strings.TrimSpace(raw)

	if value == "" {
		if err := s.kv.Delete(ctx, StorageKey); err != nil {
			s.logger.Warn("could not remove API key from storage", "error", err)
		}
	} else {
		if err := s.kv.Set(ctx, StorageKey, value); err != nil {
			s.logger.Warn("could not save API key to storage", "error", err)
		}
	}

	s.apply(value)
	return value != ""
}

// Current returns the in-memory credential.
func (s *Store) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.value != ""
}

func (s *Store) apply(value string) {
	s.mu.Lock()
	s.value = value
	callbacks := make([]func(string), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	if value == "" {
		s.logger.Debug("API key absent")
	} else {
		s.logger.Debug("API key present", "key", Mask(value))
	}

	for _, fn := range callbacks {
		fn(value)
	}
}

// Mask returns a display form of key that keeps only the first and last four
// characters (runes). Short keys are fully masked.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 8 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:4]) + strings.Repeat("*", len(r)-8) + string(r[len(r)-4:])
}
