// Package storage provides the durable string key-value store that backs the
// credential and the interaction history.
//
// Three backends are available:
//   - bolt: a single bbolt file under the home directory (default)
//   - redis: a Redis server, optionally managed through Docker (see RedisContainer)
//   - memory: process-local, lost on exit (tests and dry runs)
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is a string key-value store.
// A missing key is reported with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// bolt
	Path string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	ReadyTimeout  time.Duration

	Logger *slog.Logger
}

// Open creates the configured backend.
// For redis it blocks until the server answers PING or ReadyTimeout elapses.
func Open(ctx context.Context, cfg Config) (Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendBolt, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("bolt backend requires a path")
		}
		return NewBoltStore(cfg.Path), nil
	case BackendRedis:
		s := NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		timeout := cfg.ReadyTimeout
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		if err := s.WaitReady(ctx, timeout); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("redis not reachable at %s: %w", cfg.RedisAddr, err)
		}
		logger.Debug("redis storage ready", "addr", cfg.RedisAddr)
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
