package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := t.Context()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok || v != "" {
			t.Errorf("Get() = (%q, %v), want (\"\", false)", v, ok)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := s.Set(ctx, "k", "value-1"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, ok, err := s.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok || v != "value-1" {
			t.Errorf("Get() = (%q, %v), want (value-1, true)", v, ok)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, "k", "value-2"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		v, _, _ := s.Get(ctx, "k")
		if v != "value-2" {
			t.Errorf("Get() = %q, want value-2", v)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, ok, _ := s.Get(ctx, "k"); ok {
			t.Error("key still present after Delete()")
		}
		if err := s.Delete(ctx, "k"); err != nil {
			t.Errorf("Delete() of missing key error = %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_InjectedErrors(t *testing.T) {
	s := NewMemoryStore()
	boom := errors.New("boom")
	s.GetErr = boom
	s.SetErr = boom

	if _, _, err := s.Get(t.Context(), "k"); !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want boom", err)
	}
	if err := s.Set(t.Context(), "k", "v"); !errors.Is(err, boom) {
		t.Errorf("Set() error = %v, want boom", err)
	}
	if err := s.Delete(t.Context(), "k"); !errors.Is(err, boom) {
		t.Errorf("Delete() error = %v, want boom", err)
	}
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "promptforge.db")
	exerciseStore(t, NewBoltStore(path))

	t.Run("persists across instances", func(t *testing.T) {
		first := NewBoltStore(path)
		if err := first.Set(t.Context(), "persist", "yes"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		second := NewBoltStore(path)
		v, ok, err := second.Get(t.Context(), "persist")
		if err != nil || !ok || v != "yes" {
			t.Errorf("Get() = (%q, %v, %v), want (yes, true, nil)", v, ok, err)
		}
	})
}

func TestBoltStore_CancelledContext(t *testing.T) {
	s := NewBoltStore(filepath.Join(t.TempDir(), "db"))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if err := s.Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	s := NewRedisStore(RedisConfig{Addr: mr.Addr(), Prefix: "test"})
	defer s.Close()

	if err := s.WaitReady(t.Context(), time.Second); err != nil {
		t.Fatalf("WaitReady() error = %v", err)
	}

	exerciseStore(t, s)

	t.Run("namespaced keys", func(t *testing.T) {
		if err := s.Set(t.Context(), "ns", "v"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := mr.Get("test:ns")
		if err != nil {
			t.Fatalf("miniredis Get() error = %v", err)
		}
		if got != "v" {
			t.Errorf("raw value = %q, want v", got)
		}
	})
}

func TestRedisStore_WaitReadyFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	s := NewRedisStore(RedisConfig{Addr: addr})
	defer s.Close()

	if err := s.WaitReady(t.Context(), 300*time.Millisecond); err == nil {
		t.Error("WaitReady() error = nil, want error for closed server")
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := Open(t.Context(), Config{Backend: BackendMemory})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("Open() returned %T, want *MemoryStore", s)
		}
	})

	t.Run("bolt requires path", func(t *testing.T) {
		if _, err := Open(t.Context(), Config{Backend: BackendBolt}); err == nil {
			t.Error("Open() error = nil, want error for missing path")
		}
	})

	t.Run("bolt", func(t *testing.T) {
		s, err := Open(t.Context(), Config{Backend: BackendBolt, Path: filepath.Join(t.TempDir(), "db")})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, ok := s.(*BoltStore); !ok {
			t.Errorf("Open() returned %T, want *BoltStore", s)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := Open(t.Context(), Config{Backend: BackendRedis, RedisAddr: mr.Addr(), ReadyTimeout: time.Second})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()
		if _, ok := s.(*RedisStore); !ok {
			t.Errorf("Open() returned %T, want *RedisStore", s)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(t.Context(), Config{Backend: "floppy"})
		if !errors.Is(err, ErrUnknownBackend) {
			t.Errorf("Open() error = %v, want ErrUnknownBackend", err)
		}
	})
}
