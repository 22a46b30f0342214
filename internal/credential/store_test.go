package credential

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jackzampolin/promptforge/internal/storage"
)

func TestStore_Set(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		present bool
	}{
		{"plain key", "AIzaKey123", "AIzaKey123", true},
		{"surrounding whitespace trimmed", "  AIzaKey123\n\t", "AIzaKey123", true},
		{"empty clears", "", "", false},
		{"whitespace only clears", "   \t\n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryStore()
			s := NewStore(kv, nil)

			// Start configured so clearing is observable.
			s.Set(t.Context(), "previous-key")

			if got := s.Set(t.Context(), tt.raw); got != tt.present {
				t.Errorf("Set() = %v, want %v", got, tt.present)
			}
			value, ok := s.Current()
			if value != tt.want || ok != tt.present {
				t.Errorf("Current() = (%q, %v), want (%q, %v)", value, ok, tt.want, tt.present)
			}

			stored, found, _ := kv.Get(t.Context(), StorageKey)
			if found != tt.present {
				t.Errorf("stored presence = %v, want %v", found, tt.present)
			}
			if tt.present && stored != tt.want {
				t.Errorf("stored value = %q, want %q", stored, tt.want)
			}
		})
	}
}

func TestStore_Load(t *testing.T) {
	t.Run("reads persisted key", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		_ = kv.Set(t.Context(), StorageKey, "stored-key")

		s := NewStore(kv, nil)
		value, ok := s.Load(t.Context(), "")
		if !ok || value != "stored-key" {
			t.Errorf("Load() = (%q, %v), want (stored-key, true)", value, ok)
		}
	})

	t.Run("absent when nothing stored", func(t *testing.T) {
		s := NewStore(storage.NewMemoryStore(), nil)
		if value, ok := s.Load(t.Context(), ""); ok || value != "" {
			t.Errorf("Load() = (%q, %v), want absent", value, ok)
		}
	})

	t.Run("read failure degrades to absent", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		kv.GetErr = errors.New("disk on fire")

		s := NewStore(kv, nil)
		if _, ok := s.Load(t.Context(), ""); ok {
			t.Error("Load() reported present after read failure")
		}
	})

	t.Run("fallback used but not persisted", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		s := NewStore(kv, nil)

		value, ok := s.Load(t.Context(), "  env-key ")
		if !ok || value != "env-key" {
			t.Errorf("Load() = (%q, %v), want (env-key, true)", value, ok)
		}
		if kv.Len() != 0 {
			t.Error("fallback key was persisted")
		}
	})

	t.Run("stored key wins over fallback", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		_ = kv.Set(t.Context(), StorageKey, "stored-key")

		s := NewStore(kv, nil)
		if value, _ := s.Load(t.Context(), "env-key"); value != "stored-key" {
			t.Errorf("Load() = %q, want stored-key", value)
		}
	})
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	kv := storage.NewMemoryStore()
	kv.SetErr = errors.New("read-only")

	s := NewStore(kv, nil)
	if !s.Set(t.Context(), "new-key") {
		t.Fatal("Set() = false, want true")
	}
	if value, ok := s.Current(); !ok || value != "new-key" {
		t.Errorf("Current() = (%q, %v), want (new-key, true)", value, ok)
	}
}

func TestStore_OnChange(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), nil)

	var seen []string
	s.OnChange(func(value string) { seen = append(seen, value) })

	s.Load(t.Context(), "")
	s.Set(t.Context(), " a ")
	s.Set(t.Context(), "")

	want := []string{"", "a", ""}
	if strings.Join(seen, ",") != strings.Join(want, ",") || len(seen) != len(want) {
		t.Errorf("callbacks saw %q, want %q", seen, want)
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "*****"},
		{"AIzaSyABCDEFGH1234", "AIza**********1234"},
		{"ключ", "****"},
		{"éééé12345678ßßßß", "éééé********ßßßß"},
	}
	for _, tt := range tests {
		got := Mask(tt.in)
		if got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Mask(%q) = %q is not valid UTF-8", tt.in, got)
		}
	}
}
