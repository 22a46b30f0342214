package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-promptforge")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-promptforge" {
			t.Errorf("expected path /tmp/test-promptforge, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-promptforge")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"DataPath", dir.DataPath(), "/tmp/test-promptforge/data"},
		{"DBPath", dir.DBPath(), "/tmp/test-promptforge/data/promptforge.db"},
		{"ConfigPath", dir.ConfigPath(), "/tmp/test-promptforge/config.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pf")
	dir, _ := New(root)

	if dir.Exists() {
		t.Fatal("directory should not exist yet")
	}
	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	if !dir.Exists() {
		t.Error("home directory should exist")
	}
	if info, err := os.Stat(dir.DataPath()); err != nil || !info.IsDir() {
		t.Errorf("data directory missing: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("config should not exist yet")
	}

	if err := os.WriteFile(dir.ConfigPath(), []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if !dir.ConfigExists() {
		t.Error("ConfigExists() = false after writing config")
	}
}
