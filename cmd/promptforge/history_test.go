package main

import (
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/promptforge/internal/history"
)

func TestFindByPrefix(t *testing.T) {
	records := []history.Record{
		{ID: "abc123", Prompt: "one"},
		{ID: "abd456", Prompt: "two"},
	}

	t.Run("unique prefix", func(t *testing.T) {
		r, err := findByPrefix(records, "abc")
		if err != nil {
			t.Fatalf("findByPrefix() error = %v", err)
		}
		if r.Prompt != "one" {
			t.Errorf("Prompt = %q, want one", r.Prompt)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		if _, err := findByPrefix(records, "ab"); err == nil {
			t.Error("expected error for ambiguous prefix")
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := findByPrefix(records, "zz"); err == nil {
			t.Error("expected error for unknown id")
		}
	})
}

func TestOneLine(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a\n  b\tc", 10, "a b c"},
		{"abcdefghijkl", 8, "abcde..."},
	}
	for _, tt := range tests {
		if got := oneLine(tt.in, tt.max); got != tt.want {
			t.Errorf("oneLine(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestHistoryListText(t *testing.T) {
	if got := (historyList{}).Text(); got != "History is empty" {
		t.Errorf("empty Text() = %q", got)
	}

	l := newHistoryList([]history.Record{{
		ID:        "0123456789abcdef",
		Prompt:    "a cat",
		Kind:      history.KindIdea,
		CreatedAt: time.Now(),
	}})
	got := l.Text()
	if !strings.HasPrefix(got, "01234567  idea") {
		t.Errorf("Text() = %q, want short id then kind", got)
	}
	if !strings.Contains(got, "a cat") {
		t.Errorf("Text() = %q, missing prompt", got)
	}
}

func TestGenerateResultText(t *testing.T) {
	r := generateResult{Prompts: []string{"first", "second"}}
	want := "1. first\n\n2. second\n"
	if got := r.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
