package output

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type textSample struct{ sample }

func (s textSample) Text() string { return "name=" + s.Name }

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     Default,
		"text": FormatText,
		"YAML": FormatYAML,
		"json": FormatJSON,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestTo(t *testing.T) {
	data := sample{Name: "fox", Count: 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := To(&buf, FormatJSON, data); err != nil {
			t.Fatalf("To() error = %v", err)
		}
		if !strings.Contains(buf.String(), `"name": "fox"`) {
			t.Errorf("unexpected json: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := To(&buf, FormatYAML, data); err != nil {
			t.Fatalf("To() error = %v", err)
		}
		if !strings.Contains(buf.String(), "name: fox") {
			t.Errorf("unexpected yaml: %s", buf.String())
		}
	})

	t.Run("text uses Texter", func(t *testing.T) {
		var buf bytes.Buffer
		if err := To(&buf, FormatText, textSample{data}); err != nil {
			t.Fatalf("To() error = %v", err)
		}
		if buf.String() != "name=fox\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("text joins string slices", func(t *testing.T) {
		var buf bytes.Buffer
		if err := To(&buf, FormatText, []string{"a", "b"}); err != nil {
			t.Fatalf("To() error = %v", err)
		}
		if buf.String() != "a\nb\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("text falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := To(&buf, FormatText, data); err != nil {
			t.Fatalf("To() error = %v", err)
		}
		if !strings.Contains(buf.String(), "count: 2") {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := To(&bytes.Buffer{}, Format("xml"), data); err == nil {
			t.Error("expected error")
		}
	})
}
