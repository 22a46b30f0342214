package prompter

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "json fence", in: "```json\n[\"a\",\"b\"]\n```", want: `["a","b"]`},
		{name: "bare fence", in: "```\n[\"a\"]\n```", want: `["a"]`},
		{name: "single line fence", in: "```[\"a\"]```", want: `["a"]`},
		{name: "surrounding whitespace", in: "  \n```json\n  [\"a\"]  \n```\n ", want: `["a"]`},
		{name: "no fence", in: `  ["a"]  `, want: `["a"]`},
		{name: "fence not wrapping whole text", in: "Here:\n```json\n[\"a\"]\n```", want: "Here:\n```json\n[\"a\"]\n```"},
		{name: "empty fence", in: "```json\n```", want: "```json\n```"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePromptList(t *testing.T) {
	t.Run("fenced array", func(t *testing.T) {
		got, err := parsePromptList("```json\n[\"a\",\"b\"]\n```")
		if err != nil {
			t.Fatalf("parsePromptList() error = %v", err)
		}
		if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		got, err := parsePromptList("[]")
		if err != nil {
			t.Fatalf("parsePromptList() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %v, want empty", got)
		}
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parsePromptList("Sure! Here are some prompts")
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("err = %v, want *json.SyntaxError", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := parsePromptList("   ")
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("err = %v, want *json.SyntaxError", err)
		}
	})

	shapeCases := map[string]string{
		"object":        `{"not": "an array"}`,
		"mixed array":   `["a", 1]`,
		"nested array":  `[["a"]]`,
		"string":        `"a"`,
		"null":          `null`,
		"array of null": `[null]`,
	}
	for name, in := range shapeCases {
		t.Run(name, func(t *testing.T) {
			_, err := parsePromptList(in)
			if !errors.Is(err, errNotPromptList) {
				t.Errorf("err = %v, want errNotPromptList", err)
			}
		})
	}
}
