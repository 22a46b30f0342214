// Package output renders CLI results as yaml, json or plain text.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Default is the default output format.
var Default Format = FormatText

// global is set by the root command's --output flag.
var global = Default

// Texter is implemented by results with a human-oriented text form.
type Texter interface {
	Text() string
}

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return Default, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, yaml, json)", s)
	}
}

// SetFormat sets the global output format.
func SetFormat(f Format) {
	global = f
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	return global
}

// IsStructured returns true if the output format is JSON or YAML.
func IsStructured() bool {
	return global == FormatJSON || global == FormatYAML
}

// Print writes data to stdout in the configured format.
func Print(data any) error {
	return To(os.Stdout, global, data)
}

// To writes data to the given writer in the specified format.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatText:
		return writeText(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeText(w io.Writer, data any) error {
	var text string
	switch v := data.(type) {
	case Texter:
		text = v.Text()
	case string:
		text = v
	case []string:
		text = strings.Join(v, "\n")
	case fmt.Stringer:
		text = v.String()
	default:
		// No text form: fall back to yaml.
		return To(w, FormatYAML, data)
	}
	if text == "" {
		return nil
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
