// Package persona builds the system instruction and sampling parameters sent
// to the generation service. Instruction text lives in embedded .tmpl files;
// BuildInstruction is pure and deterministic.
package persona

import (
	"fmt"
	"strings"
)

// Persona is a named framing that changes instruction wording and sampling.
type Persona string

const (
	General       Persona = "general"
	EngineerReact Persona = "engineer_react"
	ArtistVisual  Persona = "artist_visual"
)

// Default is used when no persona is selected.
const Default = General

// All returns every known persona in display order.
func All() []Persona {
	return []Persona{General, EngineerReact, ArtistVisual}
}

// Parse converts a tag into a Persona. Empty input yields Default.
func Parse(s string) (Persona, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Default, nil
	}
	p := Persona(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown persona %q (valid: general, engineer_react, artist_visual)", s)
	}
	return p, nil
}

// Valid reports whether p is a known persona.
func (p Persona) Valid() bool {
	_, ok := strategies[p]
	return ok
}

func (p Persona) String() string {
	return string(p)
}

// Label returns a human-readable name.
func (p Persona) Label() string {
	switch p {
	case EngineerReact:
		return "Senior Frontend Engineer (React)"
	case ArtistVisual:
		return "Visual Artist"
	default:
		return "General Purpose"
	}
}

// Operation selects which executor the instruction is for.
type Operation string

const (
	Generate Operation = "generate"
	Enhance  Operation = "enhance"
)

// ParseOperation converts a string into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(strings.TrimSpace(strings.ToLower(s))); op {
	case Generate, Enhance:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q (valid: generate, enhance)", s)
	}
}
