package persona

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// MIMEJSON is the response type requested for generate.
const MIMEJSON = "application/json"

// Sampling holds the generation parameters sent with a request.
type Sampling struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	TopK             int     `json:"top_k"`
	ResponseMIMEType string  `json:"response_mime_type,omitempty"`
}

// Instruction is the system-level instruction and its sampling parameters.
type Instruction struct {
	Key      string   `json:"key"`  // e.g. "persona.generate.general"
	Text     string   `json:"text"`
	Hash     string   `json:"hash"` // SHA256 of Text, for log correlation
	Sampling Sampling `json:"sampling"`
}

// strategy maps one persona to its templates and generate temperature.
type strategy struct {
	generateTemplate    string
	enhanceTemplate     string
	generateTemperature float64
}

var strategies = map[Persona]strategy{
	General: {
		generateTemplate:    "generate_general",
		enhanceTemplate:     "enhance_general",
		generateTemperature: 0.8,
	},
	EngineerReact: {
		generateTemplate:    "generate_engineer_react",
		enhanceTemplate:     "enhance_engineer_react",
		generateTemperature: 0.8,
	},
	ArtistVisual: {
		generateTemplate:    "generate_artist_visual",
		enhanceTemplate:     "enhance_artist_visual",
		generateTemperature: 0.9,
	},
}

// Enhance sampling does not depend on persona.
var enhanceSampling = Sampling{Temperature: 0.7, TopP: 0.9, TopK: 50}

// BuildInstruction returns the instruction for op and p. Unknown personas
// fall back to General.
func BuildInstruction(op Operation, p Persona) (Instruction, error) {
	s, ok := strategies[p]
	if !ok {
		p = General
		s = strategies[General]
	}

	var name string
	var sampling Sampling
	switch op {
	case Generate:
		name = s.generateTemplate
		sampling = Sampling{
			Temperature:      s.generateTemperature,
			TopP:             0.95,
			TopK:             40,
			ResponseMIMEType: MIMEJSON,
		}
	case Enhance:
		name = s.enhanceTemplate
		sampling = enhanceSampling
	default:
		return Instruction{}, fmt.Errorf("unknown operation %q", op)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, nil); err != nil {
		return Instruction{}, fmt.Errorf("failed to render %s: %w", name, err)
	}
	text := buf.String()

	return Instruction{
		Key:      fmt.Sprintf("persona.%s.%s", op, p),
		Text:     text,
		Hash:     hashText(text),
		Sampling: sampling,
	}, nil
}

func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
