// Package history keeps the bounded, most-recent-first log of prompts the
// user has submitted and received.
package history

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the interaction a Record logs.
type Kind string

const (
	KindIdea              Kind = "idea"
	KindGenerated         Kind = "generated"
	KindEnhancementSource Kind = "enhancement_source"
	KindEnhanced          Kind = "enhanced"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindIdea, KindGenerated, KindEnhancementSource, KindEnhanced:
		return true
	}
	return false
}

// Record is one logged interaction. Records are immutable once created.
type Record struct {
	ID          string    `json:"id"`
	Prompt      string    `json:"prompt"`
	Kind        Kind      `json:"kind"`
	CreatedAt   time.Time `json:"createdAt"`
	RelatedIdea string    `json:"relatedIdea,omitempty"` // only for KindGenerated
}

// Validate checks a record before it is appended or after it is loaded.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record has no id")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("record %s has unknown kind %q", r.ID, r.Kind)
	}
	if r.Kind != KindGenerated && r.RelatedIdea != "" {
		return fmt.Errorf("record %s of kind %s carries a related idea", r.ID, r.Kind)
	}
	if r.Kind == KindGenerated && strings.TrimSpace(r.RelatedIdea) == "" {
		return fmt.Errorf("generated record %s has no related idea", r.ID)
	}
	return nil
}

// Tab identifies the UI tab a reused record activates.
type Tab string

const (
	TabGenerate Tab = "generate"
	TabEnhance  Tab = "enhance"
)

// Reuse is what to prefill when a past record is reused.
type Reuse struct {
	TargetTab    Tab    `json:"target_tab"`
	IdeaField    string `json:"idea_field"`
	EnhanceField string `json:"enhance_field"`
}

// SelectForReuse maps a record to the fields it prefills. It is pure.
func SelectForReuse(r Record) Reuse {
	switch r.Kind {
	case KindIdea:
		return Reuse{TargetTab: TabGenerate, IdeaField: r.Prompt}
	case KindGenerated:
		return Reuse{TargetTab: TabEnhance, IdeaField: r.RelatedIdea, EnhanceField: r.Prompt}
	default:
		return Reuse{TargetTab: TabEnhance, EnhanceField: r.Prompt}
	}
}
