package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/history"
	"github.com/jackzampolin/promptforge/internal/output"
	"github.com/jackzampolin/promptforge/internal/svcctx"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the interaction history",
	Long: `Inspect the interaction history.

The most recent interactions (at most 20, see history.max_items) are kept,
newest first. Repeating the newest entry does not add a new one.

Examples:
  promptforge history list
  promptforge history reuse <id>   # Show what reusing an entry prefills
  promptforge history clear`,
}

// historyEntry is one row of history list.
type historyEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Prompt      string    `json:"prompt" yaml:"prompt"`
	RelatedIdea string    `json:"related_idea,omitempty" yaml:"related_idea,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

type historyList []historyEntry

func (l historyList) Text() string {
	if len(l) == 0 {
		return "History is empty"
	}
	var b strings.Builder
	for _, e := range l {
		fmt.Fprintf(&b, "%s  %-18s  %s  %s\n", shortID(e.ID), e.Kind,
			e.CreatedAt.Local().Format("2006-01-02 15:04"), oneLine(e.Prompt, 80))
	}
	return b.String()
}

func newHistoryList(records []history.Record) historyList {
	l := make(historyList, 0, len(records))
	for _, r := range records {
		l = append(l, historyEntry{
			ID:          r.ID,
			Kind:        string(r.Kind),
			Prompt:      r.Prompt,
			RelatedIdea: r.RelatedIdea,
			CreatedAt:   r.CreatedAt,
		})
	}
	return l
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// oneLine flattens s and cuts it to max runes.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// reuseResult is the output of history reuse.
type reuseResult struct {
	history.Reuse `yaml:",inline"`
}

func (r reuseResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tab: %s", r.TargetTab)
	if r.IdeaField != "" {
		fmt.Fprintf(&b, "\nIdea: %s", r.IdeaField)
	}
	if r.EnhanceField != "" {
		fmt.Fprintf(&b, "\nPrompt: %s", r.EnhanceField)
	}
	return b.String()
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			return output.Print(newHistoryList(svcctx.AppFrom(ctx).HistorySnapshot()))
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			svcctx.AppFrom(ctx).ClearHistory(ctx)
			fmt.Println("History cleared")
			return nil
		})
	},
}

var historyReuseCmd = &cobra.Command{
	Use:   "reuse <id>",
	Short: "Show the fields a history entry prefills",
	Long: `Show the fields a history entry prefills.

An idea goes back to the generate tab. A generated prompt goes to the
enhance tab together with the idea it came from. Enhancement sources and
enhanced prompts go to the enhance tab.

The id may be the full id or a unique prefix of it (as shown by list).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			a := svcctx.AppFrom(ctx)
			r, ok := a.FindHistory(args[0])
			if !ok {
				var err error
				if r, err = findByPrefix(a.HistorySnapshot(), args[0]); err != nil {
					return err
				}
			}
			return output.Print(reuseResult{a.SelectForReuse(r)})
		})
	},
}

// findByPrefix returns the single record whose id starts with prefix.
func findByPrefix(records []history.Record, id string) (history.Record, error) {
	var match []history.Record
	for _, r := range records {
		if strings.HasPrefix(r.ID, id) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return history.Record{}, fmt.Errorf("no history entry with id %q", id)
	case 1:
		return match[0], nil
	default:
		return history.Record{}, fmt.Errorf("id prefix %q matches %d entries", id, len(match))
	}
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyReuseCmd)

	rootCmd.AddCommand(historyCmd)
}
