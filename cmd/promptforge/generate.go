package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/output"
	"github.com/jackzampolin/promptforge/internal/persona"
	"github.com/jackzampolin/promptforge/internal/svcctx"
)

var (
	generatePersona string
	enhancePersona  string
)

// generateResult is the output of the generate command.
type generateResult struct {
	Idea    string   `json:"idea" yaml:"idea"`
	Persona string   `json:"persona" yaml:"persona"`
	Prompts []string `json:"prompts" yaml:"prompts"`
}

func (r generateResult) Text() string {
	var b strings.Builder
	for i, p := range r.Prompts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

// enhanceResult is the output of the enhance command.
type enhanceResult struct {
	Original string `json:"original" yaml:"original"`
	Persona  string `json:"persona" yaml:"persona"`
	Enhanced string `json:"enhanced" yaml:"enhanced"`
}

func (r enhanceResult) Text() string {
	return r.Enhanced
}

var generateCmd = &cobra.Command{
	Use:   "generate <idea...>",
	Short: "Generate detailed prompts from an idea",
	Long: `Generate a list of detailed prompts from a short idea.

The idea and every generated prompt are recorded in the history.

Examples:
  promptforge generate a login form with social sign-in
  promptforge generate --persona engineer_react "a dashboard sidebar"
  promptforge generate --persona artist_visual -o json "a lighthouse at dusk"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := persona.Parse(generatePersona)
		if err != nil {
			return err
		}
		idea := strings.Join(args, " ")

		return withApp(cmd, func(ctx context.Context) error {
			prompts, err := svcctx.AppFrom(ctx).GeneratePrompts(ctx, idea, p)
			if err != nil {
				return err
			}
			return output.Print(generateResult{Idea: idea, Persona: p.String(), Prompts: prompts})
		})
	},
}

var enhanceCmd = &cobra.Command{
	Use:   "enhance <prompt...>",
	Short: "Rewrite a prompt into a more detailed one",
	Long: `Rewrite an existing prompt into a single, more detailed prompt.

The original prompt is recorded in the history before the request is sent;
the enhanced prompt is recorded once it arrives.

Examples:
  promptforge enhance "a cat in the rain"
  promptforge enhance --persona engineer_react "build a todo list"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := persona.Parse(enhancePersona)
		if err != nil {
			return err
		}
		prompt := strings.Join(args, " ")

		return withApp(cmd, func(ctx context.Context) error {
			enhanced, err := svcctx.AppFrom(ctx).EnhancePrompt(ctx, prompt, p)
			if err != nil {
				return err
			}
			return output.Print(enhanceResult{Original: prompt, Persona: p.String(), Enhanced: enhanced})
		})
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generatePersona, "persona", "p", string(persona.Default),
		"persona: general, engineer_react or artist_visual")
	enhanceCmd.Flags().StringVarP(&enhancePersona, "persona", "p", string(persona.Default),
		"persona: general, engineer_react or artist_visual")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(enhanceCmd)
}
