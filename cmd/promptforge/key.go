package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/credential"
	"github.com/jackzampolin/promptforge/internal/output"
	"github.com/jackzampolin/promptforge/internal/svcctx"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API key",
	Long: `Manage the API key used for the generation service.

The key is saved in local storage. When no key is saved, the value of
provider.fallback_api_key (default: ${API_KEY}) is used without saving it.

Examples:
  promptforge key set AIza...   # Save a key
  promptforge key show          # Print the masked key
  promptforge key status        # Check whether generation is available
  promptforge key clear         # Remove the saved key`,
}

// keyStatus is the result of key show/status.
type keyStatus struct {
	Configured bool   `json:"configured" yaml:"configured"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
}

func (s keyStatus) Text() string {
	if !s.Configured {
		return "No API key configured (use 'promptforge key set <key>')"
	}
	var b strings.Builder
	b.WriteString("Configured: yes")
	if s.Key != "" {
		fmt.Fprintf(&b, "\nKey: %s", s.Key)
	}
	if s.Model != "" {
		fmt.Fprintf(&b, "\nModel: %s", s.Model)
	}
	return b.String()
}

// keySetMessage reports the outcome of key set. A saved key can still leave
// generation unavailable when the client cannot be built from it.
func keySetMessage(saved, configured bool) string {
	switch {
	case !saved:
		return "API key cleared (blank key given)"
	case !configured:
		return "API key saved, but the generation client could not be created (see log output)"
	default:
		return "API key saved"
	}
}

var keySetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Save the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			a := svcctx.AppFrom(ctx)
			configured := a.SetCredential(ctx, args[0])
			_, saved := a.CurrentCredential()
			fmt.Println(keySetMessage(saved, configured))
			return nil
		})
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			svcctx.AppFrom(ctx).SetCredential(ctx, "")
			fmt.Println("API key cleared")
			return nil
		})
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the masked API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			key, ok := svcctx.AppFrom(ctx).CurrentCredential()
			return output.Print(keyStatus{Configured: ok, Key: credential.Mask(key)})
		})
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether generation is available",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context) error {
			a := svcctx.AppFrom(ctx)
			s := keyStatus{Configured: a.IsConfigured()}
			if s.Configured {
				s.Model = a.Model()
			}
			return output.Print(s)
		})
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyStatusCmd)

	rootCmd.AddCommand(keyCmd)
}
