package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/config"
	"github.com/jackzampolin/promptforge/internal/output"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the promptforge configuration file.

Settings are read from --config, ./config.yaml or ~/.promptforge/config.yaml,
and can be overridden with PROMPTFORGE_* environment variables
(e.g. PROMPTFORGE_PROVIDER_MODEL, PROMPTFORGE_STORAGE_BACKEND).`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			path = h.ConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Config written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := getConfig(h)
		if err != nil {
			return err
		}

		// Text output has no special form here; yaml reads best.
		if output.GetFormat() == output.FormatText {
			return output.To(os.Stdout, output.FormatYAML, cm.Get())
		}
		return output.Print(cm.Get())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Long: `Print one configuration value.

Keys use dotted paths, e.g. provider.model or storage.redis.addr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := getConfig(h)
		if err != nil {
			return err
		}

		v, err := cm.Value(args[0])
		if err != nil {
			return err
		}
		if output.IsStructured() {
			return output.Print(map[string]any{args[0]: v})
		}
		fmt.Println(v)
		return nil
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List every setting with its default and description",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := config.DefaultEntries()
		if output.IsStructured() {
			return output.Print(entries)
		}
		for _, e := range entries {
			fmt.Printf("%-30s %-28v %s\n", e.Key, e.Value, e.Description)
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDefaultsCmd)

	rootCmd.AddCommand(configCmd)
}
