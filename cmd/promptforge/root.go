package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptforge/internal/app"
	"github.com/jackzampolin/promptforge/internal/config"
	"github.com/jackzampolin/promptforge/internal/home"
	"github.com/jackzampolin/promptforge/internal/output"
	"github.com/jackzampolin/promptforge/internal/storage"
	"github.com/jackzampolin/promptforge/internal/svcctx"
	"github.com/jackzampolin/promptforge/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "promptforge",
	Short: "Generate and enhance AI prompts with persona-specific framing",
	Long: `Promptforge turns a short idea into a set of detailed prompts, or
rewrites an existing prompt into a richer one, using a remote generation
service (Gemini by default).

Personas change the wording of the instructions and the sampling:
  - general          General purpose
  - engineer_react   Senior frontend engineer (React)
  - artist_visual    Visual artist

The API key and the last 20 interactions are kept in local storage
(~/.promptforge/data by default).`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.promptforge/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "promptforge home directory (default: ~/.promptforge)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", string(output.Default), "output format: text, yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		f, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		output.SetFormat(f)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

// getHome returns the home directory manager.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// getConfig loads configuration from --config, ./config.yaml or the home directory.
func getConfig(h *home.Dir) (*config.Manager, error) {
	cm, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cm, nil
}

// newLogger builds the stderr logger at the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// withApp builds the application state, attaches it to the command context
// and tears it down after fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()

	h, err := getHome()
	if err != nil {
		return err
	}
	cm, err := getConfig(h)
	if err != nil {
		return err
	}
	cfg := cm.Get()
	logger := newLogger(cfg)

	kv, err := storage.Open(ctx, cfg.ToStorageConfig(h.DBPath(), logger.With("component", "storage")))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	a := app.New(ctx, app.Config{
		Store:           kv,
		Provider:        cfg.ToClientConfig(),
		FallbackAPIKey:  cfg.FallbackAPIKey(),
		HistoryMaxItems: cfg.History.MaxItems,
		Logger:          logger,
	})
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close app", "error", err)
		}
	}()

	// Provider edits in the config file re-derive the session.
	if cm.ConfigFile() != "" {
		current := cfg
		cm.OnChange(func(next *config.Config) {
			if next.ProviderChanged(current) {
				a.Reconfigure(ctx, next.ToClientConfig())
			}
			current = next
		})
		cm.WatchConfig()
	}

	ctx = svcctx.WithServices(ctx, &svcctx.Services{
		App:    a,
		Config: cm,
		Logger: logger,
		Home:   h,
	})
	cmd.SetContext(ctx)
	return fn(ctx)
}
