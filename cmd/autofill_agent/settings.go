package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change stored settings",
	Long: `Reads and writes the agent's settings: auto_detect, auto_submit, auto_navigate and analyzed_urls.

Settings live in PostgreSQL when a database URL is configured and in a JSON file in the user config directory otherwise.`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store settings.Store) error {
			raw, err := store.Get(ctx, args[0])
			if errors.Is(err, settings.ErrNotFound) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <json>",
	Short: "Store a JSON value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := json.RawMessage(args[1])
		if !json.Valid(value) {
			return fmt.Errorf("value for %q must be JSON (quote strings: '\"text\"')", args[0])
		}
		return withStore(cmd, func(ctx context.Context, store settings.Store) error {
			return store.Set(ctx, args[0], value)
		})
	},
}

var settingsDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store settings.Store) error {
			return store.Delete(ctx, args[0])
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsDeleteCmd)
	rootCmd.AddCommand(settingsCmd)
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, store settings.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(ctx, store)
}
