package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/config"
)

// loadConfig merges, in increasing priority, defaults, the --config file, the
// environment and explicitly set flags, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = rootProfile
	}
	if flags.Changed("resume") {
		cfg.Resume = rootResume
	}
	if flags.Changed("api-url") {
		cfg.APIURL = rootAPIURL
	}
	if flags.Changed("api-token") {
		cfg.APIToken = rootAPIToken
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = rootDatabaseURL
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = rootUseBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
