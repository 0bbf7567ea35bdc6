// Package main provides the entry point for the job application autofill agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autofill_agent",
	Short: "Job application autofill agent",
	Long: `Detects job postings, discovers application forms and fills them from a user profile.

Pages can be saved HTML files, URLs fetched over HTTP, or live pages driven in a headless browser (--use-browser).
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootProfile     string
	rootResume      string
	rootAPIURL      string
	rootAPIToken    string
	rootDatabaseURL string
	rootUseBrowser  bool
	rootVerbose     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVarP(&rootProfile, "profile", "p", "", "Path to profile JSON file (defaults to the remote profile when an API URL is set)")
	flags.StringVar(&rootResume, "resume", "", "Path to resume file for upload fields")
	flags.StringVar(&rootAPIURL, "api-url", "", "Job assistant API base URL (optional, defaults to AUTOFILL_API_URL env var)")
	flags.StringVar(&rootAPIToken, "api-token", "", "Job assistant API token (optional, defaults to AUTOFILL_API_TOKEN env var)")
	flags.StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL connection URL for settings (optional, defaults to DATABASE_URL env var)")
	flags.BoolVar(&rootUseBrowser, "use-browser", false, "Drive pages in a headless browser (requires Chrome)")
	flags.BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
