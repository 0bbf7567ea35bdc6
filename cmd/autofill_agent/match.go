package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/fieldmap"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/server"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show which profile attribute each form field maps to",
	Long:  "Discovers the application forms on a page and reports the attribute, pattern and score chosen for every fillable field, without changing the page.",
	RunE:  runMatch,
}

var (
	matchPage    string
	matchPageURL string
)

func init() {
	matchCmd.Flags().StringVar(&matchPage, "page", "", "Saved HTML file or URL of the application page (required)")
	matchCmd.Flags().StringVar(&matchPageURL, "page-url", "", "URL to report for a saved page")

	if err := matchCmd.MarkFlagRequired("page"); err != nil {
		panic(fmt.Sprintf("failed to mark page flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pg, err := loadPage(ctx, cfg, matchPage, matchPageURL)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}
	defer pg.release()

	rows := server.MatchFields(pg.doc, fieldmap.Default())
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No fillable fields found")
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFieldMatches(rows)
	return nil
}
