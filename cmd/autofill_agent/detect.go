package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/config"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/dom/htmldom"
	"github.com/jonathan/job-autofill/internal/fetch"
	"github.com/jonathan/job-autofill/internal/jobdetect"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/schemas"
	"github.com/jonathan/job-autofill/internal/settings"
	"github.com/jonathan/job-autofill/internal/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect a job posting on a page and extract its details",
	Long: `Decides whether a page shows a job posting and, if so, extracts a normalized job record:
title, company, location, description, requirements, salary, type and keywords.

Remote pages are cached in the settings store for 24 hours; --no-cache forces a refetch.
With --score the record is sent to the API for a profile match score.`,
	RunE: runDetect,
}

var (
	detectPage    string
	detectPageURL string
	detectOut     string
	detectNoCache bool
	detectScore   bool
)

func init() {
	detectCmd.Flags().StringVar(&detectPage, "page", "", "Saved HTML file or URL of the job page (required)")
	detectCmd.Flags().StringVar(&detectPageURL, "page-url", "", "URL to report for a saved page")
	detectCmd.Flags().StringVarP(&detectOut, "out", "o", "", "Write the job record as JSON")
	detectCmd.Flags().BoolVar(&detectNoCache, "no-cache", false, "Ignore cached copies of remote pages")
	detectCmd.Flags().BoolVar(&detectScore, "score", false, "Ask the API for a match score")

	if err := detectCmd.MarkFlagRequired("page"); err != nil {
		panic(fmt.Sprintf("failed to mark page flag as required: %v", err))
	}

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, _ []string) error {
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

	job, err := detectJob(ctx, cfg, store, detectPage, detectPageURL, detectNoCache)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if job == nil {
		_, _ = fmt.Fprintln(out, "No job posting detected")
		return nil
	}

	printer := observability.NewPrinter(out)
	printer.PrintJobRecord(job)

	if detectOut != "" {
		if err := writeJSON(detectOut, job); err != nil {
			return err
		}
	}

	if detectScore {
		client, err := newAPIClient(cfg)
		if err != nil {
			return err
		}
		if client == nil {
			return fmt.Errorf("--score requires an API URL")
		}
		score, err := client.MatchScore(ctx, job)
		if err != nil {
			return fmt.Errorf("failed to score job: %w", err)
		}
		printer.PrintMatchScore(score.Score, score.MatchedSkills, score.MissingSkills, score.Summary)
	}
	return nil
}

// detectJob loads src and returns its job record, or nil when the page is not a job
// posting. Extracted records are checked against the job record schema.
func detectJob(ctx context.Context, cfg *config.Config, store settings.Store, src, pageURL string, skipCache bool) (*types.JobRecord, error) {
	var doc dom.Document
	if isRemote(src) {
		opts := fetch.DefaultOptions()
		opts.UseBrowser = cfg.UseBrowser
		opts.Verbose = cfg.Verbose
		fetcher := fetch.NewCachedFetcher(store, &fetch.CachedFetcherConfig{
			SkipCache: skipCache,
			Options:   opts,
		})
		res, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page: %w", err)
		}
		if pageURL == "" {
			pageURL = src
		}
		mem, err := htmldom.ParseString(res.HTML, pageURL)
		if err != nil {
			return nil, err
		}
		doc = mem
	} else {
		local := *cfg
		local.UseBrowser = false
		pg, err := loadPage(ctx, &local, src, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load page: %w", err)
		}
		defer pg.release()
		doc = pg.doc
	}

	if !jobdetect.Detect(doc) {
		return nil, nil
	}
	job := jobdetect.Extract(doc, time.Now().UTC())

	data, err := job.ToJSON()
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateJobRecord(data); err != nil {
		return nil, fmt.Errorf("extracted job record is invalid: %w", err)
	}
	return job, nil
}
