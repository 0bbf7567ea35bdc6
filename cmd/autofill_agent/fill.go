package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-autofill/internal/api"
	"github.com/jonathan/job-autofill/internal/autofill"
	"github.com/jonathan/job-autofill/internal/config"
	"github.com/jonathan/job-autofill/internal/filler"
	"github.com/jonathan/job-autofill/internal/jobdetect"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/settings"
	"github.com/jonathan/job-autofill/internal/types"
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill the application forms on a page from the profile",
	Long: `Discovers application forms on a page, matches every field to a profile attribute and fills it.

With --navigate or --submit the best Next or Submit button is clicked after a pass with no failed fields.
When neither flag is given the auto_navigate and auto_submit settings decide.
With an API configured, a cover letter field the profile cannot fill gets a letter written for the job on the page.`,
	RunE: runFill,
}

var (
	fillPage     string
	fillPageURL  string
	fillOut      string
	fillReport   string
	fillNavigate bool
	fillSubmit   bool
	fillTrack    bool
)

func init() {
	fillCmd.Flags().StringVar(&fillPage, "page", "", "Saved HTML file or URL of the application page (required)")
	fillCmd.Flags().StringVar(&fillPageURL, "page-url", "", "URL to report for a saved page (defaults to its file:// URL)")
	fillCmd.Flags().StringVarP(&fillOut, "out", "o", "", "Write the filled page as HTML (not available with --use-browser)")
	fillCmd.Flags().StringVar(&fillReport, "report", "", "Write the fill result as JSON")
	fillCmd.Flags().BoolVar(&fillNavigate, "navigate", false, "Click Next after a clean pass")
	fillCmd.Flags().BoolVar(&fillSubmit, "submit", false, "Click Submit after a clean pass")
	fillCmd.Flags().BoolVar(&fillTrack, "track", false, "Record the application with the API")

	if err := fillCmd.MarkFlagRequired("page"); err != nil {
		panic(fmt.Sprintf("failed to mark page flag as required: %v", err))
	}

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if fillOut != "" && cfg.UseBrowser {
		return fmt.Errorf("--out is not available with --use-browser")
	}
	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	if fillTrack && client == nil {
		return fmt.Errorf("--track requires an API URL")
	}

	// Profile and page load independently. The page is opened on ctx, not the group
	// context: a browser tab must outlive g.Wait, which cancels the group context.
	var (
		profile *types.Profile
		pg      *page
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := loadProfile(gCtx, cfg, client)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		p, err := pageLoader(ctx, cfg, fillPage, fillPageURL)
		if err != nil {
			return fmt.Errorf("failed to load page: %w", err)
		}
		pg = p
		return nil
	})
	if err := g.Wait(); err != nil {
		if pg != nil {
			pg.release()
		}
		return err
	}
	defer pg.release()

	navigate, submit, err := navigationSettings(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	executor := filler.New(fillerOptions(cfg, client))
	defer func() {
		if err := executor.Close(); err != nil && cfg.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	fillCfg := &autofill.Config{
		MaxAttempts:  cfg.MaxAttempts,
		Cooldown:     cfg.Cooldown(),
		FieldDelay:   cfg.FieldDelay(),
		FormDelay:    cfg.FormDelay(),
		AutoNavigate: navigate,
		AutoSubmit:   submit,
		Verbose:      cfg.Verbose,
	}
	if client != nil {
		fillCfg.CoverLetters = client
		fillCfg.Job = pageJob(pg)
	}
	orchestrator := autofill.New(fillCfg, executor)

	result, err := orchestrator.Start(ctx, pg.doc, profile)
	if result == nil {
		return fmt.Errorf("autofill failed: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFillResult(result)
	if err != nil {
		return err
	}

	if fillReport != "" {
		if err := writeJSON(fillReport, result); err != nil {
			return err
		}
	}
	if fillOut != "" {
		if err := renderPage(pg, fillOut); err != nil {
			return err
		}
	}
	if fillTrack {
		if err := trackApplication(ctx, client, pg, result); err != nil {
			return err
		}
	}
	return nil
}

// navigationSettings resolves auto-navigation: flags win, then the config file, then the
// stored settings.
func navigationSettings(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (bool, bool, error) {
	navigate, submit := cfg.AutoNavigate, cfg.AutoSubmit
	navSet, submitSet := cmd.Flags().Changed("navigate"), cmd.Flags().Changed("submit")
	if navSet {
		navigate = fillNavigate
	}
	if submitSet {
		submit = fillSubmit
	}
	if navSet && submitSet {
		return navigate, submit, nil
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return false, false, err
	}
	defer closeStore()

	if !navSet && !navigate {
		if navigate, err = settings.Bool(ctx, store, settings.KeyAutoNavigate, false); err != nil {
			return false, false, err
		}
	}
	if !submitSet && !submit {
		if submit, err = settings.Bool(ctx, store, settings.KeyAutoSubmit, false); err != nil {
			return false, false, err
		}
	}
	return navigate, submit, nil
}

func fillerOptions(cfg *config.Config, client *api.Client) *filler.Options {
	opts := filler.DefaultOptions()
	opts.KeyDelay = cfg.TypingDelay()
	opts.Verbose = cfg.Verbose
	// In-memory pages have no handlers that need pacing.
	if !cfg.UseBrowser {
		opts.Pacer = nil
	}
	switch {
	case cfg.Resume != "":
		opts.Resumes = fileResume{path: cfg.Resume}
	case client != nil:
		opts.Resumes = client
	}
	return opts
}

func renderPage(pg *page, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := pg.mem.Render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to render page: %w", err)
	}
	return f.Close()
}

// pageJob returns the job posted on the page, or nil when it does not look like one.
func pageJob(pg *page) *types.JobRecord {
	if !jobdetect.Detect(pg.doc) {
		return nil
	}
	return jobdetect.Extract(pg.doc, time.Now())
}

func trackApplication(ctx context.Context, client *api.Client, pg *page, result *types.FillResult) error {
	job := pageJob(pg)
	if job == nil {
		return fmt.Errorf("--track: no job posting detected on the page")
	}
	if err := client.TrackApplication(ctx, job, result); err != nil {
		return fmt.Errorf("failed to track application: %w", err)
	}
	return nil
}
