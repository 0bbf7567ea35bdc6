package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-autofill/internal/config"
	"github.com/jonathan/job-autofill/internal/jobdetect"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/settings"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Detect job postings as pages are visited",
	Long: `Reads visited URLs, one per line, from --urls or standard input and runs job detection on them.

Each URL restarts the debounce window, so during a burst of navigation only the last URL is analyzed.
URLs analyzed before (the analyzed_urls setting) are skipped. Detection is off when auto_detect is false.`,
	RunE: runWatch,
}

var (
	watchURLs   string
	watchOutDir string
)

func init() {
	watchCmd.Flags().StringVar(&watchURLs, "urls", "", "File of visited URLs (defaults to standard input)")
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "", "Directory to write detected job records to")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
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

	enabled, err := settings.Bool(ctx, store, settings.KeyAutoDetect, true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !enabled {
		_, _ = fmt.Fprintln(out, "Job detection is disabled (auto_detect is false)")
		return nil
	}

	in := cmd.InOrStdin()
	if watchURLs != "" {
		f, err := os.Open(filepath.Clean(watchURLs))
		if err != nil {
			return fmt.Errorf("failed to open URL list: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	w := &watcher{ctx: ctx, cfg: cfg, store: store, printer: observability.NewPrinter(out), out: out, outDir: watchOutDir}
	return w.run(in)
}

// watcher wires visited URLs through the debouncer to detection.
type watcher struct {
	ctx     context.Context
	cfg     *config.Config
	store   settings.Store
	printer *observability.Printer
	out     io.Writer
	outDir  string

	mu       sync.Mutex
	detected int
}

func (w *watcher) run(in io.Reader) error {
	var analyzed []string
	if err := settings.Load(w.ctx, w.store, settings.KeyAnalyzedURLs, &analyzed); err != nil && !errors.Is(err, settings.ErrNotFound) {
		return err
	}

	debouncer := jobdetect.NewDebouncer(w.analyze, &jobdetect.DebounceOptions{
		Window:  w.cfg.Debounce(),
		Verbose: w.cfg.Verbose,
	})
	debouncer.MarkAnalyzed(analyzed...)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := w.ctx.Err(); err != nil {
			debouncer.Stop()
			return err
		}
		url := strings.TrimSpace(scanner.Text())
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}
		debouncer.Trigger(url)
	}
	if err := scanner.Err(); err != nil {
		debouncer.Stop()
		return fmt.Errorf("failed to read URLs: %w", err)
	}
	debouncer.Flush()

	if err := settings.Save(w.ctx, w.store, settings.KeyAnalyzedURLs, debouncer.AnalyzedURLs()); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "Detected %d job posting(s)\n", w.detected)
	return nil
}

// analyze runs on the debouncer's goroutine; output is serialized by mu.
func (w *watcher) analyze(url string) error {
	job, err := detectJob(w.ctx, w.cfg, w.store, url, "", false)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if job == nil {
		_, _ = fmt.Fprintf(w.out, "No job posting at %s\n", url)
		return nil
	}
	w.detected++
	w.printer.PrintJobRecord(job)
	if w.outDir != "" {
		return writeJSON(filepath.Join(w.outDir, job.Hash[:12]+".json"), job)
	}
	return nil
}
