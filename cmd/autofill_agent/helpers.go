package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/job-autofill/internal/api"
	"github.com/jonathan/job-autofill/internal/config"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/dom/browser"
	"github.com/jonathan/job-autofill/internal/dom/htmldom"
	"github.com/jonathan/job-autofill/internal/fetch"
	"github.com/jonathan/job-autofill/internal/schemas"
	"github.com/jonathan/job-autofill/internal/settings"
	"github.com/jonathan/job-autofill/internal/types"
)

// page is a loaded document. mem is set for in-memory pages, which can be rendered back
// to HTML; release frees a browser tab and is never nil.
type page struct {
	doc     dom.Document
	mem     *htmldom.Document
	release func()
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// fileURL turns a local path into a file:// URL.
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve page path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// pageLoader opens the page for fill; tests replace it.
var pageLoader = loadPage

// loadPage opens src, a saved HTML file or an http(s) URL. pageURL overrides the URL a
// saved file reports, so platform rules apply to pages saved from job boards.
func loadPage(ctx context.Context, cfg *config.Config, src, pageURL string) (*page, error) {
	if src == "" {
		return nil, fmt.Errorf("--page is required")
	}

	if cfg.UseBrowser {
		target := src
		if !isRemote(src) {
			u, err := fileURL(src)
			if err != nil {
				return nil, err
			}
			target = u
		}
		opts := browser.DefaultOptions()
		opts.Verbose = cfg.Verbose
		doc, release, err := browser.Open(ctx, target, opts)
		if err != nil {
			return nil, err
		}
		return &page{doc: doc, release: release}, nil
	}

	var (
		doc *htmldom.Document
		err error
	)
	if isRemote(src) {
		opts := fetch.DefaultOptions()
		opts.Verbose = cfg.Verbose
		res, fetchErr := fetch.URL(ctx, src, opts)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if pageURL == "" {
			pageURL = src
		}
		doc, err = htmldom.ParseString(res.HTML, pageURL)
	} else {
		if pageURL == "" {
			if pageURL, err = fileURL(src); err != nil {
				return nil, err
			}
		}
		f, openErr := os.Open(filepath.Clean(src))
		if openErr != nil {
			return nil, fmt.Errorf("failed to open page: %w", openErr)
		}
		defer func() { _ = f.Close() }()
		doc, err = htmldom.Parse(f, pageURL)
	}
	if err != nil {
		return nil, err
	}
	return &page{doc: doc, mem: doc, release: func() {}}, nil
}

// newAPIClient returns nil when no API URL is configured.
func newAPIClient(cfg *config.Config) (*api.Client, error) {
	if cfg.APIURL == "" {
		return nil, nil
	}
	return api.New(api.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Verbose: cfg.Verbose,
	})
}

// loadProfile reads the profile file when one is configured, otherwise fetches the
// remote profile.
func loadProfile(ctx context.Context, cfg *config.Config, client *api.Client) (*types.Profile, error) {
	if cfg.Profile != "" {
		return readProfile(cfg.Profile)
	}
	if client == nil {
		return nil, fmt.Errorf("no profile: pass --profile or configure an API URL")
	}
	return client.Profile(ctx)
}

func readProfile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	if err := schemas.ValidateProfile(data); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}
	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}
	return &p, nil
}

// fileResume serves a resume from disk to upload fields.
type fileResume struct {
	path string
}

func (r fileResume) Resume(_ context.Context) (string, []byte, error) {
	data, err := os.ReadFile(filepath.Clean(r.path))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return filepath.Base(r.path), data, nil
}

// settingsFile is where settings live when no database is configured.
func settingsFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "job-autofill", "settings.json"), nil
}

// openStore connects to PostgreSQL when a database URL is configured and falls back to
// the settings file otherwise. The returned function closes the store.
func openStore(ctx context.Context, cfg *config.Config) (settings.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		store, err := settings.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	path, err := settingsFile()
	if err != nil {
		return nil, nil, err
	}
	return settings.NewFileStore(path), func() {}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
