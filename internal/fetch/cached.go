package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/jonathan/job-autofill/internal/settings"
)

// DefaultPageCacheTTL is how long a fetched page is reused.
const DefaultPageCacheTTL = 24 * time.Hour

// CachedFetcher wraps Page with a cache kept in a settings store.
type CachedFetcher struct {
	store     settings.Store
	options   *Options
	cacheTTL  time.Duration
	skipCache bool
	now       func() time.Time
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns the CLI defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a cached fetcher. A nil store disables caching.
func NewCachedFetcher(store settings.Store, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	f := &CachedFetcher{
		store:     store,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		now:       time.Now,
	}
	if f.options == nil {
		f.options = DefaultOptions()
	}
	if f.cacheTTL <= 0 {
		f.cacheTTL = DefaultPageCacheTTL
	}
	return f
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	FetchedAt time.Time
}

type cachedPage struct {
	URL        string    `json:"url"`
	HTML       string    `json:"html"`
	Text       string    `json:"text"`
	StatusCode int       `json:"status_code"`
	Platform   Platform  `json:"platform"`
	Rendered   bool      `json:"rendered"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// CacheKey is the settings key a page is stored under.
func CacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return "page_cache:" + hex.EncodeToString(sum[:])
}

// Fetch returns a fresh cached copy of the page when one exists, otherwise fetches it
// and stores the result. Cache failures only cost a refetch.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	key := CacheKey(urlStr)
	if f.store != nil && !f.skipCache {
		var page cachedPage
		err := settings.Load(ctx, f.store, key, &page)
		switch {
		case err == nil && f.now().Sub(page.FetchedAt) < f.cacheTTL:
			return &CachedResult{
				Result: &Result{
					URL:        page.URL,
					HTML:       page.HTML,
					Text:       page.Text,
					StatusCode: page.StatusCode,
					Platform:   page.Platform,
					Rendered:   page.Rendered,
				},
				FromCache: true,
				FetchedAt: page.FetchedAt,
			}, nil
		case err != nil && !errors.Is(err, settings.ErrNotFound) && f.options.Verbose:
			log.Printf("[VERBOSE] Page cache lookup failed for %s: %v", urlStr, err)
		}
	}

	result, err := Page(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}
	fetchedAt := f.now()

	if f.store != nil {
		page := cachedPage{
			URL:        result.URL,
			HTML:       result.HTML,
			Text:       result.Text,
			StatusCode: result.StatusCode,
			Platform:   result.Platform,
			Rendered:   result.Rendered,
			FetchedAt:  fetchedAt,
		}
		if err := settings.Save(ctx, f.store, key, page); err != nil && f.options.Verbose {
			log.Printf("[VERBOSE] Failed to cache %s: %v", urlStr, err)
		}
	}
	return &CachedResult{Result: result, FetchedAt: fetchedAt}, nil
}
