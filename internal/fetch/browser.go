package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-autofill/internal/dom/browser"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch complete.
// Shorter text usually means a JavaScript-rendered shell.
const MinContentLength = 500

// SettleDelay is how long a rendered page gets to run its scripts before it is read.
const SettleDelay = 3 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short to be the real page.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, verbose bool) (string, error) {
	opts := browser.DefaultOptions()
	opts.Verbose = verbose
	if timeout > 0 {
		opts.Timeout = timeout
	}

	doc, release, err := browser.Open(ctx, url, opts)
	if err != nil {
		return "", err
	}
	defer release()

	err = doc.Run(
		chromedp.Sleep(SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Cookie banners hide the content on some boards; a missing button is fine.
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	html, err := doc.HTML()
	if err != nil {
		return "", err
	}
	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}
