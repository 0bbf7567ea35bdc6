// Package browser implements the dom adapter over a live page driven through chromedp.
// Elements are addressed by a data attribute stamped on them the first time they are
// queried, so handles survive between round trips as long as the node itself does.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-autofill/internal/dom"
)

// HandleAttr is the attribute used to address elements across evaluations.
const HandleAttr = "data-jaf-id"

// DefaultCallTimeout bounds a single evaluation round trip.
const DefaultCallTimeout = 10 * time.Second

const prelude = `function __jafTag(x){window.__jafSeq=window.__jafSeq||0;if(!x.getAttribute('data-jaf-id')){x.setAttribute('data-jaf-id',String(++window.__jafSeq));}return x.getAttribute('data-jaf-id');}`

const staleMarker = "jaf: stale element"

// Options configures how the browser is launched.
type Options struct {
	Headless    bool
	Timeout     time.Duration // page load timeout
	CallTimeout time.Duration
	Verbose     bool
}

// DefaultOptions returns headless defaults.
func DefaultOptions() Options {
	return Options{
		Headless:    true,
		Timeout:     30 * time.Second,
		CallTimeout: DefaultCallTimeout,
	}
}

// Document is a live browser tab.
type Document struct {
	ctx         context.Context
	callTimeout time.Duration
	verbose     bool
}

// Attach wraps an existing chromedp context (one created by chromedp.NewContext).
func Attach(ctx context.Context, callTimeout time.Duration, verbose bool) *Document {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Document{ctx: ctx, callTimeout: callTimeout, verbose: verbose}
}

// Open launches a browser, navigates to url and waits for the body to be ready.
// The returned function releases the browser.
func Open(ctx context.Context, url string, opts Options) (*Document, func(), error) {
	if opts.Verbose {
		log.Printf("[BROWSER] Starting browser for: %s", url)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	release := func() {
		cancelBrowser()
		cancelAlloc()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	loadCtx, cancelLoad := context.WithTimeout(browserCtx, timeout)
	defer cancelLoad()

	if err := chromedp.Run(loadCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	); err != nil {
		release()
		return nil, nil, fmt.Errorf("browser navigation failed: %w", err)
	}

	return Attach(browserCtx, opts.CallTimeout, opts.Verbose), release, nil
}

// URL returns the current location.
func (d *Document) URL() string {
	var loc string
	if err := d.run(chromedp.Location(&loc)); err != nil {
		d.logf("location: %v", err)
	}
	return loc
}

// Title returns the page title.
func (d *Document) Title() string {
	var title string
	if err := d.run(chromedp.Title(&title)); err != nil {
		d.logf("title: %v", err)
	}
	return dom.NormalizeSpace(title)
}

// Query returns all elements matching selector in document order.
func (d *Document) Query(selector string) []dom.Element {
	return d.query("", selector)
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	els := d.query("", dom.AttrSelector("", "id", id))
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// HTML returns the serialized document as currently rendered.
func (d *Document) HTML() (string, error) {
	var html string
	if err := d.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// Run executes arbitrary chromedp actions against the tab.
func (d *Document) Run(actions ...chromedp.Action) error {
	return d.run(actions...)
}

func (d *Document) query(root, selector string) []dom.Element {
	args, _ := json.Marshal([]string{selector, root})
	expr := fmt.Sprintf(`(function(a){%s
var scope = a[1] ? document.querySelector('[data-jaf-id="'+a[1]+'"]') : document;
if (!scope) return [];
return Array.from(scope.querySelectorAll(a[0])).map(__jafTag);
})(%s)`, prelude, args)

	var ids []string
	if err := d.eval(expr, &ids); err != nil {
		d.logf("query %q: %v", selector, err)
		return nil
	}
	out := make([]dom.Element, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Element{doc: d, id: id})
	}
	return out
}

func (d *Document) eval(expr string, out any) error {
	return d.run(chromedp.Evaluate(expr, out))
}

func (d *Document) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, d.callTimeout)
	defer cancel()
	err := chromedp.Run(ctx, actions...)
	if err != nil && strings.Contains(err.Error(), staleMarker) {
		return fmt.Errorf("%w: %v", dom.ErrStale, err)
	}
	return err
}

func (d *Document) logf(format string, args ...any) {
	if d.verbose {
		log.Printf("[BROWSER] "+format, args...)
	}
}

var _ dom.Document = (*Document)(nil)
