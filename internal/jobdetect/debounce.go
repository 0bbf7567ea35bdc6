package jobdetect

import (
	"log"
	"sort"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a URL is analyzed.
const DefaultDebounce = 2 * time.Second

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc schedules with the runtime timer.
func StdAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// AnalyzeFunc runs detection for a URL. A nil error marks the URL as analyzed.
type AnalyzeFunc func(url string) error

// DebounceOptions configures a Debouncer.
type DebounceOptions struct {
	Window    time.Duration
	AfterFunc AfterFunc
	Verbose   bool
}

// Debouncer coalesces bursts of navigation events into one analysis per URL. Each
// Trigger restarts the window, so during URL churn only the last URL is analyzed.
// URLs in flight or already analyzed are skipped.
type Debouncer struct {
	window    time.Duration
	afterFunc AfterFunc
	analyze   AnalyzeFunc
	verbose   bool

	mu       sync.Mutex
	idle     *sync.Cond
	timer    Timer
	pending  string
	inFlight map[string]bool
	analyzed map[string]bool
}

// NewDebouncer creates a Debouncer; nil opts uses DefaultDebounce and real timers.
func NewDebouncer(analyze AnalyzeFunc, opts *DebounceOptions) *Debouncer {
	d := &Debouncer{
		window:    DefaultDebounce,
		afterFunc: StdAfterFunc,
		analyze:   analyze,
		inFlight:  make(map[string]bool),
		analyzed:  make(map[string]bool),
	}
	d.idle = sync.NewCond(&d.mu)
	if opts != nil {
		if opts.Window > 0 {
			d.window = opts.Window
		}
		if opts.AfterFunc != nil {
			d.afterFunc = opts.AfterFunc
		}
		d.verbose = opts.Verbose
	}
	return d
}

// Trigger schedules analysis of url. It returns false when url is skipped because it is
// in flight or already analyzed.
func (d *Debouncer) Trigger(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inFlight[url] || d.analyzed[url] {
		d.logf("skipping %s", url)
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = url
	d.timer = d.afterFunc(d.window, func() { d.fire(url) })
	return true
}

// fire runs when url's window elapsed. A superseded URL does nothing.
func (d *Debouncer) fire(url string) {
	d.mu.Lock()
	if d.pending != url || d.inFlight[url] || d.analyzed[url] {
		d.mu.Unlock()
		return
	}
	d.pending = ""
	d.timer = nil
	d.inFlight[url] = true
	d.mu.Unlock()

	err := d.analyze(url)

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, url)
	d.idle.Broadcast()
	if err != nil {
		d.logf("analysis of %s failed: %v", url, err)
		return
	}
	d.analyzed[url] = true
}

// MarkAnalyzed records url as analyzed without running analysis, for restoring state.
func (d *Debouncer) MarkAnalyzed(urls ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range urls {
		d.analyzed[u] = true
	}
}

// Forget allows url to be analyzed again.
func (d *Debouncer) Forget(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.analyzed, url)
}

// Analyzed reports whether url has been analyzed.
func (d *Debouncer) Analyzed(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analyzed[url]
}

// AnalyzedURLs returns the analyzed URLs in sorted order.
func (d *Debouncer) AnalyzedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.analyzed))
	for u := range d.analyzed {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Flush runs a pending analysis now and waits until no analysis is in flight.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	url := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	if url != "" {
		d.fire(url)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.inFlight) > 0 {
		d.idle.Wait()
	}
}

// Stop cancels a pending analysis.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
}

func (d *Debouncer) logf(format string, args ...any) {
	if d.verbose {
		log.Printf("[DETECT] "+format, args...)
	}
}
