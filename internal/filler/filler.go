// Package filler writes resolved values into form controls the way a person would,
// emitting the events that page frameworks listen for.
package filler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/dom"
)

// Pacer inserts pauses between simulated keystrokes and fields.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

// SleepPacer waits in real time and returns early when the context is done.
type SleepPacer struct{}

// Pause blocks for d or until ctx is done.
func (SleepPacer) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ResumeSource supplies the resume file for upload controls.
type ResumeSource interface {
	Resume(ctx context.Context) (name string, data []byte, err error)
}

// Options configures an Executor.
type Options struct {
	TextChunk     int           // runes written per input event for text inputs
	TextareaChunk int           // runes written per input event for textareas
	KeyDelay      time.Duration // pause after each chunk
	Pacer         Pacer         // nil disables pauses
	Resumes       ResumeSource  // nil fails file controls with ErrNoResume
	TempDir       string        // parent for uploaded resume copies; os.TempDir() when empty
	Verbose       bool
}

// DefaultOptions returns the typing cadence used on live pages.
func DefaultOptions() *Options {
	return &Options{
		TextChunk:     3,
		TextareaChunk: 50,
		KeyDelay:      10 * time.Millisecond,
		Pacer:         SleepPacer{},
	}
}

// Executor fills controls. It is safe for sequential use by one orchestrator.
type Executor struct {
	opts Options

	mu         sync.Mutex
	uploadDirs []string
}

// New creates an Executor; nil opts means DefaultOptions.
func New(opts *Options) *Executor {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.TextChunk <= 0 {
		o.TextChunk = 3
	}
	if o.TextareaChunk <= 0 {
		o.TextareaChunk = 50
	}
	return &Executor{opts: o}
}

// Fill writes value into el and marks it with the outcome indicator.
// A nil return means the control now holds the value and its input/change/blur
// observers have run.
func (x *Executor) Fill(ctx context.Context, doc dom.Document, el dom.Element, value string) error {
	id := Identity(el)
	err := x.fill(ctx, doc, el, value)
	if err != nil {
		var fe *FillError
		if !errors.As(err, &fe) {
			err = &FillError{Identity: id, Message: "failed to fill control", Cause: err}
		}
		if markErr := el.Mark(dom.IndicatorFailed); markErr != nil {
			x.logf("could not mark %s as failed: %v", id, markErr)
		}
		return err
	}
	if markErr := el.Mark(dom.IndicatorFilled); markErr != nil {
		x.logf("could not mark %s as filled: %v", id, markErr)
	}
	x.logf("filled %s", id)
	return nil
}

func (x *Executor) fill(ctx context.Context, doc dom.Document, el dom.Element, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch Kind(el) {
	case KindText:
		return x.typeText(ctx, el, value, x.opts.TextChunk)
	case KindTextarea:
		return x.typeText(ctx, el, value, x.opts.TextareaChunk)
	case KindSelect:
		return x.selectOption(el, value)
	case KindRadio:
		return x.checkRadio(doc, el, value)
	case KindCheckbox:
		return x.setCheckbox(el, value)
	case KindFile:
		return x.upload(ctx, el)
	default:
		return &FillError{Identity: Identity(el), Message: "cannot fill control", Cause: ErrUnsupported}
	}
}

// typeText clears the control and writes value in chunks, firing input after each chunk,
// then change and blur.
func (x *Executor) typeText(ctx context.Context, el dom.Element, value string, chunk int) error {
	if el.Value() == value {
		return nil
	}
	if err := el.Focus(); err != nil {
		return err
	}
	if err := el.SetValue(""); err != nil {
		return err
	}
	if err := el.Dispatch(dom.EventInput); err != nil {
		return err
	}

	runes := []rune(value)
	for end := chunk; ; end += chunk {
		if end > len(runes) {
			end = len(runes)
		}
		if err := el.SetValue(string(runes[:end])); err != nil {
			return err
		}
		if err := el.Dispatch(dom.EventInput); err != nil {
			return err
		}
		if end == len(runes) {
			break
		}
		if err := x.pause(ctx, x.opts.KeyDelay); err != nil {
			return err
		}
	}

	if err := el.Dispatch(dom.EventChange); err != nil {
		return err
	}
	return el.Dispatch(dom.EventBlur)
}

func (x *Executor) selectOption(el dom.Element, value string) error {
	opt, ok := MatchOption(el.Options(), value)
	if !ok {
		return &FillError{Identity: Identity(el), Message: fmt.Sprintf("no option for %q", value), Cause: ErrNoOption}
	}
	if el.Value() == opt.Value {
		return nil
	}
	if err := el.Focus(); err != nil {
		return err
	}
	if err := el.SelectIndex(opt.Index); err != nil {
		return err
	}
	if err := el.Dispatch(dom.EventInput); err != nil {
		return err
	}
	if err := el.Dispatch(dom.EventChange); err != nil {
		return err
	}
	return el.Dispatch(dom.EventBlur)
}

// checkRadio checks the first radio of el's group whose label or value agrees with value.
func (x *Executor) checkRadio(doc dom.Document, el dom.Element, value string) error {
	group := []dom.Element{el}
	if name := el.Attr("name"); name != "" {
		group = group[:0]
		for _, r := range doc.Query(dom.AttrSelector("input", "name", name)) {
			if Kind(r) == KindRadio {
				group = append(group, r)
			}
		}
	}

	options := make([]dom.Option, 0, len(group))
	for i, r := range group {
		options = append(options, dom.Option{
			Index:    i,
			Text:     analyzer.Label(doc, r),
			Value:    r.Attr("value"),
			Disabled: r.HasAttr("disabled"),
		})
	}
	opt, ok := MatchOption(options, value)
	if !ok {
		return &FillError{Identity: Identity(el), Message: fmt.Sprintf("no radio for %q", value), Cause: ErrNoOption}
	}

	target := group[opt.Index]
	if target.Checked() {
		return nil
	}
	if err := target.Click(); err != nil {
		return err
	}
	if err := target.SetChecked(true); err != nil {
		return err
	}
	if err := target.Dispatch(dom.EventInput); err != nil {
		return err
	}
	return target.Dispatch(dom.EventChange)
}

func (x *Executor) setCheckbox(el dom.Element, value string) error {
	want := Truthy(value)
	if el.Checked() == want {
		return nil
	}
	if err := el.Click(); err != nil {
		return err
	}
	if err := el.SetChecked(want); err != nil {
		return err
	}
	return el.Dispatch(dom.EventChange)
}

// upload copies the resume into a private temp directory and hands its path to the control.
func (x *Executor) upload(ctx context.Context, el dom.Element) error {
	setter, ok := el.(dom.FileSetter)
	if !ok {
		return &FillError{Identity: Identity(el), Message: "control does not accept files", Cause: ErrUnsupported}
	}
	if x.opts.Resumes == nil {
		return &FillError{Identity: Identity(el), Message: "cannot upload resume", Cause: ErrNoResume}
	}

	name, data, err := x.opts.Resumes.Resume(ctx)
	if err != nil {
		return &FillError{Identity: Identity(el), Message: "failed to load resume", Cause: err}
	}
	if name = filepath.Base(strings.TrimSpace(name)); name == "" || name == "." || name == string(filepath.Separator) {
		name = "resume.pdf"
	}

	dir, err := os.MkdirTemp(x.opts.TempDir, "autofill-resume-")
	if err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	x.mu.Lock()
	x.uploadDirs = append(x.uploadDirs, dir)
	x.mu.Unlock()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write resume: %w", err)
	}
	if err := setter.SetFiles([]string{path}); err != nil {
		return err
	}
	if err := el.Dispatch(dom.EventInput); err != nil {
		return err
	}
	return el.Dispatch(dom.EventChange)
}

// Pause waits d through the configured pacer.
func (x *Executor) Pause(ctx context.Context, d time.Duration) error {
	return x.pause(ctx, d)
}

func (x *Executor) pause(ctx context.Context, d time.Duration) error {
	if x.opts.Pacer == nil || d <= 0 {
		return ctx.Err()
	}
	return x.opts.Pacer.Pause(ctx, d)
}

// Close removes the temporary copies of uploaded resumes. Call it once the page no
// longer needs the selected files.
func (x *Executor) Close() error {
	x.mu.Lock()
	dirs := x.uploadDirs
	x.uploadDirs = nil
	x.mu.Unlock()

	var errs []error
	for _, d := range dirs {
		if err := os.RemoveAll(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (x *Executor) logf(format string, args ...any) {
	if x.opts.Verbose {
		log.Printf("[FILL] "+format, args...)
	}
}
