// Package autofill runs fill passes over a page: it discovers forms, matches each field
// to a profile attribute, resolves a value and writes it, keeping per-page session state.
package autofill

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/discovery"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/fieldmap"
	"github.com/jonathan/job-autofill/internal/filler"
	"github.com/jonathan/job-autofill/internal/matcher"
	"github.com/jonathan/job-autofill/internal/resolver"
	"github.com/jonathan/job-autofill/internal/types"
)

const (
	// DefaultMaxAttempts is the attempt ceiling per cooldown window.
	DefaultMaxAttempts = 3
	// DefaultCooldown is how long after the last pass the attempt counter resets.
	DefaultCooldown = 5 * time.Second
)

// Filler writes values into controls. *filler.Executor implements it.
type Filler interface {
	Fill(ctx context.Context, doc dom.Document, el dom.Element, value string) error
	Pause(ctx context.Context, d time.Duration) error
}

// CoverLetterSource writes a cover letter for a job. *api.Client implements it.
type CoverLetterSource interface {
	CoverLetter(ctx context.Context, job *types.JobRecord) (string, error)
}

// Config configures an Orchestrator.
type Config struct {
	MaxAttempts  int
	Cooldown     time.Duration
	FieldDelay   time.Duration // pause after each field
	FormDelay    time.Duration // pause between forms
	AutoNavigate bool          // click the best Next button after a clean pass
	AutoSubmit   bool          // click the best Submit button after a clean pass
	Table        fieldmap.Table
	Clock        Clock
	Session      *Session // continue an existing page session; nil starts a new one
	// CoverLetters writes a letter for Job when the profile has none. Both must be set.
	CoverLetters CoverLetterSource
	Job          *types.JobRecord
	Verbose      bool
}

// DefaultConfig returns the production settings.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: DefaultMaxAttempts,
		Cooldown:    DefaultCooldown,
		FieldDelay:  100 * time.Millisecond,
		FormDelay:   500 * time.Millisecond,
	}
}

// Orchestrator coordinates fill passes for one page lifetime.
type Orchestrator struct {
	cfg         Config
	filler      Filler
	session     *Session
	coverLetter string
}

// New creates an Orchestrator with a fresh session. A nil cfg means DefaultConfig.
func New(cfg *Config, f Filler) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	if c.Table == nil {
		c.Table = fieldmap.Default()
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	session := c.Session
	if session == nil {
		session = NewSession()
	}
	return &Orchestrator{cfg: c, filler: f, session: session}
}

// Session returns the orchestrator's session state.
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Reset discards the session, as a navigation to a new page does.
func (o *Orchestrator) Reset() {
	o.session = NewSession()
}

// Start runs one fill pass over doc. A *SessionError is returned, with a nil result and
// no page mutation, when the attempt ceiling is reached or a pass is already running.
// Per-field problems never fail the pass; they are counted in the result.
func (o *Orchestrator) Start(ctx context.Context, doc dom.Document, profile *types.Profile) (*types.FillResult, error) {
	attempt, err := o.session.begin(o.cfg.Clock.Now(), o.cfg.MaxAttempts, o.cfg.Cooldown)
	if err != nil {
		o.logf("rejected: %v", err)
		return nil, err
	}
	form := discovery.FormState{CurrentPage: 1}
	defer func() { o.session.end(o.cfg.Clock.Now(), form) }()

	result := &types.FillResult{SessionID: o.session.ID, Attempt: attempt}
	o.logf("attempt %d/%d on %s", attempt, o.cfg.MaxAttempts, doc.URL())

	forms := discovery.FindForms(doc)
	result.FormsFound = len(forms)
	if len(forms) == 0 {
		result.Message = "No application forms found on this page"
		return result, nil
	}

	for i, f := range forms {
		if i > 0 {
			if err := o.filler.Pause(ctx, o.cfg.FormDelay); err != nil {
				return o.finish(result), fmt.Errorf("autofill interrupted: %w", err)
			}
		}
		for _, el := range discovery.Fields(f) {
			outcome := o.processField(ctx, doc, el, profile)
			record(result, outcome)
			if err := o.filler.Pause(ctx, o.cfg.FieldDelay); err != nil {
				return o.finish(result), fmt.Errorf("autofill interrupted: %w", err)
			}
		}
	}

	form = discovery.DetectFormState(doc)
	if result.FieldsFound > 0 && result.FieldsFailed == 0 {
		result.Navigation = o.navigate(doc)
	}
	return o.finish(result), nil
}

// processField runs analyze, match, resolve and fill for one control. A panic anywhere in
// the chain is recovered and recorded as a failure of this field alone.
func (o *Orchestrator) processField(ctx context.Context, doc dom.Document, el dom.Element, profile *types.Profile) (out types.FieldOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.Status = types.FieldFailed
			out.Error = fmt.Sprintf("panic: %v", r)
			o.logf("field %s panicked: %v", out.Identity, r)
		}
	}()

	out.Identity = filler.Identity(el)
	if o.session.Filled(out.Identity) {
		out.Status = types.FieldDuplicate
		return out
	}

	sig := analyzer.Analyze(doc, el)
	m := matcher.Match(sig, o.cfg.Table)
	if m == nil {
		out.Status = types.FieldNoMatch
		return out
	}
	out.Attribute = m.Attribute.Name
	out.Score = m.Score

	value, ok := resolver.Resolve(doc, el, m.Attribute, profile, sig)
	if !ok && m.Attribute.Name == fieldmap.CoverLetter && sig.ControlType != "file" {
		value, ok = o.generatedCoverLetter(ctx)
	}
	if !ok {
		out.Status = types.FieldNoValue
		return out
	}
	out.Value = value

	if err := o.filler.Fill(ctx, doc, el, value); err != nil {
		out.Status = types.FieldFailed
		out.Error = err.Error()
		o.logf("field %s (%s) failed: %v", out.Identity, out.Attribute, err)
		return out
	}
	o.session.markFilled(out.Identity)
	out.Status = types.FieldFilled
	return out
}

// generatedCoverLetter fetches a letter for the configured job once per orchestrator.
// Failures leave the field unfilled.
func (o *Orchestrator) generatedCoverLetter(ctx context.Context) (string, bool) {
	if o.cfg.CoverLetters == nil || o.cfg.Job == nil {
		return "", false
	}
	if o.coverLetter == "" {
		letter, err := o.cfg.CoverLetters.CoverLetter(ctx, o.cfg.Job)
		if err != nil {
			o.logf("cover letter for %q failed: %v", o.cfg.Job.Title, err)
			return "", false
		}
		o.coverLetter = strings.TrimSpace(letter)
	}
	return o.coverLetter, o.coverLetter != ""
}

func record(result *types.FillResult, out types.FieldOutcome) {
	result.FieldsFound++
	switch out.Status {
	case types.FieldFilled:
		result.FieldsFilled++
	case types.FieldFailed:
		result.FieldsFailed++
	default:
		result.FieldsSkipped++
	}
	result.Fields = append(result.Fields, out)
}

func (o *Orchestrator) finish(result *types.FillResult) *types.FillResult {
	if result.FieldsFound > 0 {
		rate := float64(result.FieldsFilled) / float64(result.FieldsFound) * 100
		result.SuccessRate = math.Round(rate*10) / 10
	}
	result.Success = result.FieldsFilled > 0
	switch {
	case result.FieldsFound == 0:
		result.Message = "No fillable fields found"
	case result.FieldsFilled == 0:
		result.Message = fmt.Sprintf("Found %d fields but could not fill any", result.FieldsFound)
	default:
		result.Message = fmt.Sprintf("Filled %d of %d fields (%.0f%%)", result.FieldsFilled, result.FieldsFound, result.SuccessRate)
	}
	o.logf("%s", result.Message)
	return result
}

// navigate clicks the best Next button when AutoNavigate is on, otherwise the best Submit
// button when AutoSubmit is on. It returns which kind was clicked, or "".
func (o *Orchestrator) navigate(doc dom.Document) string {
	if !o.cfg.AutoNavigate && !o.cfg.AutoSubmit {
		return ""
	}
	nav := discovery.FindNavigationButtons(doc)
	if o.cfg.AutoNavigate && len(nav.Next) > 0 {
		if b := discovery.SelectBestButton(nav.Next, discovery.NextKeywords); b != nil && o.click(b) {
			return "next"
		}
	}
	if o.cfg.AutoSubmit && len(nav.Submit) > 0 {
		if b := discovery.SelectBestButton(nav.Submit, discovery.SubmitKeywords); b != nil && o.click(b) {
			return "submit"
		}
	}
	return ""
}

func (o *Orchestrator) click(b dom.Element) bool {
	if err := b.Click(); err != nil {
		o.logf("navigation click failed: %v", err)
		return false
	}
	o.logf("clicked %q", discovery.ButtonText(b))
	return true
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.cfg.Verbose {
		log.Printf("[AUTOFILL] "+format, args...)
	}
}
