package api

import (
	"context"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/jonathan/job-autofill/internal/types"
)

// API paths.
const (
	PathProfile      = "/api/profile"
	PathResume       = "/api/resume/file"
	PathMatchScore   = "/api/jobs/match"
	PathCoverLetter  = "/api/cover-letter"
	PathApplications = "/api/applications"
)

// Profile returns the user's profile, reusing a cached copy younger than the TTL.
// Concurrent callers on a cold cache share one request.
func (c *Client) Profile(ctx context.Context) (*types.Profile, error) {
	c.mu.Lock()
	if c.profile != nil && c.now().Sub(c.profileAt) < c.ttl {
		p := c.profile
		c.mu.Unlock()
		return p, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("profile", func() (any, error) {
		var p types.Profile
		if err := c.doJSON(ctx, "profile", http.MethodGet, PathProfile, nil, &p); err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.profile = &p
		c.profileAt = c.now()
		c.mu.Unlock()
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Profile), nil
}

// InvalidateProfile drops the cached profile.
func (c *Client) InvalidateProfile() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = nil
}

// Resume downloads the user's resume file. The name comes from Content-Disposition.
func (c *Client) Resume(ctx context.Context) (string, []byte, error) {
	resp, data, err := c.request(ctx, "resume", http.MethodGet, PathResume, nil)
	if err != nil {
		return "", nil, err
	}
	name := "resume.pdf"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if fn := path.Base(params["filename"]); fn != "" && fn != "." && fn != "/" {
			name = fn
		}
	}
	return name, data, nil
}

// MatchScore is the service's assessment of how well the profile fits a job.
type MatchScore struct {
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Summary       string   `json:"summary"`
}

// MatchScore asks the service to score the profile against job.
func (c *Client) MatchScore(ctx context.Context, job *types.JobRecord) (*MatchScore, error) {
	var out MatchScore
	if err := c.doJSON(ctx, "match score", http.MethodPost, PathMatchScore, job, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CoverLetter asks the service to write a cover letter for job.
func (c *Client) CoverLetter(ctx context.Context, job *types.JobRecord) (string, error) {
	var out struct {
		CoverLetter string `json:"coverLetter"`
	}
	if err := c.doJSON(ctx, "cover letter", http.MethodPost, PathCoverLetter, job, &out); err != nil {
		return "", err
	}
	return out.CoverLetter, nil
}

// Application is the tracking record sent after an autofill pass.
type Application struct {
	Job          *types.JobRecord  `json:"job"`
	Result       *types.FillResult `json:"result,omitempty"`
	Status       string            `json:"status"`
	SubmittedAt  time.Time         `json:"submittedAt"`
	FieldsFilled int               `json:"fieldsFilled"`
}

// TrackApplication records that the user applied (or started applying) to job.
func (c *Client) TrackApplication(ctx context.Context, job *types.JobRecord, result *types.FillResult) error {
	app := Application{Job: job, Result: result, Status: "started", SubmittedAt: c.now().UTC()}
	if result != nil {
		app.FieldsFilled = result.FieldsFilled
		if result.Navigation == "submit" {
			app.Status = "submitted"
		}
	}
	return c.doJSON(ctx, "track application", http.MethodPost, PathApplications, app, nil)
}
