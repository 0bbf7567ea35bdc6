// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables that override file values.
const (
	EnvAPIURL      = "AUTOFILL_API_URL"
	EnvAPIToken    = "AUTOFILL_API_TOKEN"
	EnvDatabaseURL = "DATABASE_URL"
	EnvVerbose     = "AUTOFILL_VERBOSE"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Remote service
	APIURL   string `json:"api_url,omitempty" validate:"omitempty,url"`
	APIToken string `json:"api_token,omitempty"`

	// Local data
	Profile     string `json:"profile,omitempty"`      // Path to a profile JSON file
	Resume      string `json:"resume,omitempty"`       // Path to a resume file for upload controls
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL for settings

	// Behavior
	UseBrowser   bool `json:"use_browser,omitempty"`
	Verbose      bool `json:"verbose,omitempty"`
	AutoNavigate bool `json:"auto_navigate,omitempty"`
	AutoSubmit   bool `json:"auto_submit,omitempty"`

	// Timing
	TypingDelayMS int `json:"typing_delay_ms,omitempty" validate:"gte=0,lte=1000"`
	FieldDelayMS  int `json:"field_delay_ms,omitempty" validate:"gte=0,lte=10000"`
	FormDelayMS   int `json:"form_delay_ms,omitempty" validate:"gte=0,lte=30000"`
	CooldownMS    int `json:"cooldown_ms,omitempty" validate:"gte=0"`
	DebounceMS    int `json:"debounce_ms,omitempty" validate:"gte=0"`

	// Limits
	MaxAttempts int `json:"max_attempts,omitempty" validate:"gte=0,lte=10"`
}

// Defaults returns the values used when neither the file nor flags set a field.
func Defaults() Config {
	return Config{
		TypingDelayMS: 10,
		FieldDelayMS:  100,
		FormDelayMS:   500,
		CooldownMS:    5000,
		DebounceMS:    2000,
		MaxAttempts:   3,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks field formats and ranges, and that referenced files exist.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	return nil
}

// ApplyEnv overrides fields from the environment. Call it after loading .env.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvVerbose))); err == nil {
		c.Verbose = v
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.APIToken == "" {
		result.APIToken = defaults.APIToken
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.TypingDelayMS == 0 {
		result.TypingDelayMS = defaults.TypingDelayMS
	}
	if result.FieldDelayMS == 0 {
		result.FieldDelayMS = defaults.FieldDelayMS
	}
	if result.FormDelayMS == 0 {
		result.FormDelayMS = defaults.FormDelayMS
	}
	if result.CooldownMS == 0 {
		result.CooldownMS = defaults.CooldownMS
	}
	if result.DebounceMS == 0 {
		result.DebounceMS = defaults.DebounceMS
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}

	// Bool fields: unset and false are indistinguishable, so CLI flags win.
	return result
}

// TypingDelay returns the pause between typed chunks.
func (c *Config) TypingDelay() time.Duration { return ms(c.TypingDelayMS) }

// FieldDelay returns the pause after each field.
func (c *Config) FieldDelay() time.Duration { return ms(c.FieldDelayMS) }

// FormDelay returns the pause between forms.
func (c *Config) FormDelay() time.Duration { return ms(c.FormDelayMS) }

// Cooldown returns the attempt-counter reset window.
func (c *Config) Cooldown() time.Duration { return ms(c.CooldownMS) }

// Debounce returns the job detection debounce window.
func (c *Config) Debounce() time.Duration { return ms(c.DebounceMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
