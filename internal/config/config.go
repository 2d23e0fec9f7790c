// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultAPIBase is the hosted AI service used when nothing else is configured.
const DefaultAPIBase = "https://skillfolio.onrender.com"

// Default values
const (
	DefaultTimeoutSeconds = 30
	DefaultPolicy         = "suggest-only"
	DefaultTemplateID     = 1
	DefaultPort           = 8000
	DefaultRateLimit      = 60
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Services
	APIBase      string `json:"api_base,omitempty" validate:"omitempty,url"`      // AI service base URL
	TemplateBase string `json:"template_base,omitempty" validate:"omitempty,url"` // Templating service base URL

	// Behavior
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=0"`   // Per-request AI timeout
	Policy         string `json:"policy,omitempty"`                             // "auto-apply" or "suggest-only"
	TemplateID     int    `json:"template_id,omitempty" validate:"gte=0,lte=3"` // Resume template for handoff
	Verbose        bool   `json:"verbose,omitempty"`                            // Print detailed debug information

	// Dev AI service
	Port         int    `json:"port,omitempty" validate:"gte=0,lte=65535"` // Listen port for serve-ai
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`                  // Gemini API key for serve-ai
	RateLimit    int    `json:"rate_limit,omitempty" validate:"gte=-1"`    // AI requests per client per minute; -1 disables
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBase:        DefaultAPIBase,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Policy:         DefaultPolicy,
		TemplateID:     DefaultTemplateID,
		Port:           DefaultPort,
		RateLimit:      DefaultRateLimit,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// Load builds the effective configuration: file values (if path is set) win over
// environment values, which win over defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	merged := cfg.MergeWithDefaults(FromEnv()).MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Policy {
	case "", "auto-apply", "suggest-only":
	default:
		return fmt.Errorf("config error: 'policy' must be auto-apply or suggest-only, got %q", c.Policy)
	}

	for name, raw := range map[string]string{"api_base": c.APIBase, "template_base": c.TemplateBase} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("config error: '%s' must be an http(s) URL, got %q", name, raw)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.APIBase == "" {
		result.APIBase = defaults.APIBase
	}
	if result.TemplateBase == "" {
		result.TemplateBase = defaults.TemplateBase
	}
	if result.Policy == "" {
		result.Policy = defaults.Policy
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.TemplateID == 0 {
		result.TemplateID = defaults.TemplateID
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}

	// Bool fields: cannot distinguish unset from false, so only true propagates
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Timeout returns the per-request AI timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TemplateURL returns the templating service base URL, defaulting to the AI service.
func (c *Config) TemplateURL() string {
	if c.TemplateBase != "" {
		return c.TemplateBase
	}
	return c.APIBase
}
