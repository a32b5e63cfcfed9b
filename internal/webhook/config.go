package webhook

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zinc-sig/pyramid/internal/settings"
)

// Auth types.
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthAPIKey = "api-key"
)

// ReportIDHeader carries the report ID on every delivery.
const ReportIDHeader = "X-Pyramid-Report-ID"

// Config describes the endpoint a report is delivered to.
type Config struct {
	URL       string
	Method    string            // POST when empty
	Headers   map[string]string
	Timeout   time.Duration // across all attempts, 30s when zero
	AuthType  string
	AuthToken string
}

// Validate checks the URL and auth settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid webhook URL %q", c.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use http or https, got %s", u.Scheme)
	}

	switch c.AuthType {
	case "", AuthNone:
	case AuthBearer, AuthAPIKey:
		if c.AuthToken == "" {
			return fmt.Errorf("auth type %s requires a token", c.AuthType)
		}
	default:
		return fmt.Errorf("unknown auth type %q (want none, bearer or api-key)", c.AuthType)
	}
	return nil
}

// RetryConfig controls redelivery with exponential backoff.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns 3 retries starting at 1s, doubling up to 30s.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// FromSettings builds both configs from a resolved settings map. Recognized
// keys: url, method, timeout, auth_type, auth_token, retries,
// retry_delay and header_<name>.
func FromSettings(m map[string]any) (*Config, *RetryConfig, error) {
	config := &Config{
		URL:       settings.String(m, "url"),
		Method:    strings.ToUpper(settings.String(m, "method")),
		AuthType:  settings.String(m, "auth_type"),
		AuthToken: settings.String(m, "auth_token"),
	}
	retry := DefaultRetryConfig()

	if s := settings.String(m, "timeout"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid webhook timeout: %w", err)
		}
		config.Timeout = d
	}
	if s := settings.String(m, "retry_delay"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
		}
		retry.InitialDelay = d
	}
	retry.MaxRetries = settings.Int(m, "retries", retry.MaxRetries)

	for k := range m {
		if name, ok := strings.CutPrefix(k, "header_"); ok && name != "" {
			if config.Headers == nil {
				config.Headers = make(map[string]string)
			}
			config.Headers[name] = settings.String(m, k)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	return config, retry, nil
}
