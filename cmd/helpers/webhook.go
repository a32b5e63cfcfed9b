package helpers

import (
	"fmt"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/settings"
	"github.com/zinc-sig/pyramid/internal/webhook"
)

// BuildWebhookConfig merges the webhook settings from all sources.
//
// Precedence: env < file < json < kv < direct flags. Direct flags only
// override when they differ from their defaults.
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	m, err := settings.BuildMap(settings.WebhookPrefix, cfg.Sources())
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if m == nil {
		m = make(map[string]any)
	}

	if cfg.URL != "" {
		m["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		m["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != webhook.AuthNone {
		m["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		m["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		m["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		m["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		m["retry_delay"] = cfg.RetryDelay
	}

	return m, nil
}

// ParseWebhookConfig returns nil configs when no URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	m, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if settings.String(m, "url") == "" {
		return nil, nil, nil
	}
	return webhook.FromSettings(m)
}
