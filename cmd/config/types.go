package config

import (
	"time"

	"github.com/zinc-sig/pyramid/internal/settings"
)

// ContextConfig holds context-related flags
type ContextConfig struct {
	JSON string
	KV   []string
	File string
}

func (c ContextConfig) Sources() settings.Sources {
	return settings.Sources{JSON: c.JSON, Pairs: c.KV, File: c.File}
}

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
}

func (c UploadConfig) Sources() settings.Sources {
	return settings.Sources{JSON: c.Config, Pairs: c.ConfigKV, File: c.ConfigFile}
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string
	ConfigKV   []string
	ConfigFile string
}

func (c WebhookConfig) Sources() settings.Sources {
	return settings.Sources{JSON: c.Config, Pairs: c.ConfigKV, File: c.ConfigFile}
}

// StoreConfig selects the report database.
type StoreConfig struct {
	Driver string
	DSN    string
}

// GraderConfig holds the flags that build a grader.
type GraderConfig struct {
	Cases      string
	Compiler   string
	CFlags     []string
	TimeoutStr string
	Timeout    time.Duration
	BuildCache int
}

// GradeFlags holds the grade command's own flags
type GradeFlags struct {
	Source  string
	Report  string // local[:remote]
	Summary bool
	DryRun  bool
}

// CheckFlags holds the check command's flags
type CheckFlags struct {
	Input    string
	Expected string
	Size     int
}

// ServeFlags holds the serve command's flags
type ServeFlags struct {
	Addr           string
	Origins        []string
	RequestTimeout time.Duration
}
