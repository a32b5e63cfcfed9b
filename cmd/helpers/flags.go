package helpers

import (
	"github.com/spf13/cobra"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/sandbox"
)

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to JSON or YAML file containing context data")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Upload provider type (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON or YAML file containing upload configuration")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send the report to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: POST, PUT, PATCH")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON or YAML file containing webhook configuration")
}

// SetupStoreFlags adds report database flags to a command
func SetupStoreFlags(cmd *cobra.Command, cfg *config.StoreConfig) {
	cmd.Flags().StringVar(&cfg.Driver, "db-driver", "", "Report database driver: sqlite or postgres (disabled when empty)")
	cmd.Flags().StringVar(&cfg.DSN, "db-dsn", "", "Report database DSN (driver default when empty)")
}

// SetupGraderFlags adds test case and compiler flags to a command
func SetupGraderFlags(cmd *cobra.Command, cfg *config.GraderConfig) {
	cmd.Flags().StringVar(&cfg.Cases, "cases", "", "YAML or JSON fixture file (built-in pyramid cases when empty)")
	cmd.Flags().StringVar(&cfg.Compiler, "compiler", sandbox.DefaultCompiler, "C compiler used to build the submission")
	cmd.Flags().StringArrayVar(&cfg.CFlags, "cflags", nil, "Extra compiler flag (can be used multiple times)")
	cmd.Flags().StringVarP(&cfg.TimeoutStr, "timeout", "t", sandbox.DefaultTimeout.String(), "Per-run timeout (e.g., 3s, 500ms)")
	cmd.Flags().IntVar(&cfg.BuildCache, "build-cache", sandbox.DefaultCacheSize, "Compiled submissions kept on disk")
}
