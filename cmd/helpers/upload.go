package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/settings"
	"github.com/zinc-sig/pyramid/internal/upload"
)

// BuildUploadConfig merges the upload settings from all sources. The
// --upload-provider flag wins over a provider key.
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	m, err := settings.BuildMap(settings.UploadPrefix, cfg.Sources())
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	if cfg.Provider != "" {
		m["provider"] = cfg.Provider
	}
	return m, nil
}

// SetupUploadProvider returns nil when no provider is requested.
func SetupUploadProvider(ctx context.Context, cfg *config.UploadConfig) (upload.Provider, map[string]any, error) {
	if cfg.Provider == "" {
		return nil, nil, nil
	}

	m, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.Open(ctx, m)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}
	return provider, m, nil
}

// PrintUploadInfo prints upload configuration in verbose mode
func PrintUploadInfo(w io.Writer, provider string, config map[string]any, reportRemote string) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Upload Configuration")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider:       %s\n", provider)

	for _, key := range []string{"endpoint", "bucket", "prefix"} {
		if v := settings.String(config, key); v != "" {
			fmt.Fprintf(w, "%-16s%s\n", key+":", v)
		}
	}

	if reportRemote == "" {
		reportRemote = upload.ArtifactPath("<report-id>", upload.ReportName)
	}
	fmt.Fprintf(w, "Source Path:    %s\n", upload.ArtifactPath("<report-id>", upload.SourceName))
	fmt.Fprintf(w, "Report Path:    %s\n", reportRemote)
	fmt.Fprintln(w, "----------------------------------------")
}
