package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"
)

// Artifact names inside a report's directory.
const (
	SourceName = "main.c"
	ReportName = "report.json"
)

// ArtifactPath returns <reportID>/<name>.
func ArtifactPath(reportID, name string) string {
	return path.Join(reportID, name)
}

// Publisher uploads the artifacts of one grading run.
type Publisher struct {
	provider Provider
	logger   *zap.Logger
}

func NewPublisher(provider Provider, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{provider: provider, logger: logger.Named("upload")}
}

// Put uploads data to remotePath.
func (p *Publisher) Put(ctx context.Context, remotePath string, data []byte, contentType string) error {
	err := p.provider.Upload(ctx, Object{
		Path:        remotePath,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	if err != nil {
		return err
	}
	p.logger.Info("artifact uploaded",
		zap.String("provider", p.provider.Name()),
		zap.String("path", remotePath),
		zap.Int("bytes", len(data)))
	return nil
}

// Publish uploads the submitted source and the JSON report under the report
// directory. reportPath overrides the report's remote path when set. It
// returns the remote paths written, stopping at the first failure.
func (p *Publisher) Publish(ctx context.Context, reportID string, source, report []byte, reportPath string) ([]string, error) {
	if reportPath == "" {
		reportPath = ArtifactPath(reportID, ReportName)
	}

	items := []struct {
		path        string
		data        []byte
		contentType string
	}{
		{ArtifactPath(reportID, SourceName), source, "text/x-c"},
		{reportPath, report, "application/json"},
	}

	var written []string
	for _, item := range items {
		if err := p.Put(ctx, item.path, item.data, item.contentType); err != nil {
			return written, fmt.Errorf("failed to upload %s: %w", item.path, err)
		}
		written = append(written, item.path)
	}
	return written, nil
}
