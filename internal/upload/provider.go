// Package upload publishes grading artifacts to remote object storage.
package upload

import (
	"context"
	"io"
)

// Object is one artifact to upload.
type Object struct {
	Path        string // remote path, relative to the provider's prefix
	Body        io.Reader
	Size        int64 // -1 when unknown
	ContentType string
}

// Provider stores objects in a remote backend.
type Provider interface {
	// Configure connects the provider using settings keys.
	Configure(ctx context.Context, config map[string]any) error

	Upload(ctx context.Context, obj Object) error

	Name() string
}
