package upload

import (
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/zinc-sig/pyramid/internal/settings"
)

// MinioProvider stores objects in a MinIO or S3 bucket.
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure requires endpoint, access_key, secret_key and bucket. secure
// defaults to true, region to us-east-1. The bucket must already exist.
func (m *MinioProvider) Configure(ctx context.Context, config map[string]any) error {
	required := map[string]string{}
	for _, key := range []string{"endpoint", "access_key", "secret_key", "bucket"} {
		v := settings.String(config, key)
		if v == "" {
			return fmt.Errorf("minio: %s is required", key)
		}
		required[key] = v
	}

	region := settings.String(config, "region")
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(required["endpoint"], &minio.Options{
		Creds:  credentials.NewStaticV4(required["access_key"], required["secret_key"], ""),
		Secure: settings.Bool(config, "secure", true),
		Region: region,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, required["bucket"])
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", required["bucket"])
	}

	m.client = client
	m.bucket = required["bucket"]
	m.prefix = settings.String(config, "prefix")
	return nil
}

// Upload streams obj into the bucket under the configured prefix.
func (m *MinioProvider) Upload(ctx context.Context, obj Object) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	name := obj.Path
	if m.prefix != "" {
		name = path.Join(m.prefix, obj.Path)
	}

	_, err := m.client.PutObject(ctx, m.bucket, name, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", name, err)
	}
	return nil
}
