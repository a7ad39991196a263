package repository

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"docx-pdf-service/internal/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPutter is the part of the minio client the mirror needs
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3ArtifactMirror copies converted documents into an S3 compatible bucket
type S3ArtifactMirror struct {
	client objectPutter
	bucket string
	host   string
	logger domain.Logger
}

// NewS3ArtifactMirror connects to the bucket described by cfg and checks that it exists
func NewS3ArtifactMirror(ctx context.Context, cfg domain.S3Config, logger domain.Logger) (*S3ArtifactMirror, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 endpoint and bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.Bucket)
	}

	logger.Info("S3 artifact mirror initialized", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return newS3ArtifactMirror(client, cfg, logger), nil
}

func newS3ArtifactMirror(client objectPutter, cfg domain.S3Config, logger domain.Logger) *S3ArtifactMirror {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &S3ArtifactMirror{
		client: client,
		bucket: cfg.Bucket,
		host:   fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
		logger: logger,
	}
}

// Name returns the mirror identifier used in logs
func (m *S3ArtifactMirror) Name() string {
	return "s3"
}

// Mirror uploads the artifact under its own name and returns the object URL
func (m *S3ArtifactMirror) Mirror(ctx context.Context, name string, content io.Reader, size int64) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, name, content, size, minio.PutObjectOptions{
		ContentType:  pdfContentType,
		UserMetadata: map[string]string{"uploaded-at": time.Now().UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	m.logger.Debug("Artifact mirrored to S3", "bucket", m.bucket, "key", info.Key, "etag", info.ETag)
	return m.buildPublicURL(name), nil
}

func (m *S3ArtifactMirror) buildPublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.host, m.bucket, url.PathEscape(key))
}
