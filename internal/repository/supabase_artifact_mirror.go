package repository

import (
	"context"
	"fmt"
	"io"

	"docx-pdf-service/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
)

const pdfContentType = "application/pdf"

// storageUploader is the part of the storage API the mirror needs
type storageUploader interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseArtifactMirror copies converted documents into a Supabase Storage bucket
type SupabaseArtifactMirror struct {
	storage storageUploader
	bucket  string
	logger  domain.Logger
}

// NewSupabaseArtifactMirror creates a mirror backed by an initialized Supabase client
func NewSupabaseArtifactMirror(client domain.SupabaseClient, bucket string, logger domain.Logger) (*SupabaseArtifactMirror, error) {
	if err := client.Initialize(); err != nil {
		return nil, err
	}
	storage := client.Storage()
	if storage == nil {
		return nil, fmt.Errorf("supabase storage client not available")
	}
	return newSupabaseArtifactMirror(storage, bucket, logger), nil
}

func newSupabaseArtifactMirror(storage storageUploader, bucket string, logger domain.Logger) *SupabaseArtifactMirror {
	return &SupabaseArtifactMirror{
		storage: storage,
		bucket:  bucket,
		logger:  logger,
	}
}

// Name returns the mirror identifier used in logs
func (m *SupabaseArtifactMirror) Name() string {
	return "supabase"
}

// Mirror uploads the artifact, replacing an existing object with the same name,
// and returns its public URL.
func (m *SupabaseArtifactMirror) Mirror(ctx context.Context, name string, content io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	contentType := pdfContentType
	upsert := true
	resp, err := m.storage.UploadFile(m.bucket, name, content, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", name, m.bucket, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("upload %s to bucket %s: %s", name, m.bucket, resp.Error)
	}

	m.logger.Debug("Artifact mirrored to Supabase", "bucket", m.bucket, "key", resp.Key, "size", size)
	return m.storage.GetPublicUrl(m.bucket, name).SignedURL, nil
}
