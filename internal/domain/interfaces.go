package domain

import (
	"context"
	"io"
)

// DocumentReader opens a source document and exposes its text content
type DocumentReader interface {
	Read(path string) (*SourceDocument, error)
}

// DocumentWriter renders a source document's paragraphs into an output document
type DocumentWriter interface {
	Write(document *SourceDocument, out io.Writer) error
}

// FileStore owns the input and output areas on the local filesystem
type FileStore interface {
	EnsureDirs() error
	SaveUpload(name string, content io.Reader) (*Upload, error)
	CreateArtifact(name string) (ArtifactWriter, error)
	OpenArtifact(name string) (*Artifact, error)
}

// ArtifactWriter is a pending output file. Commit publishes it under its
// final name, Abort discards it.
type ArtifactWriter interface {
	io.Writer
	Commit() (*ConvertedDocument, error)
	Abort() error
}

// ArtifactMirror copies a converted document to remote object storage
type ArtifactMirror interface {
	Name() string
	Mirror(ctx context.Context, name string, content io.Reader, size int64) (string, error)
}

// ConversionService defines the upload, convert and download use cases
type ConversionService interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*ConvertedDocument, error)
	Convert(ctx context.Context, inputPath string, originalName string) (*ConvertedDocument, error)
	OpenArtifact(name string) (*Artifact, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetConvertedPath() string
	GetFontPath() string
	GetFontSize() float64
	GetMaxFileSize() int64
	GetLogLevel() string
	GetCORSOrigins() []string
	GetArtifactMirror() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetS3Config() S3Config
}

// S3Config holds the settings of an S3 compatible artifact mirror
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}
