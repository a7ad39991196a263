package config

import (
	"context"
	"fmt"
	"time"

	"docx-pdf-service/internal/docx"
	"docx-pdf-service/internal/domain"
	"docx-pdf-service/internal/pdf"
	"docx-pdf-service/internal/repository"
	"docx-pdf-service/internal/service"
	apperrors "docx-pdf-service/pkg/errors"
	"docx-pdf-service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	FileStore         domain.FileStore
	ArtifactMirror    domain.ArtifactMirror
	ConversionService domain.ConversionService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithConfig(NewConfig(), nil)
}

// NewContainerWithConfig builds the container from an explicit configuration.
// A nil appLogger is replaced by a zap logger at the configured level.
func NewContainerWithConfig(config domain.Config, appLogger domain.Logger) (*Container, error) {
	if appLogger == nil {
		appLogger = logger.NewLogger(config.GetLogLevel())
	}

	fileStore := repository.NewLocalFileStore(config.GetUploadPath(), config.GetConvertedPath(), appLogger)

	mirror, err := newArtifactMirror(config, appLogger)
	if err != nil {
		return nil, err
	}

	conversionService := service.NewConversionService(
		fileStore,
		docx.NewReader(appLogger),
		pdf.NewWriter(config.GetFontPath(), config.GetFontSize()),
		mirror,
		appLogger,
	)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		FileStore:         fileStore,
		ArtifactMirror:    mirror,
		ConversionService: conversionService,
	}, nil
}

// newArtifactMirror returns nil when mirroring is disabled.
func newArtifactMirror(config domain.Config, appLogger domain.Logger) (domain.ArtifactMirror, error) {
	switch config.GetArtifactMirror() {
	case "", MirrorNone:
		return nil, nil
	case MirrorSupabase:
		client := repository.NewSupabaseClient(config, appLogger)
		mirror, err := repository.NewSupabaseArtifactMirror(client, config.GetSupabaseBucket(), appLogger)
		if err != nil {
			return nil, apperrors.NewNetworkError("supabase artifact mirror unavailable", err)
		}
		return mirror, nil
	case MirrorS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mirror, err := repository.NewS3ArtifactMirror(ctx, config.GetS3Config(), appLogger)
		if err != nil {
			return nil, apperrors.NewNetworkError("s3 artifact mirror unavailable", err)
		}
		return mirror, nil
	default:
		return nil, fmt.Errorf("unknown artifact mirror %q", config.GetArtifactMirror())
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetFileStore returns the local file store
func (c *Container) GetFileStore() domain.FileStore {
	return c.FileStore
}

// GetConversionService returns the conversion service instance
func (c *Container) GetConversionService() domain.ConversionService {
	return c.ConversionService
}
