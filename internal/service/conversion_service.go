package service

import (
	"context"
	"errors"
	"io"
	"time"

	"docx-pdf-service/internal/domain"
	apperrors "docx-pdf-service/pkg/errors"

	"github.com/dustin/go-humanize"
)

type ConversionService struct {
	store  domain.FileStore
	reader domain.DocumentReader
	writer domain.DocumentWriter
	mirror domain.ArtifactMirror
	logger domain.Logger
}

// NewConversionService wires the conversion use cases. mirror may be nil.
func NewConversionService(
	store domain.FileStore,
	reader domain.DocumentReader,
	writer domain.DocumentWriter,
	mirror domain.ArtifactMirror,
	logger domain.Logger,
) *ConversionService {
	return &ConversionService{
		store:  store,
		reader: reader,
		writer: writer,
		mirror: mirror,
		logger: logger,
	}
}

// Upload validates and persists a client file, then converts it.
func (s *ConversionService) Upload(ctx context.Context, filename string, content io.Reader) (*domain.ConvertedDocument, error) {
	if err := ValidateUploadName(filename); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	name := SanitizeFilename(filename)
	upload, err := s.store.SaveUpload(name, content)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to save uploaded file", err)
	}
	upload.Filename = filename

	s.logger.Info("Upload stored",
		"filename", filename,
		"sanitized_name", upload.SanitizedName,
		"size", humanize.Bytes(uint64(upload.Size)),
	)

	return s.Convert(ctx, upload.Path, upload.SanitizedName)
}

// Convert renders the document at inputPath into the output area under the
// name derived from originalName. Every failure is reported as a conversion
// error and leaves no artifact behind.
func (s *ConversionService) Convert(ctx context.Context, inputPath string, originalName string) (*domain.ConvertedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewConversionError(err)
	}

	start := time.Now()
	outputName := OutputName(originalName)

	document, err := s.reader.Read(inputPath)
	if err != nil {
		s.logger.Error("Failed to read document", err, "path", inputPath)
		return nil, apperrors.NewConversionError(err)
	}

	artifact, err := s.store.CreateArtifact(outputName)
	if err != nil {
		return nil, apperrors.NewConversionError(err)
	}

	if err := s.writer.Write(document, artifact); err != nil {
		if abortErr := artifact.Abort(); abortErr != nil {
			s.logger.Warn("Failed to discard partial artifact", "name", outputName, "error", abortErr.Error())
		}
		s.logger.Error("Failed to render document", err, "path", inputPath)
		return nil, apperrors.NewConversionError(err)
	}

	converted, err := artifact.Commit()
	if err != nil {
		return nil, apperrors.NewConversionError(err)
	}
	converted.Paragraphs = len(document.Paragraphs)

	s.logger.Info("Document converted",
		"name", converted.Name,
		"paragraphs", converted.Paragraphs,
		"size", humanize.Bytes(uint64(converted.Size)),
		"duration", time.Since(start).String(),
	)

	if s.mirror != nil {
		converted.MirrorURL = s.mirrorArtifact(ctx, converted.Name)
	}

	return converted, nil
}

// mirrorArtifact copies a committed artifact to the configured mirror. The
// local artifact stays authoritative, so failures only produce a warning.
func (s *ConversionService) mirrorArtifact(ctx context.Context, name string) string {
	artifact, err := s.store.OpenArtifact(name)
	if err != nil {
		s.logger.Warn("Artifact mirror skipped", "mirror", s.mirror.Name(), "name", name, "error", err.Error())
		return ""
	}
	defer artifact.Content.Close()

	url, err := s.mirror.Mirror(ctx, name, artifact.Content, artifact.Size)
	if err != nil {
		s.logger.Warn("Artifact mirror failed", "mirror", s.mirror.Name(), "name", name, "error", err.Error())
		return ""
	}

	s.logger.Info("Artifact mirrored", "mirror", s.mirror.Name(), "name", name, "url", url)
	return url
}

// OpenArtifact opens a converted document for download.
func (s *ConversionService) OpenArtifact(name string) (*domain.Artifact, error) {
	artifact, err := s.store.OpenArtifact(name)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, apperrors.NewNotFoundError("File not found")
		}
		return nil, apperrors.NewInternalError(err.Error(), err)
	}
	return artifact, nil
}
