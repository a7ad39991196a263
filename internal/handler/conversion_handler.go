// Package handler provides HTTP handlers for the conversion service.
package handler

import (
	_ "embed"
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"docx-pdf-service/internal/domain"
	apperrors "docx-pdf-service/pkg/errors"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var indexPage []byte

const (
	msgNoFilePart     = "No file part"
	msgNoSelectedFile = "No selected file"
)

// ConversionHandler handles upload, conversion and download requests
type ConversionHandler struct {
	conversionService domain.ConversionService
	logger            domain.Logger
	maxFileSize       int64
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(conversionService domain.ConversionService, maxFileSize int64, logger domain.Logger) *ConversionHandler {
	return &ConversionHandler{
		conversionService: conversionService,
		logger:            logger,
		maxFileSize:       maxFileSize,
	}
}

type uploadResponse struct {
	DownloadURL string `json:"download_url"`
	MirrorURL   string `json:"mirror_url,omitempty"`
}

// Index serves the upload page
func (h *ConversionHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

// Health reports that the service is up
func (h *ConversionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "docx-pdf-service"})
}

// Upload handles a multipart upload in field "file" and converts it to PDF
func (h *ConversionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusBadRequest, "File too large. Maximum size is "+humanize.IBytes(uint64(maxErr.Limit)))
		case errors.Is(err, http.ErrMissingFile) && r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0:
			// A file part sent without a filename is parsed as a plain form value.
			writeError(w, http.StatusBadRequest, msgNoSelectedFile)
		default:
			writeError(w, http.StatusBadRequest, msgNoFilePart)
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	converted, err := h.conversionService.Upload(r.Context(), header.Filename, file)
	if err != nil {
		fields := []interface{}{"filename", header.Filename}
		if requestID, ok := GetRequestIDFromContext(r); ok {
			fields = append(fields, "request_id", requestID)
		}
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			h.logger.Info("Upload rejected", append(fields, "reason", err.Error())...)
		} else {
			h.logger.Error("Upload failed", err, fields...)
		}
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		DownloadURL: converted.DownloadURL,
		MirrorURL:   converted.MirrorURL,
	})
}

// Download streams a converted document as an attachment
func (h *ConversionHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	artifact, err := h.conversionService.OpenArtifact(name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer artifact.Content.Close()

	contentType := "application/pdf"
	if ext := filepath.Ext(artifact.Name); ext != domain.TargetExtension {
		if contentType = mime.TypeByExtension(ext); contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Name}))

	http.ServeContent(w, r, artifact.Name, artifact.ModTime, artifact.Content)
}
