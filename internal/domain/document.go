package domain

import (
	"io"
	"time"
)

const (
	// SourceExtension is the only accepted upload extension (case-sensitive).
	SourceExtension = ".docx"
	// TargetExtension replaces SourceExtension on converted documents.
	TargetExtension = ".pdf"
	// DownloadPathPrefix is the URL prefix under which artifacts are served.
	DownloadPathPrefix = "/download/"
)

// ParagraphSequence is the plain text of a document, one entry per paragraph
// in source order. Empty paragraphs are kept as empty strings.
type ParagraphSequence []string

// SourceDocument is the text content extracted from an uploaded document
type SourceDocument struct {
	Paragraphs ParagraphSequence
	Title      string
	Author     string
}

// Upload is a client file persisted to the input area
type Upload struct {
	Filename      string `json:"filename"`
	SanitizedName string `json:"sanitized_name"`
	Path          string `json:"path"`
	Size          int64  `json:"size"`
}

// ConvertedDocument is the output artifact derived from exactly one upload
type ConvertedDocument struct {
	Name        string `json:"name"`
	Path        string `json:"-"`
	DownloadURL string `json:"download_url"`
	MirrorURL   string `json:"mirror_url,omitempty"`
	Size        int64  `json:"size"`
	Paragraphs  int    `json:"paragraphs"`
}

// Artifact is an opened converted document ready to be streamed
type Artifact struct {
	Name    string
	Size    int64
	ModTime time.Time
	Content io.ReadSeekCloser
}

// DownloadURLFor returns the artifact reference served by the download endpoint.
func DownloadURLFor(name string) string {
	return DownloadPathPrefix + name
}
