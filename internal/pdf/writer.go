// Package pdf renders extracted paragraphs into a PDF using a Unicode TrueType font.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docx-pdf-service/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

const (
	DefaultFontFamily = "DejaVu"
	DefaultFontSize   = 12
	DefaultLineHeight = 10
)

// Writer implements domain.DocumentWriter with gofpdf
type Writer struct {
	FontPath   string
	FontFamily string
	FontSize   float64
	LineHeight float64
}

// NewWriter creates a writer that renders with the TrueType font at fontPath
func NewWriter(fontPath string, fontSize float64) *Writer {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return &Writer{
		FontPath:   fontPath,
		FontFamily: DefaultFontFamily,
		FontSize:   fontSize,
		LineHeight: DefaultLineHeight,
	}
}

// Write renders every paragraph as a left-aligned, wrapping text block on A4
// pages. A document without paragraphs yields a single blank page.
func (w *Writer) Write(document *domain.SourceDocument, out io.Writer) (err error) {
	// gofpdf panics on some malformed font tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render pdf: %v", r)
		}
	}()

	info, err := os.Stat(w.FontPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", domain.ErrFontNotFound, w.FontPath)
	}

	// gofpdf resolves UTF-8 font files relative to its font directory.
	fontDir, fontFile := filepath.Split(w.FontPath)
	if fontDir == "" {
		fontDir = "."
	}

	doc := gofpdf.New("P", "mm", "A4", fontDir)
	doc.SetCreator("docx-pdf-service", true)
	if document.Title != "" {
		doc.SetTitle(document.Title, true)
	}
	if document.Author != "" {
		doc.SetAuthor(document.Author, true)
	}

	doc.AddUTF8Font(w.FontFamily, "", fontFile)
	if err := doc.Error(); err != nil {
		return fmt.Errorf("load font %s: %w", w.FontPath, err)
	}
	doc.SetFont(w.FontFamily, "", w.FontSize)
	doc.AddPage()

	for _, paragraph := range document.Paragraphs {
		doc.MultiCell(0, w.LineHeight, paragraph, "", "L", false)
	}

	if err := doc.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
