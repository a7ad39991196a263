// Package docx extracts the paragraph text of WordprocessingML (.docx) documents.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"docx-pdf-service/internal/domain"
)

const (
	nsTransitional = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsStrict       = "http://purl.oclc.org/ooxml/wordprocessingml/main"

	defaultMainPart = "word/document.xml"
	corePropsPart   = "docProps/core.xml"
)

// Reader implements domain.DocumentReader for .docx files
type Reader struct {
	logger domain.Logger
}

// NewReader creates a new .docx reader
func NewReader(logger domain.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read opens the document at path and extracts its paragraphs
func (r *Reader) Read(filePath string) (*domain.SourceDocument, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	defer zr.Close()

	doc, err := r.parseArchive(&zr.Reader)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("docx parsed", "path", filePath, "paragraphs", len(doc.Paragraphs))
	return doc, nil
}

// Parse extracts paragraphs from an in-memory document
func (r *Reader) Parse(data []byte) (*domain.SourceDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return r.parseArchive(zr)
}

func (r *Reader) parseArchive(zr *zip.Reader) (*domain.SourceDocument, error) {
	mainPart := defaultMainPart
	if rels, err := readZipFile(zr, "_rels/.rels"); err == nil {
		if target := findMainPart(rels); target != "" {
			mainPart = target
		}
	}

	body, err := readZipFile(zr, mainPart)
	if err != nil {
		return nil, fmt.Errorf("%w: missing main document part: %v", domain.ErrInvalidDocument, err)
	}

	paragraphs, err := parseParagraphs(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	doc := &domain.SourceDocument{Paragraphs: paragraphs}
	if core, err := readZipFile(zr, corePropsPart); err == nil {
		doc.Title, doc.Author = parseCoreProperties(core)
	}
	return doc, nil
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	// Try exact match first.
	for _, f := range zr.File {
		if f.Name == name {
			return readEntry(f)
		}
	}
	// Then case-insensitive match.
	lower := strings.ToLower(name)
	for _, f := range zr.File {
		if strings.ToLower(f.Name) == lower {
			return readEntry(f)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// findMainPart resolves the officeDocument relationship of the package.
func findMainPart(relsXML []byte) string {
	type relationship struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	}
	type relationships struct {
		Items []relationship `xml:"Relationship"`
	}

	var rels relationships
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		return ""
	}
	for _, rel := range rels.Items {
		if strings.HasSuffix(rel.Type, "/officeDocument") && strings.TrimSpace(rel.Target) != "" {
			return path.Clean(strings.TrimPrefix(strings.TrimSpace(rel.Target), "/"))
		}
	}
	return ""
}

func isWordElement(name xml.Name, local string) bool {
	return name.Local == local && (name.Space == nsTransitional || name.Space == nsStrict)
}

// parseParagraphs walks the main document part and returns the text of every
// paragraph that is a direct child of w:body. Only runs directly under the
// paragraph, or under one of its hyperlinks, contribute text.
func parseParagraphs(documentXML []byte) (domain.ParagraphSequence, error) {
	dec := xml.NewDecoder(bytes.NewReader(documentXML))

	paragraphs := domain.ParagraphSequence{}
	var stack []xml.Name
	var sb strings.Builder

	// Depths are stack lengths after the element was pushed; 0 means unset.
	bodyDepth, paraDepth, runDepth, textDepth := 0, 0, 0, 0
	sawBody := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			depth := len(stack)

			switch {
			case bodyDepth == 0 && isWordElement(t.Name, "body"):
				bodyDepth = depth
				sawBody = true
			case bodyDepth > 0 && paraDepth == 0 && depth == bodyDepth+1 && isWordElement(t.Name, "p"):
				paraDepth = depth
				sb.Reset()
			case paraDepth > 0 && runDepth == 0 && isWordElement(t.Name, "r") && isParagraphRun(stack, paraDepth):
				runDepth = depth
			case runDepth > 0 && depth == runDepth+1:
				switch {
				case isWordElement(t.Name, "t"):
					textDepth = depth
				case isWordElement(t.Name, "tab"), isWordElement(t.Name, "ptab"):
					sb.WriteString("\t")
				case isWordElement(t.Name, "br"):
					if isLineBreak(t) {
						sb.WriteString("\n")
					}
				case isWordElement(t.Name, "cr"):
					sb.WriteString("\n")
				case isWordElement(t.Name, "noBreakHyphen"):
					sb.WriteString("-")
				}
			}

		case xml.CharData:
			if textDepth > 0 && len(stack) == textDepth {
				sb.Write(t)
			}

		case xml.EndElement:
			depth := len(stack)
			switch depth {
			case textDepth:
				textDepth = 0
			case runDepth:
				runDepth = 0
			case paraDepth:
				paragraphs = append(paragraphs, sb.String())
				paraDepth = 0
			case bodyDepth:
				bodyDepth = 0
			}
			if depth > 0 {
				stack = stack[:depth-1]
			}
		}
	}

	if !sawBody {
		return nil, fmt.Errorf("document body not found")
	}
	return paragraphs, nil
}

// isParagraphRun reports whether the run just pushed on stack is a direct
// child of the paragraph or of a hyperlink directly inside it.
func isParagraphRun(stack []xml.Name, paraDepth int) bool {
	depth := len(stack)
	if depth == paraDepth+1 {
		return true
	}
	return depth == paraDepth+2 && isWordElement(stack[paraDepth], "hyperlink")
}

// isLineBreak reports whether a w:br is a text-wrapping break. Page and
// column breaks produce no text.
func isLineBreak(se xml.StartElement) bool {
	for _, a := range se.Attr {
		if a.Name.Local == "type" {
			return a.Value == "" || a.Value == "textWrapping"
		}
	}
	return true
}

func parseCoreProperties(coreXML []byte) (title string, author string) {
	dec := xml.NewDecoder(bytes.NewReader(coreXML))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "title":
			if title == "" {
				title = strings.TrimSpace(readElementText(dec))
			}
		case "creator":
			if author == "" {
				author = strings.TrimSpace(readElementText(dec))
			}
		}
	}
	return title, author
}

func readElementText(dec *xml.Decoder) string {
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.CharData:
			out.Write([]byte(t))
		case xml.EndElement:
			return out.String()
		}
	}
	return out.String()
}
