package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"docx-pdf-service/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	msgNoSelectedFile    = "No selected file"
	msgUnsupportedFormat = "Unsupported file format. Please upload a .docx file"

	// fallbackUploadName is used when sanitizing leaves nothing usable.
	fallbackUploadName = "document" + domain.SourceExtension
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// ValidateUploadName checks the client supplied filename of an upload.
func ValidateUploadName(name string) error {
	return validation.Validate(name,
		validation.Required.Error(msgNoSelectedFile),
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if !strings.HasSuffix(s, domain.SourceExtension) {
				return errors.New(msgUnsupportedFormat)
			}
			return nil
		}),
	)
}

// SanitizeFilename reduces a client filename to a safe ASCII name for the
// local filesystem. Unicode is decomposed and non-ASCII runes are dropped,
// path separators and whitespace runs become underscores, anything outside
// [A-Za-z0-9_.-] is removed and leading or trailing dots and underscores are
// trimmed. Names that lose their stem or extension fall back to
// document.docx.
func SanitizeFilename(name string) string {
	folder := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = ""
	}

	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "._")

	stem := strings.TrimSuffix(folded, domain.SourceExtension)
	if stem == folded || strings.Trim(stem, "._-") == "" {
		return fallbackUploadName
	}
	return folded
}

// OutputName derives the artifact name from a sanitized upload name. Only the
// trailing extension is replaced, so a.b.docx becomes a.b.pdf.
func OutputName(name string) string {
	return strings.TrimSuffix(name, domain.SourceExtension) + domain.TargetExtension
}
