package domain

import "errors"

// Domain errors
var (
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrInvalidDocument  = errors.New("invalid document")
	ErrFontNotFound     = errors.New("font resource not found")
	ErrInvalidFilename  = errors.New("invalid filename")
)
