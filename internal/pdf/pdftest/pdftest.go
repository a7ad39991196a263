// Package pdftest inspects PDFs produced by the pdf package in tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"io"
	"unicode/utf16"
)

var (
	streamStart = []byte(">>\nstream\n")
	streamEnd   = []byte("\nendstream")
	showText    = []byte(")Tj ET")
)

// PageContent returns the inflated page content streams of data joined in
// file order. Streams that do not draw text are left out.
func PageContent(data []byte) []byte {
	var content []byte
	for {
		start := bytes.Index(data, streamStart)
		if start < 0 {
			return content
		}
		data = data[start+len(streamStart):]
		end := bytes.Index(data, streamEnd)
		if end < 0 {
			return content
		}
		raw := data[:end]
		data = data[end+len(streamEnd):]

		stream := raw
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			if inflated, err := io.ReadAll(zr); err == nil {
				stream = inflated
			}
			zr.Close()
		}
		if bytes.Contains(stream, showText) {
			content = append(content, stream...)
		}
	}
}

// TextBlocks counts the text-showing operators in content.
func TextBlocks(content []byte) int {
	return bytes.Count(content, showText)
}

// UTF16BE encodes s the way text is written for UTF-8 fonts.
func UTF16BE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

// Offsets returns the position of each text in content, or -1 when it is
// not drawn. Texts must not contain characters PDF strings escape.
func Offsets(content []byte, texts ...string) []int {
	offsets := make([]int, len(texts))
	for i, text := range texts {
		offsets[i] = bytes.Index(content, UTF16BE(text))
	}
	return offsets
}
