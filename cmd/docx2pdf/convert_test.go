package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"docx-pdf-service/internal/domain"
)

type fakeConversionService struct {
	converted []string
	fail      map[string]error
}

func (f *fakeConversionService) Upload(ctx context.Context, filename string, content io.Reader) (*domain.ConvertedDocument, error) {
	return nil, errors.New("not used")
}

func (f *fakeConversionService) Convert(ctx context.Context, inputPath string, originalName string) (*domain.ConvertedDocument, error) {
	if err := f.fail[inputPath]; err != nil {
		return nil, err
	}
	f.converted = append(f.converted, originalName)
	name := strings.TrimSuffix(originalName, ".docx") + ".pdf"
	return &domain.ConvertedDocument{Name: name, Size: 2048, Paragraphs: 3}, nil
}

func (f *fakeConversionService) OpenArtifact(name string) (*domain.Artifact, error) {
	return nil, errors.New("not used")
}

func TestConvertFiles(t *testing.T) {
	svc := &fakeConversionService{fail: map[string]error{
		"in/broken.docx": errors.New("PDF conversion failed: invalid document"),
	}}

	result := convertFiles(context.Background(), svc,
		[]string{"in/report.docx", "in/My Notes.docx", "in/notes.txt", "in/broken.docx"}, "out")

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Files, 4)

	assert.Equal(t, filepath.Join("out", "report.pdf"), result.Files[0].Output)
	assert.Equal(t, filepath.Join("out", "My_Notes.pdf"), result.Files[1].Output)
	assert.Equal(t, "Unsupported file format. Please upload a .docx file", result.Files[2].Error)
	assert.Contains(t, result.Files[3].Error, "invalid document")
	assert.Equal(t, []string{"report.docx", "My_Notes.docx"}, svc.converted)
}

func TestWriteResult_Formats(t *testing.T) {
	result := &batchResult{
		Converted: 1,
		Failed:    1,
		Files: []fileResult{
			{Input: "a.docx", Output: "out/a.pdf", Paragraphs: 2, Size: 1500},
			{Input: "b.txt", Error: "Unsupported file format. Please upload a .docx file"},
		},
	}

	var text bytes.Buffer
	require.NoError(t, writeResult(&text, result, formatText))
	assert.Contains(t, text.String(), "OK   a.docx -> out/a.pdf (2 paragraphs, 1.5 kB)")
	assert.Contains(t, text.String(), "FAIL b.txt: Unsupported file format")
	assert.Contains(t, text.String(), "1 converted, 1 failed")

	var js bytes.Buffer
	require.NoError(t, writeResult(&js, result, formatJSON))
	var decoded batchResult
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, *result, decoded)

	var ym bytes.Buffer
	require.NoError(t, writeResult(&ym, result, formatYAML))
	var fromYAML batchResult
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, *result, fromYAML)
}

const testFontPath = "../../fonts/DejaVuSans.ttf"

func writeTestDocx(t *testing.T, path string, paragraphs ...string) {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`,
		body.String())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

// executeCLI runs the root command with args and returns what it printed.
func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestConvertCommand(t *testing.T) {
	if _, err := os.Stat(testFontPath); err != nil {
		t.Skipf("bundled font not available: %v", err)
	}

	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "pdf")
	input := filepath.Join(inDir, "Quarterly Report.docx")
	writeTestDocx(t, input, "Hello", "World")

	stdout, err := executeCLI(t, "convert", "--out", outDir, "--font", testFontPath, "--format", formatJSON, input)
	require.NoError(t, err)

	var result batchResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(outDir, "Quarterly_Report.pdf"), result.Files[0].Output)
	assert.Equal(t, 2, result.Files[0].Paragraphs)

	data, err := os.ReadFile(result.Files[0].Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, int64(len(data)), result.Files[0].Size)
}

func TestConvertCommand_FailuresExitNonZero(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	notes := filepath.Join(inDir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("plain text"), 0o644))

	stdout, err := executeCLI(t, "convert", "--out", outDir, "--font", testFontPath, "--format", formatText, notes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed conversion")
	assert.Contains(t, stdout, "FAIL "+notes+": Unsupported file format")
	assert.Contains(t, stdout, "0 converted, 1 failed")
}

func TestConvertCommand_UnknownFormat(t *testing.T) {
	_, err := executeCLI(t, "convert", "--out", t.TempDir(), "--format", "xml", "report.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}
