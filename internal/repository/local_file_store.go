package repository

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docx-pdf-service/internal/domain"
)

const tempSuffix = ".tmp"

// LocalFileStore implements domain.FileStore on two local directories
type LocalFileStore struct {
	inputDir  string
	outputDir string
	logger    domain.Logger
}

// NewLocalFileStore creates a store over the input and output areas
func NewLocalFileStore(inputDir, outputDir string, logger domain.Logger) *LocalFileStore {
	return &LocalFileStore{
		inputDir:  inputDir,
		outputDir: outputDir,
		logger:    logger,
	}
}

// EnsureDirs creates both areas when they are missing
func (s *LocalFileStore) EnsureDirs() error {
	for _, dir := range []string{s.inputDir, s.outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SaveUpload writes the raw upload bytes to the input area, replacing any
// previous file with the same name.
func (s *LocalFileStore) SaveUpload(name string, content io.Reader) (*domain.Upload, error) {
	if !isPlainName(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilename, name)
	}

	path := filepath.Join(s.inputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	size, copyErr := io.Copy(f, content)
	closeErr := f.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("write upload file: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close upload file: %w", closeErr)
	}

	return &domain.Upload{
		SanitizedName: name,
		Path:          path,
		Size:          size,
	}, nil
}

// CreateArtifact opens a temporary file in the output area. The artifact only
// becomes visible under name once committed.
func (s *LocalFileStore) CreateArtifact(name string) (domain.ArtifactWriter, error) {
	if !isPlainName(name) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilename, name)
	}

	tmp, err := os.CreateTemp(s.outputDir, "."+name+".*"+tempSuffix)
	if err != nil {
		return nil, fmt.Errorf("create artifact file: %w", err)
	}

	return &localArtifactWriter{
		file:      tmp,
		finalPath: filepath.Join(s.outputDir, name),
		name:      name,
	}, nil
}

// OpenArtifact opens a converted document from the output area
func (s *LocalFileStore) OpenArtifact(name string) (*domain.Artifact, error) {
	if !isPublishedName(name) {
		return nil, domain.ErrArtifactNotFound
	}

	path := filepath.Join(s.outputDir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, domain.ErrArtifactNotFound
	}

	return &domain.Artifact{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Content: f,
	}, nil
}

// isPlainName reports whether name is a single path element that stays
// inside its directory.
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}

// isPublishedName excludes the hidden temp files CreateArtifact renders into.
func isPublishedName(name string) bool {
	return isPlainName(name) && !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, tempSuffix)
}

type localArtifactWriter struct {
	file      *os.File
	finalPath string
	name      string
	written   int64
	done      bool
}

func (w *localArtifactWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	w.written += int64(n)
	return n, err
}

// Commit renames the temporary file onto its final name. An existing artifact
// with the same name is replaced.
func (w *localArtifactWriter) Commit() (*domain.ConvertedDocument, error) {
	if w.done {
		return nil, fmt.Errorf("artifact %s already finalized", w.name)
	}
	w.done = true

	tmpPath := w.file.Name()
	if err := w.file.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close artifact file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("chmod artifact file: %w", err)
	}
	if err := os.Rename(tmpPath, w.finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("publish artifact file: %w", err)
	}

	return &domain.ConvertedDocument{
		Name:        w.name,
		Path:        w.finalPath,
		DownloadURL: domain.DownloadURLFor(w.name),
		Size:        w.written,
	}, nil
}

// Abort discards the temporary file
func (w *localArtifactWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	tmpPath := w.file.Name()
	w.file.Close()
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
