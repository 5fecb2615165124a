package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/umputun/newsdigest/pkg/domain"
)

// FileStore keeps the history as a single JSON document
type FileStore struct {
	path string
}

// NewFileStore makes a store for the JSON document at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the history document. A missing file is an empty history.
func (s *FileStore) Load(_ context.Context) (domain.History, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.History{Editions: []domain.Edition{}}, nil
	}
	if err != nil {
		return domain.History{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var h domain.History
	if err := json.Unmarshal(data, &h); err != nil {
		return domain.History{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if h.Editions == nil {
		h.Editions = []domain.Edition{}
	}
	return h, nil
}

// Save writes the whole document to a temp file in the same directory and renames it over the target.
// On any failure the previous document stays in place.
func (s *FileStore) Save(_ context.Context, h domain.History) (err error) {
	if h.Editions == nil {
		h.Editions = []domain.Edition{}
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("make dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // document is public
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Location returns the document path
func (s *FileStore) Location() string { return s.path }

// Close does nothing, the file is not kept open
func (s *FileStore) Close() error { return nil }
