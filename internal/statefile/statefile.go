// Package statefile persists JSON documents with atomic replace semantics.
package statefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File reads and writes one JSON document of type T.
type File[T any] struct {
	path string
}

// New returns a File rooted at path. Parent directories are created on Save.
func New[T any](path string) *File[T] {
	return &File[T]{path: path}
}

// Path exposes the backing file path.
func (f *File[T]) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Load decodes the document. ok is false when the file does not exist yet.
func (f *File[T]) Load() (doc T, ok bool, err error) {
	if f == nil || f.path == "" {
		return doc, false, nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, false, nil
		}
		return doc, false, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, false, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, false, fmt.Errorf("statefile: decode %s: %w", f.path, err)
	}
	return doc, true, nil
}

// Save writes the document via a temp file and rename. An unchanged
// document leaves the file untouched.
func (f *File[T]) Save(doc T) error {
	if f == nil || f.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(f.path); err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
