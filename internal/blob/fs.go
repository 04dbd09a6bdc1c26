// Package blob provides durable byte storage for candidate workbook
// uploads. The filesystem implementation writes atomically so a failed
// write never leaves a partially-written file behind a recorded location.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore stores blobs as files under a base directory. Keys are
// slash-separated relative paths; the returned location is the absolute
// path of the stored file.
type FSStore struct {
	baseDir string
}

// NewFSStore creates (if needed) the base directory and returns a store
// rooted there.
func NewFSStore(baseDir string) (*FSStore, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving blob directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &FSStore{baseDir: abs}, nil
}

// Put writes data under key and returns the storage location. The write
// goes to a temp file in the target directory first and is renamed into
// place, so readers never observe partial content.
func (s *FSStore) Put(key string, data []byte) (string, error) {
	rel := filepath.FromSlash(key)
	if strings.Contains(key, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	dest := filepath.Join(s.baseDir, rel)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating blob subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing blob: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publishing blob: %w", err)
	}

	return dest, nil
}

// Get reads the bytes stored at location.
func (s *FSStore) Get(location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Exists reports whether location still holds stored bytes.
func (s *FSStore) Exists(location string) bool {
	info, err := os.Stat(location)
	return err == nil && !info.IsDir()
}
