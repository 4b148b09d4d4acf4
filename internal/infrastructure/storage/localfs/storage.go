// Package localfs keeps uploaded blobs in one flat directory. Keys are the
// catalog storage names; nothing below basePath is nested.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

// Save writes the blob fully and synchronously. Callers rely on the write
// completing before any catalog mutation.
func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync blob: %w", err)
	}
	return nil
}

// Open returns the blob for reading. A missing blob surfaces the underlying
// fs.ErrNotExist so callers can distinguish storage inconsistency from other
// I/O failures.
func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// path confines every key to the flat base directory, stripping any
// directory components a hostile key might carry.
func (s *Storage) path(key string) string {
	return filepath.Join(s.basePath, filepath.Base(key))
}
