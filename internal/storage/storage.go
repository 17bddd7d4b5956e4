// Package storage persists uploaded bootcamp photos.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// PhotoStore writes a named object.
type PhotoStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// LocalStore writes files under a directory on disk.
type LocalStore struct {
	dir    string
	logger *zap.Logger
}

func NewLocalStore(dir string, logger *zap.Logger) *LocalStore {
	return &LocalStore{dir: dir, logger: logger.Named("LocalStore")}
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid photo name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create photo file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("failed to write photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close photo file: %w", err)
	}
	s.logger.Debug("Photo saved", zap.String("path", path))
	return nil
}
