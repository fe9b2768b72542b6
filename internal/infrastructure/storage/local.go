package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps resumes on the local filesystem under a base directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("upload path is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create resume file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write resume file: %w", err)
	}

	return nil
}

func (s *LocalStore) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(name)
	if err != nil {
		return err
	}

	return os.Remove(path)
}

// path resolves a stored object name inside the base directory, rejecting
// names that would escape it.
func (s *LocalStore) path(name string) (string, error) {
	cleaned := filepath.Base(filepath.Clean(name))
	if cleaned == "." || cleaned == ".." || cleaned == string(filepath.Separator) {
		return "", fmt.Errorf("invalid resume name: %q", name)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
