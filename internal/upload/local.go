package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage writes files to <root>/<category>/<name>.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a disk-backed storage rooted at root.
func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{root: root}
}

func (s *LocalStorage) path(category Category, name string) (string, error) {
	if _, ok := ParseCategory(string(category)); !ok {
		return "", fmt.Errorf("unknown category %q", category)
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.root, string(category), name), nil
}

// Save writes r to a new file. Existing files are never overwritten.
func (s *LocalStorage) Save(_ context.Context, category Category, name string, r io.Reader, _ int64, _ string) error {
	p, err := s.path(category, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// Locate returns the on-disk path of a stored file.
func (s *LocalStorage) Locate(_ context.Context, category Category, name string) (Location, error) {
	p, err := s.path(category, name)
	if err != nil {
		return Location{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, ErrNotFound
		}
		return Location{}, err
	}
	if info.IsDir() {
		return Location{}, ErrNotFound
	}
	return Location{Path: p}, nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *LocalStorage) Remove(_ context.Context, category Category, name string) error {
	p, err := s.path(category, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
