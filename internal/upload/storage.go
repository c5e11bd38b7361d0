// Package upload validates form attachments and stores them under a
// category-scoped location.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

// Category scopes stored files.
type Category string

const (
	CategoryPhasing Category = "phasing"
	CategoryTiming  Category = "timing"
)

var (
	// ErrNotFound is returned when a stored file does not exist.
	ErrNotFound = errors.New("stored file not found")
	// ErrExists is returned when a file name is already taken.
	ErrExists = errors.New("stored file already exists")
	// ErrInvalidName is returned for names that are not sanitized file names.
	ErrInvalidName = errors.New("invalid file name")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ParseCategory maps a path segment to a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryPhasing, CategoryTiming:
		return Category(s), true
	}
	return "", false
}

// Location tells a caller how to serve a stored file: from a local Path or by
// redirecting to URL.
type Location struct {
	Path string
	URL  string
}

// Storage persists attachment bytes.
type Storage interface {
	Save(ctx context.Context, category Category, name string, r io.Reader, size int64, contentType string) error
	Locate(ctx context.Context, category Category, name string) (Location, error)
	Remove(ctx context.Context, category Category, name string) error
}

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with '_'.
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// BuildFileName returns the stored name for an upload: category, Unix
// milliseconds and original name, sanitized.
func BuildFileName(category Category, original string, now time.Time) string {
	return SanitizeFileName(fmt.Sprintf("%s_%d_%s", category, now.UnixMilli(), original))
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || name != SanitizeFileName(name) {
		return ErrInvalidName
	}
	return nil
}
