package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	apperrors "intersectionreg/internal/errors"
)

// DefaultMaxFileSize is the per-file size limit.
const DefaultMaxFileSize int64 = 10 << 20

const maxNameAttempts = 5

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// allowedTypes are matched against the sniffed type and its parents, so a
// CSV saved as .txt passes as text/plain.
var allowedTypes = []string{
	"application/pdf",
	"application/msword",
	"application/x-ole-storage", // legacy .doc not recognised as Word

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"image/jpeg",
	"image/png",
}

// Uploader validates attachments and hands them to a Storage.
type Uploader struct {
	storage  Storage
	maxBytes int64
	now      func() time.Time
}

// NewUploader creates an Uploader. A non-positive maxBytes selects
// DefaultMaxFileSize.
func NewUploader(storage Storage, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}
	return &Uploader{storage: storage, maxBytes: maxBytes, now: time.Now}
}

// Save validates fh and stores it under category. It returns the stored file
// name. Every failure is an *errors.UploadError naming field.
func (u *Uploader) Save(ctx context.Context, field string, category Category, fh *multipart.FileHeader) (string, error) {
	reject := func(reason string, cause error) error {
		return &apperrors.UploadError{Field: field, File: fh.Filename, Reason: reason, Cause: cause}
	}

	if fh.Size > u.maxBytes {
		return "", reject(fmt.Sprintf("file size exceeds maximum allowed size of %dMB", u.maxBytes>>20), nil)
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "", reject("file extension not allowed", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return "", reject("failed to read file", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", reject("failed to read file", err)
	}
	if !allowedType(mtype) {
		return "", reject("file type not allowed. Allowed types: PDF, DOC, DOCX, TXT, JPG, PNG", nil)
	}

	now := u.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", reject("failed to read file", err)
		}
		name := BuildFileName(category, fh.Filename, now.Add(time.Duration(attempt)*time.Millisecond))
		err = u.storage.Save(ctx, category, name, f, fh.Size, mtype.String())
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrExists) {
			break
		}
	}
	return "", reject("failed to save file", err)
}

func allowedType(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), allowedTypes...) {
			return true
		}
	}
	return false
}

// Remove deletes previously stored files, returning the first error.
func (u *Uploader) Remove(ctx context.Context, category Category, names ...string) error {
	var first error
	for _, name := range names {
		if err := u.storage.Remove(ctx, category, name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Locate resolves a stored file for serving.
func (u *Uploader) Locate(ctx context.Context, category Category, name string) (Location, error) {
	return u.storage.Locate(ctx, category, name)
}
