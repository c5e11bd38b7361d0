package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "intersectionreg/internal/errors"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plan.pdf", "plan.pdf"},
		{"my plan (v2).pdf", "my_plan__v2_.pdf"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"é-file_1.txt", "_-file_1.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFileName(tt.in))
	}
}

func TestBuildFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "phasing_1700000000123_site_plan.pdf", BuildFileName(CategoryPhasing, "site plan.pdf", now))
	assert.Equal(t, "timing_1700000000123_a_b.txt", BuildFileName(CategoryTiming, "a/b.txt", now))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("timing")
	assert.True(t, ok)
	assert.Equal(t, CategoryTiming, c)

	_, ok = ParseCategory("../secrets")
	assert.False(t, ok)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalStorage(root)

	require.NoError(t, s.Save(ctx, CategoryPhasing, "a.txt", bytes.NewReader([]byte("hello")), 5, "text/plain"))

	data, err := os.ReadFile(filepath.Join(root, "phasing", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	err = s.Save(ctx, CategoryPhasing, "a.txt", bytes.NewReader([]byte("again")), 5, "text/plain")
	assert.ErrorIs(t, err, ErrExists)

	loc, err := s.Locate(ctx, CategoryPhasing, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "phasing", "a.txt"), loc.Path)

	_, err = s.Locate(ctx, CategoryTiming, "a.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Locate(ctx, CategoryPhasing, "../a.txt")
	assert.ErrorIs(t, err, ErrInvalidName)

	require.NoError(t, s.Remove(ctx, CategoryPhasing, "a.txt"))
	require.NoError(t, s.Remove(ctx, CategoryPhasing, "a.txt"))
	_, err = s.Locate(ctx, CategoryPhasing, "a.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploaderSave(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	u := NewUploader(NewLocalStorage(root), 0)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }

	t.Run("stores allowed text file", func(t *testing.T) {
		fh := fileHeader(t, "phasingFile", "phasing notes.txt", []byte("phase 1 then phase 2\n"))

		name, err := u.Save(ctx, "phasingFile", CategoryPhasing, fh)

		require.NoError(t, err)
		assert.Equal(t, "phasing_1700000000000_phasing_notes.txt", name)
		data, err := os.ReadFile(filepath.Join(root, "phasing", name))
		require.NoError(t, err)
		assert.Equal(t, "phase 1 then phase 2\n", string(data))
	})

	t.Run("same name in the same millisecond gets a new name", func(t *testing.T) {
		first, err := u.Save(ctx, "timingFiles", CategoryTiming, fileHeader(t, "timingFiles", "t.png", pngHeader))
		require.NoError(t, err)
		second, err := u.Save(ctx, "timingFiles", CategoryTiming, fileHeader(t, "timingFiles", "t.png", pngHeader))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, "timing_1700000000001_t.png", second)
	})

	t.Run("rejects extension", func(t *testing.T) {
		_, err := u.Save(ctx, "phasingFile", CategoryPhasing, fileHeader(t, "phasingFile", "run.exe", []byte("text")))

		var uploadErr *apperrors.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "phasingFile", uploadErr.Field)
		assert.Equal(t, "file extension not allowed", uploadErr.Reason)
	})

	t.Run("accepts csv content in a txt file", func(t *testing.T) {
		csv := []byte("phase,green,yellow\n1,30,4\n2,25,4\n3,30,4\n")
		name, err := u.Save(ctx, "timingFiles", CategoryTiming, fileHeader(t, "timingFiles", "timing.txt", csv))

		require.NoError(t, err)
		assert.Equal(t, "timing_1700000000000_timing.txt", name)
	})

	t.Run("accepts generic ole document as doc", func(t *testing.T) {
		ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 1016)...)
		_, err := u.Save(ctx, "phasingFile", CategoryPhasing, fileHeader(t, "phasingFile", "legacy.doc", ole))

		require.NoError(t, err)
	})

	t.Run("rejects content that does not match an allowed type", func(t *testing.T) {
		exe := append([]byte("MZ"), make([]byte, 62)...)
		_, err := u.Save(ctx, "phasingFile", CategoryPhasing, fileHeader(t, "phasingFile", "plan.pdf", exe))

		var uploadErr *apperrors.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Contains(t, uploadErr.Reason, "file type not allowed")
		assert.ErrorIs(t, err, apperrors.ErrUpload)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		small := NewUploader(NewLocalStorage(root), 8)
		_, err := small.Save(ctx, "phasingFile", CategoryPhasing, fileHeader(t, "phasingFile", "big.txt", []byte("more than eight bytes")))

		var uploadErr *apperrors.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Contains(t, uploadErr.Reason, "file size exceeds")
	})
}

func TestUploaderRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	u := NewUploader(NewLocalStorage(root), 0)

	name, err := u.Save(ctx, "timingFiles", CategoryTiming, fileHeader(t, "timingFiles", "x.txt", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, u.Remove(ctx, CategoryTiming, name, "never-stored.txt"))
	_, err = u.Locate(ctx, CategoryTiming, name)
	assert.ErrorIs(t, err, ErrNotFound)
}
