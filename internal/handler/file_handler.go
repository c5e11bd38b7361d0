package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"intersectionreg/internal/errors"
	"intersectionreg/internal/upload"
)

// FileLocator resolves stored attachments.
type FileLocator interface {
	Locate(ctx context.Context, category upload.Category, name string) (upload.Location, error)
}

// FileHandler serves the HTML pages and stored attachments.
type FileHandler struct {
	webDir string
	files  FileLocator
}

// NewFileHandler creates a handler serving pages from webDir.
func NewFileHandler(webDir string, files FileLocator) *FileHandler {
	return &FileHandler{webDir: webDir, files: files}
}

// Form serves the public registration form.
func (h *FileHandler) Form(c echo.Context) error {
	return c.File(filepath.Join(h.webDir, "index.html"))
}

// AdminLogin serves the admin login page.
func (h *FileHandler) AdminLogin(c echo.Context) error {
	return c.File(filepath.Join(h.webDir, "admin", "index.html"))
}

// AdminDashboard serves the review dashboard.
func (h *FileHandler) AdminDashboard(c echo.Context) error {
	return c.File(filepath.Join(h.webDir, "admin", "dashboard.html"))
}

// Attachment sends a stored file as a download, or redirects to the object
// store when it hands out URLs.
func (h *FileHandler) Attachment(c echo.Context) error {
	notFound := echo.NewHTTPError(http.StatusNotFound, errors.ErrorResponse{
		Error: "file not found",
		Code:  "NOT_FOUND",
	})

	category, ok := upload.ParseCategory(c.Param("category"))
	if !ok {
		return notFound
	}
	name := c.Param("name")

	loc, err := h.files.Locate(c.Request().Context(), category, name)
	if err != nil {
		if stderrors.Is(err, upload.ErrNotFound) || stderrors.Is(err, upload.ErrInvalidName) {
			return notFound
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to read file",
			Code:  "INTERNAL_ERROR",
		})
	}

	if loc.URL != "" {
		return c.Redirect(http.StatusFound, loc.URL)
	}
	return c.Attachment(loc.Path, name)
}
