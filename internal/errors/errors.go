package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation is returned when submitted fields are missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a request carries no valid token.
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when the token does not carry the admin role.
	ErrForbidden = errors.New("admin access required")
	// ErrRegistrationNotFound is returned when a registration id is unknown.
	ErrRegistrationNotFound = errors.New("registration not found")
	// ErrPersistence is returned when the store cannot be read or written.
	ErrPersistence = errors.New("persistence failure")
	// ErrUpload is returned when an attachment is rejected or cannot be stored.
	ErrUpload = errors.New("file upload failed")
)

// FieldError names one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail for a rejected submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether field is among the invalid fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// UploadError describes a rejected attachment.
type UploadError struct {
	Field  string
	File   string
	Reason string
	// Cause is the storage failure behind the rejection, if any. It is kept
	// out of Error so clients never see backend detail.
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s upload failed: %s: %s", e.Field, e.File, e.Reason)
}

// Unwrap lets errors.Is match ErrUpload.
func (e *UploadError) Unwrap() error {
	return ErrUpload
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httpErr := NewHTTPError(http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR")
		httpErr.Details = validationErr.Fields
		return httpErr
	}

	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return NewHTTPError(http.StatusBadRequest, uploadErr.Error(), "UPLOAD_FAILED")
	}

	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR")
	case errors.Is(err, ErrUpload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UPLOAD_FAILED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "Authentication required", "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "Admin access required", "FORBIDDEN")
	case errors.Is(err, ErrRegistrationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
