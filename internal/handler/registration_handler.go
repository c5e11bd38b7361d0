package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"intersectionreg/internal/errors"
	"intersectionreg/internal/model"
	"intersectionreg/internal/service"
)

// RegistrationHandler handles registration endpoints.
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// CreateRegistrationResponse represents a stored submission.
type CreateRegistrationResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// RegistrationListResponse wraps the registration list.
type RegistrationListResponse struct {
	Registrations []model.Registration `json:"registrations"`
}

// RegistrationResponse wraps a single registration.
type RegistrationResponse struct {
	Registration *model.Registration `json:"registration"`
}

// Create godoc
// @Summary Submit a registration
// @Tags registrations
// @Accept multipart/form-data
// @Produce json
// @Param intersectionName formData string true "Intersection name"
// @Param endUser formData string true "End user"
// @Param distributor formData string true "Distributor"
// @Param cabinetType formData string true "Cabinet type"
// @Param cabinetTypeOther formData string false "Required when cabinetType is Other"
// @Param tlsConnection formData string true "TLS connection"
// @Param tlsConnectionOther formData string false "Required when tlsConnection is Other"
// @Param detectionIO formData string true "Detection I/O"
// @Param detectionIOOther formData string false "Required when detectionIO is Other"
// @Param phasingText formData string false "Phasing description"
// @Param contactName formData string true "Contact name"
// @Param contactEmail formData string true "Contact email"
// @Param contactPhone formData string true "Contact phone"
// @Param phasingFile formData file false "Phasing document"
// @Param timingFiles formData file false "Timing documents"
// @Success 201 {object} CreateRegistrationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c echo.Context) error {
	var form service.RegistrationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	var files service.Attachments
	if mf, err := c.MultipartForm(); err == nil {
		if fhs := mf.File["phasingFile"]; len(fhs) > 0 {
			files.PhasingFile = fhs[0]
		}
		files.TimingFiles = append(files.TimingFiles, mf.File["timingFiles"]...)
		files.TimingFiles = append(files.TimingFiles, mf.File["timingFiles[]"]...)
	}

	id, err := h.registrationService.Create(c.Request().Context(), form, files)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}

	return c.JSON(http.StatusCreated, CreateRegistrationResponse{
		Message: "Registration created successfully",
		ID:      id,
	})
}

// List godoc
// @Summary List registrations, newest first
// @Tags registrations
// @Produce json
// @Security CookieAuth
// @Success 200 {object} RegistrationListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /registrations [get]
func (h *RegistrationHandler) List(c echo.Context) error {
	registrations, err := h.registrationService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, RegistrationListResponse{Registrations: registrations})
}

// Get godoc
// @Summary Get a registration
// @Tags registrations
// @Produce json
// @Security CookieAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} RegistrationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid registration id",
			Code:  "INVALID_ID",
		})
	}

	registration, err := h.registrationService.Get(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, RegistrationResponse{Registration: registration})
}
