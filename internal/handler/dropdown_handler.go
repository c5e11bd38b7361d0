package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"intersectionreg/internal/errors"
	"intersectionreg/internal/service"
)

// DropdownHandler serves the form option catalogue.
type DropdownHandler struct {
	dropdownService service.DropdownService
}

// NewDropdownHandler creates a new dropdown handler.
func NewDropdownHandler(dropdownService service.DropdownService) *DropdownHandler {
	return &DropdownHandler{dropdownService: dropdownService}
}

// Get godoc
// @Summary Get dropdown options
// @Tags dropdown
// @Produce json
// @Success 200 {object} service.DropdownData
// @Failure 500 {object} errors.ErrorResponse
// @Router /dropdown-data [get]
func (h *DropdownHandler) Get(c echo.Context) error {
	data, err := h.dropdownService.Data(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "Failed to fetch dropdown data",
			Code:  "INTERNAL_ERROR",
		}).SetInternal(err)
	}
	return c.JSON(http.StatusOK, data)
}
