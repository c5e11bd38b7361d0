package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"intersectionreg/internal/auth"
	"intersectionreg/internal/errors"
	"intersectionreg/internal/gate"
	"intersectionreg/internal/model"
	"intersectionreg/internal/service"
)

// AuthHandler handles admin session endpoints.
type AuthHandler struct {
	authService  service.AuthService
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure and should be set in production.
func NewAuthHandler(authService service.AuthService, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// LoginRequest represents an admin login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// SessionResponse describes the bearer of a valid session.
type SessionResponse struct {
	User model.PublicUser `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Log in as administrator
// @Description Sets the auth_token session cookie on success.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "Username and password are required",
			Code:  "VALIDATION_ERROR",
		})
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}

	c.SetCookie(auth.NewSessionCookie(token, h.tokenTTL, h.secureCookie))
	return c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user.Public(),
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie. The token itself stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(auth.NewLogoutCookie(h.secureCookie))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Verify godoc
// @Summary Check the current session
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	claims := gate.ClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHORIZED",
		})
	}
	return c.JSON(http.StatusOK, SessionResponse{User: model.PublicUser{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}})
}
