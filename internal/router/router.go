package router

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"intersectionreg/internal/config"
	"intersectionreg/internal/errors"
	"intersectionreg/internal/gate"
	"intersectionreg/internal/handler"
	"intersectionreg/internal/logger"
	"intersectionreg/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	g *gate.Gate,
	authHandler *handler.AuthHandler,
	registrationHandler *handler.RegistrationHandler,
	dropdownHandler *handler.DropdownHandler,
	fileHandler *handler.FileHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(bodyLimit(cfg.Upload.BodyLimit))
	e.Use(g.Middleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Pages. Everything below /admin/ is behind the gate's login redirect.
	e.GET("/", fileHandler.Form)
	e.GET("/admin", fileHandler.AdminLogin)
	e.GET("/admin/dashboard", fileHandler.AdminDashboard)
	e.GET("/admin/uploads/:category/:name", fileHandler.Attachment)

	api := e.Group("/api")
	requireAdmin := g.RequireAdmin()

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/dropdown-data", dropdownHandler.Get)
	api.POST("/registrations", registrationHandler.Create)

	// Admin routes
	api.GET("/auth/verify", authHandler.Verify, requireAdmin)
	api.GET("/registrations", registrationHandler.List, requireAdmin)
	api.GET("/registrations/:id", registrationHandler.Get, requireAdmin)
}

// bodyLimit caps request bodies. Multipart submissions over the cap are
// answered like any other rejected attachment.
func bodyLimit(limit string) echo.MiddlewareFunc {
	limiter := middleware.BodyLimit(limit)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		h := limiter(next)
		return func(c echo.Context) error {
			err := h(c)
			if stderrors.Is(err, echo.ErrStatusRequestEntityTooLarge) &&
				strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
				return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
					Error: "request body exceeds the upload limit of " + limit,
					Code:  "UPLOAD_FAILED",
				}).SetInternal(err)
			}
			return err
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
