package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"intersectionreg/docs"
	"intersectionreg/internal/auth"
	"intersectionreg/internal/cache"
	"intersectionreg/internal/config"
	"intersectionreg/internal/db"
	"intersectionreg/internal/gate"
	"intersectionreg/internal/handler"
	"intersectionreg/internal/logger"
	"intersectionreg/internal/ratelimit"
	"intersectionreg/internal/repository"
	"intersectionreg/internal/router"
	"intersectionreg/internal/service"
	"intersectionreg/internal/upload"
)

const shutdownTimeout = 10 * time.Second

// @title Intersection Registration API
// @version 1.0
// @description Installation registration intake with an administrator review area.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth_token
// @description Session token set by /auth/login.
func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	registrationRepo := repository.NewRegistrationRepository(gormDB)
	dropdownRepo := repository.NewDropdownRepository(gormDB)

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatal("upload storage init", zap.Error(err))
	}
	uploader := upload.NewUploader(storage, cfg.Upload.MaxBytes)

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens)
	registrationService := service.NewRegistrationService(registrationRepo, uploader, log)
	dropdownService := service.NewDropdownService(dropdownRepo, cacheClient, cfg.DropdownCacheTTL)

	if err := dropdownService.EnsureDefaults(ctx); err != nil {
		log.Fatal("seed dropdown options", zap.Error(err))
	}
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := authService.Provision(ctx, cfg.AdminUsername, cfg.AdminPassword, "")
		if err != nil {
			log.Fatal("provision admin", zap.Error(err))
		}
		log.Info("admin account checked", zap.String("username", cfg.AdminUsername), zap.Bool("created", created))
	}

	g := gate.New(newLimiter(cfg, cacheClient, log), authService, log)

	e := echo.New()
	e.HideBanner = true

	router.Register(
		e,
		cfg,
		log,
		g,
		handler.NewAuthHandler(authService, tokens.TTL(), cfg.IsProduction()),
		handler.NewRegistrationHandler(registrationService),
		handler.NewDropdownHandler(dropdownService),
		handler.NewFileHandler(cfg.WebDir, uploader),
	)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (upload.Storage, error) {
	if cfg.Upload.Backend != "s3" {
		return upload.NewLocalStorage(cfg.Upload.Dir), nil
	}
	return upload.NewS3Storage(ctx, upload.S3Config{
		Bucket:       cfg.S3.Bucket,
		Region:       cfg.S3.Region,
		BaseEndpoint: cfg.S3.BaseEndpoint,
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		PresignTTL:   cfg.S3.PresignTTL,
	})
}

func newLimiter(cfg *config.Config, c *cache.Client, log *zap.Logger) ratelimit.Limiter {
	rl := ratelimit.Config{Window: cfg.RateLimit.Window, MaxRequests: cfg.RateLimit.MaxRequests}
	if cfg.RateLimit.Backend == "redis" {
		return ratelimit.NewRedisLimiter(c, rl, log)
	}
	return ratelimit.NewMemoryLimiter(rl)
}
