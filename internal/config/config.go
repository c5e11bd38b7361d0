package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvProduction enables secure cookies, JSON logging and secret checks.
	EnvProduction = "production"

	defaultJWTSecret = "change-me"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env         string        `env:"APP_ENV" env-default:"development"`
	ServerPort  string        `env:"SERVER_PORT" env-default:"8080"`
	MySQLDSN    string        `env:"MYSQL_DSN" env-default:"user:password@tcp(localhost:3306)/registrations?charset=utf8mb4&parseTime=True&loc=Local"`
	RedisAddr   string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB     int           `env:"REDIS_DB" env-default:"0"`
	RedisPass   string        `env:"REDIS_PASSWORD"`
	JWTSecret   string        `env:"JWT_SECRET" env-default:"change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	WebDir      string        `env:"WEB_DIR" env-default:"web"`
	SwaggerHost string        `env:"SWAGGER_HOST"`

	// Admin account created at startup when both values are set.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	DropdownCacheTTL time.Duration `env:"DROPDOWN_CACHE_TTL" env-default:"10m"`

	RateLimit RateLimit
	Upload    Upload
	S3        S3
}

// RateLimit configures the fixed-window limiter guarding /api routes.
type RateLimit struct {
	Backend     string        `env:"RATE_LIMIT_BACKEND" env-default:"memory"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
	MaxRequests int           `env:"RATE_LIMIT_MAX" env-default:"100"`
}

// Upload configures attachment storage.
type Upload struct {
	Backend   string `env:"UPLOAD_BACKEND" env-default:"local"`
	Dir       string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxBytes  int64  `env:"UPLOAD_MAX_BYTES" env-default:"10485760"`
	BodyLimit string `env:"UPLOAD_BODY_LIMIT" env-default:"64M"`
}

// S3 configures the S3 upload backend. Only read when Upload.Backend is "s3".
type S3 struct {
	Bucket       string        `env:"S3_BUCKET"`
	Region       string        `env:"S3_REGION" env-default:"us-east-1"`
	BaseEndpoint string        `env:"S3_BASE_ENDPOINT"`
	AccessKey    string        `env:"S3_ACCESS_KEY"`
	SecretKey    string        `env:"S3_SECRET_KEY"`
	PresignTTL   time.Duration `env:"S3_PRESIGN_TTL" env-default:"15m"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for process entry points.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	switch c.Upload.Backend {
	case "local":
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit window and max must be positive")
	}
	return nil
}
