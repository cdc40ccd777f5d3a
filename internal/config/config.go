package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv          = "dev"
	defaultHTTPAddr        = ":8080"
	defaultDataFile        = "data/hotel.json"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultReadTimeout     = "15s"
	defaultWriteTimeout    = "15s"
	defaultShutdownTimeout = "10s"
	defaultMetricsEnabled  = "true"
)

// DevOrigins are allowed for CORS and WebSocket upgrades when
// CORS_ALLOWED_ORIGINS is unset outside production.
var DevOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DataFile        string
	LogLevel        string
	LogFormat       string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DataFile = strings.TrimSpace(getEnv("DATA_FILE", defaultDataFile))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", defaultLogFormat)))
	cfg.AllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 && !cfg.IsProduction() {
		cfg.AllowedOrigins = append([]string(nil), DevOrigins...)
	}

	var err error
	cfg.ReadTimeout, err = parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return nil, err
	}
	cfg.WriteTimeout, err = parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}
	cfg.MetricsEnabled = parseBoolEnv("METRICS_ENABLED", defaultMetricsEnabled)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV names a production-like environment.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// GinMode maps APP_ENV onto gin's run modes.
func (c *Config) GinMode() string {
	switch {
	case c.IsProduction():
		return "release"
	case c.AppEnv == "test":
		return "test"
	default:
		return "debug"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DataFile == "" {
		return fmt.Errorf("DATA_FILE must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("READ_TIMEOUT must be > 0")
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("WRITE_TIMEOUT must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if len(cfg.AllowedOrigins) == 0 {
			return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must be set")
		}
		for _, o := range cfg.AllowedOrigins {
			if o == "*" {
				return fmt.Errorf("in prod/release CORS_ALLOWED_ORIGINS must not contain *")
			}
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
