package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "DATA_FILE", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ALLOWED_ORIGINS", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
		"METRICS_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "data/hotel.json", cfg.DataFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, DevOrigins, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "debug", cfg.GinMode())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("HTTP_ADDR", "0.0.0.0:9000")
	t.Setenv("DATA_FILE", "/var/lib/hotel/hotel.json")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://desk.example.com, ,https://admin.example.com")
	t.Setenv("WRITE_TIMEOUT", "30s")
	t.Setenv("METRICS_ENABLED", "off")

	cfg, err := FromEnv()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "release", cfg.GinMode())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://desk.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.MetricsEnabled)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "bad duration", env: map[string]string{"READ_TIMEOUT": "soon"}, want: "READ_TIMEOUT"},
		{name: "zero duration", env: map[string]string{"SHUTDOWN_TIMEOUT": "0s"}, want: "SHUTDOWN_TIMEOUT"},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}, want: "LOG_LEVEL"},
		{name: "bad format", env: map[string]string{"LOG_FORMAT": "xml"}, want: "LOG_FORMAT"},
		{name: "prod without origins", env: map[string]string{"APP_ENV": "prod"}, want: "CORS_ALLOWED_ORIGINS"},
		{name: "prod wildcard origin", env: map[string]string{"APP_ENV": "release", "CORS_ALLOWED_ORIGINS": "*"}, want: "*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
