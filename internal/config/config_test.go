package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/devcamper")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JWT_SECRET", "s")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
	require.Equal(t, 30, cfg.CookieExpireDays)
	require.EqualValues(t, 1000000, cfg.MaxFileUpload)
	require.Equal(t, 1, cfg.WorkerCount)
	require.Equal(t, 100, cfg.RateLimit)
	require.Empty(t, cfg.S3Bucket)
	require.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	require.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRE", "7d")
	t.Setenv("JWT_COOKIE_EXPIRE", "7")
	t.Setenv("MAX_FILE_UPLOAD", "2048")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT", "50")
	t.Setenv("UPLOAD_S3_BUCKET", "images")
	t.Setenv("UPLOAD_S3_ACCESS_KEY", "ak")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Production())
	require.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	require.Equal(t, 7, cfg.CookieExpireDays)
	require.EqualValues(t, 2048, cfg.MaxFileUpload)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	require.Equal(t, 50, cfg.RateLimit)
	require.Equal(t, "images", cfg.S3Bucket)
	require.Equal(t, "ak", cfg.S3AccessKey)

	t.Setenv("JWT_EXPIRE", "90m")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, cfg.JWTExpire)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string][2]string{
		"missing database": {"DATABASE_URL", ""},
		"missing redis":    {"REDIS_ADDR", ""},
		"missing secret":   {"JWT_SECRET", ""},
		"missing redis db": {"REDIS_DB", ""},
		"bad redis db":     {"REDIS_DB", "x"},
		"bad jwt expire":   {"JWT_EXPIRE", "soon"},
		"bad cookie":       {"JWT_COOKIE_EXPIRE", "-1"},
		"bad upload size":  {"MAX_FILE_UPLOAD", "big"},
		"bad smtp port":    {"SMTP_PORT", "0"},
		"bad workers":      {"WORKER_COUNT", "none"},
		"bad log level":    {"LOG_LEVEL", "loud"},
		"bad rate limit":   {"RATE_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}
