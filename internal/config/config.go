// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPort           = "5000"
	defaultJWTExpire      = 30 * 24 * time.Hour
	defaultCookieExpire   = 30
	defaultUploadPath     = "./public/uploads"
	defaultMaxFileUpload  = 1000000
	defaultGeocoderURL    = "https://nominatim.openstreetmap.org/search"
	defaultSMTPPort       = 587
	defaultWorkerCount    = 1
	defaultRateLimit      = 100
	defaultS3Region       = "us-east-1"
	productionEnvironment = "production"
)

// Config 服務啟動所需的全部設定，皆來自環境變數
type Config struct {
	Port        string
	Environment string
	LogLevel    logrus.Level

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTExpire        time.Duration
	CookieExpireDays int

	UploadPath    string
	MaxFileUpload int64
	S3Bucket      string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string

	GeocoderURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string

	WorkerCount int
	// RateLimit 每個 IP 每 10 分鐘可發出的請求數
	RateLimit int
}

// Production reports whether cookies must carry the Secure flag.
func (c *Config) Production() bool { return c.Environment == productionEnvironment }

// Load 讀取環境變數，缺少必要值或格式錯誤時回傳錯誤
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", defaultPort),
		Environment:   getenv("APP_ENV", "development"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UploadPath:    getenv("FILE_UPLOAD_PATH", defaultUploadPath),
		S3Bucket:      os.Getenv("UPLOAD_S3_BUCKET"),
		S3Endpoint:    os.Getenv("UPLOAD_S3_ENDPOINT"),
		S3Region:      getenv("UPLOAD_S3_REGION", defaultS3Region),
		S3AccessKey:   os.Getenv("UPLOAD_S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("UPLOAD_S3_SECRET_KEY"),
		GeocoderURL:   getenv("GEOCODER_URL", defaultGeocoderURL),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		FromName:      getenv("FROM_NAME", "DevCamper"),
		FromEmail:     getenv("FROM_EMAIL", "noreply@devcamper.io"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("環境變數 DATABASE_URL 未設定")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("環境變數 REDIS_ADDR 未設定")
	}
	// JWT_SECRET 由 service 套件直接讀取，這裡只檢查存在
	if os.Getenv("JWT_SECRET") == "" {
		return nil, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	redisDB := os.Getenv("REDIS_DB")
	if redisDB == "" {
		return nil, fmt.Errorf("環境變數 REDIS_DB 未設定")
	}
	var err error
	if cfg.RedisDB, err = strconv.Atoi(redisDB); err != nil {
		return nil, fmt.Errorf("無效的 REDIS_DB: %v", err)
	}

	if cfg.JWTExpire, err = durationEnv("JWT_EXPIRE", defaultJWTExpire); err != nil {
		return nil, err
	}
	if cfg.CookieExpireDays, err = positiveIntEnv("JWT_COOKIE_EXPIRE", defaultCookieExpire); err != nil {
		return nil, err
	}
	maxUpload, err := positiveIntEnv("MAX_FILE_UPLOAD", defaultMaxFileUpload)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileUpload = int64(maxUpload)
	if cfg.SMTPPort, err = positiveIntEnv("SMTP_PORT", defaultSMTPPort); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = positiveIntEnv("WORKER_COUNT", defaultWorkerCount); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = positiveIntEnv("RATE_LIMIT", defaultRateLimit); err != nil {
		return nil, err
	}

	cfg.LogLevel = logrus.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if cfg.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("無效的 LOG_LEVEL: %v", err)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("無效的 %s: %q", key, v)
	}
	return n, nil
}

// JWT_EXPIRE 接受 Go duration 或天數後綴，例如 "720h" 或 "30d"
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if n := len(v); n > 1 && v[n-1] == 'd' {
		days, err := strconv.Atoi(v[:n-1])
		if err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("無效的 %s: %q", key, v)
	}
	return d, nil
}
