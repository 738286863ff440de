// @title        DevCamper API
// @version      1.0
// @description  Bootcamp 目錄服務：bootcamps、courses、reviews 與使用者管理
// @host         localhost:5000
// @BasePath     /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/geo"
	"devcamper/internal/handler/auth"
	"devcamper/internal/mailer"
	apimw "devcamper/internal/middleware"
	"devcamper/internal/router"
	"devcamper/internal/upload"
	"devcamper/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	_ "devcamper/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// newValidator 錯誤訊息使用 json 欄位名稱
func newValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func newLogger(level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetLevel(level)
	return log
}

var (
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool   = worker.NewPool
	newImageStore   = imageStore
	exitFunc        = os.Exit
)

// imageStore 有設定 bucket 時上傳到 S3，否則寫入本機目錄
func imageStore(ctx context.Context, cfg *config.Config) (upload.Store, error) {
	if cfg.S3Bucket != "" {
		return upload.NewS3Store(ctx, upload.S3Config{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return upload.NewLocalStore(cfg.UploadPath)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)
	ctx := context.Background()

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %v", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %v", err)
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %v", err)
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("圖片儲存初始化失敗: %v", err)
	}

	wp := newWorkerPool(cfg.WorkerCount, log)
	defer wp.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = apimw.ErrorHandler(log)
	e.Debug = !cfg.Production()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(cfg.RateLimit) / (10 * time.Minute).Seconds()),
			Burst:     cfg.RateLimit,
			ExpiresIn: 10 * time.Minute,
		}),
	}))

	router.Setup(e, router.Deps{
		DB:       db,
		Cache:    rdb,
		Geocoder: geo.NewClient(cfg.GeocoderURL, log),
		Mailer: mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromName, cfg.FromEmail),
		Images:  images,
		Workers: wp,
		Log:     log,
		Token: auth.TokenOptions{
			TTL:        cfg.JWTExpire,
			CookieDays: cfg.CookieExpireDays,
			Secure:     cfg.Production(),
		},
		MaxFileUpload: cfg.MaxFileUpload,
	})

	if _, ok := images.(*upload.LocalStore); ok {
		e.Static("/uploads", cfg.UploadPath)
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Environment}).Info("server starting")
	return startServer(e, ":"+cfg.Port)
}

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("service stopped")
		exitFunc(1)
	}
}
