package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studioadmin/internal/config"
	"github.com/studioadmin/internal/db"
	"github.com/studioadmin/internal/handler"
	"github.com/studioadmin/internal/logging"
	"github.com/studioadmin/internal/router"
	"github.com/studioadmin/internal/service"
	"github.com/studioadmin/internal/storage"
	"github.com/studioadmin/internal/upload"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.Database.Driver, cfg.DatabaseTarget())
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	bucket, staticDir, err := newBucket(cfg)
	if err != nil {
		logger.Fatal("failed to initialize object storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	logger.Info("object storage ready", zap.String("driver", cfg.Storage.Driver), zap.String("bucket", bucket.Name()))

	uploader := upload.NewUploader(bucket,
		upload.WithCacheControl(cfg.Storage.CacheControl),
		upload.WithMaxBytes(cfg.Storage.MaxUploadBytes),
	)
	api := handler.NewAPI(gdb, service.NewAdmins(gdb, uploader), logger)

	engine, err := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     staticDir,
		UploadURLPath: cfg.Storage.UploadURLPath,
		CacheControl:  cfg.Storage.CacheControl,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newBucket 根据配置选择对象存储；本地存储时同时返回需要静态托管的目录
func newBucket(cfg config.AppConfig) (storage.Bucket, string, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverCloudinary:
		bucket, err := storage.NewCloudinaryBucket(cfg.Storage.Bucket,
			cfg.Storage.CloudinaryCloudName, cfg.Storage.CloudinaryAPIKey, cfg.Storage.CloudinaryAPISecret)
		if err != nil {
			return nil, "", err
		}
		return bucket, "", nil
	default:
		bucket := storage.NewLocalBucket(cfg.Storage.Bucket, cfg.Storage.UploadDir, cfg.SiteBaseURL, cfg.Storage.UploadURLPath)
		return bucket, cfg.Storage.UploadDir, nil
	}
}
