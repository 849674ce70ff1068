package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DatabaseDriverSQLite = "sqlite"
	DatabaseDriverMySQL  = "mysql"

	StorageDriverLocal      = "local"
	StorageDriverCloudinary = "cloudinary"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string `env:"LISTEN_ADDR"`
	Port           string `env:"PORT" envDefault:"8080"`
	GinMode        string `env:"GIN_MODE" envDefault:"release"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
	SessionSecret  string `env:"SESSION_SECRET" envDefault:"studioadmin-dev-secret"`
	SiteBaseURL    string `env:"SITE_BASE_URL" envDefault:"http://localhost:8080"`

	Database DatabaseConfig
	Storage  StorageConfig
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	Path   string `env:"DATABASE_PATH" envDefault:"studioadmin.db"`
	DSN    string `env:"DATABASE_DSN"`
}

// StorageConfig selects the object store used for artwork images.
type StorageConfig struct {
	Driver         string `env:"STORAGE_DRIVER" envDefault:"local"`
	Bucket         string `env:"STORAGE_BUCKET" envDefault:"artworks"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadURLPath  string `env:"UPLOAD_URL_PATH" envDefault:"/static/uploads"`
	CacheControl   string `env:"UPLOAD_CACHE_CONTROL" envDefault:"3600"`
	MaxUploadBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

// Load 读取 .env（若存在）与环境变量，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Storage.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.Storage.UploadURLPath), "/")
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
}

// Validate reports configuration combinations that cannot start the server.
func (c AppConfig) Validate() error {
	switch c.Database.Driver {
	case DatabaseDriverSQLite:
	case DatabaseDriverMySQL:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("DATABASE_DSN is required for the mysql driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
	case StorageDriverCloudinary:
		if c.Storage.CloudinaryCloudName == "" || c.Storage.CloudinaryAPIKey == "" || c.Storage.CloudinaryAPISecret == "" {
			return errors.New("cloudinary storage needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// DatabaseTarget returns the path or DSN handed to the selected driver.
func (c AppConfig) DatabaseTarget() string {
	if c.Database.Driver == DatabaseDriverMySQL {
		return c.Database.DSN
	}
	return c.Database.Path
}
