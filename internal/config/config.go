package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `yaml:"host"`
	Port               string `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Name               string `yaml:"name"`
	SSLMode            string `yaml:"sslmode"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
	// ConnectAttempts is how many startup pings are tried before giving up.
	ConnectAttempts int `yaml:"connect_attempts"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// B2Config holds Backblaze B2 settings, used when StorageConfig.Driver is "b2".
type B2Config struct {
	KeyID          string `yaml:"key_id"`
	ApplicationKey string `yaml:"application_key"`
	Bucket         string `yaml:"bucket"`
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	Driver string      `yaml:"driver"`
	MinIO  MinIOConfig `yaml:"minio"`
	B2     B2Config    `yaml:"b2"`
}

// AuthConfig configures bearer token verification.
// JWKSURL takes precedence over JWTSecret when both are set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	JWKSURL   string `yaml:"jwks_url"`
	Issuer    string `yaml:"issuer"`
}

// LimitsConfig holds data room policy values.
type LimitsConfig struct {
	MaxUploadBytes        int64         `yaml:"max_upload_bytes"`
	SignedURLTTL          time.Duration `yaml:"signed_url_ttl"`
	ShareLinkTTL          time.Duration `yaml:"share_link_ttl"`
	BulkDeleteConcurrency int           `yaml:"bulk_delete_concurrency"`
}

// AppConfig is the centralized configuration struct for the application.
// Values come from an optional YAML file named by CONFIG_FILE, then from environment variables.
// Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string         `yaml:"app_host"`
	Port     string         `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Limits   LimitsConfig   `yaml:"limits"`
}

// Defaults returns the configuration used when neither file nor environment set a value.
func Defaults() *AppConfig {
	return &AppConfig{
		AppHost:  "localhost:8080",
		Port:     "8080",
		LogLevel: "info",
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
			ConnectAttempts:    5,
		},
		Storage: StorageConfig{Driver: "minio"},
		Limits: LimitsConfig{
			MaxUploadBytes:        10 << 20,
			SignedURLTTL:          time.Hour,
			BulkDeleteConcurrency: 4,
		},
	}
}

// Load reads configuration from CONFIG_FILE (if set) and environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(c *AppConfig) {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec)
	c.Database.ConnectAttempts = getEnvInt("DB_CONNECT_ATTEMPTS", c.Database.ConnectAttempts)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.MinIO.Endpoint)
	c.Storage.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.MinIO.AccessKey)
	c.Storage.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.MinIO.SecretKey)
	c.Storage.MinIO.Bucket = getEnv("MINIO_BUCKET", c.Storage.MinIO.Bucket)
	c.Storage.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.Storage.MinIO.UseSSL)
	c.Storage.B2.KeyID = getEnv("B2_KEY_ID", c.Storage.B2.KeyID)
	c.Storage.B2.ApplicationKey = getEnv("B2_APPLICATION_KEY", c.Storage.B2.ApplicationKey)
	c.Storage.B2.Bucket = getEnv("B2_BUCKET", c.Storage.B2.Bucket)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.JWKSURL = getEnv("JWKS_URL", c.Auth.JWKSURL)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)

	c.Limits.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_BYTES", int(c.Limits.MaxUploadBytes)))
	c.Limits.SignedURLTTL = getEnvDuration("SIGNED_URL_TTL", c.Limits.SignedURLTTL)
	c.Limits.ShareLinkTTL = getEnvDuration("SHARE_LINK_TTL", c.Limits.ShareLinkTTL)
	c.Limits.BulkDeleteConcurrency = getEnvInt("BULK_DELETE_CONCURRENCY", c.Limits.BulkDeleteConcurrency)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
