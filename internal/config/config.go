package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Email    EmailConfig    `yaml:"email"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Tokens   TokenConfig    `yaml:"tokens"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
	CORSOrigin      string `yaml:"cors_origin"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret                string `yaml:"secret"`
	AccessTokenExpiry     int    `yaml:"access_token_expiry_minutes"`
	RememberMeTokenExpiry int    `yaml:"remember_me_expiry_hours"`
}

// EmailConfig selects the delivery provider. "log" only writes the mail to the log.
type EmailConfig struct {
	Provider       string `yaml:"provider"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
	AppURL         string `yaml:"app_url"`
}

// StorageConfig contains uploaded file settings
type StorageConfig struct {
	Driver      string   `yaml:"driver"`     // "local" or "s3"
	UploadDir   string   `yaml:"upload_dir"` // for local storage
	MaxFileSize int64    `yaml:"max_file_size_mb"`
	AllowedExts []string `yaml:"allowed_extensions"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// RedisConfig enables sign-in throttling when Addr is set
type RedisConfig struct {
	Addr         string `yaml:"addr"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	LoginLimit   int    `yaml:"login_limit"`
	LoginWindowS int    `yaml:"login_window_seconds"`
}

// TokenConfig contains one-time password token lifetimes
type TokenConfig struct {
	InitTokenMinutes  int `yaml:"init_token_minutes"`
	ResetTokenMinutes int `yaml:"reset_token_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
	Output string `yaml:"output"` // "stdout" or "stderr"
}

// Load reads .env (if present), the YAML file and environment overrides.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envString("CORS_ORIGIN", &c.Server.CORSOrigin)

	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)
	envBool("DB_AUTO_MIGRATE", &c.Database.AutoMigrate)

	envString("JWT_SECRET", &c.JWT.Secret)

	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	envString("EMAIL_FROM", &c.Email.From)
	envString("APP_URL", &c.Email.AppURL)

	envString("STORAGE_DRIVER", &c.Storage.Driver)
	envString("UPLOAD_DIR", &c.Storage.UploadDir)
	envString("S3_BUCKET", &c.Storage.S3.Bucket)
	envString("S3_REGION", &c.Storage.S3.Region)
	envString("S3_ENDPOINT", &c.Storage.S3.Endpoint)
	envString("AWS_ACCESS_KEY_ID", &c.Storage.S3.AccessKeyID)
	envString("AWS_SECRET_ACCESS_KEY", &c.Storage.S3.SecretAccessKey)

	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
	envString("LOG_OUTPUT", &c.Log.Output)
}

// Validate checks required values and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ShutdownSeconds <= 0 {
		c.Server.ShutdownSeconds = 10
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RememberMeTokenExpiry <= 0 {
		c.JWT.RememberMeTokenExpiry = 30 * 24
	}

	c.Email.Provider = strings.ToLower(c.Email.Provider)
	switch c.Email.Provider {
	case "", "log":
		c.Email.Provider = "log"
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email sender address is required")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	switch c.Storage.Driver {
	case "", "local":
		c.Storage.Driver = "local"
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required")
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf("s3 region is required")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Storage.MaxFileSize <= 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedExts) == 0 {
		c.Storage.AllowedExts = []string{".jpg", ".jpeg", ".png", ".webp"}
	}

	if c.Redis.LoginLimit <= 0 {
		c.Redis.LoginLimit = 10
	}
	if c.Redis.LoginWindowS <= 0 {
		c.Redis.LoginWindowS = 900
	}

	if c.Tokens.InitTokenMinutes <= 0 {
		c.Tokens.InitTokenMinutes = 60
	}
	if c.Tokens.ResetTokenMinutes <= 0 {
		c.Tokens.ResetTokenMinutes = 10
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) RememberMeTokenTTL() time.Duration {
	return time.Duration(c.JWT.RememberMeTokenExpiry) * time.Hour
}

func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.Redis.LoginWindowS) * time.Second
}
