package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudevolvers/catalog/internal/pkg/helpers"
	"github.com/cloudevolvers/catalog/internal/pkg/i18n"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		AllowedOrigin   string `yaml:"allowed_origin" env:"SERVER_ALLOWED_ORIGIN"`
	} `yaml:"server"`

	Database struct {
		Enabled         bool   `yaml:"enabled" env:"DB_ENABLED"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Content struct {
		DefaultLocale string `yaml:"default_locale" env:"CONTENT_DEFAULT_LOCALE"`
		Strict        bool   `yaml:"strict" env:"CONTENT_STRICT"`
	} `yaml:"content"`

	Admin struct {
		KeyHash         string `yaml:"key_hash" env:"ADMIN_KEY_HASH"`
		JWTSecret       string `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"ADMIN_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"ADMIN_TOKEN_ISSUER"`
	} `yaml:"admin"`

	// Promotion is stored on first start only; later changes go through the admin API
	Promotion struct {
		Percentage int    `yaml:"percentage" env:"PROMOTION_PERCENTAGE"`
		Active     bool   `yaml:"active" env:"PROMOTION_ACTIVE"`
		Reason     string `yaml:"reason" env:"PROMOTION_REASON"`
		ValidUntil string `yaml:"valid_until" env:"PROMOTION_VALID_UNTIL"`
	} `yaml:"promotion"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults plus env vars are a valid setup
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.ShutdownTimeout = "10s"
	config.Server.AllowedOrigin = "*"

	// Database defaults
	config.Database.Enabled = false
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "catalog"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// Content defaults
	config.Content.DefaultLocale = string(i18n.DefaultLocale)
	config.Content.Strict = false

	// Admin defaults
	config.Admin.TokenExpiration = "1h"
	config.Admin.Issuer = "cloudevolvers.catalog"

	// Promotion defaults
	config.Promotion.Active = false

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	for name, value := range map[string]string{
		"server read timeout":     config.Server.ReadTimeout,
		"server write timeout":    config.Server.WriteTimeout,
		"server shutdown timeout": config.Server.ShutdownTimeout,
		"admin token expiration":  config.Admin.TokenExpiration,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if !i18n.Locale(strings.ToLower(config.Content.DefaultLocale)).IsSupported() {
		return fmt.Errorf("unsupported default locale %q", config.Content.DefaultLocale)
	}

	if config.Database.Enabled {
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime format: %w", err)
		}
	}

	if p := config.Promotion.Percentage; p < 0 || p > 100 {
		return fmt.Errorf("promotion percentage must be between 0 and 100")
	}
	if config.Promotion.ValidUntil != "" {
		if _, err := helpers.ParseDeadline(config.Promotion.ValidUntil); err != nil {
			return fmt.Errorf("invalid promotion end: %w", err)
		}
	} else if config.Promotion.Active {
		return fmt.Errorf("an active promotion needs valid_until")
	}

	// Issuing admin tokens needs a signing secret
	if config.Admin.KeyHash != "" && config.Admin.JWTSecret == "" {
		return fmt.Errorf("admin JWT secret is required when an admin key hash is set")
	}

	return nil
}

// DefaultLocale returns the configured fallback locale
func (c *Config) DefaultLocale() i18n.Locale {
	return i18n.ParseLocale(c.Content.DefaultLocale)
}

// AdminEnabled reports whether the admin endpoints can issue tokens
func (c *Config) AdminEnabled() bool {
	return c.Admin.KeyHash != ""
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
