package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	APIServerConfig struct {
		Port       int              `yaml:"port"`
		Database   DatabaseConfig   `yaml:"database"`
		Cache      CacheConfig      `yaml:"cache"`
		Logger     LoggerConfig     `yaml:"logger"`
		JWT        JWTConfig        `yaml:"jwt"`
		SuperAdmin SuperAdminConfig `yaml:"super_admin"`
		I18n       I18nConfig       `yaml:"i18n"`
		Metrics    MetricsConfig    `yaml:"metrics"`
		Tracing    TracingConfig    `yaml:"tracing"`
	}

	// SuperAdminConfig seeds the initial super admin account at startup
	SuperAdminConfig struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // Path to i18n translation files
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (mysql), 5432 (postgres)
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (postgres)
	}

	// CacheConfig selects the widget config cache backend
	CacheConfig struct {
		Type  string           `yaml:"type"` // memory or redis
		TTL   time.Duration    `yaml:"ttl"`
		Redis CacheRedisConfig `yaml:"redis"`
	}

	CacheRedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	TracingConfig struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		Endpoint    string  `yaml:"endpoint"` // e.g. localhost:4317 or http://localhost:4318
		Protocol    string  `yaml:"protocol"` // grpc or http
		Insecure    bool    `yaml:"insecure"`
		SamplerRate float64 `yaml:"sampler_rate"` // 0.0~1.0
		Environment string  `yaml:"environment"`  // env tag: dev/staging/prod
	}
)

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		// For SQLite, DBName is the file path
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName
	default:
		return ""
	}
}
