package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	JWT      JWTConfig      `yaml:"jwt"`
	App      AppConfig      `yaml:"app"`
	Report   ReportConfig   `yaml:"report"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessExpiration string `yaml:"access_expiration"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string   `yaml:"name"`
	Version        string   `yaml:"version"`
	Port           int      `yaml:"port"`
	Env            string   `yaml:"env"`
	LogLevel       string   `yaml:"log_level"`
	Timezone       string   `yaml:"timezone"`
	StoreDriver    string   `yaml:"store_driver"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ManagersGroup  string   `yaml:"managers_group"`
}

type ReportConfig struct {
	// CalendarDayRange bounds a day search by the next calendar day instead of
	// the last-character increment of the date string.
	CalendarDayRange bool `yaml:"calendar_day_range"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "worklog",
			SSLMode: "disable",
		},
		SQLite: SQLiteConfig{Path: "worklog.db"},
		JWT: JWTConfig{
			AccessExpiration: "1h",
		},
		App: AppConfig{
			Name:           "worklog-backend",
			Version:        "dev",
			Port:           8080,
			Env:            "development",
			LogLevel:       "info",
			Timezone:       "UTC",
			StoreDriver:    StoreDriverPostgres,
			AllowedOrigins: []string{"http://localhost:3000"},
			ManagersGroup:  auth.ManagersGroup,
		},
	}
}

// Load reads .env when present, then the YAML file named by CONFIG_FILE, then
// environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadFile overlays the YAML document at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	// Database configuration
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	if c.Database.Port, err = getEnvInt("DB_PORT", c.Database.Port); err != nil {
		return err
	}
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)

	maxConns, err := getEnvInt("DB_MAX_CONNS", int(c.Database.MaxConns))
	if err != nil {
		return err
	}
	c.Database.MaxConns = int32(maxConns)
	minConns, err := getEnvInt("DB_MIN_CONNS", int(c.Database.MinConns))
	if err != nil {
		return err
	}
	c.Database.MinConns = int32(minConns)

	c.SQLite.Path = getEnv("SQLITE_PATH", c.SQLite.Path)

	// Application configuration
	if c.App.Port, err = getEnvInt("APP_PORT", c.App.Port); err != nil {
		return err
	}
	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Version = getEnv("APP_VERSION", c.App.Version)
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.Timezone = getEnv("APP_TIMEZONE", c.App.Timezone)
	c.App.StoreDriver = getEnv("STORE_DRIVER", c.App.StoreDriver)
	c.App.ManagersGroup = getEnv("MANAGERS_GROUP", c.App.ManagersGroup)
	if origins := getEnvSlice("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		c.App.AllowedOrigins = origins
	}

	// JWT configuration
	c.JWT.Secret = getEnv("JWT_SECRET_KEY", c.JWT.Secret)
	c.JWT.AccessExpiration = getEnv("JWT_ACCESS_EXPIRATION_TIME", c.JWT.AccessExpiration)

	if c.Report.CalendarDayRange, err = getEnvBool("REPORT_CALENDAR_DAY_RANGE", c.Report.CalendarDayRange); err != nil {
		return err
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.App.StoreDriver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.App.ManagersGroup == "" {
		return fmt.Errorf("MANAGERS_GROUP is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location is the zone clock times are recorded in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.App.LogLevel))
	return level, err
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
