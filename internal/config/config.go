package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig
	Priority PriorityConfig
	Synel    SynelConfig
	Sync     SyncConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Webhook  WebhookConfig
	CORS     CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
}

// PriorityConfig holds the ERP (Target) connection settings
type PriorityConfig struct {
	APIURL   string
	Company  string
	Username string
	Password string
	// DateOffset is appended to ISO dates in OData filters, e.g. "+01:00".
	DateOffset string
	// PendingFlagField names the USERSB boolean marking an employee for sync.
	PendingFlagField string
}

// SynelConfig holds the clocking SaaS (Source) connection settings
type SynelConfig struct {
	APIURL         string
	Login          string
	Password       string
	DepartmentCode string
}

// SyncConfig holds job scheduling settings
type SyncConfig struct {
	ClockInterval    time.Duration
	EmployeeInterval time.Duration
	RunTimeout       time.Duration
	HTTPTimeout      time.Duration
	BackfillFrom     string
	AlertEmail       string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration for operator endpoints
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type WebhookConfig struct {
	Token string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// fileConfig mirrors the config.yml layout used by existing deployments.
type fileConfig struct {
	Company          string `yaml:"COMPANY"`
	APIURL           string `yaml:"API_URL"`
	PriorityUsername string `yaml:"PRI_API_USERNAME"`
	PriorityPassword string `yaml:"PRI_API_PASSWORD"`
	SynelAPIURL      string `yaml:"SYNEL_API_URL"`
	SynelUser        string `yaml:"SYNEL_API_USER"`
	SynelPassword    string `yaml:"SYNEL_API_PASSWORD"`
	ClockUpdateTime  int    `yaml:"CLOCK_UPDATE_TIME"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	file, err := loadFile(getEnv("CONFIG_FILE", "config.yml"))
	if err != nil {
		return nil, err
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
	}

	// Priority (Target) configuration
	config.Priority = PriorityConfig{
		APIURL:           getEnv("PRIORITY_API_URL", file.APIURL),
		Company:          getEnv("PRIORITY_COMPANY", file.Company),
		Username:         getEnv("PRIORITY_API_USERNAME", file.PriorityUsername),
		Password:         getEnv("PRIORITY_API_PASSWORD", file.PriorityPassword),
		DateOffset:       getEnv("PRIORITY_DATE_OFFSET", "+01:00"),
		PendingFlagField: getEnv("PRIORITY_PENDING_FLAG", "ZSYN_PENDING"),
	}

	// Synel (Source) configuration
	config.Synel = SynelConfig{
		APIURL:         getEnv("SYNEL_API_URL", orDefault(file.SynelAPIURL, "https://dunlopsystems.synel-saas.com/ExternalAccess")),
		Login:          getEnv("SYNEL_API_USER", file.SynelUser),
		Password:       getEnv("SYNEL_API_PASSWORD", file.SynelPassword),
		DepartmentCode: getEnv("SYNEL_DEPARTMENT_CODE", "0"),
	}

	// Sync configuration
	clockMinutes := file.ClockUpdateTime
	if clockMinutes <= 0 {
		clockMinutes = 5
	}
	clockInterval, err := getEnvDuration("CLOCK_UPDATE_INTERVAL", time.Duration(clockMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	employeeInterval, err := getEnvDuration("SYNC_EMPLOYEE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	runTimeout, err := getEnvDuration("SYNC_RUN_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getEnvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config.Sync = SyncConfig{
		ClockInterval:    clockInterval,
		EmployeeInterval: employeeInterval,
		RunTimeout:       runTimeout,
		HTTPTimeout:      httpTimeout,
		BackfillFrom:     getEnv("SYNC_BACKFILL_FROM", ""),
		AlertEmail:       getEnv("ALERT_EMAIL", ""),
	}

	// Database configuration (optional, run journal only)
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clocksync"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Clock Sync"),
	}

	config.Webhook = WebhookConfig{
		Token: getEnv("WEBHOOK_TOKEN", ""),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Priority.APIURL == "" {
		return fmt.Errorf("PRIORITY_API_URL is required")
	}
	if c.Priority.Company == "" {
		return fmt.Errorf("PRIORITY_COMPANY is required")
	}
	if c.Priority.Username == "" || c.Priority.Password == "" {
		return fmt.Errorf("PRIORITY_API_USERNAME and PRIORITY_API_PASSWORD are required")
	}
	if c.Synel.Login == "" || c.Synel.Password == "" {
		return fmt.Errorf("SYNEL_API_USER and SYNEL_API_PASSWORD are required")
	}
	if c.Sync.ClockInterval <= 0 || c.Sync.EmployeeInterval <= 0 {
		return fmt.Errorf("sync intervals must be positive")
	}
	if c.Sync.BackfillFrom != "" {
		if _, err := time.Parse("2006-01-02", c.Sync.BackfillFrom); err != nil {
			return fmt.Errorf("invalid SYNC_BACKFILL_FROM: %w", err)
		}
	}
	return nil
}

// HasDatabase reports whether the run journal should be backed by PostgreSQL.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
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

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
