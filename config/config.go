// Package config loads SlackFit configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// Embed the IANA database so APP_TIMEZONE resolves on hosts without a
	// system tzdata package.
	_ "time/tzdata"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Slack API and workspace
	Slack SlackConfig

	// Ledger persistence
	Ledger LedgerConfig

	// Redis (display name cache)
	Redis RedisConfig

	// HTTP intake
	Server ServerConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Timezone for the posting schedule and check-in dates
	// (default: America/New_York).
	Timezone string
	Location *time.Location

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration

	// Log level: debug, info, warn, error
	LogLevel string
}

// SlackConfig holds Slack credentials and workspace settings.
type SlackConfig struct {
	// BotToken is the bot token (xoxb-...). Required.
	BotToken string

	// ChannelID is the exercise channel the bot posts in and listens to.
	// Required.
	ChannelID string

	// BaseURL overrides the Web API base URL, for tests.
	BaseURL string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RetryAttempts is the number of attempts for failed API calls.
	RetryAttempts int
}

// LedgerConfig holds JSON file persistence settings.
type LedgerConfig struct {
	// Path is the ledger document location (default: db.json).
	Path string
}

// RedisConfig holds the optional display name cache settings.
type RedisConfig struct {
	// Enabled turns the cache on. When false the bot resolves names
	// directly against the Slack API on every leaderboard render.
	Enabled bool

	Host     string
	Port     int
	Password string
	DB       int

	// NameTTL is how long a resolved display name stays cached.
	NameTTL time.Duration
}

// Address returns the Redis address string.
func (c RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig holds HTTP intake settings.
type ServerConfig struct {
	Host string
	Port int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.App = loadAppConfig()
	cfg.Slack = loadSlackConfig()
	cfg.Ledger = loadLedgerConfig()
	cfg.Redis = loadRedisConfig()
	cfg.Server = loadServerConfig()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	timezone := getEnv("APP_TIMEZONE", "America/New_York")

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "slackfit"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func loadSlackConfig() SlackConfig {
	return SlackConfig{
		BotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		ChannelID:     getEnv("EXERCISE_CHANNEL_ID", ""),
		BaseURL:       getEnv("SLACK_API_BASE_URL", ""),
		Timeout:       getEnvDuration("SLACK_API_TIMEOUT", 30*time.Second),
		RetryAttempts: getEnvInt("SLACK_API_RETRY_ATTEMPTS", 3),
	}
}

func loadLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Path: getEnv("LEDGER_PATH", "db.json"),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  getEnvBool("REDIS_ENABLED", false),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		NameTTL:  getEnvDuration("REDIS_NAME_TTL", 24*time.Hour),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host: getEnv("HTTP_HOST", "0.0.0.0"),
		Port: getEnvInt("HTTP_PORT", 3000),
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if c.Slack.ChannelID == "" {
		return fmt.Errorf("EXERCISE_CHANNEL_ID is required")
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("LEDGER_PATH must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.Server.Port)
	}
	return nil
}

// IsProduction returns true when running in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// ─────────────────────────────────────────────────────────────────────────
// Environment helpers
// ─────────────────────────────────────────────────────────────────────────

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return defaultVal
	}
	return d
}
