package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Push      PushConfig      `yaml:"push"`
	LLM       LLMConfig       `yaml:"llm"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// Driver is "postgres" or "memory"
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// PushConfig holds push notification configuration
type PushConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Expo    ExpoConfig    `yaml:"expo"`
	APNs    APNsConfig    `yaml:"apns"`
}

// ExpoConfig holds Expo push service configuration
type ExpoConfig struct {
	URL         string `yaml:"url"`
	AccessToken string `yaml:"access_token"`
}

// APNsConfig holds Apple push configuration. Empty KeyPath disables APNs.
type APNsConfig struct {
	KeyPath    string `yaml:"key_path"`
	KeyID      string `yaml:"key_id"`
	TeamID     string `yaml:"team_id"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
}

// Enabled reports whether APNs credentials were configured
func (c APNsConfig) Enabled() bool {
	return c.KeyPath != ""
}

// LLMConfig holds the encouragement generator configuration.
// Empty APIKey disables generation.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// RateLimitConfig holds per-user request limits
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Load reads configuration from a YAML file, applies defaults and
// environment overrides, and validates the result.
// A missing file is not an error; defaults and environment are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "navjivan",
			SSLMode: "disable",
		},
		Log: LogConfig{Level: "info"},
		Push: PushConfig{
			Timeout: 10 * time.Second,
			Expo:    ExpoConfig{URL: "https://exp.host/--/api/v2/push/send"},
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "openai/gpt-4o-mini",
			Timeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{Enabled: true, RPS: 5, Burst: 20},
		Tracing: TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			ServiceName: "navjivan-backend",
			SampleRatio: 1.0,
		},
	}
}

func (c *Config) applyEnv() {
	setFromEnv(&c.JWT.Secret, "NAVJIVAN_JWT_SECRET")
	setFromEnv(&c.Database.URL, "NAVJIVAN_DATABASE_URL")
	setFromEnv(&c.Database.Driver, "NAVJIVAN_DATABASE_DRIVER")
	setFromEnv(&c.Log.Level, "NAVJIVAN_LOG_LEVEL")
	setFromEnv(&c.LLM.APIKey, "OPENROUTER_API_KEY")
	setFromEnv(&c.Push.Expo.AccessToken, "EXPO_ACCESS_TOKEN")
	setFromEnv(&c.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be postgres or memory", c.Database.Driver))
	}
	if a := c.Push.APNs; a.Enabled() && (a.KeyID == "" || a.TeamID == "" || a.Topic == "") {
		errs = append(errs, errors.New("push.apns needs key_id, team_id and topic when key_path is set"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("rate_limit.rps must be positive"))
	}
	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			errs = append(errs, errors.New("tracing.endpoint is required when tracing is enabled"))
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			errs = append(errs, errors.New("tracing.sample_ratio must be within [0,1]"))
		}
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
