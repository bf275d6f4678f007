package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "your-super-secret-key-change-in-production"

type Config struct {
	Environment      string        `yaml:"environment" envconfig:"APP_ENV"`
	ServerPort       string        `yaml:"server_port" envconfig:"SERVER_PORT"`
	DatabaseURL      string        `yaml:"database_url" envconfig:"DATABASE_URL"`
	DatabaseLogLevel string        `yaml:"database_log_level" envconfig:"DATABASE_LOG_LEVEL"`
	JWTSecret        string        `yaml:"-" envconfig:"JWT_SECRET"`
	JWTExpiration    time.Duration `yaml:"jwt_expiration" envconfig:"JWT_EXPIRATION"`
	InviteExpiration time.Duration `yaml:"invite_expiration" envconfig:"INVITE_EXPIRATION"`

	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout     time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	StoreIdleTimeout   time.Duration `yaml:"store_idle_timeout" envconfig:"STORE_IDLE_TIMEOUT"`
	StoreSweepInterval time.Duration `yaml:"store_sweep_interval" envconfig:"STORE_SWEEP_INTERVAL"`

	Email  EmailConfig  `yaml:"email"`
	Stream StreamConfig `yaml:"stream"`
}

// EmailConfig configures invite mail through SES. Mail is only logged when
// Sender is empty.
type EmailConfig struct {
	AccessKeyID     string `yaml:"-" envconfig:"SES_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"-" envconfig:"SES_SECRET_ACCESS_KEY"`
	Region          string `yaml:"region" envconfig:"SES_REGION"`
	Sender          string `yaml:"sender" envconfig:"SES_SENDER"`
	InviteBaseURL   string `yaml:"invite_base_url" envconfig:"INVITE_BASE_URL"`
}

// StreamConfig configures the video streaming provider.
type StreamConfig struct {
	AccountID          string `yaml:"account_id" envconfig:"STREAM_ACCOUNT_ID"`
	APIToken           string `yaml:"-" envconfig:"STREAM_API_TOKEN"`
	APIBaseURL         string `yaml:"api_base_url" envconfig:"STREAM_API_BASE_URL"`
	PlaybackBaseURL    string `yaml:"playback_base_url" envconfig:"STREAM_PLAYBACK_BASE_URL"`
	MaxDurationSeconds int    `yaml:"max_duration_seconds" envconfig:"STREAM_MAX_DURATION_SECONDS"`
}

func defaults() Config {
	return Config{
		Environment:        "development",
		ServerPort:         "8080",
		DatabaseURL:        "postgresql://postgres@localhost:5432/roster",
		DatabaseLogLevel:   "warn",
		JWTSecret:          defaultJWTSecret,
		JWTExpiration:      24 * time.Hour,
		InviteExpiration:   7 * 24 * time.Hour, // 7 days
		ShutdownTimeout:    15 * time.Second,
		RequestTimeout:     30 * time.Second,
		StoreIdleTimeout:   30 * time.Minute,
		StoreSweepInterval: 5 * time.Minute,
		Email: EmailConfig{
			Region:        "us-east-1",
			InviteBaseURL: "http://localhost:8080/invites",
		},
		Stream: StreamConfig{
			APIBaseURL:         "https://api.cloudflare.com/client/v4",
			MaxDurationSeconds: 3600,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, a .env file and the environment, in that order.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("database url is required")
	}
	switch c.DatabaseLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("unsupported database log level: %s", c.DatabaseLogLevel)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("jwt secret must be set in production")
	}

	durations := map[string]time.Duration{
		"jwt expiration":       c.JWTExpiration,
		"invite expiration":    c.InviteExpiration,
		"shutdown timeout":     c.ShutdownTimeout,
		"request timeout":      c.RequestTimeout,
		"store idle timeout":   c.StoreIdleTimeout,
		"store sweep interval": c.StoreSweepInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if c.Stream.MaxDurationSeconds <= 0 {
		return errors.New("stream max duration must be positive")
	}
	if c.Email.Sender != "" && c.Email.Region == "" {
		return errors.New("ses region is required when a sender is set")
	}
	return nil
}
