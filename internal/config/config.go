package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// DefaultTargetURL is pinged when TARGET_URL is unset or empty
const DefaultTargetURL = "https://ip-geolocation-api-40va.onrender.com"

// Config holds all application configuration
type Config struct {
	// Ping Configuration
	TargetURL     string
	PingTimeout   time.Duration
	PingUserAgent string
	PingLogSize   int

	// Static Assets Configuration
	AssetsURL string

	// HTTP Server Configuration
	HTTPPort         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration

	// Logging Configuration
	LogLevel  string
	LogFormat string

	// CORS Configuration
	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string
	CORSMaxAge         int

	// Scheduler Configuration
	SchedulerEnabled bool
	SchedulerCron    string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadFrom(v)
}

// LoadFrom builds the configuration from an existing viper instance
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		// Ping
		TargetURL:     v.GetString("TARGET_URL"),
		PingTimeout:   time.Duration(v.GetInt("PING_TIMEOUT_SEC")) * time.Second,
		PingUserAgent: v.GetString("PING_USER_AGENT"),
		PingLogSize:   v.GetInt("PING_LOG_SIZE"),

		// Static assets
		AssetsURL: v.GetString("ASSETS_URL"),

		// HTTP Server
		HTTPPort:         v.GetString("HTTP_PORT"),
		HTTPReadTimeout:  time.Duration(v.GetInt("HTTP_READ_TIMEOUT_SEC")) * time.Second,
		HTTPWriteTimeout: time.Duration(v.GetInt("HTTP_WRITE_TIMEOUT_SEC")) * time.Second,

		// Logging
		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),

		// CORS
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		CORSAllowedMethods: v.GetString("CORS_ALLOWED_METHODS"),
		CORSAllowedHeaders: v.GetString("CORS_ALLOWED_HEADERS"),
		CORSMaxAge:         v.GetInt("CORS_MAX_AGE"),

		// Scheduler
		SchedulerEnabled: v.GetBool("SCHEDULER_ENABLED"),
		SchedulerCron:    v.GetString("SCHEDULER_CRON"),
	}

	// An empty TARGET_URL falls back the same way a missing one does
	if strings.TrimSpace(cfg.TargetURL) == "" {
		cfg.TargetURL = DefaultTargetURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TARGET_URL", DefaultTargetURL)
	v.SetDefault("PING_TIMEOUT_SEC", 30)
	v.SetDefault("PING_USER_AGENT", "Cloudflare-Worker-Monitor/1.0")
	v.SetDefault("PING_LOG_SIZE", 20)

	v.SetDefault("ASSETS_URL", "")

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("HTTP_READ_TIMEOUT_SEC", 30)
	v.SetDefault("HTTP_WRITE_TIMEOUT_SEC", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET, HEAD, PUT, POST, DELETE, PATCH")
	v.SetDefault("CORS_ALLOWED_HEADERS", "*")
	v.SetDefault("CORS_MAX_AGE", 0)

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_CRON", "*/1 * * * *")
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TargetURL, validation.Required, is.URL, validation.By(httpURL)),
		validation.Field(&c.AssetsURL, validation.By(httpURL)),
		validation.Field(&c.PingTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.PingUserAgent, validation.Required),
		validation.Field(&c.PingLogSize, validation.Required, validation.Min(1)),
		validation.Field(&c.HTTPPort, validation.Required, is.Port),
		validation.Field(&c.HTTPReadTimeout, validation.Required),
		validation.Field(&c.HTTPWriteTimeout, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
		validation.Field(&c.CORSMaxAge, validation.Min(0)),
		validation.Field(&c.SchedulerCron, validation.Required, validation.By(cronSpec)),
	)
}

// httpURL accepts empty values and absolute http(s) URLs
func httpURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if parsed.Host == "" {
		return errors.New("URL must include a host")
	}

	return nil
}

func cronSpec(value interface{}) error {
	spec, _ := value.(string)
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
