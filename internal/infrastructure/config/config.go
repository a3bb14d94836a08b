// Package config loads application configuration from TOML and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig
	Log          LogConfig
	HTTP         HTTPConfig
	ShopAPI      ShopAPIConfig
	Shipping     ShippingConfig
	Session      SessionConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// ShopAPIConfig holds settings for the remote shop API client
type ShopAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// ShippingConfig holds the shipping fee table in whole naira
type ShippingConfig struct {
	StandardFee int64
	ExpressFee  int64
}

// SessionConfig holds session cart storage settings
type SessionConfig struct {
	// Backend selects the cart store: "memory" or "redis"
	Backend string
	TTL     time.Duration
	Redis   RedisConfig
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NotificationConfig holds notification channel settings
type NotificationConfig struct {
	DismissAfter time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_SHOPAPI_TOKEN)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		ShopAPI: ShopAPIConfig{
			BaseURL: v.GetString("shopapi.base_url"),
			Token:   v.GetString("shopapi.token"),
			Timeout: v.GetDuration("shopapi.timeout"),
		},
		Shipping: ShippingConfig{
			StandardFee: v.GetInt64("shipping.standard_fee"),
			ExpressFee:  v.GetInt64("shipping.express_fee"),
		},
		Session: SessionConfig{
			Backend: v.GetString("session.backend"),
			TTL:     v.GetDuration("session.ttl"),
			Redis: RedisConfig{
				Host:     v.GetString("session.redis.host"),
				Port:     v.GetInt("session.redis.port"),
				Password: v.GetString("session.redis.password"),
				DB:       v.GetInt("session.redis.db"),
			},
		},
		Notification: NotificationConfig{
			DismissAfter: v.GetDuration("notification.dismiss_after"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"}
	}
	if cfg.ShopAPI.Timeout == 0 {
		cfg.ShopAPI.Timeout = 30 * time.Second
	}
	if cfg.Shipping.StandardFee == 0 {
		cfg.Shipping.StandardFee = 1000
	}
	if cfg.Shipping.ExpressFee == 0 {
		cfg.Shipping.ExpressFee = 2500
	}
	if cfg.Session.Backend == "" {
		cfg.Session.Backend = "memory"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.Session.Redis.Host == "" {
		cfg.Session.Redis.Host = "localhost"
	}
	if cfg.Session.Redis.Port == 0 {
		cfg.Session.Redis.Port = 6379
	}
	if cfg.Notification.DismissAfter == 0 {
		cfg.Notification.DismissAfter = 5 * time.Second
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "storefront-backend"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("session.backend must be 'memory' or 'redis', got %q", c.Session.Backend)
	}
	if c.Shipping.StandardFee < 0 || c.Shipping.ExpressFee < 0 {
		return fmt.Errorf("shipping fees cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.ShopAPI.BaseURL == "" {
			return fmt.Errorf("shopapi.base_url is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (a *AppConfig) Addr() string {
	return ":" + a.Port
}
