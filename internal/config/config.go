// Package config defines the top-level configuration for the market analysis
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by EVETRADE_* environment
// variables.
type Config struct {
	ESI      ESIConfig      `toml:"esi"`
	Analysis AnalysisConfig `toml:"analysis"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ESIConfig holds the EVE Swagger Interface endpoint parameters.
type ESIConfig struct {
	BaseURL string `toml:"base_url"`

	// RateLimitPerSec caps outbound ESI requests when redis is available;
	// 0 disables throttling.
	RateLimitPerSec int `toml:"rate_limit_per_sec"`
}

// AnalysisConfig holds default analysis thresholds and cache behavior.
type AnalysisConfig struct {
	MinVolume   int64    `toml:"min_volume"`
	MinSpread   float64  `toml:"min_spread"`
	Limit       int      `toml:"limit"`
	AnalysisCap int      `toml:"analysis_cap"`
	ReportTTL   duration `toml:"report_ttl"`
	NameTTL     duration `toml:"name_ttl"`

	// Region analyzed by the one-shot analyze mode.
	DefaultRegionID int64 `toml:"default_region_id"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// S3Config holds S3-compatible object storage parameters for snapshot
// archiving.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`

	// Per-client API request budget. Zero disables request limiting.
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// NotifyConfig holds notification channel credentials and event filters.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration wraps time.Duration so TOML values can be written as strings like
// "5m" or "1h30m".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var validModes = map[string]bool{
	"server":  true,
	"analyze": true,
	"full":    true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		ESI: ESIConfig{
			BaseURL:         "https://esi.evetech.net/latest",
			RateLimitPerSec: 20,
		},
		Analysis: AnalysisConfig{
			MinVolume:       domain.DefaultMinVolume,
			MinSpread:       domain.DefaultMinSpreadPercentage,
			Limit:           20,
			AnalysisCap:     100,
			ReportTTL:       duration{5 * time.Minute},
			NameTTL:         duration{24 * time.Hour},
			DefaultRegionID: 10000002, // The Forge
		},
		Redis: RedisConfig{
			Enabled:    true,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Postgres: PostgresConfig{
			Enabled:       true,
			Host:          "localhost",
			Port:          5432,
			Database:      "evetrade",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "evetrade-snapshots",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Port:            8080,
			CORSOrigins:     []string{},
			RateLimitPerMin: 120,
		},
		Notify: NotifyConfig{
			Events: []string{"opportunity_found"},
		},
		Mode:     "server",
		LogLevel: "info",
	}
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: server, analyze, full)", c.Mode))
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// ESI
	if c.ESI.BaseURL == "" {
		errs = append(errs, "esi: base_url must not be empty")
	}
	if c.ESI.RateLimitPerSec < 0 {
		errs = append(errs, "esi: rate_limit_per_sec must be >= 0")
	}

	// Analysis
	if c.Analysis.MinVolume < 0 {
		errs = append(errs, "analysis: min_volume must be >= 0")
	}
	if c.Analysis.MinSpread < 0 {
		errs = append(errs, "analysis: min_spread must be >= 0")
	}
	if c.Analysis.Limit < 1 {
		errs = append(errs, "analysis: limit must be >= 1")
	}
	if c.Analysis.AnalysisCap < 1 {
		errs = append(errs, "analysis: analysis_cap must be >= 1")
	}
	if c.Analysis.ReportTTL.Duration <= 0 {
		errs = append(errs, "analysis: report_ttl must be > 0")
	}
	if c.Analysis.DefaultRegionID <= 0 {
		errs = append(errs, "analysis: default_region_id must be positive")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// S3
	if c.S3.Enabled {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
	}

	// Server
	mode := strings.ToLower(c.Mode)
	if mode == "server" || mode == "full" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
		if c.Server.RateLimitPerMin < 0 {
			errs = append(errs, "server: rate_limit_per_min must be >= 0")
		}
	}

	// Notify — telegram needs both fields when either is set.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
