package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies EVETRADE_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadDefaults returns the built-in defaults with environment overrides
// applied, for running without a config file.
func LoadDefaults() *Config {
	cfg := Defaults()

	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg
}

// applyEnvOverrides reads well-known EVETRADE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── ESI ──
	setStr(&cfg.ESI.BaseURL, "EVETRADE_ESI_BASE_URL")
	setInt(&cfg.ESI.RateLimitPerSec, "EVETRADE_ESI_RATE_LIMIT_PER_SEC")

	// ── Analysis ──
	setInt64(&cfg.Analysis.MinVolume, "EVETRADE_ANALYSIS_MIN_VOLUME")
	setFloat64(&cfg.Analysis.MinSpread, "EVETRADE_ANALYSIS_MIN_SPREAD")
	setInt(&cfg.Analysis.Limit, "EVETRADE_ANALYSIS_LIMIT")
	setInt(&cfg.Analysis.AnalysisCap, "EVETRADE_ANALYSIS_CAP")
	setDuration(&cfg.Analysis.ReportTTL, "EVETRADE_ANALYSIS_REPORT_TTL")
	setDuration(&cfg.Analysis.NameTTL, "EVETRADE_ANALYSIS_NAME_TTL")
	setInt64(&cfg.Analysis.DefaultRegionID, "EVETRADE_ANALYSIS_DEFAULT_REGION_ID")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "EVETRADE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "EVETRADE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "EVETRADE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "EVETRADE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "EVETRADE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "EVETRADE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "EVETRADE_REDIS_TLS_ENABLED")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "EVETRADE_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "EVETRADE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "EVETRADE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "EVETRADE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "EVETRADE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "EVETRADE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "EVETRADE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "EVETRADE_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "EVETRADE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "EVETRADE_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "EVETRADE_POSTGRES_RUN_MIGRATIONS")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "EVETRADE_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "EVETRADE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "EVETRADE_S3_REGION")
	setStr(&cfg.S3.Bucket, "EVETRADE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "EVETRADE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "EVETRADE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "EVETRADE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "EVETRADE_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "EVETRADE_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "EVETRADE_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "EVETRADE_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMin, "EVETRADE_SERVER_RATE_LIMIT_PER_MIN")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "EVETRADE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "EVETRADE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "EVETRADE_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "EVETRADE_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "EVETRADE_MODE")
	setStr(&cfg.LogLevel, "EVETRADE_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
