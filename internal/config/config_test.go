package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "https://esi.evetech.net/latest", cfg.ESI.BaseURL)
	assert.Equal(t, 20, cfg.ESI.RateLimitPerSec)
	assert.Equal(t, int64(100), cfg.Analysis.MinVolume)
	assert.Equal(t, 5.0, cfg.Analysis.MinSpread)
	assert.Equal(t, 20, cfg.Analysis.Limit)
	assert.Equal(t, 100, cfg.Analysis.AnalysisCap)
	assert.Equal(t, 5*time.Minute, cfg.Analysis.ReportTTL.Duration)
	assert.Equal(t, int64(10000002), cfg.Analysis.DefaultRegionID)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "server", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)

	require.NoError(t, cfg.Validate(), "defaults must validate")
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
mode = "analyze"
log_level = "debug"

[analysis]
min_spread = 8.5
report_ttl = "10m"
default_region_id = 10000043

[server]
port = 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "analyze", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8.5, cfg.Analysis.MinSpread)
	assert.Equal(t, 10*time.Minute, cfg.Analysis.ReportTTL.Duration)
	assert.Equal(t, int64(10000043), cfg.Analysis.DefaultRegionID)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Untouched sections keep their defaults.
	assert.Equal(t, int64(100), cfg.Analysis.MinVolume)
	assert.Equal(t, "https://esi.evetech.net/latest", cfg.ESI.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EVETRADE_ESI_BASE_URL", "http://localhost:9999")
	t.Setenv("EVETRADE_ANALYSIS_MIN_VOLUME", "250")
	t.Setenv("EVETRADE_ANALYSIS_REPORT_TTL", "90s")
	t.Setenv("EVETRADE_SERVER_PORT", "8181")
	t.Setenv("EVETRADE_SERVER_API_KEY", "sekrit")

	cfg := LoadDefaults()

	assert.Equal(t, "http://localhost:9999", cfg.ESI.BaseURL)
	assert.Equal(t, int64(250), cfg.Analysis.MinVolume)
	assert.Equal(t, 90*time.Second, cfg.Analysis.ReportTTL.Duration)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "sekrit", cfg.Server.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Mode = "turbo" },
			wantErr: "unknown mode",
		},
		{
			name:    "empty esi base url",
			mutate:  func(c *Config) { c.ESI.BaseURL = "" },
			wantErr: "base_url",
		},
		{
			name:    "zero limit",
			mutate:  func(c *Config) { c.Analysis.Limit = 0 },
			wantErr: "limit must be >= 1",
		},
		{
			name:    "bad server port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port must be 1-65535",
		},
		{
			name:    "redis enabled without addr",
			mutate:  func(c *Config) { c.Redis.Addr = "" },
			wantErr: "redis: addr",
		},
		{
			name:    "telegram token without chat id",
			mutate:  func(c *Config) { c.Notify.TelegramToken = "tok" },
			wantErr: "telegram_token and telegram_chat_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Redis.Password = "hunter2"
	cfg.Postgres.Password = "hunter2"
	cfg.Server.APIKey = "hunter2"
	cfg.Notify.TelegramToken = "hunter2"
	cfg.Notify.TelegramChatID = "42"
	cfg.S3.SecretKey = "hunter2"

	red := RedactedConfig(&cfg)

	assert.NotContains(t, red.Redis.Password, "hunter2")
	assert.NotContains(t, red.Postgres.Password, "hunter2")
	assert.NotContains(t, red.Server.APIKey, "hunter2")
	assert.NotContains(t, red.Notify.TelegramToken, "hunter2")
	assert.NotContains(t, red.S3.SecretKey, "hunter2")

	// The original is untouched.
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}
