package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090

backend:
  base_url: "http://pricing:5000/api"
  timeout: 5s
  poll_interval: 1m

archive:
  enabled: true
  type: s3
  s3:
    bucket: pricedash
    region: us-east-1
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	assert.Equal(t, "http://pricing:5000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, time.Minute, cfg.Backend.PollInterval)
	assert.Equal(t, "s3", cfg.Archive.Type)
	assert.Equal(t, "pricedash", cfg.Archive.S3.Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Notifiers(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
notifiers:
  webhook:
    enabled: true
    url: "http://hooks.local/pricedash"
    headers:
      X-Token: abc
`))
	require.NoError(t, err)

	hook := cfg.Notifiers["webhook"]
	assert.True(t, hook.Enabled)
	assert.Equal(t, "http://hooks.local/pricedash", hook.URL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_KeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 2*time.Second, cfg.Backend.TrainingPollInterval)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 64, cfg.Stream.MaxClients)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PRICEDASH_TEST_KEY", "s3cret")

	cfg, err := Load(writeConfig(t, "server:\n  api_key: \"${PRICEDASH_TEST_KEY}\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Server.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Backend.PollInterval != 30*time.Second {
		t.Errorf("expected default poll interval 30s, got %s", cfg.Backend.PollInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr *core.Error
	}{
		{"valid config", func(c *Config) {}, nil},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, core.ErrConfigInvalid},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, core.ErrConfigInvalid},
		{"invalid mode", func(c *Config) { c.Server.Mode = "verbose" }, core.ErrConfigInvalid},
		{"missing base url", func(c *Config) { c.Backend.BaseURL = "" }, core.ErrConfigMissing},
		{"non-http base url", func(c *Config) { c.Backend.BaseURL = "ftp://host/api" }, core.ErrConfigInvalid},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }, core.ErrConfigInvalid},
		{"zero poll interval", func(c *Config) { c.Backend.TrainingPollInterval = 0 }, core.ErrConfigInvalid},
		{"archive disabled ignores type", func(c *Config) { c.Archive.Type = "ftp" }, nil},
		{"archive bad type", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Type = "ftp"
		}, core.ErrConfigInvalid},
		{"archive local without path", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Path = ""
		}, core.ErrConfigMissing},
		{"archive s3 without bucket", func(c *Config) {
			c.Archive.Enabled = true
			c.Archive.Type = "s3"
		}, core.ErrConfigMissing},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, core.ErrConfigInvalid},
		{"negative max clients", func(c *Config) { c.Stream.MaxClients = -1 }, core.ErrConfigInvalid},
		{"disabled notifier ignored", func(c *Config) {
			c.Notifiers = map[string]NotifierConfig{"webhook": {}}
		}, nil},
		{"webhook without url", func(c *Config) {
			c.Notifiers = map[string]NotifierConfig{"webhook": {Enabled: true}}
		}, core.ErrConfigMissing},
		{"telegram without chat", func(c *Config) {
			c.Notifiers = map[string]NotifierConfig{"telegram": {Enabled: true, BotToken: "t"}}
		}, core.ErrConfigMissing},
		{"unknown notifier", func(c *Config) {
			c.Notifiers = map[string]NotifierConfig{"pager": {Enabled: true}}
		}, core.ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
