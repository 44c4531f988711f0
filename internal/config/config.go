package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Stream  StreamConfig  `mapstructure:"stream"`

	Notifiers map[string]NotifierConfig `mapstructure:"notifiers"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	Mode   string `mapstructure:"mode"`
	APIKey string `mapstructure:"api_key"`
}

// BackendConfig points at the pricing backend and controls how often it is
// polled.
type BackendConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout"`
	PollInterval         time.Duration `mapstructure:"poll_interval"`
	TrainingPollInterval time.Duration `mapstructure:"training_poll_interval"`
}

// ArchiveConfig controls snapshot persistence.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "local" or "s3"
	Path    string   `mapstructure:"path"` // For local
	Retain  int      `mapstructure:"retain"`
	S3      S3Config `mapstructure:"s3"` // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// StreamConfig controls the websocket snapshot stream.
type StreamConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxClients int  `mapstructure:"max_clients"`
}

// NotifierConfig configures one run notification channel. The map key in
// Config.Notifiers names the channel: "webhook" or "telegram".
type NotifierConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Telegram notifier fields
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIURL   string `mapstructure:"api_url"`
	// Webhook notifier fields
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
}

// Load reads configuration from file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Backend: BackendConfig{
			BaseURL:              "http://localhost:5000/api",
			Timeout:              10 * time.Second,
			PollInterval:         30 * time.Second,
			TrainingPollInterval: 2 * time.Second,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Type:    "local",
			Path:    "data/snapshots",
			Retain:  500,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Stream: StreamConfig{
			Enabled:    true,
			MaxClients: 64,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.Mode != "" && c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("server mode must be debug or release, got %q", c.Server.Mode))
	}

	// Backend validation
	if c.Backend.BaseURL == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("backend base_url required"))
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend base_url must be an http(s) URL, got %q", c.Backend.BaseURL))
	}
	if c.Backend.Timeout <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend timeout must be positive, got %s", c.Backend.Timeout))
	}
	if c.Backend.PollInterval <= 0 || c.Backend.TrainingPollInterval <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("backend poll intervals must be positive"))
	}

	// Archive validation - only when enabled
	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "local":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is local"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive s3 bucket required when type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be local or s3, got %q", c.Archive.Type))
		}
		if c.Archive.Retain < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive retain cannot be negative, got %d", c.Archive.Retain))
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path))
	}

	if c.Stream.MaxClients < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("stream max_clients cannot be negative, got %d", c.Stream.MaxClients))
	}

	for name, n := range c.Notifiers {
		if !n.Enabled {
			continue
		}
		switch name {
		case "webhook":
			if n.URL == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("webhook url required when enabled"))
			}
		case "telegram":
			if n.BotToken == "" || n.ChatID == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("telegram bot_token and chat_id required when enabled"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown notifier %q", name))
		}
	}

	return nil
}
