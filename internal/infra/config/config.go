// Package config provides configuration loading from YAML files.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvServer   = "JUKECLIENT_SERVER"
	EnvStateDB  = "JUKECLIENT_STATE_DB"
	EnvLogLevel = "JUKECLIENT_LOG_LEVEL"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "~/.jukeclient/config.yaml"

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Identity IdentityConfig `yaml:"identity"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig represents the jukebox server connection.
type ServerConfig struct {
	BaseURL string `yaml:"base_url" default:"http://localhost:8000" validate:"required,url"`
}

// IdentityConfig represents the remembered-username store.
type IdentityConfig struct {
	Path           string `yaml:"path" default:"~/.jukeclient/state.db" validate:"required"`
	ForgetOnLogout bool   `yaml:"forget_on_logout"`
}

// RefreshConfig represents periodic re-sync. A zero interval disables it.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" default:"0s" validate:"gte=0s"`
}

// AudioConfig represents the playback device.
type AudioConfig struct {
	Backend  string         `yaml:"backend" default:"null" validate:"oneof=null beep"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=trace debug info warn warning error"`
	File  string `yaml:"file" default:"~/.jukeclient/jukeclient.log"`
}

// Load loads configuration from a YAML file.
// An empty path reads [DefaultPath] and tolerates its absence; an explicit path must exist.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	var cfg Config
	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	case !explicit && errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return nil, errors.Wrap(err, "failed to read config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	cfg.Identity.Path = ExpandHome(cfg.Identity.Path)
	cfg.Log.File = ExpandHome(cfg.Log.File)
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv(EnvServer); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvStateDB); v != "" {
		c.Identity.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// Origin returns scheme://host[:port] of the server, the scope of the remembered username.
func (c *Config) Origin() (string, error) {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse server base_url")
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.Newf("server base_url %q has no origin", c.Server.BaseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
