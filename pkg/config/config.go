// Package config loads masscode settings from an optional YAML file and
// MASSCODE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MASSCODE_LOG_LEVEL.
const EnvPrefix = "MASSCODE"

// Config holds settings shared by the CLI and the TUI. Command-line flags
// are applied on top by the caller.
type Config struct {
	AppDataPath string `mapstructure:"appdata"`
	DBPath      string `mapstructure:"db"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	Workers     int    `mapstructure:"workers"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

var defaults = map[string]any{
	"appdata":    "",
	"db":         "",
	"log_level":  "warn",
	"log_format": "text",
	"workers":    0,
}

type options struct {
	fs          afero.Fs
	searchPaths []string
}

// Option configures Load.
type Option func(*options)

// WithFs reads config files from fsys instead of the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithSearchPaths replaces the directories searched for masscode.yaml.
func WithSearchPaths(dirs ...string) Option {
	return func(o *options) { o.searchPaths = dirs }
}

func defaultSearchPaths() []string {
	dirs := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "masscode"))
	}
	return dirs
}

// Load reads the configuration. An explicit file must exist; otherwise
// masscode.yaml is looked up in the search paths and is optional.
func Load(file string, opts ...Option) (*Config, error) {
	o := &options{fs: afero.NewOsFs(), searchPaths: defaultSearchPaths()}
	for _, opt := range opts {
		opt(o)
	}

	v := viper.New()
	v.SetFs(o.fs)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("masscode")
		v.SetConfigType("yaml")
		for _, dir := range o.searchPaths {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be checked by type alone.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// NewLogger builds a logrus logger from the level and format settings.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger, nil
}
