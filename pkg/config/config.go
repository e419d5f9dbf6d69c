// Package config provides configuration management for clearcache. A YAML
// file can pre-set the run defaults (categories, worker count, traversal
// depth, logging); command-line flags override file values.
package config

import (
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/clearcache/pkg/catalog"
	"github.com/glorpus-work/clearcache/pkg/errors"
	"github.com/glorpus-work/clearcache/pkg/fsutil"
	"github.com/glorpus-work/clearcache/pkg/traversal"
)

// ConfigFileName is the configuration file clearcache looks for.
const ConfigFileName = ".clearcache.yaml"

// YAMLIndent is the indentation used when writing the config file.
const YAMLIndent = 2

// Config represents the application configuration.
type Config struct {
	Settings Settings `yaml:"settings"`
}

// Settings represents general application settings.
type Settings struct {
	// Categories cleaned when no --types flag is given.
	Categories []string `yaml:"categories,omitempty"`

	// Workers is the default parallelism. Zero means the host CPU count.
	Workers int `yaml:"workers,omitempty"`

	// MaxDepth bounds recursive traversal.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// IncludeLibraries opts into cleaning dependency caches by default.
	IncludeLibraries bool `yaml:"include_libraries,omitempty"`

	// RespectGitignore honors .gitignore files during traversal.
	RespectGitignore bool `yaml:"respect_gitignore,omitempty"`

	// DisableIgnoreFile turns off .clearcacheignore handling.
	DisableIgnoreFile bool `yaml:"disable_ignore_file,omitempty"`

	// Output settings.
	OutputFormat string `yaml:"output_format,omitempty"` // text, json
	LogLevel     string `yaml:"log_level,omitempty"`     // error, warn, info, debug
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			Categories:   []string{"all"},
			Workers:      runtime.NumCPU(),
			MaxDepth:     traversal.DefaultMaxDepth,
			OutputFormat: "text",
			LogLevel:     "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}

	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Settings.Workers < 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "workers cannot be negative: %d", c.Settings.Workers)
	}
	if c.Settings.MaxDepth < 0 {
		return errors.Wrapf(errors.ErrConfigValidation, "max_depth cannot be negative: %d", c.Settings.MaxDepth)
	}
	switch c.Settings.OutputFormat {
	case "", "text", "json":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "unknown output format: %s", c.Settings.OutputFormat)
	}
	for _, name := range c.Settings.Categories {
		if name == "all" {
			continue
		}
		if _, err := catalog.Parse(name); err != nil {
			return errors.Wrap(errors.ErrConfigValidation, err.Error())
		}
	}
	return nil
}

// applyDefaults fills in zero values with the built-in defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Settings.Categories) == 0 {
		c.Settings.Categories = defaults.Settings.Categories
	}
	if c.Settings.Workers == 0 {
		c.Settings.Workers = defaults.Settings.Workers
	}
	if c.Settings.MaxDepth == 0 {
		c.Settings.MaxDepth = defaults.Settings.MaxDepth
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}

// GetDefaultConfigPath returns the per-user config file location.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "clearcache", ConfigFileName), nil
}

// ParseCategories resolves the configured category names. "all" expands to
// the discoverable categories only; the container-runtime category must be
// listed explicitly.
func (c *Config) ParseCategories() ([]catalog.Category, error) {
	var categories []catalog.Category
	seen := make(map[catalog.Category]bool)
	add := func(category catalog.Category) {
		if !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	for _, name := range c.Settings.Categories {
		if name == "all" {
			for _, category := range catalog.Discoverable() {
				add(category)
			}
			continue
		}
		category, err := catalog.Parse(name)
		if err != nil {
			return nil, err
		}
		add(category)
	}
	return categories, nil
}
