package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	ConfigFileName   = "config.toml"
	InstalledDirName = "installed"
	ManifestFileName = "manifest.yaml"
	EnvPrefix        = "LAZYEXT"

	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "pretty"
	DefaultScanConcurrency = 8
	DefaultWatchDebounceMS = 250
)

// ErrInvalidConfig indicates a configuration value that cannot be used
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigFile represents the TOML config file structure
type ConfigFile struct {
	Root            string `toml:"root,omitempty" mapstructure:"root"`
	LogLevel        string `toml:"log_level,omitempty" mapstructure:"log_level"`
	LogFormat       string `toml:"log_format,omitempty" mapstructure:"log_format"`
	ScanConcurrency int    `toml:"scan_concurrency,omitempty" mapstructure:"scan_concurrency"`
	WatchDebounceMS int    `toml:"watch_debounce_ms,omitempty" mapstructure:"watch_debounce_ms"`
}

// Config holds the runtime configuration
type Config struct {
	ConfigDir       string
	ConfigPath      string
	Root            string // extension root; installed/ and manifest.yaml live below it
	InstalledDir    string
	ManifestPath    string
	LogLevel        string
	LogFormat       string
	ScanConcurrency int
	WatchDebounce   time.Duration
}

// ExpandPath expands ~ to home directory in a path
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// DefaultConfigDir returns ~/.lazyext
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lazyext"), nil
}

// DefaultConfig returns the configuration from ~/.lazyext/config.toml,
// environment overrides and defaults
func DefaultConfig() (*Config, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(dir, ConfigFileName))
}

// Load reads the config file at path. A missing file is not an error.
// LAZYEXT_* environment variables override file values.
func Load(path string) (*Config, error) {
	configDir := filepath.Dir(path)

	v := viper.New()
	setDefaults(v, configDir)
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cf ConfigFile
	if err := v.Unmarshal(&cf); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg := &Config{
		ConfigDir:       configDir,
		ConfigPath:      path,
		LogLevel:        cf.LogLevel,
		LogFormat:       cf.LogFormat,
		ScanConcurrency: cf.ScanConcurrency,
		WatchDebounce:   time.Duration(cf.WatchDebounceMS) * time.Millisecond,
	}
	if err := cfg.SetRoot(cf.Root); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("root", configDir)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("scan_concurrency", DefaultScanConcurrency)
	v.SetDefault("watch_debounce_ms", DefaultWatchDebounceMS)
}

// SetRoot changes the extension root and the paths derived from it
func (c *Config) SetRoot(root string) error {
	expanded, err := ExpandPath(root)
	if err != nil {
		return err
	}
	if expanded == "" {
		expanded = c.ConfigDir
	}
	c.Root = filepath.Clean(expanded)
	c.InstalledDir = filepath.Join(c.Root, InstalledDirName)
	c.ManifestPath = filepath.Join(c.Root, ManifestFileName)
	return nil
}

// Validate rejects unusable values and resets out-of-range numbers to defaults
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		c.LogLevel = DefaultLogLevel
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "pretty", "json":
	case "":
		c.LogFormat = DefaultLogFormat
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.ScanConcurrency < 1 {
		c.ScanConcurrency = DefaultScanConcurrency
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = DefaultWatchDebounceMS * time.Millisecond
	}
	return nil
}

// File returns the values persisted by Save
func (c *Config) File() ConfigFile {
	return ConfigFile{
		Root:            c.Root,
		LogLevel:        c.LogLevel,
		LogFormat:       c.LogFormat,
		ScanConcurrency: c.ScanConcurrency,
		WatchDebounceMS: int(c.WatchDebounce / time.Millisecond),
	}
}

// Save writes the config to disk
func (c *Config) Save() error {
	if err := c.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(c.ConfigPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c.File())
}

// EnsureDirs creates necessary directories if they don't exist
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ConfigDir, 0755); err != nil {
		return err
	}
	return os.MkdirAll(c.InstalledDir, 0755)
}
