package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, filepath.Join(dir, "installed"), cfg.InstalledDir)
	assert.Equal(t, filepath.Join(dir, "manifest.yaml"), cfg.ManifestPath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultScanConcurrency, cfg.ScanConcurrency)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
}

func TestLoad_FileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	root := filepath.Join(dir, "extensions")
	content := `root = "` + filepath.ToSlash(root) + `"
log_level = "debug"
log_format = "json"
scan_concurrency = 2
watch_debounce_ms = 40
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "installed"), cfg.InstalledDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2, cfg.ScanConcurrency)
	assert.Equal(t, 40*time.Millisecond, cfg.WatchDebounce)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"info\"\nscan_concurrency = 2\n"), 0o644))

	envRoot := filepath.Join(dir, "from-env")
	t.Setenv("LAZYEXT_ROOT", envRoot)
	t.Setenv("LAZYEXT_LOG_LEVEL", "error")
	t.Setenv("LAZYEXT_SCAN_CONCURRENCY", "16")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, envRoot, cfg.Root)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 16, cfg.ScanConcurrency)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("root = [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "zero concurrency defaults",
			modify: func(c *Config) { c.ScanConcurrency = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultScanConcurrency, c.ScanConcurrency)
			},
		},
		{
			name:   "negative debounce defaults",
			modify: func(c *Config) { c.WatchDebounce = -time.Second },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultWatchDebounceMS*time.Millisecond, c.WatchDebounce)
			},
		},
		{
			name:   "empty log settings default",
			modify: func(c *Config) { c.LogLevel, c.LogFormat = "", "" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogLevel, c.LogLevel)
				assert.Equal(t, DefaultLogFormat, c.LogFormat)
			},
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "chatty" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LogLevel:        "info",
				LogFormat:       "json",
				ScanConcurrency: 4,
				WatchDebounce:   time.Second,
			}
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, cfg.SetRoot(filepath.Join(dir, "elsewhere")))
	cfg.LogLevel = "debug"
	cfg.WatchDebounce = 75 * time.Millisecond
	require.NoError(t, cfg.Save())

	var cf ConfigFile
	_, err = toml.DecodeFile(path, &cf)
	require.NoError(t, err)
	assert.Equal(t, "debug", cf.LogLevel)
	assert.Equal(t, 75, cf.WatchDebounceMS)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Root, reloaded.Root)
	assert.Equal(t, cfg.WatchDebounce, reloaded.WatchDebounce)
	assert.DirExists(t, reloaded.InstalledDir)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/exts")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "exts"), got)

	got, err = ExpandPath("/abs/exts")
	require.NoError(t, err)
	assert.Equal(t, "/abs/exts", got)
}
