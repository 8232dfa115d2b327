package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"lazyext/internal/config"
	"lazyext/internal/fsys"
	"lazyext/internal/logging"
	"lazyext/internal/registry"
	"lazyext/internal/store"
)

var (
	rootDir  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "lazyext",
	Short: "Extension manifest manager",
	Long: `lazyext keeps a manifest of the grammars, languages and themes
provided by the extensions installed under <root>/installed/.

The manifest is cached in <root>/manifest.yaml so that later runs can
skip scanning when nothing was installed or removed in between.`,
	SilenceUsage: true,
	RunE:         runBrowse,
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Extension root directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the configuration and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if rootDir != "" {
		if err := cfg.SetRoot(rootDir); err != nil {
			return nil, fmt.Errorf("invalid --root: %w", err)
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// session is an opened store with the registries it feeds
type session struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     *store.Store
	languages *registry.Languages
	themes    *registry.Themes
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
		Verbose: verbose,
	})

	languages := registry.NewLanguages()
	themes := registry.NewThemes()
	s, err := store.New(ctx, store.Options{
		Root:        cfg.Root,
		FS:          fsys.NewOS(),
		Languages:   languages,
		Themes:      themes,
		Logger:      log,
		Concurrency: cfg.ScanConcurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load extensions: %w", err)
	}
	return &session{cfg: cfg, log: log, store: s, languages: languages, themes: themes}, nil
}
