package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/minhlq/curmap/internal/config"
	"github.com/minhlq/curmap/pkg/cache"
	"github.com/minhlq/curmap/pkg/pipeline"
	"github.com/minhlq/curmap/pkg/suggest"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "curmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location (--config).
	ConfigPath string

	cfg    config.Config
	loaded bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "curmap",
		Short:        "Curmap maps program outcomes to courses",
		Long:         `Curmap builds curriculum maps from CSV tables: program learning outcomes, courses, and their proficiency-level relations. It computes coverage views and centrality metrics, renders the map as a graph, and round-trips the relation set through CSV.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(versionTemplate())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/curmap/config.toml)")

	// Make the logger reachable via loggerFromContext in every command.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.tablesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file once and caches it.
func (c *CLI) config() (config.Config, error) {
	if c.loaded {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = cfg
	c.loaded = true
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, newKeyer(), c.Logger), nil
}

// newKeyer scopes cache keys under the application name so a shared backend
// (redis) doesn't collide with other tenants.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, appName+":")
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	default:
		return cache.NewFileCache(cfg.Cache.Dir)
	}
}

// newSuggestClient assembles the suggestion client from config.
func (c *CLI) newSuggestClient(noCache bool) (*suggest.Client, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	tax, err := loadTaxonomy(cfg.Suggest.Taxonomy)
	if err != nil {
		return nil, err
	}
	return suggest.NewClient(suggest.Config{
		BaseURL:  cfg.Suggest.BaseURL,
		Token:    cfg.Suggest.Token,
		Cache:    store,
		Keyer:    newKeyer(),
		Taxonomy: tax,
		Logger:   c.Logger,
	}), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// sourceFlags is the set of load flags shared by every dataset-reading command.
type sourceFlags struct {
	dir          string
	outcomes     string
	indicators   string
	courses      string
	details      string
	relations    string
	links        string
	placeholders bool
	refresh      bool
	noCache      bool
}

// register adds the shared load flags to cmd.
func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", ".", "directory holding the curriculum CSV files")
	cmd.Flags().StringVar(&f.outcomes, "plo", "", "program outcomes CSV (overrides dir lookup)")
	cmd.Flags().StringVar(&f.indicators, "pi", "", "performance indicators CSV")
	cmd.Flags().StringVar(&f.courses, "courses", "", "courses CSV")
	cmd.Flags().StringVar(&f.details, "clo", "", "course detail CSV")
	cmd.Flags().StringVar(&f.relations, "relations", "", "outcome-course relations CSV")
	cmd.Flags().StringVar(&f.links, "links", "", "outcome-indicator links CSV")
	cmd.Flags().BoolVar(&f.placeholders, "placeholders", false, "synthesize placeholder courses for unresolved detail rows")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the dataset cache")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching entirely")
}

// options converts the flags into pipeline options.
func (f *sourceFlags) options(logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		Dir: f.dir,
		Files: pipeline.Sources{
			Outcomes:   f.outcomes,
			Indicators: f.indicators,
			Courses:    f.courses,
			Details:    f.details,
			Relations:  f.relations,
			Links:      f.links,
		},
		AllowPlaceholders: f.placeholders,
		Refresh:           f.refresh,
		Logger:            logger,
	}
}

// loadTaxonomy reads the Bloom verb CSV if configured.
func loadTaxonomy(path string) (*suggest.Taxonomy, error) {
	if path == "" {
		return nil, nil // Client falls back to the generic verb pool
	}
	return suggest.LoadTaxonomyFile(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
