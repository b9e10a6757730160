package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/buildinfo"
	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/config"
	"github.com/matzehuels/treeprint/pkg/observability"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treeprint"

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

	// Config is loaded before every command runs; flags override it.
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// cache hooks report every stage through the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= LogDebug {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treeprint lays out and draws family trees",
		Long: `Treeprint computes compact, deterministic layouts for family trees and
draws them as SVG, PNG, PDF, plain text or Graphviz diagrams.

Records are read from JSON, YAML or TOML files, a SQLite database or MongoDB.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/treeprint/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache opens the configured cache backend. An unreachable Redis server
// disables caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr: c.Config.Cache.RedisAddr,
			DB:   c.Config.Cache.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}

	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := config.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration file.
func (c *CLI) baseOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		SQLite:          cfg.Source.SQLite,
		SQLitePrefix:    cfg.Source.SQLitePrefix,
		MongoURI:        cfg.Source.MongoURI,
		MongoDatabase:   cfg.Source.MongoDatabase,
		MongoCollection: cfg.Source.MongoCollection,
		Layout:          cfg.Layout,
		Formats:         append([]string(nil), cfg.Render.Formats...),
		Style:           cfg.Render.Style,
		PanZoom:         cfg.Render.PanZoom,
		Logger:          c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// isStdio reports whether path names a standard stream.
func isStdio(path string) bool { return path == "-" }

// openOutput returns a WriteCloser for the given path. "-" writes to w.
func openOutput(path string, w io.Writer) (io.WriteCloser, error) {
	if isStdio(path) {
		return nopCloser{w}, nil
	}
	return os.Create(path)
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }
