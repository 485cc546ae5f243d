package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletex/pkg/buildinfo"
	"github.com/matzehuels/tiletex/pkg/cache"
	"github.com/matzehuels/tiletex/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tiletex"

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
		Use:   appName,
		Short: "tiletex turns grayscale images into tile maps for game scenarios",
		Long: `tiletex converts a grayscale image into a Lua tile map: each pixel's intensity
is optionally perturbed by seeded noise, then resolved to a tile name through
a table of intensity ranges.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.textureCommand())
	root.AddCommand(c.stepsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheSettings selects the artifact cache for a run.
type cacheSettings struct {
	disabled bool
	dir      string // file cache directory; empty uses cacheDir()
	redis    string // Redis address; overrides the file cache
	prefix   string // key prefix
	ttl      time.Duration
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, s cacheSettings) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, s)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if s.prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), s.prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = s.ttl
	return runner, nil
}

// newCache opens the configured backend. An unreachable Redis is an error;
// an unusable file cache directory falls back to no caching.
func (c *CLI) newCache(ctx context.Context, s cacheSettings) (cache.Cache, error) {
	if s.disabled {
		return cache.NewNullCache(), nil
	}
	if s.redis != "" {
		c.Logger.Debug("using redis cache", "addr", s.redis)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: s.redis})
	}
	dir := s.dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Debug("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	c.Logger.Debug("using file cache", "dir", dir)
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tiletex/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
