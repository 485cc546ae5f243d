package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletex/pkg/cache"
	"github.com/matzehuels/tiletex/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local file cache",
		Long: `Manage the local file cache of rendered tile maps.

These commands only touch the file cache: the XDG directory (~/.cache/tiletex),
or the directory given by --cache-dir or a preset's [cache] dir. Entries in a
Redis cache (--redis) are not listed or removed here; they expire through the
preset's [cache] ttl.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDirFlags are the flags that locate the file cache.
type cacheDirFlags struct {
	dir        string
	configPath string
}

func (f *cacheDirFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "file cache directory")
	cmd.Flags().StringVar(&f.configPath, "config", "", "TOML preset whose [cache] dir is used")
}

// resolve picks --cache-dir, then the preset's [cache] dir, then the XDG default.
func (f *cacheDirFlags) resolve() (string, error) {
	if f.dir != "" {
		return f.dir, nil
	}
	if f.configPath != "" {
		cfg, err := config.Load(f.configPath)
		if err != nil {
			return "", err
		}
		if cfg.Cache.Dir != "" {
			return cfg.Cache.Dir, nil
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var flags cacheDirFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all tile maps from the local file cache",
		Long: `Remove all tile maps from the local file cache.

Redis entries are not affected; they expire after the configured ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := flags.resolve()
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				printWarning("Cleared %d entries before failing", count)
				return err
			}
			c.Logger.Debug("cleared file cache", "dir", dir, "entries", count)

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var flags cacheDirFlags

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the local file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := flags.resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
