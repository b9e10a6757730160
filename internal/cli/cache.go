package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			fc, ok := store.(*cache.FileCache)
			if !ok {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				printSuccess("Cleared %s cache", c.Config.Cache.Backend)
				return nil
			}

			count, err := countEntries(fc.Dir())
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(ctx); err != nil {
				return err
			}

			printSuccess("Cleared %s", plural(count, "cached entry", "cached entries"))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// countEntries counts the files below dir. A missing dir has none.
func countEntries(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintf(cmd.OutOrStdout(), "redis://%s/%d\n", c.Config.Cache.RedisAddr, c.Config.Cache.RedisDB)
				return nil
			case config.CacheNone:
				return fmt.Errorf("caching is disabled (cache.backend = %q)", config.CacheNone)
			}
			dir := c.Config.Cache.Dir
			if dir == "" {
				d, err := config.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				dir = d
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
