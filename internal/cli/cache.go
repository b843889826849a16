package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineup/internal/config"
	"github.com/matzehuels/lineup/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the schedule cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached schedules and graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			ch, err := cfg.OpenCache(cmd.Context())
			if err != nil {
				return err
			}
			defer ch.Close()

			ok, err := cache.Clear(cmd.Context(), ch)
			if err != nil {
				return err
			}
			if !ok {
				printWarning("The %s cache backend cannot be cleared", cfg.Cache.Backend)
				return nil
			}
			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			if cfg.Cache.Backend == config.BackendFile {
				printDetail("Directory: %s", cfg.Cache.Dir)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if cfg.Cache.Backend != config.BackendFile {
				printInfo("Cache backend is %s", cfg.Cache.Backend)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}
