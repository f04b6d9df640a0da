package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spectromap/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts and recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openCache(cmd.Context(), c.cfg, c.Logger)
			if err != nil {
				return err
			}
			defer b.cache.Close()

			var count int
			switch {
			case b.file != nil:
				count, err = b.file.Clear()
			case b.redis != nil:
				count, err = b.redis.Clear(cmd.Context(), c.cfg.Cache.Redis.Prefix)
			default:
				printInfo("Cache is disabled")
				return nil
			}
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			if b.file != nil {
				printDetail("Directory: %s", b.file.Dir())
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.cfg.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintf(c.Out, "redis://%s/%d %s*\n", c.cfg.Cache.Redis.Addr, c.cfg.Cache.Redis.DB, c.cfg.Cache.Redis.Prefix)
			default:
				fmt.Fprintln(c.Out, c.cfg.Cache.Dir)
			}
			return nil
		},
	}
}
