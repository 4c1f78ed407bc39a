package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stayscout/pkg/cache"
	"github.com/matzehuels/stayscout/pkg/config"
	"github.com/matzehuels/stayscout/pkg/listing"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePingCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses from a shared backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			rc, err := cfg.OpenCache()
			if err != nil {
				return err
			}
			defer rc.Close()

			out := cmd.OutOrStdout()
			switch rc := rc.(type) {
			case *cache.RedisCache:
				n, err := rc.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess(out, "Cleared %d cached entries", n)
				printDetail(out, "Prefix: %s", cfg.Cache.RedisPrefix)
			case *cache.MemoryCache:
				printInfo(out, "The memory cache lives only as long as one process; nothing to clear")
			default:
				printInfo(out, "Caching is disabled")
			}
			return nil
		},
	}
}

// cachePingCommand creates the "cache ping" subcommand.
func (c *CLI) cachePingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the cache backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			rc, err := cfg.OpenCache()
			if err != nil {
				return err
			}
			defer rc.Close()

			out := cmd.OutOrStdout()
			r, ok := rc.(*cache.RedisCache)
			if !ok {
				printInfo(out, "Cache backend is %q; nothing to ping", cfg.Cache.Backend)
				return nil
			}
			if err := r.Ping(cmd.Context()); err != nil {
				printWarning(out, "Redis is unreachable")
				return fmt.Errorf("ping redis: %w", err)
			}
			printSuccess(out, "Redis is reachable")
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the cache backend and per-operation lifetimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printKeyValue(out, "Backend", cfg.Cache.Backend)
			switch cfg.Cache.Backend {
			case config.BackendRedis:
				printKeyValue(out, "URL", cfg.Cache.RedisURL)
				printKeyValue(out, "Prefix", cfg.Cache.RedisPrefix)
			case config.BackendMemory:
				printKeyValue(out, "Capacity", strconv.Itoa(cfg.Cache.Capacity))
			}
			if cfg.Cache.Backend == config.BackendNone {
				return nil
			}
			for _, op := range []listing.Op{listing.OpSearch, listing.OpDetail, listing.OpReviews, listing.OpCalendar, listing.OpHost} {
				printKeyValue(out, "TTL "+string(op), cfg.Cache.TTL.For(op).String())
			}
			return nil
		},
	}
}
