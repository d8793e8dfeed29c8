package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/cache"
	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/logging"
)

// CacheCommand returns the cache command with its subcommands.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the commit message cache",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache statistics",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached messages",
				Action: runCacheClear,
			},
			{
				Name:   "clear-expired",
				Usage:  "Remove only expired cached messages",
				Action: runCacheClearExpired,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.Cache, error) {
	logging.Setup(c.Bool("verbose"))
	cfg, err := config.NewManager().Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cache.New(cfg.Cache.Dir)
}

func runCacheStats(c *cli.Context) error {
	store, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Directory: %s\n", stats.Dir)
	fmt.Printf("Entries:   %d\n", stats.Entries)
	fmt.Printf("Expired:   %d\n", stats.Expired)
	fmt.Printf("Size:      %d bytes\n", stats.TotalBytes)
	return nil
}

func runCacheClear(c *cli.Context) error {
	store, err := openCache(c)
	if err != nil {
		return err
	}
	removed, err := store.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d entries\n", removed)
	return nil
}

func runCacheClearExpired(c *cli.Context) error {
	store, err := openCache(c)
	if err != nil {
		return err
	}
	removed, err := store.ClearExpired()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d expired entries\n", removed)
	return nil
}
