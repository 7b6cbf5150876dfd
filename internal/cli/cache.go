package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/critiqhq/critiq/internal/cache"
	"github.com/critiqhq/critiq/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache: %w", err)
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Removed %d cached analyses.\n", stats.Analyses)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show what the cache is holding and saving",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if !c.Enabled() {
			fmt.Fprintln(os.Stdout, "Cache is disabled.")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Cache directory: %s\n", stats.Dir)
		fmt.Fprintf(os.Stdout, "Cached analyses: %d (%d expired)\n", stats.Analyses, stats.Expired)
		fmt.Fprintf(os.Stdout, "Disk usage:      %.1f KB\n", float64(stats.TotalBytes)/1024)
		fmt.Fprintf(os.Stdout, "Tokens saved:    %d\n", stats.TokensSaved)
		if len(stats.ByProvider) > 0 {
			fmt.Fprintln(os.Stdout, "By provider:")
			for _, name := range stats.Providers() {
				fmt.Fprintf(os.Stdout, "  %-12s %d\n", name, stats.ByProvider[name])
			}
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
