package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyike/pdq/internal/cache"
	"github.com/dyike/pdq/internal/config"
	"github.com/dyike/pdq/internal/logger"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the extraction/render cache",
	}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func openStore() (*cache.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cacheRoot, err := resolveCacheRoot(cfg)
	if err != nil {
		return nil, err
	}
	return cache.New(cacheRoot, logger.Nop()), nil
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			entries, size, err := store.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Cache root: %s\n", store.Root())
			fmt.Printf("Documents:  %d\n", entries)
			fmt.Printf("Size:       %.1f MiB\n", float64(size)/(1024*1024))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached texts, renders and metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Printf("Cleared %s\n", store.Root())
			return nil
		},
	}
}
