package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dyike/pdq/internal/config"
	"github.com/dyike/pdq/internal/storage"
)

func openHistory() (*storage.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cacheRoot, err := resolveCacheRoot(cfg)
	if err != nil {
		return nil, err
	}
	db, err := storage.New(filepath.Join(cacheRoot, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return db, nil
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			searches, err := db.ListSearches(limit)
			if err != nil {
				return err
			}
			if len(searches) == 0 {
				fmt.Println("No searches recorded.")
				return nil
			}

			for _, s := range searches {
				mode := "literal"
				if s.Regex {
					mode = "regex"
				}
				fmt.Printf("%s  %-24q  %s  %s  %d docs, %d matches\n",
					s.StartedAt.Format("2006-01-02 15:04"),
					s.Query, mode, s.Root, s.DocCount, s.MatchCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

func newHistoryClearCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete recorded searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			removed, err := db.PruneSearches(keep)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d search(es).\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&keep, "keep", "k", 0, "newest entries to keep")
	return cmd
}
