package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dyike/pdq/internal/cache"
	"github.com/dyike/pdq/internal/config"
	"github.com/dyike/pdq/internal/index"
	"github.com/dyike/pdq/internal/logger"
	"github.com/dyike/pdq/internal/pdftool"
	"github.com/dyike/pdq/internal/render"
	"github.com/dyike/pdq/internal/storage"
	"github.com/dyike/pdq/internal/tui"
)

var (
	// Version 版本号
	Version string

	// BuildTime 构建时间
	BuildTime string

	// 全局标志
	regexFlag     bool
	cacheRootFlag string
	rendererFlag  string
)

// NewRootCmd builds the pdq command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdq <query> [path]",
		Short: "Search PDFs in the terminal with rendered page previews",
		Long: `pdq searches PDF documents under a directory for a query and opens an
interactive browser: a match list on the left, a rendered preview of the
containing page on the right. Extraction and rendering results are cached
per document, keyed by path digest and invalidated on modification.`,
		Args:    cobra.RangeArgs(1, 2),
		Version: versionString(),
		RunE:    runSearch,
	}

	root.Flags().BoolVarP(&regexFlag, "regex", "r", false, "treat the query as a regular expression")
	root.PersistentFlags().StringVar(&cacheRootFlag, "cache-root", "", "override the cache directory")
	root.Flags().StringVar(&rendererFlag, "renderer", "", "terminal image backend (wezterm or chafa)")

	root.AddCommand(newHistoryCmd())
	root.AddCommand(newCacheCmd())

	return root
}

// Execute runs the command tree
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func versionString() string {
	if Version == "" {
		return "dev"
	}
	if BuildTime != "" {
		return fmt.Sprintf("%s (built %s)", Version, BuildTime)
	}
	return Version
}

func resolveCacheRoot(cfg *config.Config) (string, error) {
	if cacheRootFlag != "" {
		return config.ExpandPath(cacheRootFlag)
	}
	if cfg.CacheRoot != "" {
		return cfg.GetCacheRoot()
	}
	return cache.DefaultRoot()
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cacheRoot, err := resolveCacheRoot(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cacheRoot, 0755); err != nil {
		return fmt.Errorf("creating cache root: %w", err)
	}

	log, err := logger.New(filepath.Join(cacheRoot, "pdq.log"))
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Sync()

	runner := pdftool.NewRunner()
	store := cache.New(cacheRoot, log)
	tools := pdftool.New(runner, log)
	indexer := index.New(store, tools, log)
	renderer := render.New(store, tools, log)

	override := rendererFlag
	if override == "" {
		override = cfg.RendererOverride()
	}
	backend, backendErr := render.SelectBackend(runner, override)
	if backendErr != nil {
		if !errors.Is(backendErr, render.ErrNoBackend) {
			return backendErr
		}
		// No backend installed: navigation still works, previews show
		// the error instead.
		log.Warn("no terminal image backend installed")
	} else {
		log.Info("selected image backend", zap.String("backend", backend.Name()))
	}

	history, err := storage.New(filepath.Join(cacheRoot, "history.db"))
	if err != nil {
		log.Warn("opening history store", zap.Error(err))
		history = nil
	} else {
		defer history.Close()
	}

	model := tui.NewModel(cmd.Context(), tui.Options{
		Query:        query,
		Root:         root,
		Regex:        regexFlag,
		SidebarWidth: cfg.SidebarWidth,
		Tools:        tools,
		Indexer:      indexer,
		Renderer:     renderer,
		Backend:      backend,
		BackendErr:   backendErr,
		History:      history,
		Log:          log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
