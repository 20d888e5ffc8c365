package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dyike/pdq/internal/cache"
	"github.com/dyike/pdq/internal/pdftool"
)

// Renderer produces per-page PNGs, cache-first, and records rendered pages
// in the document's cache metadata.
type Renderer struct {
	store *cache.Store
	tools *pdftool.Tools
	log   *zap.Logger
}

// New creates a Renderer
func New(store *cache.Store, tools *pdftool.Tools, log *zap.Logger) *Renderer {
	return &Renderer{store: store, tools: tools, log: log}
}

// PagePNG returns the canonical PNG path for a page, rasterising it on a
// cache miss. pdftoppm's own output naming is reconciled to the canonical
// page_<n>.png name.
func (r *Renderer) PagePNG(ctx context.Context, pdfPath string, page int) (string, error) {
	paths, err := r.store.Paths(pdfPath)
	if err != nil {
		return "", err
	}

	png := paths.RenderFile(page)
	meta := cache.LoadMeta(paths.MetaPath)
	if _, err := os.Stat(png); err == nil {
		if !meta.HasRendered(page) {
			// On disk but unrecorded; repair the rendered set so the
			// bulk pass can trust it.
			meta.AddRendered(page)
			if err := cache.SaveMeta(paths.MetaPath, meta); err != nil {
				r.log.Warn("saving render metadata", zap.Error(err))
			}
		}
		return png, nil
	}

	prefix := filepath.Join(paths.RenderDir, "page")
	if err := r.tools.RasterizePage(ctx, pdfPath, page, prefix); err != nil {
		return "", err
	}
	if _, err := pdftool.ReconcileRenders(paths.RenderDir, []int{page}); err != nil {
		return "", err
	}

	meta.AddRendered(page)
	if err := cache.SaveMeta(paths.MetaPath, meta); err != nil {
		// The PNG exists either way; a lost rendered_pages entry just
		// means a redundant stat next time.
		r.log.Warn("saving render metadata", zap.Error(err))
	}
	return png, nil
}

// EnsureAll rasterises every page of a document in one pdftoppm run when
// any expected page file is missing, then merges the rendered-page set.
// Pages the tool failed to account for surface as ErrPageUnaccounted after
// everything it did produce has been reconciled and recorded.
func (r *Renderer) EnsureAll(ctx context.Context, pdfPath string, pageCount int) error {
	paths, err := r.store.Paths(pdfPath)
	if err != nil {
		return err
	}

	expect := make([]int, 0, pageCount)
	missing := false
	for page := 1; page <= pageCount; page++ {
		expect = append(expect, page)
		if _, err := os.Stat(paths.RenderFile(page)); err != nil {
			missing = true
		}
	}
	if !missing {
		return nil
	}

	prefix := filepath.Join(paths.RenderDir, "page")
	if err := r.tools.RasterizeAll(ctx, pdfPath, prefix); err != nil {
		return err
	}

	found, recErr := pdftool.ReconcileRenders(paths.RenderDir, expect)
	if recErr != nil && !errors.Is(recErr, pdftool.ErrPageUnaccounted) {
		return recErr
	}

	pages := make([]int, 0, len(found))
	for page := range found {
		pages = append(pages, page)
	}
	meta := cache.LoadMeta(paths.MetaPath)
	meta.AddRendered(pages...)
	if err := cache.SaveMeta(paths.MetaPath, meta); err != nil {
		return fmt.Errorf("saving render metadata: %w", err)
	}
	return recErr
}
