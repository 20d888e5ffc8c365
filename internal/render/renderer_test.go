package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/dyike/pdq/internal/cache"
	"github.com/dyike/pdq/internal/pdftool"
)

// newRasterizeEnv returns a renderer whose fake pdftoppm writes page-<n>.png
// files next to the requested prefix, like the real tool does
func newRasterizeEnv(t *testing.T, pageCount int) (*Renderer, *pdftool.MockRunner, *cache.Store, string) {
	t.Helper()
	dir := t.TempDir()
	pdf := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &pdftool.MockRunner{
		Handler: func(name string, args []string) (pdftool.Result, error) {
			if name != "pdftoppm" {
				t.Fatalf("unexpected command %s", name)
			}
			prefix := args[len(args)-1]
			from, to := 1, pageCount
			if args[0] == "-f" {
				from, _ = strconv.Atoi(args[1])
				to, _ = strconv.Atoi(args[3])
			}
			for page := from; page <= to; page++ {
				out := fmt.Sprintf("%s-%d.png", prefix, page)
				if err := os.WriteFile(out, []byte("png"), 0644); err != nil {
					t.Fatal(err)
				}
			}
			return pdftool.Result{}, nil
		},
	}

	store := cache.New(filepath.Join(dir, "cache"), zap.NewNop())
	tools := pdftool.New(runner, zap.NewNop())
	return New(store, tools, zap.NewNop()), runner, store, pdf
}

func TestPagePNGRendersOnMiss(t *testing.T) {
	r, runner, store, pdf := newRasterizeEnv(t, 3)

	png, err := r.PagePNG(context.Background(), pdf, 2)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(png) != "page_2.png" {
		t.Errorf("expected canonical name, got %s", png)
	}
	if _, err := os.Stat(png); err != nil {
		t.Error("canonical PNG missing on disk")
	}
	if runner.CallCount("pdftoppm") != 1 {
		t.Errorf("expected one rasterisation, got %d", runner.CallCount("pdftoppm"))
	}

	paths, err := store.Paths(pdf)
	if err != nil {
		t.Fatal(err)
	}
	meta := cache.LoadMeta(paths.MetaPath)
	if !meta.HasRendered(2) {
		t.Error("rendered page not recorded in metadata")
	}
}

func TestPagePNGCacheHit(t *testing.T) {
	r, runner, _, pdf := newRasterizeEnv(t, 3)

	first, err := r.PagePNG(context.Background(), pdf, 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.PagePNG(context.Background(), pdf, 1)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("paths differ across calls: %s vs %s", first, second)
	}
	if runner.CallCount("pdftoppm") != 1 {
		t.Errorf("cache hit re-invoked the rasterizer: %d calls", runner.CallCount("pdftoppm"))
	}
}

func TestPagePNGRepairsUnrecordedRender(t *testing.T) {
	r, runner, store, pdf := newRasterizeEnv(t, 3)

	paths, err := store.Paths(pdf)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.RenderFile(2), []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	png, err := r.PagePNG(context.Background(), pdf, 2)
	if err != nil {
		t.Fatal(err)
	}
	if png != paths.RenderFile(2) {
		t.Errorf("expected existing PNG to be served, got %s", png)
	}
	if runner.CallCount("pdftoppm") != 0 {
		t.Errorf("existing PNG re-rasterised: %d calls", runner.CallCount("pdftoppm"))
	}
	if meta := cache.LoadMeta(paths.MetaPath); !meta.HasRendered(2) {
		t.Error("unrecorded render not added to metadata")
	}
}

func TestEnsureAllMergesRenderedSet(t *testing.T) {
	r, runner, store, pdf := newRasterizeEnv(t, 3)

	// Page 2 already rendered and recorded
	if _, err := r.PagePNG(context.Background(), pdf, 2); err != nil {
		t.Fatal(err)
	}

	if err := r.EnsureAll(context.Background(), pdf, 3); err != nil {
		t.Fatal(err)
	}

	paths, err := store.Paths(pdf)
	if err != nil {
		t.Fatal(err)
	}
	for page := 1; page <= 3; page++ {
		if _, err := os.Stat(paths.RenderFile(page)); err != nil {
			t.Errorf("page %d missing after EnsureAll", page)
		}
	}
	meta := cache.LoadMeta(paths.MetaPath)
	if len(meta.RenderedPages) != 3 {
		t.Errorf("rendered set not merged: %v", meta.RenderedPages)
	}

	// All pages present: a second EnsureAll is a no-op
	calls := runner.CallCount("pdftoppm")
	if err := r.EnsureAll(context.Background(), pdf, 3); err != nil {
		t.Fatal(err)
	}
	if runner.CallCount("pdftoppm") != calls {
		t.Error("EnsureAll re-rasterised a complete document")
	}
}
