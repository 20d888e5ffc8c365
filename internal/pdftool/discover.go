package pdftool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Discover returns the candidate documents for a query under root, sorted
// by path. It shells out to rga as a full-text pre-filter; rga exiting 1
// just means no candidates. When rga is not installed every PDF under root
// becomes a candidate and the indexer's own matching filters them.
func (t *Tools) Discover(ctx context.Context, query, root string) ([]string, error) {
	if _, err := t.runner.LookPath("rga"); err != nil {
		t.log.Debug("rga not installed, walking for PDFs", zap.String("root", root))
		return DiscoverWalk(root)
	}

	res, err := t.runner.Run(ctx, "rga", "--files-with-matches", "--glob", "*.pdf", query, root)
	if err != nil {
		return nil, fmt.Errorf("running rga: %w", err)
	}
	switch res.ExitCode {
	case 0:
	case 1:
		return nil, nil
	default:
		return nil, fmt.Errorf("rga failed: %s", diag(res))
	}

	var paths []string
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// DiscoverWalk lists every PDF under root, sorted by path
func DiscoverWalk(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.pdf")
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, m))
	}
	sort.Strings(paths)
	return paths, nil
}
