package pdftool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// ErrPageUnaccounted marks a page the rasterizer was asked for but produced
// no file for. Distinct from a tool-invocation failure.
var ErrPageUnaccounted = errors.New("rasterizer produced no file for page")

// pdftoppm names its output page-<N>.png, zero-padding N by document size
var generatedName = regexp.MustCompile(`^page-0*(\d+)\.png$`)

// ReconcileRenders renames pdftoppm output in dir to the canonical
// page_<N>.png names and returns the page→path mapping for every page
// accounted for, whether just renamed or already canonical. If any expected
// page is unaccounted for, the mapping built so far is returned together
// with an error wrapping ErrPageUnaccounted.
func ReconcileRenders(dir string, expect []int) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading render dir: %w", err)
	}

	found := make(map[int]string)
	for _, e := range entries {
		m := generatedName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		page, err := strconv.Atoi(m[1])
		if err != nil || page == 0 {
			continue
		}
		generated := filepath.Join(dir, e.Name())
		target := filepath.Join(dir, fmt.Sprintf("page_%d.png", page))
		if _, err := os.Stat(target); err == nil {
			// Canonical file already present; drop the duplicate.
			if err := os.Remove(generated); err != nil {
				return nil, err
			}
		} else if err := os.Rename(generated, target); err != nil {
			return nil, err
		}
		found[page] = target
	}

	for _, page := range expect {
		if _, ok := found[page]; ok {
			continue
		}
		canonical := filepath.Join(dir, fmt.Sprintf("page_%d.png", page))
		if _, err := os.Stat(canonical); err == nil {
			found[page] = canonical
			continue
		}
		return found, fmt.Errorf("page %d: %w", page, ErrPageUnaccounted)
	}
	return found, nil
}
