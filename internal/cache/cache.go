package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Store maps documents to their on-disk cache locations. The layout under
// the root is one directory per document digest holding texts/ and renders/,
// plus a shared meta/ directory of per-digest JSON files.
type Store struct {
	root string
	log  *zap.Logger
}

// Paths holds the cache locations for one document
type Paths struct {
	Root      string
	TextDir   string
	RenderDir string
	MetaPath  string
}

// TextFile returns the cached text file for a page
func (p Paths) TextFile(page int) string {
	return filepath.Join(p.TextDir, fmt.Sprintf("page_%d.txt", page))
}

// RenderFile returns the canonical rendered PNG for a page
func (p Paths) RenderFile(page int) string {
	return filepath.Join(p.RenderDir, fmt.Sprintf("page_%d.png", page))
}

// DefaultRoot returns the per-user cache root
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pdq"), nil
}

// New creates a store rooted at root
func New(root string, log *zap.Logger) *Store {
	return &Store{root: root, log: log}
}

// Root returns the store's root directory
func (s *Store) Root() string {
	return s.root
}

// Key derives the cache key for a document: the hex sha256 digest of its
// resolved absolute path. Stable across runs for the same document.
func Key(pdfPath string) (string, error) {
	abs, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", pdfPath, err)
	}
	// Resolve symlinks when possible so aliases share one cache entry.
	// A missing file still gets a key; validity is checked separately.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:]), nil
}

// Paths resolves the cache locations for a document, creating directories
// as needed. Safe to call repeatedly.
func (s *Store) Paths(pdfPath string) (Paths, error) {
	key, err := Key(pdfPath)
	if err != nil {
		return Paths{}, err
	}

	root := filepath.Join(s.root, key)
	p := Paths{
		Root:      root,
		TextDir:   filepath.Join(root, "texts"),
		RenderDir: filepath.Join(root, "renders"),
		MetaPath:  filepath.Join(s.root, "meta", key+".json"),
	}

	for _, dir := range []string{p.TextDir, p.RenderDir, filepath.Dir(p.MetaPath)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Paths{}, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	return p, nil
}

// Invalidate removes a document's metadata file only. Text and render
// caches are left for the next rebuild to overwrite.
func (s *Store) Invalidate(pdfPath string) error {
	p, err := s.Paths(pdfPath)
	if err != nil {
		return err
	}
	if err := os.Remove(p.MetaPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.log.Debug("invalidated cache entry", zap.String("pdf", pdfPath))
	return nil
}

// PurgeDocument empties a document's text and render caches. Called before
// a stale entry is rebuilt so a document that shrank leaves no orphaned
// page files behind.
func PurgeDocument(p Paths) error {
	for _, dir := range []string{p.TextDir, p.RenderDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		for _, e := range entries {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats reports the number of cached documents and total bytes under the root
func (s *Store) Stats() (entries int, size int64, err error) {
	metaDir := filepath.Join(s.root, "meta")
	if items, err := os.ReadDir(metaDir); err == nil {
		entries = len(items)
	}
	err = filepath.Walk(s.root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		err = nil
	}
	return entries, size, err
}

// Clear deletes everything under the cache root
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
