package cache

import (
	"encoding/json"
	"os"
	"sort"
)

// Meta is the per-document cache metadata
type Meta struct {
	// MTime is the document's last-modified time (unix nanos) at indexing time
	MTime         int64 `json:"mtime"`
	PageCount     int   `json:"page_count"`
	RenderedPages []int `json:"rendered_pages,omitempty"`
}

// IsZero reports whether the metadata is empty
func (m Meta) IsZero() bool {
	return m.MTime == 0 && m.PageCount == 0 && len(m.RenderedPages) == 0
}

// HasRendered reports whether a page is recorded as rendered
func (m Meta) HasRendered(page int) bool {
	for _, p := range m.RenderedPages {
		if p == page {
			return true
		}
	}
	return false
}

// AddRendered merges pages into the rendered set, keeping it sorted
func (m *Meta) AddRendered(pages ...int) {
	seen := make(map[int]bool, len(m.RenderedPages)+len(pages))
	for _, p := range m.RenderedPages {
		seen[p] = true
	}
	for _, p := range pages {
		seen[p] = true
	}
	merged := make([]int, 0, len(seen))
	for p := range seen {
		merged = append(merged, p)
	}
	sort.Ints(merged)
	m.RenderedPages = merged
}

// LoadMeta reads a document's metadata. A missing or corrupt file reads
// as empty metadata, never as an error.
func LoadMeta(metaPath string) Meta {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return Meta{}
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}
	}
	return m
}

// SaveMeta writes metadata via a temp file and rename, so a crash mid-write
// leaves at worst a file that the next LoadMeta treats as empty.
func SaveMeta(metaPath string, m Meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := metaPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, metaPath)
}

// Valid reports whether cached metadata can be trusted for a document:
// false when empty, when the document is gone, or when its current
// last-modified time differs from the stamp taken at indexing time.
func Valid(m Meta, pdfPath string) bool {
	if m.IsZero() {
		return false
	}
	fi, err := os.Stat(pdfPath)
	if err != nil {
		return false
	}
	return fi.ModTime().UnixNano() == m.MTime
}
