package index

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/dyike/pdq/internal/cache"
	"github.com/dyike/pdq/internal/pdftool"
)

// Indexer turns documents into ordered match lists, going through the cache
// store so extraction and page counting hit the external tools at most once
// per document revision.
type Indexer struct {
	store *cache.Store
	tools *pdftool.Tools
	log   *zap.Logger
}

// New creates an Indexer
func New(store *cache.Store, tools *pdftool.Tools, log *zap.Logger) *Indexer {
	return &Indexer{store: store, tools: tools, log: log}
}

// PageText returns one page's extracted text, cache-first. A cached file is
// returned as-is, empty or not, without touching the extraction tool.
func (ix *Indexer) PageText(ctx context.Context, pdfPath string, page int) (string, error) {
	paths, err := ix.store.Paths(pdfPath)
	if err != nil {
		return "", err
	}
	return ix.pageText(ctx, pdfPath, page, paths)
}

func (ix *Indexer) pageText(ctx context.Context, pdfPath string, page int, paths cache.Paths) (string, error) {
	textFile := paths.TextFile(page)
	if data, err := os.ReadFile(textFile); err == nil {
		return string(data), nil
	}

	text, err := ix.tools.ExtractPage(ctx, pdfPath, page)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(textFile, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("caching page text: %w", err)
	}
	return text, nil
}

// IndexDocument scans every page of a document for the query, in page order,
// rebuilding stale cache metadata first. Documents with zero matches are
// still returned; the caller decides whether to keep them.
func (ix *Indexer) IndexDocument(ctx context.Context, pdfPath, query string, regex bool) (*Document, error) {
	m, err := newMatcher(query, regex)
	if err != nil {
		return nil, err
	}

	paths, err := ix.store.Paths(pdfPath)
	if err != nil {
		return nil, err
	}

	meta := cache.LoadMeta(paths.MetaPath)
	if !cache.Valid(meta, pdfPath) {
		if err := cache.PurgeDocument(paths); err != nil {
			return nil, fmt.Errorf("purging stale cache: %w", err)
		}
		pageCount, err := ix.tools.CountPages(ctx, pdfPath)
		if err != nil {
			return nil, err
		}
		fi, err := os.Stat(pdfPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", pdfPath, err)
		}
		meta = cache.Meta{MTime: fi.ModTime().UnixNano(), PageCount: pageCount}
		if err := cache.SaveMeta(paths.MetaPath, meta); err != nil {
			return nil, fmt.Errorf("saving cache metadata: %w", err)
		}
		ix.log.Debug("rebuilt cache entry",
			zap.String("pdf", pdfPath),
			zap.Int("pages", pageCount))
	}

	doc := &Document{Path: pdfPath, PageCount: meta.PageCount}
	ordinal := 0
	for page := 1; page <= meta.PageCount; page++ {
		text, err := ix.pageText(ctx, pdfPath, page, paths)
		if err != nil {
			return nil, err
		}
		for _, s := range m.find(text) {
			ordinal++
			doc.Matches = append(doc.Matches, Match{
				Path:    pdfPath,
				Page:    page,
				Ordinal: ordinal,
				Context: snippet(text, s),
			})
		}
	}
	return doc, nil
}

// BuildSession indexes candidates in the given order, keeps documents with
// at least one match and flattens their matches into one list. The first
// per-document failure aborts the whole pass.
func (ix *Indexer) BuildSession(ctx context.Context, candidates []string, query string, regex bool) (*Session, error) {
	sess := &Session{}
	for _, pdfPath := range candidates {
		doc, err := ix.IndexDocument(ctx, pdfPath, query, regex)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", pdfPath, err)
		}
		if len(doc.Matches) == 0 {
			continue
		}
		sess.Documents = append(sess.Documents, *doc)
		sess.Matches = append(sess.Matches, doc.Matches...)
	}
	ix.log.Info("indexing pass complete",
		zap.Int("documents", len(sess.Documents)),
		zap.Int("matches", len(sess.Matches)))
	return sess, nil
}
