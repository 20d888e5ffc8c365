package index

// Match is one occurrence of the query inside a document. Ordinal is
// 1-based and assigned in page-then-offset order across the whole document.
// A match is identified by its (Path, Page, Ordinal) triple.
type Match struct {
	Path    string
	Page    int
	Ordinal int
	Context string
}

// Same reports whether two matches identify the same occurrence
func (m Match) Same(other Match) bool {
	return m.Path == other.Path && m.Page == other.Page && m.Ordinal == other.Ordinal
}

// Document is one indexed PDF together with its matches. Never mutated
// after indexing.
type Document struct {
	Path      string
	PageCount int
	Matches   []Match
}

// Session aggregates one indexing pass. Documents keeps discovery order and
// excludes documents without matches; Matches is exactly the concatenation
// of each document's matches in that order.
type Session struct {
	Documents []Document
	Matches   []Match
}

// DocumentIndex resolves the document owning a match, -1 if absent
func (s *Session) DocumentIndex(m Match) int {
	for i, doc := range s.Documents {
		if doc.Path == m.Path {
			return i
		}
	}
	return -1
}

// FlatIndex locates a match in the flat list, -1 if absent
func (s *Session) FlatIndex(m Match) int {
	for i, x := range s.Matches {
		if x.Same(m) {
			return i
		}
	}
	return -1
}
