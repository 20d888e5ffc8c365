// Package nav implements the cursor over an indexed session: which match is
// selected, which document and page are displayed, and how next/previous
// match and page movements behave across document boundaries. Transitions
// are pure functions from one State value to the next; callers compare
// states to decide whether a new page preview is needed.
package nav

import (
	"github.com/dyike/pdq/internal/index"
)

// State is an immutable navigation position. MatchIndex points into the
// session's flat match list and may lag behind Page while the user steps
// through pages without matches.
type State struct {
	MatchIndex int
	DocIndex   int
	Page       int
}

// Empty returns the no-results state
func Empty() State {
	return State{MatchIndex: -1, DocIndex: -1, Page: 0}
}

// IsEmpty reports whether the state points at nothing
func (s State) IsEmpty() bool {
	return s.DocIndex < 0
}

// SamePage reports whether two states display the same (document, page)
func (s State) SamePage(other State) bool {
	return s.DocIndex == other.DocIndex && s.Page == other.Page
}

// JumpToMatch selects a match by flat index. Out-of-range indices return
// the state unchanged; jumping past either end is not an error.
func JumpToMatch(s State, sess *index.Session, flatIndex int) State {
	if sess == nil || flatIndex < 0 || flatIndex >= len(sess.Matches) {
		return s
	}
	m := sess.Matches[flatIndex]
	docIndex := sess.DocumentIndex(m)
	if docIndex < 0 {
		return s
	}
	return State{MatchIndex: flatIndex, DocIndex: docIndex, Page: m.Page}
}

// NextMatch moves to the following match in the flat list, saturating at
// the last one
func NextMatch(s State, sess *index.Session) State {
	if s.MatchIndex < 0 {
		return s
	}
	return JumpToMatch(s, sess, s.MatchIndex+1)
}

// PrevMatch moves to the preceding match, saturating at the first one
func PrevMatch(s State, sess *index.Session) State {
	if s.MatchIndex < 0 {
		return s
	}
	return JumpToMatch(s, sess, s.MatchIndex-1)
}

// NextPage steps one page forward inside the current document, or crosses
// into the next document, landing on its first match's page when it has
// matches and on page 1 otherwise. No-op at the last page of the last
// document.
func NextPage(s State, sess *index.Session) State {
	if s.IsEmpty() || sess == nil {
		return s
	}
	doc := sess.Documents[s.DocIndex]
	if s.Page < doc.PageCount {
		s.Page++
		return s
	}
	if s.DocIndex+1 < len(sess.Documents) {
		return docStart(s, sess, s.DocIndex+1)
	}
	return s
}

// PrevPage is the symmetric step: one page back, or into the previous
// document at its last match's page (its last page when it has none).
// No-op at page 1 of the first document.
func PrevPage(s State, sess *index.Session) State {
	if s.IsEmpty() || sess == nil {
		return s
	}
	if s.Page > 1 {
		s.Page--
		return s
	}
	if s.DocIndex > 0 {
		return docEnd(s, sess, s.DocIndex-1)
	}
	return s
}

func docStart(s State, sess *index.Session, docIndex int) State {
	doc := sess.Documents[docIndex]
	if len(doc.Matches) > 0 {
		first := doc.Matches[0]
		return State{
			MatchIndex: sess.FlatIndex(first),
			DocIndex:   docIndex,
			Page:       first.Page,
		}
	}
	return State{MatchIndex: s.MatchIndex, DocIndex: docIndex, Page: 1}
}

func docEnd(s State, sess *index.Session, docIndex int) State {
	doc := sess.Documents[docIndex]
	if len(doc.Matches) > 0 {
		last := doc.Matches[len(doc.Matches)-1]
		return State{
			MatchIndex: sess.FlatIndex(last),
			DocIndex:   docIndex,
			Page:       last.Page,
		}
	}
	return State{MatchIndex: s.MatchIndex, DocIndex: docIndex, Page: doc.PageCount}
}
