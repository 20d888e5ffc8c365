package nav

import (
	"fmt"
	"path/filepath"

	"github.com/dyike/pdq/internal/index"
)

// Status describes the displayed position. MatchPos is the 1-based place of
// the selected match inside the displayed document's own match list, 0 when
// the selected match belongs to a different document (page wandering).
type Status struct {
	DocName    string
	Page       int
	PageCount  int
	MatchPos   int
	MatchCount int
}

// StatusOf derives the status for a state. The bool is false for the empty
// state.
func StatusOf(s State, sess *index.Session) (Status, bool) {
	if sess == nil || s.IsEmpty() || s.DocIndex >= len(sess.Documents) {
		return Status{}, false
	}
	doc := sess.Documents[s.DocIndex]
	st := Status{
		DocName:    filepath.Base(doc.Path),
		Page:       s.Page,
		PageCount:  doc.PageCount,
		MatchCount: len(doc.Matches),
	}
	if s.MatchIndex >= 0 && s.MatchIndex < len(sess.Matches) {
		current := sess.Matches[s.MatchIndex]
		for i, m := range doc.Matches {
			if m.Same(current) {
				st.MatchPos = i + 1
				break
			}
		}
	}
	return st, true
}

// Line formats the status for the status bar
func (st Status) Line() string {
	matchPos, matchCount := st.MatchPos, st.MatchCount
	if matchPos == 0 {
		matchCount = 0
	}
	return fmt.Sprintf("%s | page %d/%d | match %d/%d",
		st.DocName, st.Page, st.PageCount, matchPos, matchCount)
}
