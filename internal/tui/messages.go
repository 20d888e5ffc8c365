package tui

import (
	"github.com/google/uuid"

	"github.com/dyike/pdq/internal/index"
)

// SessionReadyMsg indicates the indexing pass finished
type SessionReadyMsg struct {
	Session *index.Session
}

// IndexFailedMsg indicates the indexing pass aborted
type IndexFailedMsg struct {
	Err error
}

// RenderDoneMsg carries a finished page preview. ID ties it back to the
// request that asked for it; stale results are discarded on arrival.
type RenderDoneMsg struct {
	ID     uuid.UUID
	Output string
}

// RenderFailedMsg indicates a single render request failed
type RenderFailedMsg struct {
	ID  uuid.UUID
	Err error
}

// PrerenderDoneMsg indicates a background whole-document prerender finished
type PrerenderDoneMsg struct {
	Path string
	Err  error
}

// HistoryRecordedMsg indicates the search was written to the history store
type HistoryRecordedMsg struct {
	Err error
}
