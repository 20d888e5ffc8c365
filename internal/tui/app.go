package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dyike/pdq/internal/index"
	"github.com/dyike/pdq/internal/nav"
	"github.com/dyike/pdq/internal/pdftool"
	"github.com/dyike/pdq/internal/render"
	"github.com/dyike/pdq/internal/storage"
)

// FocusedPane represents which pane has focus
type FocusedPane int

const (
	FocusResults FocusedPane = iota
	FocusPreview
)

// Options wires the application's collaborators into the TUI
type Options struct {
	Query string
	Root  string
	Regex bool

	SidebarWidth int

	Tools      *pdftool.Tools
	Indexer    *index.Indexer
	Renderer   *render.Renderer
	Backend    *render.Backend
	BackendErr error
	History    *storage.DB // optional, nil disables history
	Log        *zap.Logger
}

// Model represents the main TUI application state
type Model struct {
	opts Options

	// Components
	viewport viewport.Model

	// State
	width   int
	height  int
	ready   bool
	focused FocusedPane

	// Data
	session *index.Session
	state   nav.State
	cursor  int // results list cursor
	scroll  int // results list window offset

	// Background work
	indexing      bool
	indexErr      error
	startedAt     time.Time
	pendingRender uuid.UUID
	prerendered   map[string]bool

	// Preview
	preview    string
	previewErr bool

	ctx context.Context
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, opts Options) Model {
	if opts.SidebarWidth < 16 {
		opts.SidebarWidth = 48
	}
	return Model{
		opts:        opts,
		state:       nav.Empty(),
		indexing:    true,
		startedAt:   time.Now(),
		prerendered: make(map[string]bool),
		preview:     "Indexing...",
		ctx:         ctx,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.startIndexing
}

// startIndexing runs discovery and the whole indexing pass off the UI loop
func (m Model) startIndexing() tea.Msg {
	candidates, err := m.opts.Tools.Discover(m.ctx, m.opts.Query, m.opts.Root)
	if err != nil {
		return IndexFailedMsg{Err: err}
	}
	sess, err := m.opts.Indexer.BuildSession(m.ctx, candidates, m.opts.Query, m.opts.Regex)
	if err != nil {
		return IndexFailedMsg{Err: err}
	}
	return SessionReadyMsg{Session: sess}
}

// recordHistory stores the finished search. History failures never affect
// the session; they are logged and dropped.
func (m Model) recordHistory(sess *index.Session) tea.Cmd {
	if m.opts.History == nil {
		return nil
	}
	db := m.opts.History
	query, root, regex := m.opts.Query, m.opts.Root, m.opts.Regex
	started := m.startedAt
	return func() tea.Msg {
		_, err := db.RecordSearch(query, root, regex, len(sess.Documents), len(sess.Matches), started)
		return HistoryRecordedMsg{Err: err}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		previewWidth := m.width - m.opts.SidebarWidth - 6
		previewHeight := m.height - 5
		m.viewport = viewport.New(previewWidth, previewHeight)
		m.viewport.SetContent(m.previewContent())

	case SessionReadyMsg:
		m.indexing = false
		m.session = msg.Session
		if len(m.session.Matches) == 0 {
			m.preview = "No matches found."
			m.viewport.SetContent(m.previewContent())
			return m, m.recordHistory(msg.Session)
		}
		var cmd tea.Cmd
		m, cmd = m.applyState(nav.JumpToMatch(m.state, m.session, 0))
		return m, tea.Batch(cmd, m.recordHistory(msg.Session))

	case IndexFailedMsg:
		m.indexing = false
		m.indexErr = msg.Err
		m.preview = ""
		m.viewport.SetContent(m.previewContent())

	case RenderDoneMsg:
		// A result for a superseded request is simply dropped.
		if msg.ID != m.pendingRender {
			return m, nil
		}
		m.preview = msg.Output
		m.previewErr = false
		m.viewport.SetContent(m.previewContent())
		m.viewport.GotoTop()

	case RenderFailedMsg:
		if msg.ID != m.pendingRender {
			return m, nil
		}
		m.preview = fmt.Sprintf("Render failed: %v", msg.Err)
		m.previewErr = true
		m.viewport.SetContent(m.previewContent())

	case PrerenderDoneMsg:
		if msg.Err != nil {
			m.opts.Log.Warn("prerender failed",
				zap.String("pdf", msg.Path), zap.Error(msg.Err))
		}

	case HistoryRecordedMsg:
		if msg.Err != nil {
			m.opts.Log.Warn("recording search history", zap.Error(msg.Err))
		}
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.focused == FocusResults {
			m.focused = FocusPreview
		} else {
			m.focused = FocusResults
		}
		return m, nil

	case "h":
		m.focused = FocusResults
		return m, nil

	case "l":
		m.focused = FocusPreview
		return m, nil
	}

	switch m.focused {
	case FocusResults:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.clampScroll()
			}
		case "down", "j":
			if m.session != nil && m.cursor < len(m.session.Matches)-1 {
				m.cursor++
				m.clampScroll()
			}
		case "enter":
			return m.applyState(nav.JumpToMatch(m.state, m.session, m.cursor))
		}
		return m, nil

	case FocusPreview:
		switch msg.String() {
		case "j":
			return m.applyState(nav.NextPage(m.state, m.session))
		case "k":
			return m.applyState(nav.PrevPage(m.state, m.session))
		case "n":
			return m.applyState(nav.NextMatch(m.state, m.session))
		case "N":
			return m.applyState(nav.PrevMatch(m.state, m.session))
		}
		// Let viewport handle scrolling keys
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyState moves to a new navigation state, requesting a preview render
// when the displayed (document, page) changed. The cursor moves even when
// the render later fails.
func (m Model) applyState(next nav.State) (Model, tea.Cmd) {
	prev := m.state
	if next == prev {
		return m, nil
	}
	m.state = next

	if next.MatchIndex >= 0 && next.MatchIndex != prev.MatchIndex {
		m.cursor = next.MatchIndex
		m.clampScroll()
	}

	if next.SamePage(prev) || next.IsEmpty() {
		return m, nil
	}

	doc := m.session.Documents[next.DocIndex]
	var cmds []tea.Cmd
	cmds = append(cmds, m.requestRender(doc.Path, next.Page))
	if next.DocIndex != prev.DocIndex && !m.prerendered[doc.Path] {
		m.prerendered[doc.Path] = true
		cmds = append(cmds, m.prerenderDocument(doc))
	}
	return m, tea.Batch(cmds...)
}

// requestRender issues a render request tagged with a fresh ID. Issuing a
// new one supersedes interest in any in-flight request; the old external
// process is left to finish and its result is discarded on arrival.
func (m *Model) requestRender(pdfPath string, page int) tea.Cmd {
	id := uuid.New()
	m.pendingRender = id
	m.preview = "Rendering..."
	m.previewErr = false
	m.viewport.SetContent(m.previewContent())

	if m.opts.Backend == nil {
		err := m.opts.BackendErr
		return func() tea.Msg {
			return RenderFailedMsg{ID: id, Err: err}
		}
	}

	renderer, backend, ctx := m.opts.Renderer, m.opts.Backend, m.ctx
	return func() tea.Msg {
		png, err := renderer.PagePNG(ctx, pdfPath, page)
		if err != nil {
			return RenderFailedMsg{ID: id, Err: err}
		}
		out, err := backend.Render(ctx, png)
		if err != nil {
			return RenderFailedMsg{ID: id, Err: err}
		}
		return RenderDoneMsg{ID: id, Output: out}
	}
}

// prerenderDocument rasterises the rest of a document in the background so
// page-stepping inside it is instant
func (m Model) prerenderDocument(doc index.Document) tea.Cmd {
	renderer, ctx := m.opts.Renderer, m.ctx
	return func() tea.Msg {
		err := renderer.EnsureAll(ctx, doc.Path, doc.PageCount)
		return PrerenderDoneMsg{Path: doc.Path, Err: err}
	}
}

func (m *Model) clampScroll() {
	visible := m.resultsHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
}

func (m Model) resultsHeight() int {
	return m.height - 5
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	results := m.renderResults()
	preview := m.renderPreview()
	status := m.renderStatusBar()
	help := HelpStyle.Render("  j/k move · enter jump · n/N match · h/l focus · q quit")

	content := lipgloss.JoinHorizontal(lipgloss.Top, results, preview)

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		status,
		help,
	)
}

// renderResults renders the match list pane
func (m Model) renderResults() string {
	var b strings.Builder

	if m.session == nil || len(m.session.Matches) == 0 {
		if m.indexing {
			b.WriteString(PreviewMessageStyle.Render("Indexing..."))
		} else {
			b.WriteString(PreviewMessageStyle.Render("No matches"))
		}
	} else {
		visible := m.resultsHeight()
		end := m.scroll + visible
		if end > len(m.session.Matches) {
			end = len(m.session.Matches)
		}
		for i := m.scroll; i < end; i++ {
			match := m.session.Matches[i]
			line := truncateLine(fmt.Sprintf("%s p%d: %s",
				filepath.Base(match.Path), match.Page, match.Context), m.opts.SidebarWidth-4)

			style := ResultItemStyle
			if i == m.cursor && m.focused == FocusResults {
				style = ResultItemSelectedStyle
			} else if i == m.state.MatchIndex {
				style = ResultItemCurrentStyle
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}

	style := ResultsStyle
	if m.focused == FocusResults {
		style = style.BorderForeground(AccentColor)
	}
	return style.Width(m.opts.SidebarWidth).Height(m.height - 4).Render(b.String())
}

// truncateLine keeps at most max runes of a result line, marking cut lines
// with an ellipsis. Slicing by bytes would split multibyte runes in paths
// and snippets.
func truncateLine(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// renderPreview renders the page preview pane
func (m Model) renderPreview() string {
	style := PreviewStyle
	if m.focused == FocusPreview {
		style = style.BorderForeground(AccentColor)
	}
	width := m.width - m.opts.SidebarWidth - 4
	return style.Width(width).Height(m.height - 4).Render(m.viewport.View())
}

func (m Model) previewContent() string {
	switch {
	case m.preview == "":
		return ""
	case m.previewErr:
		return PreviewErrorStyle.Render(m.preview)
	case m.preview == "Indexing..." || m.preview == "Rendering..." || m.preview == "No matches found.":
		return PreviewMessageStyle.Render(m.preview)
	}
	return m.preview
}

// renderStatusBar renders the bottom status line
func (m Model) renderStatusBar() string {
	focus := "results"
	if m.focused == FocusPreview {
		focus = "preview"
	}

	if m.indexErr != nil {
		return StatusErrorStyle.Width(m.width).Render(
			fmt.Sprintf("Indexing failed: %v", m.indexErr))
	}
	if m.indexing {
		return StatusBarStyle.Width(m.width).Render("Indexing... | focus: " + focus)
	}

	st, ok := nav.StatusOf(m.state, m.session)
	if !ok {
		return StatusBarStyle.Width(m.width).Render("No results | focus: " + focus)
	}
	return StatusBarStyle.Width(m.width).Render(st.Line() + " | focus: " + focus)
}
