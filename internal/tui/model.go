// Package tui implements the Bubble Tea editor for codereview.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/hay-kot/codereview/internal/core/logging"
	"github.com/hay-kot/codereview/internal/session"
)

// Renderer is the part of the render adapter the editor needs beyond what
// the session uses.
type Renderer interface {
	SetWidth(width int)
}

// Options configures the editor.
type Options struct {
	// Endpoint is shown in the status bar.
	Endpoint string
}

// editorMaxLines is the row cap of the bubbles textarea.
const editorMaxLines = 10000

// reviewResultMsg carries a finished review request back into Update.
type reviewResultMsg struct {
	result session.Result
}

// Model is the editor model.
type Model struct {
	ctx      context.Context
	session  *session.Session
	renderer Renderer
	opts     Options
	log      zerolog.Logger

	keys    KeyMap
	help    help.Model
	editor  textarea.Model
	preview viewport.Model
	review  viewport.Model

	focus  FocusArea
	width  int
	height int

	// readOnly is why the editor cannot show the session's code unchanged.
	// Empty while the code is editable.
	readOnly string

	// lastSeq is the sequence number of the last applied review.
	lastSeq uint64
	lastOK  bool
}

// New creates an editor bound to sess. ctx is used for every review request.
func New(ctx context.Context, sess *session.Session, renderer Renderer, opts Options) Model {
	keys := DefaultKeyMap()

	editor := textarea.New()
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.ShowLineNumbers = true
	editor.Placeholder = "Paste JavaScript here..."
	// Pastes arrive as key runes so they can be checked before insertion.
	editor.KeyMap.Paste.SetEnabled(false)
	editor.Focus()

	review := viewport.New(0, 0)
	review.KeyMap.Up = keys.ScrollUp
	review.KeyMap.Down = keys.ScrollDown

	m := Model{
		ctx:      ctx,
		session:  sess,
		renderer: renderer,
		opts:     opts,
		log:      logging.Component("tui"),
		keys:     keys,
		help:     help.New(),
		editor:   editor,
		preview:  viewport.New(0, 0),
		review:   review,
		focus:    FocusEditor,
	}
	m.loadEditor(sess.Code())
	return m
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Focus returns the pane that currently receives input.
func (m Model) Focus() FocusArea { return m.focus }

// ReadOnly returns why the code cannot be edited, or "" when it can.
func (m Model) ReadOnly() string { return m.readOnly }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case reviewResultMsg:
		return m.handleReviewResult(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.focus == FocusEditor {
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if after := m.editor.Value(); after != before {
			m.setCode(after)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Review):
		return m.requestReview()
	case key.Matches(msg, m.keys.ToggleFocus):
		return m.toggleFocus()
	case key.Matches(msg, m.keys.Reset):
		wasReadOnly := m.readOnly != ""
		m.setCode(session.DefaultCode)
		m.loadEditor(session.DefaultCode)
		if wasReadOnly {
			m.focus = FocusEditor
			return m, m.editor.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.EditAsShown):
		return m.editAsShown()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case FocusEditor:
		if msg.Type == tea.KeyRunes && m.editorWouldAlter(msg.Runes) {
			code := m.insertAtCursor(m.session.Code(), NormalizeNewlines(string(msg.Runes)))
			m.setCode(code)
			m.loadEditor(code)
			return m, nil
		}
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if after := m.editor.Value(); after != before {
			m.setCode(after)
		}
	case FocusReview:
		m.review, cmd = m.review.Update(msg)
	}
	return m, cmd
}

func (m *Model) setCode(code string) {
	m.preview.SetContent(m.session.SetCode(code).String())
}

// loadEditor shows code in the editor. The textarea rewrites tabs, drops
// control characters and stops at editorMaxLines rows; when code does not
// survive that unchanged the session keeps it and editing is switched off.
func (m *Model) loadEditor(code string) {
	m.editor.SetValue(code)
	if m.editor.Value() == code {
		m.setReadOnly("")
		return
	}

	m.setReadOnly(lossReason(code))
	m.focus = FocusReview
	m.editor.Blur()
	m.preview.SetContent(m.session.HighlightedCode().String())
	m.log.Info().Str("reason", m.readOnly).Int("bytes", len(code)).Msg("code is read-only in the editor")
}

func (m *Model) setReadOnly(reason string) {
	if m.readOnly == reason {
		return
	}
	m.readOnly = reason
	m.keys.EditAsShown.SetEnabled(reason != "")
	m.layout()
}

func lossReason(code string) string {
	switch {
	case strings.Count(code, "\n") >= editorMaxLines:
		return fmt.Sprintf("more than %d lines", editorMaxLines)
	case strings.ContainsRune(code, '\t'):
		return "contains tabs"
	default:
		return "contains characters the editor cannot show"
	}
}

// editorWouldAlter reports whether the textarea would change runes on
// insertion or cut the code at its row cap.
func (m Model) editorWouldAlter(runes []rune) bool {
	newlines := 0
	for _, r := range runes {
		switch {
		case r == '\n':
			newlines++
		case r == '\t', r == '\r', r == utf8.RuneError, unicode.IsControl(r):
			return true
		}
	}
	return strings.Count(m.session.Code(), "\n")+1+newlines > editorMaxLines
}

// insertAtCursor splices text into code at the editor's cursor. The editor
// must be holding code unchanged.
func (m Model) insertAtCursor(code, text string) string {
	lines := strings.Split(code, "\n")
	row := min(m.editor.Line(), len(lines)-1)

	li := m.editor.LineInfo()
	line := []rune(lines[row])
	col := min(li.StartColumn+li.ColumnOffset, len(line))

	lines[row] = string(line[:col]) + text + string(line[col:])
	return strings.Join(lines, "\n")
}

// editAsShown replaces the session's code with what the editor holds and
// turns editing back on.
func (m Model) editAsShown() (tea.Model, tea.Cmd) {
	m.setCode(m.editor.Value())
	m.setReadOnly("")
	m.focus = FocusEditor
	return m, m.editor.Focus()
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.readOnly != "" {
		return m, nil
	}
	if m.focus == FocusEditor {
		m.focus = FocusReview
		m.editor.Blur()
		m.preview.SetContent(m.session.HighlightedCode().String())
		return m, nil
	}

	m.focus = FocusEditor
	return m, m.editor.Focus()
}

func (m Model) requestReview() (tea.Model, tea.Cmd) {
	ch := m.session.RequestReview(m.ctx)
	return m, listenForReview(ch)
}

// listenForReview returns a command that waits for the request's result.
func listenForReview(ch <-chan session.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return reviewResultMsg{result: res}
	}
}

func (m Model) handleReviewResult(msg reviewResultMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	if !res.Applied {
		m.log.Debug().Uint64("seq", res.Seq).Msg("stale review ignored by view")
		return m, nil
	}

	m.lastSeq = res.Seq
	m.lastOK = res.Response.OK()
	m.review.SetContent(m.session.RenderedReview().String())
	m.review.GotoTop()
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout()

	m.renderer.SetWidth(m.review.Width)
	m.session.Rerender()
	m.preview.SetContent(m.session.HighlightedCode().String())
	m.review.SetContent(m.session.RenderedReview().String())
	return m, nil
}

// layout sizes every pane from the current window size.
func (m *Model) layout() {
	m.help.Width = m.width

	bodyHeight := m.height - lipglossHeight(m.help.View(m.keys)) - statusBarHeight
	innerHeight := max(bodyHeight-paneChrome-paneTitleHeight, 1)

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth
	leftInner := max(leftWidth-paneChrome, 1)
	rightInner := max(rightWidth-paneChrome, 1)

	m.editor.SetWidth(leftInner)
	m.editor.SetHeight(innerHeight)
	m.preview.Width = leftInner
	m.preview.Height = innerHeight
	m.review.Width = rightInner
	m.review.Height = innerHeight
}

func (m Model) statusText() string {
	if n := m.session.Pending(); n > 0 {
		return fmt.Sprintf("reviewing (%d pending)", n)
	}
	switch {
	case m.lastSeq == 0:
		return "ready"
	case m.lastOK:
		return fmt.Sprintf("review #%d", m.lastSeq)
	default:
		return fmt.Sprintf("review #%d failed", m.lastSeq)
	}
}
