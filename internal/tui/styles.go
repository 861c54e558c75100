package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/codereview/internal/core/styles"
)

const (
	// paneChrome is the border width consumed on each axis by a pane.
	paneChrome      = 2
	paneTitleHeight = 1
	statusBarHeight = 1
)

func lipglossHeight(s string) int {
	if s == "" {
		return 0
	}
	return lipgloss.Height(s)
}

// View renders the editor.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	var left string
	switch {
	case m.readOnly != "":
		left = pane(styles.IconFileJS+"Code (read-only)", m.preview.View(), leftWidth, false)
	case m.focus == FocusEditor:
		left = pane(styles.IconFileJS+"Code (tab: highlighted preview)", m.editor.View(), leftWidth, true)
	default:
		left = pane(styles.IconFileJS+"Code (highlighted)", m.preview.View(), leftWidth, false)
	}

	reviewTitle := styles.IconBrain + "Review"
	if m.lastSeq > 0 && !m.lastOK {
		reviewTitle = styles.IconError + "Review"
	}
	right := pane(reviewTitle, m.review.View(), rightWidth, m.focus == FocusReview)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar(), styles.HelpStyle.Render(m.help.View(m.keys)))
}

func pane(title, content string, width int, focused bool) string {
	style := styles.PaneStyle
	titleStyle := styles.PaneTitleBlurred
	if focused {
		style = styles.PaneFocusedStyle
		titleStyle = styles.PaneTitleStyle
	}

	inner := max(width-paneChrome, 1)
	return style.Width(inner).Render(titleStyle.Render(title) + "\n" + content)
}

func (m Model) statusBar() string {
	mode := styles.StatusKeyStyle.Render(strings.ToUpper(m.focus.String()))
	state := styles.StatusValueStyle.Render(" " + m.statusText() + " ")
	endpoint := styles.StatusValueStyle.Render(m.opts.Endpoint)

	var notice string
	if m.readOnly != "" {
		notice = styles.WarningStyle.Render(" read-only: " + m.readOnly + " ")
	}

	gap := m.width - lipgloss.Width(mode) - lipgloss.Width(state) - lipgloss.Width(notice) - lipgloss.Width(endpoint) - 2
	filler := styles.StatusBarStyle.Render(strings.Repeat(" ", max(gap, 0)))
	return lipgloss.JoinHorizontal(lipgloss.Top, mode, state, notice, filler, endpoint)
}
