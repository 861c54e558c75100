// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace so rendered
// views can be compared as plain text.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		result = append(result, strings.TrimRight(line, " "))
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}}
}

// KeyPressString creates a single key message carrying all runes of s, the
// way a paste arrives.
func KeyPressString(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Key creates a key message for a special key such as tea.KeyCtrlR.
func Key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// KeyDown creates a down arrow key press message.
func KeyDown() tea.KeyMsg { return Key(tea.KeyDown) }

// KeyUp creates an up arrow key press message.
func KeyUp() tea.KeyMsg { return Key(tea.KeyUp) }

// KeyEnter creates an enter key press message.
func KeyEnter() tea.KeyMsg { return Key(tea.KeyEnter) }

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

// Drain runs cmd and every command it produces, feeding each message to
// update. Batch and sequence messages are expanded. It stops after limit
// messages to guard against tick loops.
func Drain(cmd tea.Cmd, update func(tea.Msg) tea.Cmd, limit int) {
	queue := []tea.Cmd{cmd}
	for n := 0; len(queue) > 0 && n < limit; {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}

		n++
		queue = append(queue, update(msg))
	}
}
