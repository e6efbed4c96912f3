// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
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

// KeyPress creates a key press message for a single printable rune.
func KeyPress(key rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// Type returns one key press per rune of s, for feeding text inputs.
func Type(s string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(s))
	for _, r := range s {
		msgs = append(msgs, KeyPress(r))
	}
	return msgs
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

func KeyDown() tea.KeyPressMsg      { return special(tea.KeyDown) }
func KeyUp() tea.KeyPressMsg        { return special(tea.KeyUp) }
func KeyLeft() tea.KeyPressMsg      { return special(tea.KeyLeft) }
func KeyRight() tea.KeyPressMsg     { return special(tea.KeyRight) }
func KeyEnter() tea.KeyPressMsg     { return special(tea.KeyEnter) }
func KeyEsc() tea.KeyPressMsg       { return special(tea.KeyEscape) }
func KeyTab() tea.KeyPressMsg       { return special(tea.KeyTab) }
func KeyBackspace() tea.KeyPressMsg { return special(tea.KeyBackspace) }

func KeySpace() tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeySpace, Text: " "})
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
