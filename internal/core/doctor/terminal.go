package doctor

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Smallest terminal the picker lays out without clipping.
const (
	MinTerminalWidth  = 80
	MinTerminalHeight = 24
)

// Package-level variables to allow test overrides.
var (
	isTerminalFunc = term.IsTerminal
	getSizeFunc    = term.GetSize
)

// TerminalCheck verifies the picker can draw: stdin and stderr must be a
// terminal of at least MinTerminalWidth by MinTerminalHeight.
type TerminalCheck struct {
	stdin, stderr int
}

func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{stdin: int(os.Stdin.Fd()), stderr: int(os.Stderr.Fd())}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if !isTerminalFunc(c.stdin) || !isTerminalFunc(c.stderr) {
		result.add("interactive", StatusWarn, "stdin or stderr is not a terminal, the picker will not start")
		return result
	}
	result.add("interactive", StatusPass, "")

	w, h, err := getSizeFunc(c.stderr)
	switch {
	case err != nil:
		result.add("size", StatusWarn, fmt.Sprintf("unknown: %v", err))
	case w < MinTerminalWidth || h < MinTerminalHeight:
		result.add("size", StatusWarn, fmt.Sprintf("%dx%d, at least %dx%d recommended", w, h, MinTerminalWidth, MinTerminalHeight))
	default:
		result.add("size", StatusPass, fmt.Sprintf("%dx%d", w, h))
	}

	return result
}
