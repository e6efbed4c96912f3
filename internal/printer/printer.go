// Package printer writes styled, human-oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/mappicker/internal/core/styles"
)

type ctxKey struct{}

// Printer prefixes status lines with a colored marker.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) line(marker string, color lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if marker == "" {
		_, _ = fmt.Fprintln(p.w, msg)
		return
	}
	_, _ = fmt.Fprintln(p.w, color.Render(marker)+" "+msg)
}

func (p *Printer) Printf(format string, args ...any) {
	p.line("", lipgloss.NewStyle(), format, args...)
}

func (p *Printer) Successf(format string, args ...any) {
	p.line("✓", lipgloss.NewStyle().Foreground(styles.ColorSuccess), format, args...)
}

func (p *Printer) Infof(format string, args ...any) {
	p.line("•", lipgloss.NewStyle().Foreground(styles.ColorPrimary), format, args...)
}

func (p *Printer) Warnf(format string, args ...any) {
	p.line("!", lipgloss.NewStyle().Foreground(styles.ColorWarning), format, args...)
}

func (p *Printer) Errorf(format string, args ...any) {
	p.line("✗", lipgloss.NewStyle().Foreground(styles.ColorError), format, args...)
}

// Header prints a bold section title.
func (p *Printer) Header(title string) {
	_, _ = fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
}
