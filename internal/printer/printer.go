// Package printer writes styled, line oriented command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/codereview/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to an output stream.
type Printer struct {
	w io.Writer
}

// New returns a printer writing to w.
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

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// Section writes a header line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.w, styles.CommandHeaderStyle.Render(title))
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	p.prefixed(styles.SuccessStyle.Render(styles.IconCheck), format, args...)
}

// Infof writes a line prefixed with an info marker.
func (p *Printer) Infof(format string, args ...any) {
	p.prefixed(styles.DividerStyle.Render("•"), format, args...)
}

// Warnf writes a line prefixed with a warning marker.
func (p *Printer) Warnf(format string, args ...any) {
	p.prefixed(styles.WarningStyle.Render("!"), format, args...)
}

// Errorf writes a line prefixed with an error marker.
func (p *Printer) Errorf(format string, args ...any) {
	p.prefixed(styles.ErrorStyle.Render(styles.IconError), format, args...)
}

func (p *Printer) prefixed(prefix, format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
