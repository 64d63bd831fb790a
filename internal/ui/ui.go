// Package ui prints status lines for skyview commands to stderr, keeping
// stdout free for reports.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/papapumpkin/skyview/internal/ansi"
)

type Printer struct {
	w     io.Writer
	color bool
}

// New returns a Printer writing coloured output to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr, color: true}
}

// NewWriter returns a Printer writing to w. Colour is only emitted when
// color is true.
func NewWriter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) paint(s string, codes ...string) string {
	if !p.color {
		return s
	}
	return ansi.Wrap(s, codes...)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint("error: ", ansi.Red, ansi.Bold), msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.paint("warning: ", ansi.Yellow, ansi.Bold), msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.paint(msg, ansi.Dim))
}

// Check prints a ✓ or ✗ line for one validated item.
func (p *Printer) Check(label string, err error) {
	if err != nil {
		fmt.Fprintf(p.w, "%s %v\n", p.paint("✗ "+label+":", ansi.Red, ansi.Bold), err)
		return
	}
	fmt.Fprintln(p.w, p.paint("✓ "+label, ansi.Green, ansi.Bold))
}

// Watching announces the files a watch session follows.
func (p *Printer) Watching(files []string) {
	fmt.Fprintln(p.w, p.paint("watching:", ansi.Cyan, ansi.Bold))
	for _, f := range files {
		fmt.Fprintf(p.w, "  %s\n", f)
	}
	fmt.Fprintln(p.w, p.paint("press Ctrl-C to stop", ansi.Dim))
}

// Reloaded reports that a report was re-rendered after file changed.
func (p *Printer) Reloaded(file string, at time.Time) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.paint("↻ reloaded", ansi.Magenta, ansi.Bold), file, p.paint(at.Format("15:04:05"), ansi.Dim))
}

// ClearScreen clears the terminal before a fresh render. It is a no-op
// without colour, where the output is likely a pipe or log.
func (p *Printer) ClearScreen() {
	if p.color {
		fmt.Fprint(p.w, ansi.ClearScreen)
	}
}
