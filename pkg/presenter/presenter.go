// Package presenter provides consistent user-facing CLI output: success,
// warning, error, and section formatting with color support and a quiet mode
// for scripted use.
package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	out   io.Writer
	errW  io.Writer
	quiet bool
}

// New returns a presenter writing to stdout/stderr. The color package
// disables itself when stdout is not a terminal.
func New() *Presenter {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters returns a presenter with custom output streams.
func NewWithWriters(out, errW io.Writer) *Presenter {
	return &Presenter{out: out, errW: errW}
}

// SetQuiet suppresses everything except errors.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Success prints a green checkmarked message.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", color.GreenString("✓"), message)
}

// Warning prints a yellow warning message.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", color.YellowString("!"), message)
}

// Error prints a red error with optional context, even in quiet mode.
func (p *Presenter) Error(err error, context string) {
	if context != "" {
		fmt.Fprintf(p.errW, "%s %s: %v\n", color.RedString("✗"), context, err)
		return
	}
	fmt.Fprintf(p.errW, "%s %v\n", color.RedString("✗"), err)
}

// Problem prints a red field-tagged validation failure.
func (p *Presenter) Problem(field, message string) {
	fmt.Fprintf(p.out, "  %s %s: %s\n", color.RedString("✗"), color.CyanString(field), message)
}

// Info prints a plain informational message.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, message)
}

// Section prints a bold section header.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", color.New(color.Bold).Sprint(title))
}
