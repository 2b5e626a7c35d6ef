package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/devstrap-labs/devstrap/internal/branding"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Printer writes prefixed, optionally colored diagnostic lines.
type Printer struct {
	w      io.Writer
	prefix string

	bold   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// New returns a Printer writing to w. Color is enabled only when w is a
// terminal and NO_COLOR is unset.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:      w,
		prefix: "[" + branding.CLIName() + "]",
		bold:   color.New(color.Bold),
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
	}
	p.SetColor(wantsColor(w))
	return p
}

// Stderr returns a Printer for os.Stderr.
func Stderr() *Printer {
	return New(os.Stderr)
}

func wantsColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetColor forces color on or off.
func (p *Printer) SetColor(on bool) {
	for _, c := range []*color.Color{p.bold, p.cyan, p.green, p.yellow, p.red} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Step announces step n of total.
func (p *Printer) Step(n, total int, title string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.prefix, p.cyan.Sprintf("[%d/%d]", n, total), p.bold.Sprint(title))
}

// Info prints a plain diagnostic line.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", p.prefix, fmt.Sprintf(format, args...))
}

// OK prints a success line.
func (p *Printer) OK(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.prefix, p.green.Sprint("ok:"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.prefix, p.yellow.Sprint("warning:"), fmt.Sprintf(format, args...))
}

// Fail prints an error line.
func (p *Printer) Fail(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.prefix, p.red.Sprint("error:"), fmt.Sprintf(format, args...))
}
