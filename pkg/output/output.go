package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/precheck/pkg/check"
)

// Palette holds the escape sequences used for status lines.
type Palette struct {
	OK    string
	Fail  string
	Dim   string
	Bold  string
	Reset string
}

var (
	// ColorPalette uses ANSI colors.
	ColorPalette = Palette{
		OK:    "\033[32m",
		Fail:  "\033[31m",
		Dim:   "\033[2m",
		Bold:  "\033[1m",
		Reset: "\033[0m",
	}
	// PlainPalette emits no escape sequences.
	PlainPalette = Palette{}
)

// DetectPalette picks ColorPalette when stdout supports color.
func DetectPalette() Palette {
	if supportscolor.Stdout().SupportsColor {
		return ColorPalette
	}
	return PlainPalette
}

// Printer writes status lines. It is safe for concurrent use; each result is
// written as one uninterrupted block.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
	p  Palette
}

// NewPrinter returns a Printer writing to w with the given palette.
func NewPrinter(w io.Writer, p Palette) *Printer {
	return &Printer{w: w, p: p}
}

// PrintResult outputs a check result with colored status.
func (pr *Printer) PrintResult(r check.Result) {
	var b strings.Builder
	indent := "     "
	if r.OK() {
		fmt.Fprintf(&b, "%s[OK]%s %s", pr.p.OK, pr.p.Reset, r.Name)
	} else {
		fmt.Fprintf(&b, "%s[FAIL]%s %s", pr.p.Fail, pr.p.Reset, r.Name)
		indent = "       "
	}
	if r.Duration > 0 {
		fmt.Fprintf(&b, " %s(%s)%s", pr.p.Dim, FormatDuration(r.Duration), pr.p.Reset)
	}
	b.WriteByte('\n')
	for _, d := range r.Details {
		fmt.Fprintf(&b, "%s%s\n", indent, pr.formatLabel(d))
	}
	pr.write(b.String())
}

// PrintBanner prints the closing message for a passing run.
func (pr *Printer) PrintBanner(msg string) {
	pr.write(fmt.Sprintf("\n%s%s%s%s\n", pr.p.Bold, pr.p.OK, msg, pr.p.Reset))
}

// PrintWarning prints a highlighted line that does not fail the run.
func (pr *Printer) PrintWarning(msg string) {
	pr.write(fmt.Sprintf("%s%s%s\n", pr.p.Fail, msg, pr.p.Reset))
}

func (pr *Printer) write(s string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	_, _ = io.WriteString(pr.w, s)
}

// formatLabel dims the "label:" prefix of a detail line.
func (pr *Printer) formatLabel(s string) string {
	label, rest, ok := strings.Cut(s, ":")
	if !ok || pr.p.Dim == "" {
		return s
	}
	return pr.p.Dim + label + ":" + pr.p.Reset + rest
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
