package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// Reporter renders a Store's collected diagnostics for a terminal or a
// plain file, grounded on the teacher's CLI output conventions
// (cmd/funxy/main.go) plus the ambient-stack decision to colorize only
// when writing to a real tty.
type Reporter struct {
	w       io.Writer
	colored bool
}

// NewReporter builds a Reporter for w, auto-detecting colorization via
// go-isatty when w is an *os.File.
func NewReporter(w io.Writer) *Reporter {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{w: w, colored: colored}
}

const (
	red    = "\x1b[31m"
	reset  = "\x1b[0m"
)

func (r *Reporter) colorize(s string) string {
	if !r.colored {
		return s
	}
	return red + s + reset
}

// Render writes every diagnostic followed by a humanized summary line.
func (r *Reporter) Render(diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(r.w, "%s: %s: %s\n", d.Loc.String(), r.colorize(string(d.Kind)), d.Message)
	}
	fmt.Fprintf(r.w, "%s\n", humanize.Comma(int64(len(diags)))+" error(s)")
}

// RenderSummary writes a one-line humanized summary, e.g. after a
// successful run: "3 errors, 12 functions monomorphized into 27
// instances".
func (r *Reporter) RenderSummary(errorCount, functionsMonomorphized, instancesProduced int) {
	fmt.Fprintf(r.w, "%s errors, %s functions monomorphized into %s instances\n",
		humanize.Comma(int64(errorCount)),
		humanize.Comma(int64(functionsMonomorphized)),
		humanize.Comma(int64(instancesProduced)),
	)
}
