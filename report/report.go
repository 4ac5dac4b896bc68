// Package report prints results of minification.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/dchest/assethat/engine"
)

// Format is a format of bundle reports.
type Format string

const (
	Long  Format = "long"
	Short Format = "short"
	Dot   Format = "dot"
)

// ParseFormat returns the format named by s, or Long if s is not a format name.
func ParseFormat(s string) Format {
	switch f := Format(s); f {
	case Long, Short, Dot:
		return f
	}
	return Long
}

// PercentSaved returns the size reduction in percent.
func PercentSaved(oldSize, newSize int) float64 {
	return (1 - float64(newSize)/float64(oldSize)) * 100
}

// FormatPercent formats percentage with one decimal: "52.3%".
func FormatPercent(p float64) string {
	if math.IsNaN(p) {
		return "NaN%"
	}
	return fmt.Sprintf("%.1f%%", p)
}

// Bundle describes a minified bundle. Paths should be relative
// to the project directory.
type Bundle struct {
	Kind    string // "JS"
	Output  string
	Files   []string
	OldSize int
	NewSize int
	Engine  engine.Name
}

// Reporter writes reports in the given format.
type Reporter struct {
	w      io.Writer
	format Format

	title   lipgloss.Style
	muted   lipgloss.Style
	percent lipgloss.Style
	warning lipgloss.Style
}

// New returns a new reporter writing to w. Styles are
// dropped when w is not a terminal.
func New(w io.Writer, format Format) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		format:  format,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		percent: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	}
}

// Intro is printed before minifying bundles of the given kind.
func (r *Reporter) Intro(kind string) {
	fmt.Fprint(r.w, r.title.Render("Minifying "+kind+"..."))
	if r.format != Dot {
		fmt.Fprintln(r.w)
	}
}

// Outro is printed after all bundles are minified.
func (r *Reporter) Outro() {
	if r.format != Short {
		fmt.Fprintln(r.w)
	}
	fmt.Fprintln(r.w, "Done.")
}

// File reports a single minified file.
func (r *Reporter) File(output string) {
	fmt.Fprintf(r.w, "- Minified to %s\n", output)
}

// Bundle reports a minified bundle.
func (r *Reporter) Bundle(b *Bundle) {
	pct := FormatPercent(PercentSaved(b.OldSize, b.NewSize))
	switch r.format {
	case Dot:
		fmt.Fprint(r.w, ".")
	case Short:
		fmt.Fprintf(r.w, "Minified %s: %s\n", r.percent.Render(fmt.Sprintf("%6s", pct)), b.Output)
	default:
		fmt.Fprintf(r.w, "\n %s %s\n", r.title.Render("Wrote "+b.Kind+" bundle:"), b.Output)
		for _, f := range b.Files {
			fmt.Fprintf(r.w, "        %s %s\n", r.muted.Render("contains:"), f)
		}
		if b.OldSize > 0 {
			empty := ""
			if b.NewSize == 0 {
				empty = " " + r.warning.Render("(empty!)")
			}
			fmt.Fprintf(r.w, "        MINIFIED: %s%s (Engine: %s)\n", r.percent.Render(pct), empty, b.Engine)
		}
	}
}
