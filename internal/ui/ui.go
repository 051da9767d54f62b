// Package ui prints human-facing status output on stderr, leaving
// stdout free for data (CSV, JSON, tables).
package ui

import (
	"fmt"
	"os"

	"github.com/quartzlab/tephra/internal/dataset"
	"github.com/quartzlab/tephra/internal/series"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// Printer writes styled status lines to stderr.
type Printer struct {
	Verbose bool
}

// New returns a Printer; verbose enables Info output and per-row detail.
func New(verbose bool) *Printer {
	return &Printer{Verbose: verbose}
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

// Info prints a dim informational line when verbose is on.
func (p *Printer) Info(msg string) {
	if !p.Verbose {
		return
	}
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

// Converted reports a finished single-series conversion, including the
// reversal notice when the axis was reordered.
func (p *Printer) Converted(id, from, to string, points int, reordered bool) {
	if from == "" {
		from = "(default)"
	}
	fmt.Fprintf(os.Stderr, green+"✓"+reset+" %s: %s → %s "+dim+"(%d points)"+reset+"\n", id, from, to, points)
	if reordered {
		p.Reordered(id)
	}
}

// Reordered warns that a series' axis (and bound values) were reversed
// to keep the axis ascending.
func (p *Printer) Reordered(id string) {
	fmt.Fprintf(os.Stderr, yellow+"⚠ %s: axis reversed to stay ascending"+reset+"; co-indexed arrays were permuted in lockstep\n", id)
}

// MemberResults reports a collection conversion member by member.
func (p *Printer) MemberResults(results []series.MemberResult) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(os.Stderr, red+"✗ %s"+reset+": %v\n", r.ID, r.Err)
		case r.Reordered:
			p.Reordered(r.ID)
		default:
			fmt.Fprintf(os.Stderr, green+"✓ %s"+reset+" converted\n", r.ID)
		}
	}
}

// IngestReport summarizes one file's ingestion, listing row-level
// rejects when verbose.
func (p *Printer) IngestReport(id string, r *dataset.Report) {
	status := green + "✓" + reset
	if r.Failed > 0 {
		status = yellow + "⚠" + reset
	}
	fmt.Fprintf(os.Stderr, "%s %s: %d rows, %d loaded, %d rejected\n", status, id, r.Total, r.Loaded, r.Failed)
	if p.Verbose {
		for _, msg := range r.Errors {
			fmt.Fprintf(os.Stderr, dim+"    %s"+reset+"\n", msg)
		}
	}
}

// Stored reports a catalog write.
func (p *Printer) Stored(id string) {
	fmt.Fprintf(os.Stderr, cyan+"◆ stored"+reset+" %s\n", id)
}
