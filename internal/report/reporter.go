package report

import (
	"fmt"
	"io"

	"github.com/rovshanmuradov/bonding-curve-sim/internal/simulation"
)

// Verbosity selects how much of a run the Reporter prints.
type Verbosity string

const (
	VerbosityQuiet   Verbosity = "quiet"
	VerbositySummary Verbosity = "summary"
	VerbosityTrades  Verbosity = "trades"
)

// Reporter writes textual run reports.
type Reporter struct {
	w         io.Writer
	verbosity Verbosity
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, verbosity Verbosity) *Reporter {
	return &Reporter{w: w, verbosity: verbosity}
}

// Report prints the run: every order when verbosity is trades, then the
// final status and the summary. Quiet prints nothing.
func (r *Reporter) Report(res *simulation.Result) error {
	if r.verbosity == VerbosityQuiet {
		return nil
	}

	if r.verbosity == VerbosityTrades {
		for _, step := range res.Steps {
			if _, err := fmt.Fprintln(r.w, RenderStep(step)); err != nil {
				return fmt.Errorf("failed to write order report: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintln(r.w, RenderStatus(res.Final)); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	if _, err := fmt.Fprintln(r.w, RenderSummary(res)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
