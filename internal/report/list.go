package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pinchtab/swiftcheck/internal/runner"
)

// List prints each result as it arrives, one block per case.
type List struct {
	w  io.Writer
	mu sync.Mutex
}

func NewList(w io.Writer) *List {
	return &List{w: w}
}

func (l *List) Emit(res runner.CaseResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mark := "✓"
	switch res.Status {
	case runner.StatusFailed:
		mark = "✘"
	case runner.StatusError:
		mark = "!"
	}
	name := res.CaseID
	if res.Title != "" {
		name += " " + res.Title
	}
	_, _ = fmt.Fprintf(l.w, "  %s  %s (%s)\n", mark, name, res.Duration.Round(time.Millisecond))
	_, _ = fmt.Fprintf(l.w, "\n%s INPUT:\n%s\n%s OUTPUT (preview):\n%s\n", res.CaseID, res.Input, res.CaseID, res.OutputPreview)
	if res.Err != "" {
		_, _ = fmt.Fprintf(l.w, "%s %s: %s\n", res.CaseID, res.ErrorClass, res.Err)
	}
	_, _ = fmt.Fprintln(l.w)
}

// PrintSummary writes the closing totals line.
func PrintSummary(w io.Writer, s Summary) {
	_, _ = fmt.Fprintf(w, "  %d passed, %d failed, %d errored (%d total) in %s\n",
		s.Passed, s.Failed, s.Errored, s.Total, s.Duration.Round(time.Millisecond))
	if len(s.ByClass) > 0 {
		for _, class := range sortedKeys(s.ByClass) {
			_, _ = fmt.Fprintf(w, "    %s: %d\n", class, s.ByClass[class])
		}
	}
	if s.Dropped > 0 {
		_, _ = fmt.Fprintf(w, "  %d results were dropped by the reporter\n", s.Dropped)
	}
}
