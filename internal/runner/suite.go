package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/pinchtab/swiftcheck/internal/catalog"
	"golang.org/x/sync/errgroup"
)

// Sink receives every finished case. Emit must not block.
type Sink interface {
	Emit(CaseResult)
}

// Suite runs a list of cases, each in its own session, on a bounded pool.
type Suite struct {
	Provisioner Provisioner
	Runner      *Runner
	Workers     int
	Sink        Sink
}

// Run executes cases and returns their results in input order. A failing
// case never stops the others; cancelling ctx stops scheduling new cases and
// marks the unstarted ones as errored.
func (s *Suite) Run(ctx context.Context, cases []catalog.Case) []CaseResult {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]CaseResult, len(cases))

	slog.Info("suite starting", "cases", len(cases), "workers", workers)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(workers)
	for i, c := range cases {
		g.Go(func() error {
			var res CaseResult
			if err := ctx.Err(); err != nil {
				res = CaseResult{CaseID: c.ID, Title: c.Title, Input: c.Input, StartedAt: time.Now()}
				s.Runner.finish(&res, err)
			} else {
				res, _ = s.Runner.RunCase(ctx, s.Provisioner, c)
			}
			results[i] = res
			if s.Sink != nil {
				s.Sink.Emit(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("suite finished", "cases", len(cases), "duration", time.Since(start).Round(time.Millisecond))
	return results
}
