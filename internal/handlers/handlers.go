// Package handlers serves the HTTP API of serve mode: case listing, on-demand
// runs and result streams.
package handlers

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/pinchtab/swiftcheck/internal/catalog"
	"github.com/pinchtab/swiftcheck/internal/config"
	"github.com/pinchtab/swiftcheck/internal/dashboard"
	"github.com/pinchtab/swiftcheck/internal/runner"
)

// SuiteRunner runs cases and reports each result to its own sink.
type SuiteRunner interface {
	Run(ctx context.Context, cases []catalog.Case) []runner.CaseResult
}

type Handlers struct {
	Config    *config.RuntimeConfig
	Cases     []catalog.Case
	Suite     SuiteRunner
	Dashboard *dashboard.Dashboard
	// ActiveSessions reports open browser sessions; optional.
	ActiveSessions func() int

	// maxRuns bounds concurrent /run calls. Each run already uses up to
	// Workers sessions, so runs never overlap.
	maxRuns int32
	running atomic.Int32
}

func New(cfg *config.RuntimeConfig, cases []catalog.Case, s SuiteRunner, d *dashboard.Dashboard) *Handlers {
	return &Handlers{
		Config:    cfg,
		Cases:     cases,
		Suite:     s,
		Dashboard: d,
		maxRuns:   1,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux, doShutdown func()) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /help", h.HandleHelp)
	mux.HandleFunc("GET /metrics", h.HandleMetrics)
	mux.HandleFunc("GET /cases", h.HandleCases)
	mux.HandleFunc("POST /run", h.HandleRun)
	mux.HandleFunc("GET /reports/{name}", h.HandleReport)

	if h.Dashboard != nil {
		h.Dashboard.RegisterHandlers(mux)
		mux.HandleFunc("GET /results/ws", h.HandleResultStream)
	}

	if doShutdown != nil {
		mux.HandleFunc("POST /shutdown", h.HandleShutdown(doShutdown))
	}
}
