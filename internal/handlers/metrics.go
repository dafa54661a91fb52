package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/pinchtab/swiftcheck/internal/runner"
	"github.com/pinchtab/swiftcheck/internal/web"
)

var (
	metricCasesRun     uint64
	metricCasesPassed  uint64
	metricCasesFailed  uint64
	metricCasesErrored uint64
)

func recordRun(results []runner.CaseResult) {
	for _, r := range results {
		atomic.AddUint64(&metricCasesRun, 1)
		switch r.Status {
		case runner.StatusPassed:
			atomic.AddUint64(&metricCasesPassed, 1)
		case runner.StatusFailed:
			atomic.AddUint64(&metricCasesFailed, 1)
		default:
			atomic.AddUint64(&metricCasesErrored, 1)
		}
	}
}

func snapshotMetrics() map[string]any {
	total := atomic.LoadUint64(&metricRequestsTotal)
	latencySum := atomic.LoadUint64(&metricRequestLatencyN)
	avgMs := 0.0
	if total > 0 {
		avgMs = float64(latencySum) / float64(total)
	}
	return map[string]any{
		"requestsTotal":  total,
		"requestsFailed": atomic.LoadUint64(&metricRequestsFailed),
		"avgLatencyMs":   avgMs,
		"rateLimited":    atomic.LoadUint64(&metricRateLimited),
		"casesRun":       atomic.LoadUint64(&metricCasesRun),
		"casesPassed":    atomic.LoadUint64(&metricCasesPassed),
		"casesFailed":    atomic.LoadUint64(&metricCasesFailed),
		"casesErrored":   atomic.LoadUint64(&metricCasesErrored),
	}
}

func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, 200, snapshotMetrics())
}
