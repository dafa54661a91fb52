// Package dashboard keeps the latest result per case and streams new ones to
// connected clients.
package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/pinchtab/swiftcheck/internal/report"
	"github.com/pinchtab/swiftcheck/internal/runner"
	"github.com/pinchtab/swiftcheck/internal/web"
)

type DashboardConfig struct {
	// BufferSize is the per-subscriber queue; slow subscribers miss results.
	BufferSize int
	Keepalive  time.Duration
}

// Dashboard is a runner.Sink. It never blocks the emitter.
type Dashboard struct {
	cfg    DashboardConfig
	latest map[string]runner.CaseResult
	runs   int
	subs   map[chan runner.CaseResult]struct{}
	mu     sync.RWMutex
}

func NewDashboard(cfg *DashboardConfig) *Dashboard {
	c := DashboardConfig{
		BufferSize: 64,
		Keepalive:  30 * time.Second,
	}
	if cfg != nil {
		if cfg.BufferSize > 0 {
			c.BufferSize = cfg.BufferSize
		}
		if cfg.Keepalive > 0 {
			c.Keepalive = cfg.Keepalive
		}
	}
	return &Dashboard{
		cfg:    c,
		latest: make(map[string]runner.CaseResult),
		subs:   make(map[chan runner.CaseResult]struct{}),
	}
}

func (d *Dashboard) Emit(res runner.CaseResult) {
	d.mu.Lock()
	d.latest[res.CaseID] = res
	d.runs++

	chans := make([]chan runner.CaseResult, 0, len(d.subs))
	for ch := range d.subs {
		chans = append(chans, ch)
	}
	d.mu.Unlock()

	for _, ch := range chans {
		select {
		case ch <- res:
		default:
		}
	}
}

// Results returns the latest result of every case seen, sorted by case ID.
func (d *Dashboard) Results() []runner.CaseResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]runner.CaseResult, 0, len(d.latest))
	for _, r := range d.latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out
}

// Subscribe registers a result queue. The returned func unregisters it.
func (d *Dashboard) Subscribe() (<-chan runner.CaseResult, func()) {
	ch := make(chan runner.CaseResult, d.cfg.BufferSize)
	d.mu.Lock()
	d.subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, ch)
			d.mu.Unlock()
		})
	}
}

func (d *Dashboard) Subscribers() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subs)
}

func (d *Dashboard) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /results", d.handleResults)
	mux.HandleFunc("GET /results/events", d.handleSSE)
}

type resultsResponse struct {
	Runs    int                 `json:"runs"`
	Summary report.Summary      `json:"summary"`
	Results []runner.CaseResult `json:"results"`
}

func (d *Dashboard) handleResults(w http.ResponseWriter, r *http.Request) {
	results := d.Results()
	d.mu.RLock()
	runs := d.runs
	d.mu.RUnlock()
	web.JSON(w, 200, resultsResponse{Runs: runs, Summary: report.Summarize(results), Results: results})
}

func (d *Dashboard) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := d.Subscribe()
	defer unsubscribe()

	data, _ := json.Marshal(d.Results())
	_, _ = fmt.Fprintf(w, "event: init\ndata: %s\n\n", data)
	flusher.Flush()

	keepalive := time.NewTicker(d.cfg.Keepalive)
	defer keepalive.Stop()

	for {
		select {
		case res := <-ch:
			data, _ := json.Marshal(res)
			_, _ = fmt.Fprintf(w, "event: result\ndata: %s\n\n", data)
			flusher.Flush()
		case <-keepalive.C:
			_, _ = fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
