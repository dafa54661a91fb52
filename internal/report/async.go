// Package report collects case results and renders them for people and files.
package report

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pinchtab/swiftcheck/internal/runner"
)

// Async decouples the runner from slow outputs. Emit never blocks: results
// go through a buffered channel drained by one goroutine, and are dropped
// (and counted) when the buffer is full.
type Async struct {
	ch      chan runner.CaseResult
	sinks   []runner.Sink
	dropped atomic.Int64
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsync starts the drain goroutine. buf should be at least the number of
// cases expected in flight; values below 1 are raised to 1.
func NewAsync(buf int, sinks ...runner.Sink) *Async {
	if buf < 1 {
		buf = 1
	}
	a := &Async{
		ch:    make(chan runner.CaseResult, buf),
		sinks: sinks,
		done:  make(chan struct{}),
	}
	go a.drain()
	return a
}

func (a *Async) drain() {
	defer close(a.done)
	for res := range a.ch {
		for _, s := range a.sinks {
			s.Emit(res)
		}
	}
}

func (a *Async) Emit(res runner.CaseResult) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.ch <- res:
	default:
		n := a.dropped.Add(1)
		slog.Warn("report buffer full, result dropped", "id", res.CaseID, "dropped", n)
	}
}

// Dropped returns how many results never reached the downstream sinks.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting results and waits until the buffer is drained.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.ch)
	}
	a.mu.Unlock()
	<-a.done
}
