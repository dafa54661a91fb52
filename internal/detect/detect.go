// Package detect waits for rendered output to show a target script.
//
// The page's update pipeline is opaque (debounced key handlers, network
// round trips, framework re-renders), so detection polls the output text on a
// fixed interval instead of subscribing to DOM events.
package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Sampler returns the current rendered text of an output scope.
type Sampler func(ctx context.Context) (string, error)

// Script is a contiguous Unicode block whose presence marks transliterated output.
type Script struct {
	Name string
	Lo   rune
	Hi   rune
}

// Sinhala covers the full Sinhala block, including unassigned code points.
var Sinhala = Script{Name: "Sinhala", Lo: 0x0D80, Hi: 0x0DFF}

// Contains reports whether s holds at least one code point of the script.
func (sc Script) Contains(s string) bool {
	for _, r := range s {
		if r >= sc.Lo && r <= sc.Hi {
			return true
		}
	}
	return false
}

// Count returns the number of code points of s inside the script block.
func (sc Script) Count(s string) int {
	n := 0
	for _, r := range s {
		if r >= sc.Lo && r <= sc.Hi {
			n++
		}
	}
	return n
}

func (sc Script) String() string {
	return fmt.Sprintf("%s [U+%04X-U+%04X]", sc.Name, sc.Lo, sc.Hi)
}

// TimeoutError means the predicate never held before the deadline.
type TimeoutError struct {
	Deadline   time.Duration
	Script     Script
	Samples    int
	LastSample string
	LastErr    error
	// Unchanged is set when script text was present but identical to the baseline.
	Unchanged bool
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("no %s output after %v (%d samples)", e.Script.Name, e.Deadline, e.Samples)
	if e.Unchanged {
		msg += ": output did not change from baseline"
	}
	if e.LastErr != nil {
		msg += ": last sample error: " + e.LastErr.Error()
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// Detector polls a Sampler until the script appears or Deadline elapses.
type Detector struct {
	Interval time.Duration
	Deadline time.Duration
	Script   Script

	// RequireChange additionally requires the sample to differ from Baseline.
	RequireChange bool
	Baseline      string
}

func New(interval, deadline time.Duration) *Detector {
	return &Detector{Interval: interval, Deadline: deadline, Script: Sinhala}
}

// WithBaseline returns a copy of d that also requires output to differ from baseline.
func (d *Detector) WithBaseline(baseline string) *Detector {
	c := *d
	c.RequireChange = true
	c.Baseline = baseline
	return &c
}

// Await samples immediately and then every Interval. It returns the first
// sample satisfying the predicate, a *TimeoutError once Deadline passes, or
// the parent context's error if that ends first. Sampling errors count as
// "not yet" and never end the wait early.
func (d *Detector) Await(ctx context.Context, sample Sampler) (string, error) {
	te := &TimeoutError{Deadline: d.Deadline, Script: d.Script}
	var out string

	err := Poll(ctx, d.Interval, d.Deadline, func(ctx context.Context) (bool, error) {
		te.Samples++
		text, err := sample(ctx)
		if err != nil {
			te.LastErr = err
			return false, nil
		}
		te.LastSample = text
		te.LastErr = nil
		if !d.Script.Contains(text) {
			te.Unchanged = false
			return false, nil
		}
		if d.RequireChange && text == d.Baseline {
			te.Unchanged = true
			return false, nil
		}
		te.Unchanged = false
		out = text
		return true, nil
	})
	switch {
	case err == nil:
		slog.Debug("script detected", "script", d.Script.Name, "samples", te.Samples, "chars", d.Script.Count(out))
		return out, nil
	case IsDeadline(err):
		return "", te
	default:
		return "", err
	}
}

var errDeadline = errors.New("poll deadline exceeded")

// Poll runs check immediately and then every interval until it reports true,
// returns an error, or deadline elapses. The check receives a context bounded
// by the deadline so a hung sample cannot outlive it.
func Poll(ctx context.Context, interval, deadline time.Duration, check func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", interval)
	}
	pctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := check(pctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-pctx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errDeadline
		case <-ticker.C:
		}
	}
}

// IsDeadline reports whether err came from Poll running out of time.
func IsDeadline(err error) bool {
	return err == errDeadline
}
