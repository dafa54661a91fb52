// Package runner executes catalog cases against isolated browser sessions.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pinchtab/swiftcheck/internal/catalog"
	"github.com/pinchtab/swiftcheck/internal/config"
	"github.com/pinchtab/swiftcheck/internal/detect"
)

// Provisioner opens a fresh session already navigated to the target.
type Provisioner interface {
	Open(ctx context.Context) (Session, error)
}

// Session is one isolated page. Close must be safe to call more than once.
type Session interface {
	LocateInput(ctx context.Context) (Input, error)
	LocateOutputScope(ctx context.Context) (Output, error)
	Close() error
}

type Input interface {
	Clear(ctx context.Context) error
	Fill(ctx context.Context, text string) error
	Type(ctx context.Context, text string) error
}

type Output interface {
	Text(ctx context.Context) (string, error)
}

const (
	StatusPassed = "passed"
	StatusFailed = "failed"
	StatusError  = "error"
)

// CaseResult is what one case produced. Status is failed when the output
// never appeared and error when the harness itself broke.
type CaseResult struct {
	CaseID        string        `json:"id" yaml:"id"`
	Title         string        `json:"title,omitempty" yaml:"title,omitempty"`
	Input         string        `json:"input" yaml:"input"`
	OutputPreview string        `json:"outputPreview" yaml:"outputPreview"`
	Status        string        `json:"status" yaml:"status"`
	Err           string        `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorClass    string        `json:"errorClass,omitempty" yaml:"errorClass,omitempty"`
	Duration      time.Duration `json:"-" yaml:"-"`
	DurationMs    int64         `json:"durationMs" yaml:"durationMs"`
	StartedAt     time.Time     `json:"startedAt" yaml:"startedAt"`
}

func (r CaseResult) Passed() bool {
	return r.Status == StatusPassed
}

// Runner drives one case through clear, inject, detect and capture.
type Runner struct {
	Detector   *detect.Detector
	InputMode  string
	PreviewLen int
}

func New(cfg *config.RuntimeConfig) *Runner {
	d := detect.New(cfg.PollInterval, cfg.DetectTimeout)
	d.RequireChange = cfg.RequireChange
	return &Runner{
		Detector:   d,
		InputMode:  cfg.InputMode,
		PreviewLen: cfg.PreviewLen,
	}
}

// Run executes c on s. Any error is also recorded on the returned result.
// The session is left open; the caller owns it.
func (r *Runner) Run(ctx context.Context, s Session, c catalog.Case) (CaseResult, error) {
	res := CaseResult{CaseID: c.ID, Title: c.Title, Input: c.Input, StartedAt: time.Now()}
	preview, err := r.run(ctx, s, c)
	res.OutputPreview = preview
	r.finish(&res, err)
	return res, err
}

// RunCase opens a session for c, runs it and closes the session on every path.
func (r *Runner) RunCase(ctx context.Context, p Provisioner, c catalog.Case) (CaseResult, error) {
	res := CaseResult{CaseID: c.ID, Title: c.Title, Input: c.Input, StartedAt: time.Now()}

	s, err := p.Open(ctx)
	if err != nil {
		r.finish(&res, err)
		return res, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("close session", "case", c.ID, "err", cerr)
		}
	}()

	preview, err := r.run(ctx, s, c)
	res.OutputPreview = preview
	r.finish(&res, err)
	return res, err
}

func (r *Runner) run(ctx context.Context, s Session, c catalog.Case) (string, error) {
	in, err := s.LocateInput(ctx)
	if err != nil {
		return "", err
	}
	out, err := s.LocateOutputScope(ctx)
	if err != nil {
		return "", err
	}

	if !c.SkipClear {
		if err := in.Clear(ctx); err != nil {
			return "", fmt.Errorf("clear input: %w", err)
		}
	}

	det := r.Detector
	if det.RequireChange {
		baseline, err := out.Text(ctx)
		if err != nil {
			return "", fmt.Errorf("baseline: %w", err)
		}
		det = det.WithBaseline(baseline)
	}

	if err := r.inject(ctx, in, c.Input); err != nil {
		return "", fmt.Errorf("inject input: %w", err)
	}

	if _, err := det.Await(ctx, out.Text); err != nil {
		var (
			last string
			te   *detect.TimeoutError
		)
		if errors.As(err, &te) && !c.NoPreview {
			last = Preview(Normalize(te.LastSample), r.PreviewLen)
		}
		return last, err
	}

	if c.NoPreview {
		return "", nil
	}
	text, err := out.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read output: %w", err)
	}
	return Preview(Normalize(text), r.PreviewLen), nil
}

func (r *Runner) inject(ctx context.Context, in Input, text string) error {
	if r.InputMode == config.InputModeType {
		return in.Type(ctx, text)
	}
	return in.Fill(ctx, text)
}

func (r *Runner) finish(res *CaseResult, err error) {
	res.Duration = time.Since(res.StartedAt)
	res.DurationMs = res.Duration.Milliseconds()
	if err == nil {
		res.Status = StatusPassed
		slog.Info("case passed", "id", res.CaseID, "duration", res.Duration)
		return
	}
	res.Err = err.Error()
	res.ErrorClass = Classify(err)
	if res.ErrorClass == ClassTimeout {
		res.Status = StatusFailed
	} else {
		res.Status = StatusError
	}
	slog.Warn("case "+res.Status, "id", res.CaseID, "class", res.ErrorClass, "err", err, "duration", res.Duration)
}
