package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/pinchtab/swiftcheck/internal/detect"
)

const defaultLocateInterval = 250 * time.Millisecond

func (s *Session) locateInterval() time.Duration {
	if s.cfg.PollInterval > 0 {
		return s.cfg.PollInterval
	}
	return defaultLocateInterval
}

// InputHandle is the editable field text is injected into.
type InputHandle struct {
	s      *Session
	NodeID int64
	Name   string
}

// OutputScope is the region whose rendered text is sampled for output.
type OutputScope struct {
	s *Session
}

// LocateInput waits up to ActionTimeout for the first visible, editable
// element with the configured role.
func (s *Session) LocateInput(ctx context.Context) (*InputHandle, error) {
	role := s.cfg.InputRole
	var (
		found   *A11yNode
		last    []RawAXNode
		lastErr error
	)

	lctx, done := s.scope(ctx, 0)
	defer done()

	err := detect.Poll(lctx, s.locateInterval(), s.cfg.ActionTimeout, func(pctx context.Context) (bool, error) {
		nodes, err := FetchAXTree(pctx)
		if err != nil {
			lastErr = err
			return false, nil
		}
		last = nodes
		for _, cand := range FindByRole(nodes, role) {
			visible, err := nodeVisible(pctx, cand.NodeID)
			if err != nil {
				lastErr = err
				continue
			}
			if visible {
				c := cand
				found = &c
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		if !detect.IsDeadline(err) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		snap := BuildSnapshot(last)
		slog.Debug("input not found", "session", s.ID, "role", role, "page", FormatSnapshotText(snap))
		return nil, &ElementNotFoundError{
			Role:   role,
			Waited: s.cfg.ActionTimeout,
			Seen:   RoleSummary(snap),
			Err:    lastErr,
		}
	}

	slog.Debug("input located", "session", s.ID, "role", role, "name", found.Name, "node", found.NodeID)
	return &InputHandle{s: s, NodeID: found.NodeID, Name: found.Name}, nil
}

// LocateOutputScope waits for the document body to be rendered and visible.
func (s *Session) LocateOutputScope(ctx context.Context) (*OutputScope, error) {
	var lastErr error
	lctx, done := s.scope(ctx, 0)
	defer done()

	err := detect.Poll(lctx, s.locateInterval(), s.cfg.ActionTimeout, func(pctx context.Context) (bool, error) {
		ok, err := BodyVisible(pctx)
		if err != nil {
			lastErr = err
			return false, nil
		}
		return ok, nil
	})
	if err != nil {
		if !detect.IsDeadline(err) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		return nil, &ElementNotFoundError{Role: "body", Waited: s.cfg.ActionTimeout, Err: lastErr}
	}
	return &OutputScope{s: s}, nil
}

// Text returns the rendered text of the scope.
func (o *OutputScope) Text(ctx context.Context) (string, error) {
	tctx, done := o.s.scope(ctx, o.s.cfg.ActionTimeout)
	defer done()
	return BodyText(tctx)
}

func nodeVisible(ctx context.Context, backendNodeID int64) (bool, error) {
	var box *dom.BoxModel
	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			box, err = dom.GetBoxModel().WithBackendNodeID(cdp.BackendNodeID(backendNodeID)).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return false, err
	}
	return box != nil && box.Width > 0 && box.Height > 0, nil
}
