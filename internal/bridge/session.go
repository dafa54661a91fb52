package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/pinchtab/swiftcheck/internal/config"
)

// Session is one isolated browser context with a single page on the target.
// Nothing (cookies, storage, cache) is shared between sessions.
type Session struct {
	ID  string
	URL string

	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.RuntimeConfig
	closeOnce sync.Once
	closeErr  error
	onClose   func(id string)
}

// scope derives a context from the session that also ends when caller does.
// Every CDP call has to run on a session-derived context; the caller's
// context only contributes cancellation.
func (s *Session) scope(caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Close disposes the browser context. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.ctx); err != nil && err != context.Canceled {
			s.closeErr = fmt.Errorf("close session %s: %w", s.ID, err)
		}
		s.cancel()
		if s.onClose != nil {
			s.onClose(s.ID)
		}
		slog.Debug("session closed", "id", s.ID)
	})
	return s.closeErr
}

// SessionManager tracks open sessions so shutdown can dispose them all.
type SessionManager struct {
	cfg      *config.RuntimeConfig
	sessions map[string]*Session
	mu       sync.Mutex
}

func NewSessionManager(cfg *config.RuntimeConfig) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Open creates a fresh browser context under browserCtx, applies page
// settings and navigates to the target. On any failure the context is
// disposed before returning.
func (sm *SessionManager) Open(ctx context.Context, browserCtx context.Context) (*Session, error) {
	if browserCtx == nil {
		return nil, fmt.Errorf("no browser connection")
	}

	sctx, cancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	s := &Session{
		ID:      "s_" + uuid.NewString()[:8],
		URL:     sm.cfg.TargetURL,
		ctx:     sctx,
		cancel:  cancel,
		cfg:     sm.cfg,
		onClose: sm.forget,
	}

	// The first Run allocates the target. A timeout on sctx itself would
	// close the page with it, so the bound cancels from outside instead.
	if err := runBounded(ctx, cancel, sm.cfg.NavigateTimeout, func() error { return chromedp.Run(sctx) }); err != nil {
		cancel()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("new session: %w", err)
	}

	sm.mu.Lock()
	sm.sessions[s.ID] = s
	sm.mu.Unlock()

	if err := sm.setup(ctx, s); err != nil {
		_ = s.Close()
		return nil, err
	}

	navCtx, done := s.scope(ctx, sm.cfg.NavigateTimeout)
	err := NavigatePage(navCtx, s.URL)
	done()
	if err != nil {
		_ = s.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NavigationError{URL: s.URL, Timeout: sm.cfg.NavigateTimeout, Err: err}
	}

	slog.Debug("session ready", "id", s.ID, "url", s.URL)
	return s, nil
}

var errStartTimeout = errors.New("browser did not create the page in time")

// runBounded runs fn and calls cancel if caller ends or timeout passes first.
// fn must return once cancel is called. A run that raced with cancel counts
// as failed, since the context it set up is gone.
func runBounded(caller context.Context, cancel context.CancelFunc, timeout time.Duration, fn func() error) error {
	stopCaller := context.AfterFunc(caller, cancel)
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, cancel)
	}

	err := fn()

	callerLive := stopCaller()
	timerLive := timer == nil || timer.Stop()
	switch {
	case !callerLive:
		return caller.Err()
	case !timerLive:
		return fmt.Errorf("%w after %v", errStartTimeout, timeout)
	}
	return err
}

func (sm *SessionManager) setup(ctx context.Context, s *Session) error {
	sctx, done := s.scope(ctx, sm.cfg.ActionTimeout)
	defer done()

	if err := SetViewport(sctx, sm.cfg.ViewportWidth, sm.cfg.ViewportHeight); err != nil {
		return fmt.Errorf("viewport: %w", err)
	}

	var blockPatterns []string
	if sm.cfg.BlockAds {
		blockPatterns = CombineBlockPatterns(blockPatterns, AdBlockPatterns)
	}
	if sm.cfg.BlockMedia {
		blockPatterns = CombineBlockPatterns(blockPatterns, MediaBlockPatterns)
	} else if sm.cfg.BlockImages {
		blockPatterns = CombineBlockPatterns(blockPatterns, ImageBlockPatterns)
	}
	if len(blockPatterns) > 0 {
		if err := SetResourceBlocking(sctx, blockPatterns); err != nil {
			slog.Warn("resource blocking failed", "id", s.ID, "err", err)
		}
	}

	if sm.cfg.NoAnimations {
		InjectNoAnimations(sctx)
	}
	return nil
}

func (sm *SessionManager) forget(id string) {
	sm.mu.Lock()
	delete(sm.sessions, id)
	sm.mu.Unlock()
}

// Active returns the number of sessions not yet closed.
func (sm *SessionManager) Active() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// CloseAll disposes every open session.
func (sm *SessionManager) CloseAll() {
	sm.mu.Lock()
	open := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		open = append(open, s)
	}
	sm.mu.Unlock()

	for _, s := range open {
		if err := s.Close(); err != nil {
			slog.Warn("close session", "id", s.ID, "err", err)
		}
	}
}
