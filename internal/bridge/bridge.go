package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pinchtab/swiftcheck/internal/config"
	"golang.org/x/time/rate"
)

// Bridge owns one Chrome process and hands out isolated sessions on it.
type Bridge struct {
	AllocCtx      context.Context
	AllocCancel   context.CancelFunc
	BrowserCtx    context.Context
	BrowserCancel context.CancelFunc
	Config        *config.RuntimeConfig
	*SessionManager

	navLimiter *rate.Limiter

	// Lazy initialization
	initMu      sync.Mutex
	initialized bool
}

// New returns a Bridge that starts Chrome on first use.
func New(cfg *config.RuntimeConfig) *Bridge {
	b := &Bridge{
		Config:         cfg,
		SessionManager: NewSessionManager(cfg),
	}
	if cfg != nil && cfg.NavRate > 0 {
		burst := int(cfg.NavRate)
		if burst < 1 {
			burst = 1
		}
		b.navLimiter = rate.NewLimiter(rate.Limit(cfg.NavRate), burst)
	}
	return b
}

func (b *Bridge) EnsureChrome() error {
	b.initMu.Lock()
	defer b.initMu.Unlock()

	if b.initialized && b.BrowserCtx != nil {
		return nil
	}

	allocCtx, allocCancel, browserCtx, browserCancel, err := InitChrome(b.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize chrome: %w", err)
	}

	b.AllocCtx = allocCtx
	b.AllocCancel = allocCancel
	b.BrowserCtx = browserCtx
	b.BrowserCancel = browserCancel
	b.initialized = true
	return nil
}

// Open provisions a fresh session navigated to the configured target.
func (b *Bridge) Open(ctx context.Context) (*Session, error) {
	if err := b.EnsureChrome(); err != nil {
		return nil, err
	}
	if b.navLimiter != nil {
		if err := b.navLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("navigation throttle: %w", err)
		}
	}
	return b.SessionManager.Open(ctx, b.BrowserCtx)
}

// Shutdown closes every open session and then the browser.
func (b *Bridge) Shutdown() {
	b.CloseAll()

	b.initMu.Lock()
	defer b.initMu.Unlock()
	if b.BrowserCancel != nil {
		b.BrowserCancel()
	}
	if b.AllocCancel != nil {
		b.AllocCancel()
	}
	b.initialized = false
	b.BrowserCtx = nil
	slog.Info("chrome closed")
}
