package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pinchtab/swiftcheck/internal/bridge"
	"github.com/pinchtab/swiftcheck/internal/config"
	"github.com/pinchtab/swiftcheck/internal/dashboard"
	"github.com/pinchtab/swiftcheck/internal/handlers"
	"github.com/pinchtab/swiftcheck/internal/runner"
)

const (
	rateLimitMax    = 60
	rateLimitWindow = time.Minute
)

// newServer wires the HTTP API around a suite. Results of every run reach
// the dashboard, which backs /results and both live streams.
func newServer(cfg *config.RuntimeConfig, h *handlers.Handlers, doShutdown func()) *http.Server {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, doShutdown)

	handler := handlers.RequestIDMiddleware(
		handlers.LoggingMiddleware(
			handlers.CorsMiddleware(
				handlers.RateLimitMiddleware(rateLimitMax, rateLimitWindow,
					handlers.AuthMiddleware(cfg, mux)))))

	return &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func serveCommand(cfg *config.RuntimeConfig, args []string) int {
	sel, err := parseFlags("serve", cfg, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 2
	}
	cases, err := selectCases(cfg, sel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := bridge.New(cfg)
	dash := dashboard.NewDashboard(nil)
	suite := &runner.Suite{
		Provisioner: runner.FromBridge(b),
		Runner:      runner.New(cfg),
		Workers:     cfg.Workers,
		Sink:        dash,
	}
	h := handlers.New(cfg, cases, suite, dash)
	h.ActiveSessions = b.Active

	shutdownOnce := &sync.Once{}
	doShutdown := func() {
		shutdownOnce.Do(func() {
			slog.Info("shutting down")
			stop()
		})
	}
	srv := newServer(cfg, h, doShutdown)

	slog.Info("swiftcheck serving", "addr", srv.Addr, "target", cfg.TargetURL, "cases", len(cases))
	if cfg.Token != "" {
		slog.Info("auth enabled")
	} else {
		slog.Info("auth disabled (set SWIFTCHECK_TOKEN to enable)")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	code := 0
	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server", "err", err)
			code = 1
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	b.Shutdown()
	return code
}
