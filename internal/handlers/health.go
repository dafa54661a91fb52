package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pinchtab/swiftcheck/internal/web"
)

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"target":  h.Config.TargetURL,
		"cases":   len(h.Cases),
		"running": h.running.Load(),
	}
	if h.Config.CdpURL != "" {
		resp["cdp"] = h.Config.CdpURL
	}
	if h.Dashboard != nil {
		resp["subscribers"] = h.Dashboard.Subscribers()
	}
	if h.ActiveSessions != nil {
		resp["sessions"] = h.ActiveSessions()
	}
	web.JSON(w, 200, resp)
}

func (h *Handlers) HandleShutdown(shutdownFn func()) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("shutdown requested via API")
		web.JSON(w, 200, map[string]any{"status": "shutting down"})

		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdownFn()
		}()
	}
}
