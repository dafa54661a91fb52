package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const streamPingInterval = 10 * time.Second

// HandleResultStream upgrades to WebSocket, sends the current results as one
// JSON array and then every new result as its own text frame.
func (h *Handlers) HandleResultStream(w http.ResponseWriter, r *http.Request) {
	ch, unsubscribe := h.Dashboard.Subscribe()
	defer unsubscribe()

	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		slog.Error("ws upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	initial, _ := json.Marshal(h.Dashboard.Results())
	if err := wsutil.WriteServerText(conn, initial); err != nil {
		return
	}

	var once sync.Once
	done := make(chan struct{})
	go func() {
		for {
			if _, _, err := wsutil.ReadClientData(conn); err != nil {
				once.Do(func() { close(done) })
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case res := <-ch:
			data, err := json.Marshal(res)
			if err != nil {
				continue
			}
			if err := wsutil.WriteServerText(conn, data); err != nil {
				return
			}
		case <-ping.C:
			if err := wsutil.WriteServerMessage(conn, ws.OpPing, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
