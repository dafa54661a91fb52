package handlers

import (
	"net/http"

	"github.com/pinchtab/swiftcheck/internal/web"
)

func (h *Handlers) HandleHelp(wr http.ResponseWriter, _ *http.Request) {
	web.JSON(wr, 200, map[string]any{
		"name": "swiftcheck",
		"endpoints": map[string]any{
			"GET /health":         "health status",
			"GET /help":           "this help payload",
			"GET /metrics":        "request and case counters",
			"GET /cases":          "list catalog cases (filter=<regexp>)",
			"POST /run":           `run cases: {"id","input"} ad hoc, {"ids":[...]} or {"filter":"..."}`,
			"GET /results":        "latest result per case with a summary",
			"GET /results/events": "server-sent events stream of results",
			"GET /results/ws":     "WebSocket stream of results",
			"GET /reports/{name}": "a stored result file",
			"POST /shutdown":      "stop the server",
		},
		"notes": []string{
			"Use Authorization: Bearer <token> when SWIFTCHECK_TOKEN is set.",
			"A run returns after every requested case has finished.",
		},
	})
}
