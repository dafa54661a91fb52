package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/pinchtab/swiftcheck/internal/report"
	"github.com/pinchtab/swiftcheck/internal/web"
)

// HandleReport returns a stored result file from ResultsDir as JSON.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	if h.Config.ResultsDir == "" {
		web.ErrorCode(w, 404, "no_results_dir", "results are not written to disk", false, nil)
		return
	}
	path, err := web.SafePath(h.Config.ResultsDir, r.PathValue("name"))
	if err != nil {
		web.ErrorCode(w, 400, "bad_path", err.Error(), false, nil)
		return
	}
	run, err := report.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			web.ErrorCode(w, 404, "not_found", "no such report", false, nil)
			return
		}
		web.Error(w, 500, err)
		return
	}
	web.JSON(w, 200, run)
}
