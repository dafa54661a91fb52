package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pinchtab/swiftcheck/internal/catalog"
	"github.com/pinchtab/swiftcheck/internal/report"
	"github.com/pinchtab/swiftcheck/internal/web"
)

// HandleCases lists the loaded catalog. ?filter=<regexp> narrows by ID.
func (h *Handlers) HandleCases(w http.ResponseWriter, r *http.Request) {
	cases := h.Cases
	if f := r.URL.Query().Get("filter"); f != "" {
		var err error
		if cases, err = catalog.Filter(cases, f); err != nil {
			web.ErrorCode(w, 400, "bad_filter", err.Error(), false, nil)
			return
		}
	}
	if cases == nil {
		cases = []catalog.Case{}
	}
	positive := 0
	for _, c := range cases {
		if c.Positive() {
			positive++
		}
	}
	web.JSON(w, 200, map[string]any{
		"count":    len(cases),
		"positive": positive,
		"negative": len(cases) - positive,
		"cases":    cases,
	})
}

type runRequest struct {
	ID     string   `json:"id,omitempty"`
	Input  *string  `json:"input,omitempty"`
	IDs    []string `json:"ids,omitempty"`
	Filter string   `json:"filter,omitempty"`
}

var errEmptyRun = errors.New("request must name an id with input, ids, or a filter")

// resolve turns a run request into the cases to execute. An id with input is
// an ad-hoc case; ids and filter select from the catalog.
func (h *Handlers) resolve(req runRequest) ([]catalog.Case, error) {
	switch {
	case req.Input != nil:
		if !catalog.ValidID(req.ID) {
			return nil, fmt.Errorf("invalid case id %q", req.ID)
		}
		return []catalog.Case{{ID: req.ID, Input: *req.Input}}, nil
	case req.ID != "":
		return catalog.Lookup(h.Cases, req.ID)
	case len(req.IDs) > 0:
		return catalog.Lookup(h.Cases, req.IDs...)
	case req.Filter != "":
		cases, err := catalog.Filter(h.Cases, req.Filter)
		if err != nil {
			return nil, err
		}
		if len(cases) == 0 {
			return nil, fmt.Errorf("filter %q matches no cases", req.Filter)
		}
		return cases, nil
	default:
		return nil, errEmptyRun
	}
}

// HandleRun executes the requested cases synchronously and returns their
// results. Results also reach the dashboard as they finish.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.ErrorCode(w, 400, "bad_request", err.Error(), false, nil)
		return
	}
	cases, err := h.resolve(req)
	if err != nil {
		web.ErrorCode(w, 400, "bad_request", err.Error(), false, nil)
		return
	}

	if n := h.running.Add(1); n > h.maxRuns {
		h.running.Add(-1)
		web.ErrorCode(w, 409, "busy", "too many runs in progress", true, map[string]any{"max": h.maxRuns})
		return
	}
	defer h.running.Add(-1)

	results := h.Suite.Run(r.Context(), cases)
	recordRun(results)

	summary := report.Summarize(results)
	web.JSON(w, 200, map[string]any{"summary": summary, "results": results})
}
