package api

import (
	"context"
	"net/http"

	"github.com/newthinker/pricedash/internal/api/response"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/render"
)

// SnapshotSource provides and refreshes dashboard snapshots.
type SnapshotSource interface {
	Latest() (*dashboard.Snapshot, bool)
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
}

// DashboardHandler serves the latest dashboard snapshot.
type DashboardHandler struct {
	source SnapshotSource
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(source SnapshotSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

// Get returns the latest snapshot.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.source.Latest()
	if !ok {
		response.Fail(w, core.ErrNoSnapshot)
		return
	}
	response.JSON(w, http.StatusOK, snap)
}

// Summary returns the training summary of the latest snapshot.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.source.Latest()
	if !ok {
		response.Fail(w, core.ErrNoSnapshot)
		return
	}
	response.JSON(w, http.StatusOK, snap.Summary)
}

// Chart returns one chart of the latest snapshot. With ?format=svg the
// chart is rendered instead of returned as a layout.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.source.Latest()
	if !ok {
		response.Fail(w, core.ErrNoSnapshot)
		return
	}

	name := r.PathValue("name")
	l, ok := snap.Chart(name)
	if !ok {
		response.Fail(w, core.WrapError(core.ErrUnknownChart, errUnknown(name)))
		return
	}
	writeLayout(w, r, l)
}

// Refresh fetches the backend now and returns the new snapshot.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Refresh(r.Context())
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.JSON(w, http.StatusOK, snap)
}

func writeLayout(w http.ResponseWriter, r *http.Request, l layout.Layout) {
	if r.URL.Query().Get("format") == "svg" {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(render.SVG(l)))
		return
	}
	response.JSON(w, http.StatusOK, l)
}
