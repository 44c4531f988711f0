// internal/api/handler/web/dashboard.go
package web

import (
	"net/http"
	"time"

	"github.com/newthinker/pricedash/internal/layout"
)

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title       string
	Ready       bool
	Message     string
	Sequence    uint64
	GeneratedAt time.Time
	Summary     layout.Summary
	Charts      []layout.Layout
	Failed      []string
	StreamPath  string
	PollSeconds int
}

// ChartData holds data for the single chart page
type ChartData struct {
	Title       string
	Chart       layout.Layout
	GeneratedAt time.Time
}

// Dashboard renders the dashboard page
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "dashboard.html", "layout.html", h.dashboardData())
}

// Charts renders only the chart grid, for in-place updates.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "dashboard.html", "charts", h.dashboardData())
}

// Chart renders a single chart page
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.source.Latest()
	if !ok {
		http.Error(w, layout.MsgWaiting, http.StatusNotFound)
		return
	}

	l, ok := snap.Chart(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	title := l.Title
	if title == "" {
		title = l.Chart
	}
	h.render(w, http.StatusOK, "chart.html", "layout.html", ChartData{
		Title:       title,
		Chart:       l,
		GeneratedAt: snap.GeneratedAt,
	})
}

func (h *Handler) dashboardData() DashboardData {
	data := DashboardData{
		Title:       "Dashboard",
		Message:     layout.MsgWaiting,
		StreamPath:  h.opts.StreamPath,
		PollSeconds: h.opts.PollSeconds,
	}

	snap, ok := h.source.Latest()
	if !ok {
		return data
	}

	data.Ready = true
	data.Message = ""
	data.Sequence = snap.Sequence
	data.GeneratedAt = snap.GeneratedAt
	data.Summary = snap.Summary
	data.Charts = snap.Charts
	data.Failed = snap.Failed
	return data
}
