package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/newthinker/pricedash/internal/api/response"
	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/layout"
	"github.com/newthinker/pricedash/internal/metrics"
)

// MaxDatasetBytes bounds a posted dataset.
const MaxDatasetBytes = 1 << 20

// LayoutsHandler composes layouts from posted datasets.
type LayoutsHandler struct {
	registry *layout.Registry
	metrics  *metrics.Registry
}

// NewLayoutsHandler creates a new layouts handler. reg may be nil.
func NewLayoutsHandler(registry *layout.Registry, reg *metrics.Registry) *LayoutsHandler {
	return &LayoutsHandler{registry: registry, metrics: reg}
}

// List returns the available chart archetypes.
func (h *LayoutsHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"archetypes": h.registry.Names(),
	})
}

// Compose decodes the request body as the archetype's dataset and returns
// the composed layout. Mismatched field types default to empty values and
// yield a placeholder; only malformed JSON is rejected.
func (h *LayoutsHandler) Compose(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDatasetBytes))
	if err != nil {
		response.Fail(w, core.WrapError(core.ErrInvalidDataset, err))
		return
	}

	l, err := h.registry.Compose(r.PathValue("archetype"), raw)
	if err != nil {
		response.Fail(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLayout(l.Chart, string(l.Kind))
	}
	writeLayout(w, r, l)
}

func errUnknown(name string) error {
	return fmt.Errorf("no chart named %q", name)
}
