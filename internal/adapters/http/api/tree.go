package api

import (
	"context"
	"net/http"

	"github.com/okian/eywa/internal/domain/layout"
)

// TreeDependencies defines the interface for reading tree markers.
type TreeDependencies interface {
	Markers(ctx context.Context) []layout.Marker
}

// TreeHandler handles tree marker requests.
type TreeHandler struct {
	deps TreeDependencies
}

// NewTreeHandler creates a new tree handler.
func NewTreeHandler(deps TreeDependencies) *TreeHandler {
	return &TreeHandler{deps: deps}
}

type treeResponse struct {
	Slots   int             `json:"slots"`
	Markers []layout.Marker `json:"markers"`
}

// HandleTree handles GET /api/tree requests.
func (h *TreeHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	markers := h.deps.Markers(r.Context())
	if markers == nil {
		markers = []layout.Marker{}
	}
	writeJSON(w, http.StatusOK, treeResponse{Slots: layout.Slots(), Markers: markers})
}
