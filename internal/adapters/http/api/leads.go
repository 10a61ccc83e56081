package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/eywa/internal/adapters/repository"
	"github.com/okian/eywa/internal/domain/layout"
	"github.com/okian/eywa/internal/domain/model"
)

// LeadsDependencies defines the interface for reading events.
type LeadsDependencies interface {
	Leads(ctx context.Context) []model.Event
	Lead(ctx context.Context, id int) (model.Event, error)
}

// LeadsHandler handles lead list and lead popup requests.
type LeadsHandler struct {
	deps LeadsDependencies
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(deps LeadsDependencies) *LeadsHandler {
	return &LeadsHandler{deps: deps}
}

type leadResponse struct {
	Event model.Event  `json:"event"`
	Popup layout.Popup `json:"popup"`
}

// HandleList handles GET /api/leads requests.
func (h *LeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads := h.deps.Leads(r.Context())
	if leads == nil {
		leads = []model.Event{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// HandleGet handles GET /api/leads/{id} requests.
func (h *LeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_lead"
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	e, err := h.deps.Lead(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, leadResponse{Event: e, Popup: layout.PopupFor(e)})
}
