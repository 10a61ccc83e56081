package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/logger"
)

const maxJoinBody = 4 << 10

// Join acknowledgement statuses.
const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

// JoinDependencies defines the interface for join-mission submissions.
type JoinDependencies interface {
	Join(ctx context.Context, req model.JoinRequest) (model.JoinResult, error)
}

// JoinHandler handles join-mission form submissions.
type JoinHandler struct {
	deps     JoinDependencies
	validate *validator.Validate
	logger   logger.Logger
}

// NewJoinHandler creates a new join handler.
func NewJoinHandler(deps JoinDependencies, l logger.Logger) *JoinHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &JoinHandler{deps: deps, validate: newValidator(), logger: l}
}

type joinResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandleJoin handles POST /api/join requests. A first submission is
// answered with 202, a repeated email with 200 and status "duplicate".
func (h *JoinHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	const op = "api.join"
	var req model.JoinRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJoinBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Code:    "invalid",
				Message: NewKind(op, ErrBadRequest).Error(),
				Fields:  validationFields(ve),
			})
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Join(r.Context(), req)
	if err != nil {
		h.logger.Error(r.Context(), "join failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, joinResponse{ID: res.ID, Status: StatusDuplicate, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, joinResponse{ID: res.ID, Status: StatusAccepted})
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationFields maps each failing field to the rule it broke.
func validationFields(ve validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
