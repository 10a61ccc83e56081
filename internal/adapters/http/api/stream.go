package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/eywa/internal/adapters/mq/feed"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/logger"
)

// Server-sent event names.
const (
	EventSnapshot = "snapshot"
	EventUpdate   = "update"
)

// StreamDependencies defines the interface for the live update feed.
type StreamDependencies interface {
	Snapshot(ctx context.Context) model.Snapshot
	Subscribe(ctx context.Context) (*feed.Subscription, error)
	Unsubscribe(id string)
}

// StreamHandler serves the live update feed as server-sent events.
type StreamHandler struct {
	deps      StreamDependencies
	heartbeat time.Duration
	logger    logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps StreamDependencies, heartbeat time.Duration, l logger.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if l == nil {
		l = logger.Nop()
	}
	return &StreamHandler{deps: deps, heartbeat: heartbeat, logger: l}
}

// HandleStream handles GET /api/stream requests. The client first receives a
// snapshot event with the full list and stats, then one update event per
// appended event. Updates already covered by the snapshot carry ids the
// client has seen and can be skipped.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", NewKind(op, ErrStreaming))
		return
	}

	ctx := r.Context()
	sub, err := h.deps.Subscribe(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
		return
	}
	defer h.deps.Unsubscribe(sub.ID())

	// Streams outlive the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, EventSnapshot, "", h.deps.Snapshot(ctx)); err != nil {
		h.logger.Debug(ctx, "stream write failed", logger.Error(err))
		return
	}
	flusher.Flush()

	h.logger.Debug(ctx, "stream opened", logger.String("subscription", sub.ID()))
	defer h.logger.Debug(ctx, "stream closed", logger.String("subscription", sub.ID()))

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := writeEvent(w, EventUpdate, strconv.Itoa(u.Event.ID), u); err != nil {
				h.logger.Debug(ctx, "stream write failed", logger.Error(err))
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	if id != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", id); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
