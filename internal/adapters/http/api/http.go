// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/okian/eywa/internal/adapters/mq/feed"
	"github.com/okian/eywa/internal/domain/layout"
	"github.com/okian/eywa/internal/domain/model"
	"github.com/okian/eywa/pkg/logger"
)

const (
	defaultHeartbeat = 15 * time.Second
	corsMaxAge       = 300
)

// Dependencies required by HTTP handlers. Handlers only read state; the
// single write path is Join, which never touches the event list.
type Dependencies interface {
	Snapshot(ctx context.Context) model.Snapshot
	Stats(ctx context.Context) model.Stats
	Leads(ctx context.Context) []model.Event
	// Lead returns repository.ErrNotFound for unknown ids.
	Lead(ctx context.Context, id int) (model.Event, error)
	Markers(ctx context.Context) []layout.Marker

	Subscribe(ctx context.Context) (*feed.Subscription, error)
	Unsubscribe(id string)

	Join(ctx context.Context, req model.JoinRequest) (model.JoinResult, error)
}

// Server wires HTTP routes for the landing page API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	leadsHandler  *LeadsHandler
	treeHandler   *TreeHandler
	streamHandler *StreamHandler
	joinHandler   *JoinHandler

	allowedOrigins []string
	heartbeat      time.Duration
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowedOrigins: []string{"*"},
		heartbeat:      defaultHeartbeat,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps, statsProvider)
	s.leadsHandler = NewLeadsHandler(deps)
	s.treeHandler = NewTreeHandler(deps)
	s.streamHandler = NewStreamHandler(deps, s.heartbeat, s.logger.Named("stream"))
	s.joinHandler = NewJoinHandler(deps, s.logger.Named("join"))
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID"},
			MaxAge:         corsMaxAge,
		}))

		r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
		r.Get("/status", MetricsMiddleware(s.statsHandler.HandleStatus, "status"))
		r.Get("/leads", MetricsMiddleware(s.leadsHandler.HandleList, "leads"))
		r.Get("/leads/{id}", MetricsMiddleware(s.leadsHandler.HandleGet, "lead"))
		r.Get("/tree", MetricsMiddleware(s.treeHandler.HandleTree, "tree"))
		r.Get("/stream", MetricsMiddleware(s.streamHandler.HandleStream, "stream"))
		r.Post("/join", MetricsMiddleware(s.joinHandler.HandleJoin, "join"))
	})
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
