// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/rankvote/internal/app"
	"github.com/okian/rankvote/internal/domain/tally"
)

const defaultMaxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Run validates and tallies one election.
	Run(ctx context.Context, req service.Request) (service.Outcome, error)

	// DefaultMethods lists the methods run when a request names none.
	DefaultMethods() []tally.Method
}

// Server wires HTTP routes for the tally API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	tallyHandler   *TallyHandler
	methodsHandler *MethodsHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps the size of a POST /tally body.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.tallyHandler.maxBody = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		tallyHandler:   NewTallyHandler(deps),
		methodsHandler: NewMethodsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/methods", MetricsMiddleware(s.methodsHandler.HandleGetMethods, "methods"))
	mux.HandleFunc("/tally", MetricsMiddleware(s.tallyHandler.HandlePostTally, "tally"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
