// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/NicolasThaddeusL/cccup-ai/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Chat resolves one conversation to an answer.
	Chat(ctx context.Context, messages []service.Message) (string, error)

	// Reload re-runs the bundle loader and reports the indexed sports.
	Reload(ctx context.Context) ([]string, error)

	// Health reports load state for introspection.
	Health(ctx context.Context) service.HealthInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	metricsHandler *MetricsHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	chatHandler    *ChatHandler
	reloadHandler  *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		metricsHandler: NewMetricsHandler(),
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(statsProvider),
		chatHandler:    NewChatHandler(deps),
		reloadHandler:  NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.metricsHandler.HandleMetrics, "healthz"))
	mux.HandleFunc("/health", MetricsMiddleware(CORSMiddleware(s.healthHandler.HandleHealth), "health"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/chat/completions", MetricsMiddleware(CORSMiddleware(s.chatHandler.HandleChat), "chat"))
	mux.HandleFunc("/v1/reload", MetricsMiddleware(CORSMiddleware(s.reloadHandler.HandleReload), "reload"))
}

// chatRequest mirrors the OpenAPI schema for POST /v1/chat/completions.
type chatRequest struct {
	Messages []service.Message `json:"messages"`
}

func (c chatRequest) validate() error {
	if len(c.Messages) == 0 {
		return ErrNoMessages
	}
	return nil
}

type chatResponse struct {
	Content string `json:"content"`
}

type reloadResponse struct {
	OK            bool     `json:"ok"`
	SportsIndexed []string `json:"sports_indexed"`
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
