// Package http exposes the planner as a JSON REST API with a server-sent
// event stream of session changes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/voyage"
	"github.com/aretw0/voyage/internal/logging"
	"github.com/aretw0/voyage/pkg/adapters/file"
	"github.com/aretw0/voyage/pkg/domain"
	"github.com/aretw0/voyage/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 64 << 10

// Engine is the part of voyage.Engine the API needs.
type Engine interface {
	Start(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)
	Advance(ctx context.Context, sessionID string, event domain.Event) (*voyage.Turn, error)
	View(ctx context.Context, sessionID string) (*domain.Session, []domain.Effect, error)
	Export(ctx context.Context, sessionID string) (string, string, error)
	End(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// Server holds the handlers of the REST API.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.StartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.EndSession)
			r.Post("/events", server.SendEvent)
			r.Get("/export", server.ExportPlan)
			r.Get("/stream", server.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartRequest is the optional body of POST /sessions.
type StartRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &body); err != nil {
			s.fail(w, r, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
			return
		}
	}

	sess, effects, err := s.Engine.Start(r.Context(), body.SessionID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, runner.NewRichResponse(sess, effects, nil))
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.respond(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, effects, err := s.Engine.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, runner.NewRichResponse(sess, effects, nil))
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendEvent handles POST /sessions/{id}/events.
// The response carries the new snapshot and the diff, which is also pushed
// to the session's SSE subscribers.
func (s *Server) SendEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var ev domain.Event
	if err := decode(w, r, &ev); err != nil {
		s.fail(w, r, fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err))
		return
	}

	ev, err := runner.SanitizeEvent(ev)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, err))
		return
	}

	turn, err := s.Engine.Advance(r.Context(), sessionID, ev)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	diff := turn.Diff()
	if diff != nil {
		if b, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(sessionID, string(b))
		}
	}
	s.respond(w, http.StatusOK, runner.NewRichResponse(turn.Session, turn.Effects, diff))
}

// ExportPlan handles GET /sessions/{id}/export.
func (s *Server) ExportPlan(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.Engine.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write([]byte(content))
}

// SubscribeEvents handles GET /sessions/{id}/stream (SSE).
// Each data line is a JSON session diff. An optional watch query
// (e.g. "state,messages") keeps only diffs touching those fields.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	if _, _, err := s.Engine.View(r.Context(), sessionID); err != nil {
		s.fail(w, r, err)
		return
	}

	var watch []string
	if q := r.URL.Query().Get("watch"); q != "" {
		watch = strings.Split(q, ",")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribed to session updates", "session_id", sessionID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: Client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watched(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// watched reports whether the JSON diff msg touches any of fields.
func watched(msg string, fields []string) bool {
	var diff domain.SessionDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "state":
			if diff.State != nil {
				return true
			}
		case "details":
			if len(diff.Details) > 0 || diff.QuestionIndex != nil {
				return true
			}
		case "candidates":
			if diff.Candidates != nil || diff.CandidatesReset || diff.SelectedDestination != nil {
				return true
			}
		case "messages":
			if diff.Messages != nil {
				return true
			}
		}
	}
	return false
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{
		"app":     "voyage-http",
		"version": strings.TrimSpace(voyage.Version),
	})
}

// -- Helpers --

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, file.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.respond(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
