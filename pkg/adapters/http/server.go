package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/action"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// State reads the engine state from outside the tick goroutine.
// *runner.Runner satisfies it.
type State interface {
	Snapshot() *domain.Snapshot
}

// Submitter queues an action to run between ticks.
type Submitter func(r *http.Request, a action.Action) error

// Server serves the bench API.
type Server struct {
	Board    ports.SignalBoard
	State    State
	Bindings []cadence.BindingInfo
	Streams  *StreamManager

	actions map[string]action.Action
	submit  Submitter
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithActions exposes actions by name at POST /actions/{name}.
func WithActions(submit Submitter, actions map[string]action.Action) Option {
	return func(s *Server) {
		s.submit = submit
		s.actions = actions
	}
}

// WithStreams shares a StreamManager, typically one the runner publishes to.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewServer creates a server over board and state.
func NewServer(board ports.SignalBoard, state State, bindings []cadence.BindingInfo, opts ...Option) *Server {
	s := &Server{
		Board:    board,
		State:    state,
		Bindings: bindings,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/flags", s.GetFlags)
	r.Get("/bindings", s.GetBindings)
	r.Route("/signals", func(r chi.Router) {
		r.Get("/", s.GetSignals)
		r.Put("/{name}", s.PutSignal)
		r.Post("/{name}/pulse", s.PulseSignal)
	})
	r.Get("/actions", s.GetActions)
	r.Post("/actions/{name}", s.PostAction)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFlags handles GET /flags.
func (s *Server) GetFlags(w http.ResponseWriter, r *http.Request) {
	snap := s.State.Snapshot()
	if snap == nil {
		http.Error(w, "no tick yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GetBindings handles GET /bindings.
func (s *Server) GetBindings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Bindings)
}

// GetSignals handles GET /signals.
func (s *Server) GetSignals(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Board.Signals())
}

type signalBody struct {
	Value *bool `json:"value"`
}

// PutSignal handles PUT /signals/{name}.
func (s *Server) PutSignal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var body signalBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Value == nil {
		http.Error(w, `body must be {"value": true|false}`, http.StatusBadRequest)
		return
	}
	if err := s.Board.Set(name, *body.Value); err != nil {
		s.signalError(w, name, err)
		return
	}
	s.logger.Debug("signal set", "signal", name, "value", *body.Value)
	w.WriteHeader(http.StatusNoContent)
}

// PulseSignal handles POST /signals/{name}/pulse.
func (s *Server) PulseSignal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Board.Pulse(name); err != nil {
		s.signalError(w, name, err)
		return
	}
	s.logger.Debug("signal pulsed", "signal", name)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) signalError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, domain.ErrUnknownSignal) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("signal write failed", "signal", name, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// GetActions handles GET /actions.
func (s *Server) GetActions(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	s.writeJSON(w, http.StatusOK, names)
}

// PostAction handles POST /actions/{name}.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	a, ok := s.actions[name]
	if !ok || s.submit == nil {
		http.Error(w, fmt.Sprintf("unknown action %q", name), http.StatusNotFound)
		return
	}
	if err := s.submit(r, a); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.logger.Info("action submitted", "action", name)
	w.WriteHeader(http.StatusAccepted)
}

// SubscribeEvents handles GET /events (SSE). Every message is a JSON flag diff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
