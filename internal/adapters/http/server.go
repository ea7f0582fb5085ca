package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TilepMony-Project/flowcore/internal/logging"
	"github.com/TilepMony-Project/flowcore/internal/metrics"
	"github.com/TilepMony-Project/flowcore/internal/xjson"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/execution"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

// Engine defines the compile/simulate surface the server exposes. The
// top-level flowcore.Engine satisfies it.
type Engine interface {
	Compile(g domain.WorkflowGraph, walletAddress string) (*domain.CompileResult, error)
	Simulate(ctx context.Context, g domain.WorkflowGraph, callerAddress string) (*domain.SimulationResult, error)
}

// Server exposes the workflow pipeline and execution tracking over HTTP.
type Server struct {
	engine    Engine
	workflows ports.WorkflowStore
	runs      *execution.Manager
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics attaches prometheus collectors; nil disables observation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer wires the handler set.
func NewServer(engine Engine, workflows ports.WorkflowStore, runs *execution.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		workflows: workflows,
		runs:      runs,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Put("/workflows/{id}", s.putWorkflow)
	r.Post("/workflows/{id}/compile", s.compileWorkflow)
	r.Post("/workflows/{id}/simulate", s.simulateWorkflow)
	r.Post("/workflows/{id}/executions", s.startExecution)
	r.Get("/executions/{id}", s.getExecution)
	r.Post("/executions/{id}/stop", s.stopExecution)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type errorResponse struct {
	Error  string `json:"error"`
	NodeID string `json:"nodeId,omitempty"`
	Field  string `json:"field,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

type walletRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (s *Server) putWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var g domain.WorkflowGraph
	if err := xjson.NewDecoder(r.Body).Decode(&g); err != nil {
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid workflow graph: " + err.Error()})
		return
	}
	if err := s.workflows.Put(r.Context(), id, &g); err != nil {
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) compileWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	graph, wallet, ok := s.resolveWorkflow(w, r, id)
	if !ok {
		return
	}

	result, err := s.engine.Compile(*graph, wallet)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) simulateWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	graph, wallet, ok := s.resolveWorkflow(w, r, id)
	if !ok {
		return
	}

	result, err := s.engine.Simulate(r.Context(), *graph, wallet)
	if err != nil {
		s.writeCompileError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveSimulation(result.Success)
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) startExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.workflows.Get(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrWorkflowNotFound) {
			s.writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	record, err := s.runs.Start(r.Context(), id)
	if err != nil {
		if errors.Is(err, execution.ErrRunActive) {
			s.writeError(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, record)
}

func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.runs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			s.writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) stopExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.runs.Stop(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			s.writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		var serr *domain.StateError
		if errors.As(err, &serr) {
			s.writeError(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	record, err := s.runs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// resolveWorkflow loads the stored graph and decodes the optional wallet
// body. A body with a full graph overrides the stored snapshot, which lets
// the builder frontend simulate unsaved edits.
func (s *Server) resolveWorkflow(w http.ResponseWriter, r *http.Request, id string) (*domain.WorkflowGraph, string, bool) {
	var body struct {
		walletRequest
		Graph *domain.WorkflowGraph `json:"graph,omitempty"`
	}
	if r.Body != nil {
		// An empty body is fine; anything present must parse.
		if err := xjson.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
			return nil, "", false
		}
	}
	if body.Graph != nil {
		return body.Graph, body.WalletAddress, true
	}

	graph, err := s.workflows.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrWorkflowNotFound) {
			s.writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return nil, "", false
		}
		s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return nil, "", false
	}
	return graph, body.WalletAddress, true
}

// writeCompileError maps pipeline errors to structured responses: node
// validation problems are the client's fault (422), unknown kinds too.
func (s *Server) writeCompileError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Error: verr.Message, NodeID: verr.NodeID, Field: verr.Field,
		})
		return
	}
	var cerr *domain.CompileError
	if errors.As(err, &cerr) {
		s.writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Error: cerr.Error(), NodeID: cerr.NodeID, Kind: cerr.Kind,
		})
		return
	}
	s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := xjson.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, resp errorResponse) {
	s.writeJSON(w, status, resp)
}
