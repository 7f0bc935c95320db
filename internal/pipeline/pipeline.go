package pipeline

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/erikv05/tracechecker/internal/config"
	"github.com/erikv05/tracechecker/internal/metrics"
	"github.com/erikv05/tracechecker/internal/model"
	"github.com/google/uuid"
)

// Options configures a Pipeline's solver behavior and instrumentation.
type Options struct {
	Solver            config.SolverConfig
	CorrelationHeader string
	Metrics           *metrics.Recorder
}

// Pipeline wires the validate, solve, and shape agents behind the HTTP
// surface the server package dispatches to. It implements server.Engine.
type Pipeline struct {
	logger            *slog.Logger
	metrics           *metrics.Recorder
	correlationHeader string
	agents            []Agent
}

// NewPipeline builds the fixed validate -> solve -> shape chain, each agent
// wrapped with request-scoped logging, grounded on the teacher's
// instrumentAgents pattern.
func NewPipeline(logger *slog.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	agents := []Agent{
		validateAgent{},
		solveAgent{
			k:          opts.Solver.TraceLength,
			timeout:    opts.Solver.Timeout(),
			failClosed: opts.Solver.FailClosed(),
			metrics:    opts.Metrics,
		},
		shapeAgent{failClosed: opts.Solver.FailClosed()},
	}
	p := &Pipeline{
		logger:            logger.With(slog.String("component", "pipeline")),
		metrics:           opts.Metrics,
		correlationHeader: opts.CorrelationHeader,
	}
	p.agents = p.instrumentAgents(agents)
	return p
}

// ServeLiveness answers GET / with a small fixed JSON greeting.
func (p *Pipeline) ServeLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"service": "tracechecker", "status": "ok"})
}

// ServeSolve answers POST /solve/: it decodes the request body, runs the
// agent chain, and writes either the SolverResponse or a structured error.
func (p *Pipeline) ServeSolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	correlationID := p.requestCorrelationID(r)
	reqLogger := p.logger.With(slog.String("correlation_id", correlationID))

	var req model.SolverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		p.writeErrorResponse(w, reqLogger, http.StatusBadRequest, "MalformedJson", "request body is not valid JSON")
		p.observeSolve("error", http.StatusBadRequest, time.Since(start))
		return
	}

	state := NewState(correlationID)
	state.Request.Raw = req

	for _, ag := range p.agents {
		_ = ag.Execute(r.Context(), r, state)
		if state.Response.ErrorKind != "" {
			break
		}
	}

	duration := time.Since(start)
	if state.Response.ErrorKind != "" {
		p.writeErrorResponse(w, reqLogger, state.Response.StatusCode, state.Response.ErrorKind, state.Response.ErrorDetail)
		p.observeSolve("error", state.Response.StatusCode, duration)
		return
	}

	if p.correlationHeader != "" {
		w.Header().Set(p.correlationHeader, correlationID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(state.Response.Body); err != nil {
		reqLogger.Error("solve response encode failed", slog.Any("error", err))
	}

	reqLogger.Info("solve completed",
		slog.String("result", state.Response.Body.Result),
		slog.Float64("latency_ms", float64(duration)/float64(time.Millisecond)),
	)
	p.observeSolve(state.Response.Body.Result, http.StatusOK, duration)
}

func (p *Pipeline) writeErrorResponse(w http.ResponseWriter, logger *slog.Logger, status int, kind, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": kind, "detail": detail}); err != nil {
		logger.Error("error response encode failed", slog.Any("error", err))
	}
}

func (p *Pipeline) observeSolve(result string, statusCode int, duration time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveSolve(result, statusCode, duration)
	}
}

func (p *Pipeline) requestCorrelationID(r *http.Request) string {
	if p.correlationHeader != "" {
		if v := r.Header.Get(p.correlationHeader); v != "" {
			return v
		}
	}
	return uuid.NewString()
}
