package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/erikv05/tracechecker/internal/apierrors"
	"github.com/erikv05/tracechecker/internal/encode"
	"github.com/erikv05/tracechecker/internal/metrics"
	"github.com/erikv05/tracechecker/internal/model"
	"github.com/erikv05/tracechecker/internal/shape"
	"github.com/erikv05/tracechecker/internal/smt"
	"github.com/erikv05/tracechecker/internal/validate"
)

// validateAgent is C4: it rejects structurally invalid requests before any
// symbolic work begins and passes valid ones on unchanged.
type validateAgent struct{}

func (validateAgent) Name() string { return "validate" }

func (validateAgent) Execute(_ context.Context, _ *http.Request, state *State) Result {
	normalized, err := validate.Request(state.Request.Raw)
	if err != nil {
		writeAgentError(state, err)
		return Result{Name: "validate", Status: StatusError, Details: err.Error()}
	}
	state.Request.Normalized = normalized
	state.Request.Valid = true
	return Result{Name: "validate", Status: StatusOK}
}

// solveAgent is C3 wired to C1/C2: it builds the trace formula for the
// normalized request and dispatches it to a fresh, single-use backend.
type solveAgent struct {
	k          int
	timeout    time.Duration
	failClosed bool
	metrics    *metrics.Recorder
}

func (a solveAgent) Name() string { return "solve" }

func (a solveAgent) Execute(ctx context.Context, _ *http.Request, state *State) Result {
	if !state.Request.Valid {
		return Result{Name: "solve", Status: "skipped"}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if a.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	backend := smt.New()
	outcome, err := encode.Solve(runCtx, backend, state.Request.Normalized, a.k)
	state.Solve.Attempted = true
	state.Solve.Duration = time.Since(start)

	if err != nil {
		outcomeLabel := metrics.BackendUnknown
		if ae, ok := apierrors.As(err); ok && ae.Kind == apierrors.Timeout {
			state.Solve.TimedOut = true
			outcomeLabel = metrics.BackendTimeout
		}
		if a.metrics != nil {
			a.metrics.ObserveBackendCheck(outcomeLabel, state.Solve.Duration)
		}
		writeAgentError(state, err)
		return Result{Name: "solve", Status: StatusError, Details: err.Error()}
	}

	state.Solve.Decided = true
	state.Solve.outcome = outcome
	if a.metrics != nil {
		a.metrics.ObserveBackendCheck(backendOutcomeFor(outcome.Verdict), state.Solve.Duration)
	}
	return Result{Name: "solve", Status: StatusOK, Meta: map[string]any{
		"verdict": verdictLabel(outcome.Verdict),
	}}
}

// shapeAgent is C5: it turns a decided outcome into the wire response.
type shapeAgent struct {
	failClosed bool
}

func (a shapeAgent) Name() string { return "shape" }

func (a shapeAgent) Execute(_ context.Context, _ *http.Request, state *State) Result {
	if !state.Solve.Decided {
		return Result{Name: "shape", Status: "skipped"}
	}

	body, err := shape.Response(state.Solve.outcome, state.Request.Normalized, a.failClosed)
	if err != nil {
		writeAgentError(state, apierrors.New(apierrors.BackendFailure, err.Error()))
		return Result{Name: "shape", Status: StatusError, Details: err.Error()}
	}

	state.Response.Body = body
	state.Response.StatusCode = http.StatusOK
	return Result{Name: "shape", Status: StatusOK, Meta: map[string]any{"result": body.Result}}
}

func writeAgentError(state *State, err error) {
	if ae, ok := apierrors.As(err); ok {
		state.Response.StatusCode = ae.StatusCode()
		state.Response.ErrorKind = string(ae.Kind)
		state.Response.ErrorDetail = ae.Detail
		state.Response.Body = model.SolverResponse{}
		return
	}
	state.Response.StatusCode = http.StatusInternalServerError
	state.Response.ErrorKind = string(apierrors.BackendFailure)
	state.Response.ErrorDetail = err.Error()
}

func verdictLabel(v smt.Verdict) string {
	switch v {
	case smt.Sat:
		return "sat"
	case smt.Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

func backendOutcomeFor(v smt.Verdict) metrics.BackendOutcome {
	switch v {
	case smt.Sat:
		return metrics.BackendSat
	case smt.Unsat:
		return metrics.BackendUnsat
	default:
		return metrics.BackendUnknown
	}
}
