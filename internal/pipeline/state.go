// Package pipeline threads a single /solve/ request through the validate,
// encode-and-solve, and shape stages as a sequence of named Agents sharing
// one State, adapted from the teacher's agent/state runtime pattern.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/erikv05/tracechecker/internal/encode"
	"github.com/erikv05/tracechecker/internal/model"
)

// Agent represents a runtime component that collaborates on processing an
// incoming solve request. Each agent observes and mutates the shared State
// before returning its Result snapshot.
type Agent interface {
	Name() string
	Execute(context.Context, *http.Request, *State) Result
}

// Result captures the outcome emitted by an agent during pipeline execution.
type Result struct {
	Name    string         `json:"name"`
	Status  string         `json:"status"`
	Details string         `json:"details,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Agent status values shared across stages.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RequestState preserves the raw decoded request body and validation
// outcome.
type RequestState struct {
	Raw        model.SolverRequest `json:"-"`
	Normalized model.SolverRequest `json:"-"`
	Valid      bool                `json:"valid"`
	RejectedAt string              `json:"rejectedAt,omitempty"`
}

// SolveState captures the backend decision once the encode-and-solve stage
// has run.
type SolveState struct {
	Attempted bool          `json:"attempted"`
	Decided   bool          `json:"decided"`
	Duration  time.Duration `json:"duration"`
	TimedOut  bool          `json:"timedOut"`

	// outcome holds the decided backend verdict and trace for the shape
	// stage; it never leaves the pipeline package.
	outcome encode.Outcome
}

// ResponseState is the JSON response composed for the caller.
type ResponseState struct {
	Body        model.SolverResponse `json:"body"`
	StatusCode  int                  `json:"statusCode"`
	ErrorKind   string               `json:"errorKind,omitempty"`
	ErrorDetail string               `json:"errorDetail,omitempty"`
}

// State is the shared context threaded through every agent in the pipeline.
type State struct {
	CorrelationID string `json:"correlationId"`

	Request  RequestState  `json:"request"`
	Solve    SolveState    `json:"solve"`
	Response ResponseState `json:"response"`
}

// NewState initializes the shared state for one /solve/ evaluation.
func NewState(correlationID string) *State {
	return &State{CorrelationID: correlationID}
}
