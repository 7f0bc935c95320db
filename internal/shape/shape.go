// Package shape is the Response Shaper (C5): it turns a decided Outcome
// into the wire-level SolverResponse, per spec.md §4.5.
package shape

import (
	"github.com/erikv05/tracechecker/internal/encode"
	"github.com/erikv05/tracechecker/internal/model"
	"github.com/erikv05/tracechecker/internal/smt"
)

// Response builds the SolverResponse for outcome against the declared
// state-variable order of req, failing closed when requested and the
// backend reported unknown.
func Response(outcome encode.Outcome, req model.SolverRequest, failClosed bool) (model.SolverResponse, error) {
	switch outcome.Verdict {
	case smt.Sat:
		return shapeFailed(outcome.Trace, req)
	case smt.Unsat:
		return model.Passed(), nil
	default: // smt.Unknown
		if failClosed {
			return model.SolverResponse{
				Result:      model.ResultFailed,
				States:      [][]model.Literal{},
				ViolatedPbt: req.PbtAssertion.Name,
			}, nil
		}
		return model.Passed(), nil
	}
}

func shapeFailed(trace *encode.Trace, req model.SolverRequest) (model.SolverResponse, error) {
	states := make([][]model.Literal, trace.K())
	for i := 0; i < trace.K(); i++ {
		row := make([]model.Literal, len(req.StateVariables))
		for j, name := range req.StateVariables {
			v, err := trace.ModelValue(i, name)
			if err != nil {
				return model.SolverResponse{}, err
			}
			row[j] = model.Literal{Name: name, Assignment: v}
		}
		states[i] = row
	}
	return model.SolverResponse{
		Result:      model.ResultFailed,
		States:      states,
		ViolatedPbt: req.PbtAssertion.Name,
	}, nil
}
