// Package model defines the wire-level data model for bounded UI
// trace-checking requests and responses, matching spec.md §3 and §6.
package model

// Literal is a pair (name, polarity): the named variable must equal
// Assignment for the literal to hold.
type Literal struct {
	Name       string `json:"name"`
	Assignment bool   `json:"assignment"`
}

// Clause is a nonempty disjunction of literals.
type Clause []Literal

// CNF is a conjunction of clauses. An empty CNF is vacuously true.
type CNF []Clause

// Transition is a pair (name, endpoints): a single declared state variable
// whose post-state value is drawn from Assignments.
type Transition struct {
	Name        string `json:"name"`
	Assignments []bool `json:"assignments"`
}

// Branch is a declarative case of the rendering function: a condition over
// state variables, the PBT literals it implies, and the transitions it
// enables.
type Branch struct {
	Conditions   CNF          `json:"conditions"`
	Implications []Literal    `json:"implications"`
	Transitions  []Transition `json:"transitions"`
}

// PbtAssertion encodes the unsafe condition under test: satisfiability of
// CNF together with the rendering implications constitutes a failure.
type PbtAssertion struct {
	Name string `json:"name"`
	CNF  CNF    `json:"cnf"`
}

// SolverRequest is the full declarative specification of a bounded UI
// transition system, as received on POST /solve/.
type SolverRequest struct {
	StateVariables  []string     `json:"state_variables"`
	PbtVariables    []string     `json:"pbt_variables"`
	Branches        []Branch     `json:"branches"`
	Preconditionals CNF          `json:"preconditionals"`
	PbtAssertion    PbtAssertion `json:"pbt_assertion"`
}

// SolverResponse is the verdict returned from POST /solve/.
type SolverResponse struct {
	Result      string      `json:"result"`
	States      [][]Literal `json:"states"`
	ViolatedPbt string      `json:"violated_pbt"`
}

// Verdict constants for SolverResponse.Result.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// Passed builds the canonical passing response: empty trace, empty
// assertion name (§4.5).
func Passed() SolverResponse {
	return SolverResponse{
		Result:      ResultPassed,
		States:      [][]Literal{},
		ViolatedPbt: "",
	}
}
