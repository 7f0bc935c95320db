// Package encode is the Formula Builder and Trace Encoder (C2, C3): it owns
// the fixed-length symbolic trace, composes the branch/transition/assertion
// semantics of spec.md §4.2 into propositional formulas, and drives the
// backend adapter to a verdict per §4.3.
package encode

import (
	"context"
	"fmt"

	"github.com/erikv05/tracechecker/internal/apierrors"
	"github.com/erikv05/tracechecker/internal/model"
	"github.com/erikv05/tracechecker/internal/smt"
)

// Trace owns the symbolic variables minted for one request: K states over
// the declared state variables, and one shared set of PBT variables.
type Trace struct {
	backend *smt.Backend
	k       int
	states  []map[string]smt.Sym // states[i][name]
	pbt     map[string]smt.Sym   // name -> sym
}

// NewTrace mints trace[i][v] for i in [0,K) and pbt_vars[p], per spec.md
// §4.3 step 1.
func NewTrace(backend *smt.Backend, k int, stateVars, pbtVars []string) *Trace {
	t := &Trace{
		backend: backend,
		k:       k,
		states:  make([]map[string]smt.Sym, k),
		pbt:     make(map[string]smt.Sym, len(pbtVars)),
	}
	for i := 0; i < k; i++ {
		t.states[i] = make(map[string]smt.Sym, len(stateVars))
		for _, v := range stateVars {
			t.states[i][v] = backend.FreshBool(fmt.Sprintf("%s_%d", v, i))
		}
	}
	for _, p := range pbtVars {
		t.pbt[p] = backend.FreshBool(p)
	}
	return t
}

// litAt is lit_at(L, i): trace[i][L.Name] == L.Assignment.
func (t *Trace) litAt(l model.Literal, i int) smt.Sym {
	v := t.states[i][l.Name]
	if l.Assignment {
		return v
	}
	return t.backend.Not(v)
}

// pbtLit is pbt_lit(L): pbt_vars[L.Name] == L.Assignment.
func (t *Trace) pbtLit(l model.Literal) smt.Sym {
	v := t.pbt[l.Name]
	if l.Assignment {
		return v
	}
	return t.backend.Not(v)
}

// cnfAt is cnf_at(C, i). An empty CNF is vacuously true.
func (t *Trace) cnfAt(cnf model.CNF, i int) smt.Sym {
	clauses := make([]smt.Sym, len(cnf))
	for ci, clause := range cnf {
		lits := make([]smt.Sym, len(clause))
		for li, l := range clause {
			lits[li] = t.litAt(l, i)
		}
		clauses[ci] = t.backend.Or(lits...)
	}
	return t.backend.And(clauses...)
}

// pbtCNF is pbt_cnf(C), the PBT-variable analogue of cnfAt.
func (t *Trace) pbtCNF(cnf model.CNF) smt.Sym {
	clauses := make([]smt.Sym, len(cnf))
	for ci, clause := range cnf {
		lits := make([]smt.Sym, len(clause))
		for li, l := range clause {
			lits[li] = t.pbtLit(l)
		}
		clauses[ci] = t.backend.Or(lits...)
	}
	return t.backend.And(clauses...)
}

// render is render(i): the disjunction, over every branch, of that branch's
// conditions holding at i conjoined with the PBT variables it implies. With
// no declared branches there is no rendering function to pin the PBT
// variables against, so render is vacuously true — unlike step, which has
// no branch to justify any transition and is vacuously false.
func (t *Trace) render(branches []model.Branch, i int) smt.Sym {
	if len(branches) == 0 {
		return t.backend.And()
	}
	disjuncts := make([]smt.Sym, len(branches))
	for bi, b := range branches {
		implied := make([]smt.Sym, len(b.Implications))
		for li, l := range b.Implications {
			implied[li] = t.pbtLit(l)
		}
		disjuncts[bi] = t.backend.And(t.cnfAt(b.Conditions, i), t.backend.And(implied...))
	}
	return t.backend.Or(disjuncts...)
}

// violates is violates(A, i): render(i) AND pbt_cnf(A.cnf).
func (t *Trace) violates(branches []model.Branch, assertion model.PbtAssertion, i int) smt.Sym {
	return t.backend.And(t.render(branches, i), t.pbtCNF(assertion.CNF))
}

// frozen is frozen(pre, post): every state variable holds its value.
func (t *Trace) frozen(stateVars []string, pre, post int) smt.Sym {
	eqs := make([]smt.Sym, len(stateVars))
	for i, v := range stateVars {
		eqs[i] = t.backend.Eq(t.states[pre][v], t.states[post][v])
	}
	return t.backend.And(eqs...)
}

// transitionStep is transition_step(t, pre, post): the named variable
// either takes one of its declared endpoints or holds still, and every
// other state variable holds still.
func (t *Trace) transitionStep(stateVars []string, tr model.Transition, pre, post int) smt.Sym {
	postVar := t.states[post][tr.Name]
	takeOrStay := make([]smt.Sym, 0, len(tr.Assignments)+1)
	for _, e := range tr.Assignments {
		if e {
			takeOrStay = append(takeOrStay, postVar)
		} else {
			takeOrStay = append(takeOrStay, t.backend.Not(postVar))
		}
	}
	takeOrStay = append(takeOrStay, t.backend.Eq(t.states[pre][tr.Name], t.states[post][tr.Name]))

	others := make([]smt.Sym, 0, len(stateVars))
	for _, v := range stateVars {
		if v == tr.Name {
			continue
		}
		others = append(others, t.backend.Eq(t.states[pre][v], t.states[post][v]))
	}

	return t.backend.And(t.backend.Or(takeOrStay...), t.backend.And(others...))
}

// branchStep is branch_step(b, pre, post).
func (t *Trace) branchStep(stateVars []string, b model.Branch, pre, post int) smt.Sym {
	cond := t.cnfAt(b.Conditions, pre)
	if len(b.Transitions) == 0 {
		return t.backend.And(cond, t.frozen(stateVars, pre, post))
	}
	steps := make([]smt.Sym, len(b.Transitions))
	for i, tr := range b.Transitions {
		steps[i] = t.transitionStep(stateVars, tr, pre, post)
	}
	return t.backend.And(cond, t.backend.Or(steps...))
}

// step is step(pre, post): the disjunction over every branch's branch_step.
func (t *Trace) step(stateVars []string, branches []model.Branch, pre, post int) smt.Sym {
	steps := make([]smt.Sym, len(branches))
	for i, b := range branches {
		steps[i] = t.branchStep(stateVars, b, pre, post)
	}
	return t.backend.Or(steps...)
}

// Outcome is the decision reached after asserting the full trace formula,
// independent of how the response is shaped.
type Outcome struct {
	Verdict smt.Verdict
	Trace   *Trace
}

// Solve builds the complete verification formula for req over a trace of
// length k and dispatches it to backend, honoring ctx for cancellation.
// It implements spec.md §4.3 steps 2-5.
func Solve(ctx context.Context, backend *smt.Backend, req model.SolverRequest, k int) (Outcome, error) {
	trace := NewTrace(backend, k, req.StateVariables, req.PbtVariables)

	backend.Assert(trace.cnfAt(req.Preconditionals, 0))
	for i := 0; i < k-1; i++ {
		backend.Assert(trace.step(req.StateVariables, req.Branches, i, i+1))
	}
	backend.Assert(trace.violates(req.Branches, req.PbtAssertion, k-1))

	verdict, err := backend.Check(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, apierrors.New(apierrors.Timeout, "solver deadline exceeded")
		}
		return Outcome{}, apierrors.New(apierrors.BackendFailure, err.Error())
	}
	return Outcome{Verdict: verdict, Trace: trace}, nil
}

// ModelValue exposes the underlying backend's model lookup for the Response
// Shaper, keyed by state index and variable name.
func (t *Trace) ModelValue(i int, name string) (bool, error) {
	return t.backend.ModelValue(t.states[i][name])
}

// K reports the configured trace length this Trace was built with.
func (t *Trace) K() int { return t.k }
