// Package smt is the SMT Backend Adapter (C1): a narrow wrapper around a
// propositional SAT solver exposing the half-dozen operations the Formula
// Builder and Trace Encoder need. It is grounded on
// github.com/crillab/gophersat/bf, a real boolean-formula front end for the
// gophersat CDCL solver: formulas are built by ordinary composition
// (And/Or/Not/Eq over named variables), converted to CNF internally via
// Tseitin expansion, and handed to the solver for a model.
package smt

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/crillab/gophersat/bf"
)

// Sym is an opaque handle to a propositional formula (a variable or any
// composition of variables). Backend never simplifies beyond what bf does.
type Sym = bf.Formula

// Verdict is the result of a single check() call.
type Verdict int

const (
	// Unknown is returned only if the underlying solver cannot decide;
	// gophersat's DPLL/CDCL core is a decision procedure for propositional
	// logic, so in practice this is reached only on adapter-level errors.
	Unknown Verdict = iota
	Sat
	Unsat
)

// Backend is a single-use propositional solver context: fresh_bool, the
// formula constructors, assert, check, and model_value, matching spec.md
// §4.1. A Backend must not be reused across requests.
type Backend struct {
	varSeq    uint64
	asserted  []Sym
	model     map[string]bool
	lastCheck Verdict
	checked   bool
}

// New creates an empty single-use backend.
func New() *Backend {
	return &Backend{}
}

// FreshBool mints a fresh boolean variable uniquely named from tag. Two
// calls with the same tag never collide: the adapter appends a private
// sequence number.
func (b *Backend) FreshBool(tag string) Sym {
	n := atomic.AddUint64(&b.varSeq, 1)
	return bf.Var(fmt.Sprintf("%s#%d", tag, n))
}

// And builds the conjunction of xs. An empty conjunction is true.
func (b *Backend) And(xs ...Sym) Sym {
	if len(xs) == 0 {
		return bf.True
	}
	return bf.And(xs...)
}

// Or builds the disjunction of xs. An empty disjunction is false.
func (b *Backend) Or(xs ...Sym) Sym {
	if len(xs) == 0 {
		return bf.False
	}
	return bf.Or(xs...)
}

// Eq builds the equivalence of a and b.
func (b *Backend) Eq(a, c Sym) Sym {
	return bf.Eq(a, c)
}

// Not builds the negation of x.
func (b *Backend) Not(x Sym) Sym {
	return bf.Not(x)
}

// Assert adds f to the set of formulas the next Check() must satisfy.
// There is no push/pop: every assertion lives for the lifetime of the
// request (spec.md §4.1, §4.3 invariant).
func (b *Backend) Assert(f Sym) {
	b.asserted = append(b.asserted, f)
}

// Check decides satisfiability of the conjunction of every asserted
// formula. It honors ctx cancellation: if ctx is already done the solver is
// not started; otherwise, since gophersat's Solve call is synchronous, the
// adapter races it against ctx.Done() on its own goroutine. Either way a
// done ctx yields Unknown together with ctx's error (which the trace
// encoder reports as a Timeout error). The solver goroutine is
// abandoned rather than killed, matching the "otherwise the worker is
// allowed to complete and its result discarded" contract of spec.md §5.
func (b *Backend) Check(ctx context.Context) (Verdict, error) {
	if b.checked {
		return b.lastCheck, nil
	}
	if err := ctx.Err(); err != nil {
		b.checked = true
		b.lastCheck = Unknown
		return Unknown, err
	}

	formula := bf.And(b.asserted...)

	type outcome struct {
		sat   bool
		model map[string]bool
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		sat, model, err := bf.Solve(formula)
		done <- outcome{sat: sat, model: model, err: err}
	}()

	select {
	case <-ctx.Done():
		b.checked = true
		b.lastCheck = Unknown
		return Unknown, ctx.Err()
	case o := <-done:
		b.checked = true
		if o.err != nil {
			b.lastCheck = Unknown
			return Unknown, fmt.Errorf("smt: backend check failed: %w", o.err)
		}
		if !o.sat {
			b.lastCheck = Unsat
			return Unsat, nil
		}
		b.lastCheck = Sat
		b.model = o.model
		return Sat, nil
	}
}

// ModelValue reads back the assignment of sym after a Sat Check(). It is
// only valid after Check() == Sat.
func (b *Backend) ModelValue(sym Sym) (bool, error) {
	if b.lastCheck != Sat {
		return false, fmt.Errorf("smt: model_value called without a sat check")
	}
	v, ok := b.model[sym.String()]
	if !ok {
		// A variable that never appears in any asserted clause has no
		// entry in the model; any assignment satisfies the formula, so
		// false is as valid as true.
		return false, nil
	}
	return v, nil
}
