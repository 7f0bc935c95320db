// Package validate implements the Request Validator (C4): it checks the
// structural preconditions spec.md §4.4 places on an incoming
// SolverRequest before any symbolic work begins.
package validate

import (
	"fmt"

	"github.com/erikv05/tracechecker/internal/apierrors"
	"github.com/erikv05/tracechecker/internal/model"
)

// kind tags a declared name so literal references can be checked for the
// context (state vs PBT) they were declared for.
type kind int

const (
	kindUnknown kind = iota
	kindState
	kindPbt
)

// Request validates req and returns it unchanged (no normalization is
// applied), or a structured *apierrors.Error describing the first violation
// found.
func Request(req model.SolverRequest) (model.SolverRequest, error) {
	names := make(map[string]kind, len(req.StateVariables)+len(req.PbtVariables))

	for _, n := range req.StateVariables {
		if _, exists := names[n]; exists {
			return req, apierrors.New(apierrors.MalformedJson,
				fmt.Sprintf("name %q declared more than once", n))
		}
		names[n] = kindState
	}
	for _, n := range req.PbtVariables {
		if _, exists := names[n]; exists {
			return req, apierrors.New(apierrors.MalformedJson,
				fmt.Sprintf("name %q declared in both state_variables and pbt_variables", n))
		}
		names[n] = kindPbt
	}

	if err := checkCNF(req.Preconditionals, names, kindState, "preconditionals"); err != nil {
		return req, err
	}

	for i, b := range req.Branches {
		if err := checkCNF(b.Conditions, names, kindState, fmt.Sprintf("branches[%d].conditions", i)); err != nil {
			return req, err
		}
		seenPbt := make(map[string]bool, len(b.Implications))
		for j, lit := range b.Implications {
			if err := checkLiteral(lit, names, kindPbt, fmt.Sprintf("branches[%d].implications[%d]", i, j)); err != nil {
				return req, err
			}
			if seenPbt[lit.Name] {
				return req, apierrors.New(apierrors.MalformedJson,
					fmt.Sprintf("branches[%d].implications: pbt variable %q implied more than once", i, lit.Name))
			}
			seenPbt[lit.Name] = true
		}
		for j, t := range b.Transitions {
			path := fmt.Sprintf("branches[%d].transitions[%d]", i, j)
			k, ok := names[t.Name]
			if !ok {
				return req, apierrors.New(apierrors.UndeclaredName,
					fmt.Sprintf("%s: name %q is not declared", path, t.Name))
			}
			if k != kindState {
				return req, apierrors.New(apierrors.UndeclaredName,
					fmt.Sprintf("%s: name %q is a pbt variable, not a state variable", path, t.Name))
			}
			if err := checkTransition(t, path); err != nil {
				return req, err
			}
		}
	}

	if err := checkCNF(req.PbtAssertion.CNF, names, kindPbt, "pbt_assertion.cnf"); err != nil {
		return req, err
	}

	return req, nil
}

func checkCNF(cnf model.CNF, names map[string]kind, want kind, path string) error {
	for i, clause := range cnf {
		if len(clause) == 0 {
			return apierrors.New(apierrors.EmptyClause,
				fmt.Sprintf("%s[%d]: clause must not be empty", path, i))
		}
		for j, lit := range clause {
			if err := checkLiteral(lit, names, want, fmt.Sprintf("%s[%d][%d]", path, i, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLiteral(lit model.Literal, names map[string]kind, want kind, path string) error {
	k, ok := names[lit.Name]
	if !ok {
		return apierrors.New(apierrors.UndeclaredName,
			fmt.Sprintf("%s: name %q is not declared", path, lit.Name))
	}
	if k != want {
		return apierrors.New(apierrors.UndeclaredName,
			fmt.Sprintf("%s: name %q used in the wrong context", path, lit.Name))
	}
	return nil
}

func checkTransition(t model.Transition, path string) error {
	if len(t.Assignments) == 0 {
		return apierrors.New(apierrors.BadTransition,
			fmt.Sprintf("%s: endpoints must not be empty", path))
	}
	if len(t.Assignments) > 2 {
		return apierrors.New(apierrors.BadTransition,
			fmt.Sprintf("%s: endpoints must have at most 2 values", path))
	}
	if len(t.Assignments) == 2 && t.Assignments[0] == t.Assignments[1] {
		return apierrors.New(apierrors.BadTransition,
			fmt.Sprintf("%s: endpoints must not contain duplicates", path))
	}
	return nil
}
