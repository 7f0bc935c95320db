package validate

import (
	"errors"
	"testing"

	"github.com/erikv05/tracechecker/internal/apierrors"
	"github.com/erikv05/tracechecker/internal/model"
)

func lit(name string, v bool) model.Literal { return model.Literal{Name: name, Assignment: v} }

func baseRequest() model.SolverRequest {
	return model.SolverRequest{
		StateVariables: []string{"x"},
		PbtVariables:   []string{"y"},
		Branches: []model.Branch{
			{
				Conditions:   model.CNF{{lit("x", true)}},
				Implications: []model.Literal{lit("y", true)},
				Transitions:  []model.Transition{{Name: "x", Assignments: []bool{true, false}}},
			},
		},
		Preconditionals: model.CNF{{lit("x", false)}},
		PbtAssertion:    model.PbtAssertion{Name: "y", CNF: model.CNF{{lit("y", true)}}},
	}
}

func wantKind(t *testing.T, err error, kind apierrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %s, got nil", kind)
	}
	var ae *apierrors.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *apierrors.Error, got %T (%v)", err, err)
	}
	if ae.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, ae.Kind)
	}
}

func TestRequestAcceptsWellFormed(t *testing.T) {
	if _, err := Request(baseRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestRejectsUndeclaredLiteral(t *testing.T) {
	req := baseRequest()
	req.PbtAssertion.CNF = model.CNF{{lit("z", true)}}
	_, err := Request(req)
	wantKind(t, err, apierrors.UndeclaredName)
}

func TestRequestRejectsWrongKindLiteral(t *testing.T) {
	req := baseRequest()
	req.Preconditionals = model.CNF{{lit("y", true)}}
	_, err := Request(req)
	wantKind(t, err, apierrors.UndeclaredName)
}

func TestRequestRejectsDuplicateDeclaredNames(t *testing.T) {
	req := baseRequest()
	req.PbtVariables = append(req.PbtVariables, "x")
	_, err := Request(req)
	wantKind(t, err, apierrors.MalformedJson)
}

func TestRequestRejectsEmptyClause(t *testing.T) {
	req := baseRequest()
	req.Preconditionals = model.CNF{{}}
	_, err := Request(req)
	wantKind(t, err, apierrors.EmptyClause)
}

func TestRequestRejectsEmptyTransitionEndpoints(t *testing.T) {
	req := baseRequest()
	req.Branches[0].Transitions[0].Assignments = nil
	_, err := Request(req)
	wantKind(t, err, apierrors.BadTransition)
}

func TestRequestRejectsDuplicateTransitionEndpoints(t *testing.T) {
	req := baseRequest()
	req.Branches[0].Transitions[0].Assignments = []bool{true, true}
	_, err := Request(req)
	wantKind(t, err, apierrors.BadTransition)
}

func TestRequestRejectsDuplicateImplicationPerBranch(t *testing.T) {
	req := baseRequest()
	req.Branches[0].Implications = []model.Literal{lit("y", true), lit("y", false)}
	_, err := Request(req)
	wantKind(t, err, apierrors.MalformedJson)
}

func TestRequestAllowsEmptyOuterCNF(t *testing.T) {
	req := baseRequest()
	req.Preconditionals = model.CNF{}
	if _, err := Request(req); err != nil {
		t.Fatalf("empty outer CNF should be accepted, got %v", err)
	}
}

func TestRequestAllowsTerminalBranchWithNoTransitions(t *testing.T) {
	req := baseRequest()
	req.Branches[0].Transitions = nil
	if _, err := Request(req); err != nil {
		t.Fatalf("branch with no transitions should be accepted, got %v", err)
	}
}
