package pipeline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erikv05/tracechecker/internal/config"
	"github.com/erikv05/tracechecker/internal/server"
	"github.com/gavv/httpexpect/v2"
)

func newTestServer(t *testing.T, solver config.SolverConfig) *httptest.Server {
	t.Helper()
	pipe := NewPipeline(nil, Options{Solver: solver, CorrelationHeader: "X-Request-ID"})
	return httptest.NewServer(server.NewEngineHandler(pipe))
}

func expectFor(t *testing.T, srv *httptest.Server) *httpexpect.Expect {
	t.Helper()
	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  srv.URL,
		Reporter: httpexpect.NewRequireReporter(t),
		Client:   srv.Client(),
	})
}

func defaultSolverConfig() config.SolverConfig {
	return config.SolverConfig{TraceLength: 5, TimeoutMillis: 5000, UnknownPolicy: "pass"}
}

func TestServeLivenessReturnsGreeting(t *testing.T) {
	srv := newTestServer(t, defaultSolverConfig())
	defer srv.Close()

	expectFor(t, srv).GET("/").
		Expect().
		Status(http.StatusOK).
		JSON().Object().HasValue("status", "ok")
}

func TestServeSolveRejectsMalformedJSON(t *testing.T) {
	srv := newTestServer(t, defaultSolverConfig())
	defer srv.Close()

	expectFor(t, srv).POST("/solve/").
		WithBytes([]byte("{not json")).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().HasValue("error", "MalformedJson")
}

func TestServeSolveRejectsUndeclaredName(t *testing.T) {
	srv := newTestServer(t, defaultSolverConfig())
	defer srv.Close()

	body := map[string]any{
		"state_variables": []string{"x"},
		"pbt_variables":   []string{"y"},
		"branches":        []any{},
		"preconditionals": []any{},
		"pbt_assertion": map[string]any{
			"name": "y",
			"cnf":  []any{[]any{map[string]any{"name": "z", "assignment": true}}},
		},
	}

	expectFor(t, srv).POST("/solve/").
		WithJSON(body).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().HasValue("error", "UndeclaredName")
}

func TestServeSolveToggleReportsFailedTrace(t *testing.T) {
	srv := newTestServer(t, defaultSolverConfig())
	defer srv.Close()

	branch := func(xVal, yVal bool) map[string]any {
		return map[string]any{
			"conditions":   []any{[]any{map[string]any{"name": "x", "assignment": xVal}}},
			"implications": []any{map[string]any{"name": "y", "assignment": yVal}},
			"transitions":  []any{map[string]any{"name": "x", "assignments": []bool{true, false}}},
		}
	}

	body := map[string]any{
		"state_variables": []string{"x"},
		"pbt_variables":   []string{"y"},
		"branches":        []any{branch(true, true), branch(false, false)},
		"preconditionals": []any{[]any{map[string]any{"name": "x", "assignment": false}}},
		"pbt_assertion": map[string]any{
			"name": "y",
			"cnf":  []any{[]any{map[string]any{"name": "y", "assignment": true}}},
		},
	}

	obj := expectFor(t, srv).POST("/solve/").
		WithJSON(body).
		Expect().
		Status(http.StatusOK).
		JSON().Object()

	obj.HasValue("result", "failed")
	obj.HasValue("violated_pbt", "y")
	obj.Value("states").Array().Length().IsEqual(5)
}

func TestServeSolveWithTimeoutDisabledStillCompletes(t *testing.T) {
	srv := newTestServer(t, config.SolverConfig{TraceLength: 5, TimeoutMillis: 0, UnknownPolicy: "pass"})
	defer srv.Close()
	// TimeoutMillis=0 disables the deadline (config.Timeout() returns 0),
	// so solveAgent never installs a context deadline for this request.
	body := map[string]any{
		"state_variables": []string{},
		"pbt_variables":   []string{},
		"branches":        []any{},
		"preconditionals": []any{},
		"pbt_assertion":   map[string]any{"name": "", "cnf": []any{}},
	}
	expectFor(t, srv).POST("/solve/").
		WithJSON(body).
		Expect().
		Status(http.StatusOK)
}
