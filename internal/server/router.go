package server

import (
	"net/http"
	"strings"
)

// Engine defines the minimal surface the lifecycle router needs from the
// verification engine to serve HTTP requests.
type Engine interface {
	ServeLiveness(http.ResponseWriter, *http.Request)
	ServeSolve(http.ResponseWriter, *http.Request)
}

// NewEngineHandler wires the HTTP routing facade to the verification engine
// so the lifecycle server owns URL dispatch without embedding routing logic
// into the engine itself.
func NewEngineHandler(e Engine) http.Handler {
	if e == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "engine unavailable", http.StatusServiceUnavailable)
		})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.Trim(r.URL.Path, "/") {
		case "":
			if r.Method != http.MethodGet {
				http.NotFound(w, r)
				return
			}
			e.ServeLiveness(w, r)
		case "solve":
			if r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			e.ServeSolve(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
