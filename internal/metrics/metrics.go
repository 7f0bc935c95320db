package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BackendOutcome captures the result of a single SMT backend check() call.
type BackendOutcome string

const (
	// BackendSat indicates the backend found a satisfying model.
	BackendSat BackendOutcome = "sat"
	// BackendUnsat indicates the backend proved unsatisfiability.
	BackendUnsat BackendOutcome = "unsat"
	// BackendUnknown indicates the backend returned an inconclusive result.
	BackendUnknown BackendOutcome = "unknown"
	// BackendTimeout indicates the backend was interrupted by the deadline.
	BackendTimeout BackendOutcome = "timeout"
)

// Recorder publishes Prometheus metrics for solve-request activity.
type Recorder struct {
	gatherer prometheus.Gatherer
	handler  http.Handler

	solveRequests *prometheus.CounterVec
	solveLatency  *prometheus.HistogramVec

	backendChecks  *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
}

// NewRecorder constructs a Prometheus-backed Recorder. When reg is nil a
// dedicated registry is created so multiple recorders can coexist without
// conflicting with the global default registerer.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	solveRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracechecker",
		Subsystem: "solve",
		Name:      "requests_total",
		Help:      "Total /solve/ requests processed, labeled by verdict and HTTP status.",
	}, []string{"result", "status_code"})

	solveLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracechecker",
		Subsystem: "solve",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for completed /solve/ requests.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"result"})

	backendChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tracechecker",
		Subsystem: "backend",
		Name:      "checks_total",
		Help:      "SMT backend check() calls, labeled by outcome.",
	}, []string{"outcome"})

	backendLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tracechecker",
		Subsystem: "backend",
		Name:      "check_duration_seconds",
		Help:      "Latency distribution for SMT backend check() calls.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"outcome"})

	reg.MustRegister(solveRequests, solveLatency, backendChecks, backendLatency)

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	return &Recorder{
		gatherer:       reg,
		handler:        handler,
		solveRequests:  solveRequests,
		solveLatency:   solveLatency,
		backendChecks:  backendChecks,
		backendLatency: backendLatency,
	}
}

// Handler exposes the Prometheus HTTP handler for the recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics unavailable", http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Gatherer returns the underlying Prometheus gatherer for tests and advanced
// integrations.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveSolve records the verdict and latency for a completed /solve/ request.
func (r *Recorder) ObserveSolve(result string, statusCode int, duration time.Duration) {
	if r == nil {
		return
	}
	resultLabel := normalizeLabel(result)
	statusLabel := strconv.Itoa(statusCode)
	if statusCode <= 0 {
		statusLabel = "unknown"
	}
	r.solveRequests.WithLabelValues(resultLabel, statusLabel).Inc()
	r.solveLatency.WithLabelValues(resultLabel).Observe(duration.Seconds())
}

// ObserveBackendCheck records the outcome and latency of a single SMT
// backend check() call.
func (r *Recorder) ObserveBackendCheck(outcome BackendOutcome, duration time.Duration) {
	if r == nil {
		return
	}
	outcomeLabel := string(outcome)
	if outcomeLabel == "" {
		outcomeLabel = string(BackendUnknown)
	}
	r.backendChecks.WithLabelValues(outcomeLabel).Inc()
	r.backendLatency.WithLabelValues(outcomeLabel).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
