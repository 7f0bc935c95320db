package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds every server-level option the trace-checker process needs to
// start serving requests.
type Config struct {
	Server ServerConfig `koanf:"server"`
}

// ServerConfig collects the bootstrap knobs owned by the lifecycle agent.
type ServerConfig struct {
	Listen  ListenConfig  `koanf:"listen"`
	Logging LoggingConfig `koanf:"logging"`
	Solver  SolverConfig  `koanf:"solver"`
}

// ListenConfig instructs the HTTP listener about bind address and port.
type ListenConfig struct {
	Address string `koanf:"address"`
	Port    int    `koanf:"port"`
}

// LoggingConfig expresses log level, format, and correlation ID wiring.
type LoggingConfig struct {
	Level             string `koanf:"level"`
	Format            string `koanf:"format"`
	CorrelationHeader string `koanf:"correlationHeader"`
}

// SolverConfig tunes the trace encoder and SMT backend dispatch described in
// spec.md §6 (Configuration).
type SolverConfig struct {
	// TraceLength is K, the fixed length of the symbolic trace. Default 5.
	TraceLength int `koanf:"traceLength"`
	// TimeoutMillis bounds how long a single request's check() may run
	// before the request is cancelled and a Timeout error is returned.
	TimeoutMillis int `koanf:"timeoutMillis"`
	// UnknownPolicy is "pass" (conservative, default) or "fail"
	// (fail-closed) for how an `unknown` solver verdict is surfaced.
	UnknownPolicy string `koanf:"unknownPolicy"`
}

// Timeout renders TimeoutMillis as a time.Duration.
func (s SolverConfig) Timeout() time.Duration {
	if s.TimeoutMillis <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutMillis) * time.Millisecond
}

// FailClosed reports whether an `unknown` backend verdict should be treated
// as a failure response rather than a conservative pass.
func (s SolverConfig) FailClosed() bool {
	return strings.EqualFold(strings.TrimSpace(s.UnknownPolicy), "fail")
}

// Validate enforces the structural preconditions §3 and §6 place on the
// server configuration before the lifecycle agent starts listening.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	if c.Server.Listen.Port <= 0 || c.Server.Listen.Port > 65535 {
		return fmt.Errorf("config: listen.port invalid: %d", c.Server.Listen.Port)
	}
	if c.Server.Solver.TraceLength < 1 {
		return fmt.Errorf("config: solver.traceLength invalid: %d", c.Server.Solver.TraceLength)
	}
	if c.Server.Solver.TimeoutMillis < 0 {
		return fmt.Errorf("config: solver.timeoutMillis invalid: %d", c.Server.Solver.TimeoutMillis)
	}
	switch strings.ToLower(strings.TrimSpace(c.Server.Solver.UnknownPolicy)) {
	case "", "pass", "fail":
	default:
		return fmt.Errorf("config: solver.unknownPolicy unsupported: %s", c.Server.Solver.UnknownPolicy)
	}
	switch strings.ToLower(strings.TrimSpace(c.Server.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level unsupported: %s", c.Server.Logging.Level)
	}
	return nil
}

// DefaultConfig returns the baseline values documented in spec.md §6.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Listen: ListenConfig{
				Address: "0.0.0.0",
				Port:    8000,
			},
			Logging: LoggingConfig{
				Level:             "info",
				Format:            "json",
				CorrelationHeader: "X-Request-ID",
			},
			Solver: SolverConfig{
				TraceLength:   5,
				TimeoutMillis: 5000,
				UnknownPolicy: "pass",
			},
		},
	}
}
