package config

import "testing"

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	invalidPort := cfg
	invalidPort.Server.Listen.Port = -1
	if err := invalidPort.Validate(); err == nil {
		t.Fatalf("expected failure when port is invalid")
	}

	invalidK := cfg
	invalidK.Server.Solver.TraceLength = 0
	if err := invalidK.Validate(); err == nil {
		t.Fatalf("expected failure when traceLength < 1")
	}

	invalidPolicy := cfg
	invalidPolicy.Server.Solver.UnknownPolicy = "maybe"
	if err := invalidPolicy.Validate(); err == nil {
		t.Fatalf("expected failure for unsupported unknownPolicy")
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Listen.Address != "0.0.0.0" {
		t.Errorf("expected listen address 0.0.0.0, got %q", cfg.Server.Listen.Address)
	}
	if cfg.Server.Listen.Port != 8000 {
		t.Errorf("expected listen port 8000, got %d", cfg.Server.Listen.Port)
	}
	if cfg.Server.Logging.Level != "info" {
		t.Errorf("expected logging level info, got %q", cfg.Server.Logging.Level)
	}
	if cfg.Server.Solver.TraceLength != 5 {
		t.Errorf("expected trace length 5, got %d", cfg.Server.Solver.TraceLength)
	}
	if cfg.Server.Solver.FailClosed() {
		t.Errorf("expected default unknown policy to not fail closed")
	}
}

func TestSolverConfigTimeout(t *testing.T) {
	cfg := SolverConfig{TimeoutMillis: 1500}
	if got := cfg.Timeout(); got.Milliseconds() != 1500 {
		t.Errorf("expected 1500ms, got %v", got)
	}
	zero := SolverConfig{}
	if got := zero.Timeout(); got != 0 {
		t.Errorf("expected zero timeout when unset, got %v", got)
	}
}
