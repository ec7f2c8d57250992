package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigRequiresOverrides(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected default config to fail validation, flags are required")
	}
}

func TestMergeOverridesOnlyNonZero(t *testing.T) {
	base := DefaultConfig()
	base.Duration = 10
	base.Policy = PolicyStatelessMinNodes

	override := &Config{Policy: PolicyStatefulBestFit}
	merged := base.Merge(override)

	if merged.Duration != 10 {
		t.Fatalf("expected Duration to survive merge unchanged, got %v", merged.Duration)
	}
	if merged.Policy != PolicyStatefulBestFit {
		t.Fatalf("expected Policy to be overridden, got %v", merged.Policy)
	}
}

func TestValidatePolicyName(t *testing.T) {
	cfg := validConfig()
	cfg.Policy = "not-a-real-policy"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "policy") {
		t.Fatalf("expected a policy validation error, got %v", err)
	}
}

func TestValidateSeedRange(t *testing.T) {
	cfg := validConfig()
	cfg.SeedInit = 5
	cfg.SeedEnd = 5

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected seed-init == seed-end to be rejected")
	}
}

func TestParseHCLRejectsUnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader(`not_a_real_field = 1`))
	if err == nil {
		t.Fatalf("expected an unknown-key error")
	}
}

func TestParseHCLDecodesKnownFields(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
		duration = 3600
		policy = "stateful-best-fit"
	`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Duration != 3600 {
		t.Fatalf("expected duration 3600, got %v", cfg.Duration)
	}
	if cfg.Policy != "stateful-best-fit" {
		t.Fatalf("expected policy stateful-best-fit, got %v", cfg.Policy)
	}
}

func validConfig() *Config {
	return &Config{
		Duration:                10,
		JobLifetime:             60,
		JobInterarrival:         1,
		JobInvocationRate:       1,
		NodeCapacity:            1000,
		DefragmentationInterval: 0,
		StateMul:                1,
		ArgMul:                  1,
		SeedInit:                0,
		SeedEnd:                 1,
		Concurrency:             1,
		Policy:                  PolicyStatelessMinNodes,
		DataDir:                 "data",
		Output:                  "out.csv",
	}
}
