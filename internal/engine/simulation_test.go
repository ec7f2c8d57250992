package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faascluster/simulator/internal/sampler"
	"github.com/faascluster/simulator/internal/sampler/testutil"
)

func newRegistry(t *testing.T) *sampler.Registry {
	t.Helper()
	dir := testutil.DataDir(t)
	reg, err := sampler.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

// newRegistryFixedInterarrival removes the optional job_interval
// distribution so the simulation falls back to a fixed inter-arrival
// time, making arrival counts deterministic for boundary tests.
func newRegistryFixedInterarrival(t *testing.T) *sampler.Registry {
	t.Helper()
	dir := testutil.DataDir(t)
	if err := os.Remove(filepath.Join(dir, "job_interval")); err != nil {
		t.Fatalf("unexpected error removing job_interval fixture: %v", err)
	}
	reg, err := sampler.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func TestRunProducesASummary(t *testing.T) {
	reg := newRegistry(t)

	sim, err := New(Params{
		Duration:          100,
		JobLifetime:        60,
		JobInterarrival:    5,
		JobInvocationRate:  1,
		NodeCapacity:       1000,
		StateMul:           1,
		ArgMul:             1,
		Policy:             "stateless-min-nodes",
		Seed:               1,
		Registry:           reg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := sim.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.PeakNodes < 1 {
		t.Fatalf("expected at least one node to have been created")
	}
}

func TestRunDiscardsArrivalAtExactDurationBoundary(t *testing.T) {
	reg := newRegistryFixedInterarrival(t)

	sim, err := New(Params{
		Duration:          10,
		JobLifetime:       1000,
		JobInterarrival:   1,
		JobInvocationRate: 1,
		NodeCapacity:      1e6,
		StateMul:          1,
		ArgMul:            1,
		Policy:            "stateless-min-nodes",
		Seed:              1,
		Registry:          reg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sim.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Arrivals land at t=0,1,...,9 (10 arrivals); the one scheduled for
	// t=10 falls exactly on the horizon and must be discarded.
	if sim.nextJobID != 10 {
		t.Fatalf("expected exactly 10 job arrivals, got %d", sim.nextJobID)
	}
}

func TestRunRejectsUnknownPolicy(t *testing.T) {
	reg := newRegistry(t)

	_, err := New(Params{Duration: 10, Registry: reg, Policy: "not-a-real-policy"})
	if err == nil {
		t.Fatalf("expected a configuration error for an unknown policy")
	}
}

func TestRunIsDeterministicForSameSeed(t *testing.T) {
	reg := newRegistry(t)

	params := Params{
		Duration:          200,
		JobLifetime:        30,
		JobInterarrival:    3,
		JobInvocationRate:  2,
		NodeCapacity:       500,
		DefragInterval:     20,
		StateMul:           5,
		ArgMul:             5,
		Policy:             "stateful-best-fit",
		Seed:               42,
		Registry:           reg,
	}

	simA, err := New(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resultA, err := simA.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	simB, err := New(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resultB, err := simB.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resultA.Summary != resultB.Summary {
		t.Fatalf("expected identical summaries for the same seed:\n%+v\n%+v", resultA.Summary, resultB.Summary)
	}
}

func TestOversizedTaskIsConfigurationError(t *testing.T) {
	reg := newRegistry(t)

	sim, err := New(Params{
		Duration:          10,
		JobLifetime:        60,
		JobInterarrival:    1,
		JobInvocationRate:  1,
		NodeCapacity:       1, // smaller than any drawn task_cpu value in the fixture
		StateMul:           1,
		ArgMul:             1,
		Policy:             "stateless-min-nodes",
		Seed:               1,
		Registry:           reg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sim.Run(); err == nil {
		t.Fatalf("expected a configuration error for an oversized task")
	}
}
