package sampler

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/faascluster/simulator/internal/sampler/testutil"
	"github.com/faascluster/simulator/internal/simerrors"
)

func TestHistogramDrawStaysWithinRange(t *testing.T) {
	h, err := NewHistogram([]Bin{{Value: 1, Weight: 1}, {Value: 10, Weight: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The last bin jitters across the previous gap's width (9), so draws
	// span [1, 19).
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		v := h.Draw(rng)
		if v < 1 || v >= 19 {
			t.Fatalf("draw %v out of expected range [1, 19)", v)
		}
	}
}

func TestHistogramRejectsEmptyOrZeroWeight(t *testing.T) {
	if _, err := NewHistogram(nil); err == nil {
		t.Fatalf("expected error for empty histogram")
	}
	if _, err := NewHistogram([]Bin{{Value: 1, Weight: 0}}); err == nil {
		t.Fatalf("expected error for zero total weight")
	}
}

func TestLoadRegistryMissingFileIsDataError(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadRegistry(dir)
	if err == nil {
		t.Fatalf("expected a data error for an empty data directory")
	}
	var dataErr *simerrors.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected a *simerrors.DataError, got %T: %v", err, err)
	}
}

func TestLoadRegistryFromFixture(t *testing.T) {
	dir := testutil.DataDir(t)

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.JobInterval == nil {
		t.Fatalf("expected optional job_interval distribution to load")
	}
}

func TestConditionalSaturatesAtCap(t *testing.T) {
	dir := testutil.DataDir(t)
	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(2))
	// A conditioning value far above any loaded key, and far above the
	// cap, must not panic and must still draw a value.
	v := reg.CPL.Draw(rng, 10000)
	if v <= 0 {
		t.Fatalf("expected a positive draw, got %v", v)
	}
}

func TestSamplerDeterministicForSameSeed(t *testing.T) {
	dir := testutil.DataDir(t)
	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := New(reg, 42)
	b := New(reg, 42)

	for i := 0; i < 20; i++ {
		if av, bv := a.TaskCPU(), b.TaskCPU(); av != bv {
			t.Fatalf("draw %d diverged: %v != %v", i, av, bv)
		}
	}
}
