package job

import (
	"testing"

	"github.com/faascluster/simulator/internal/sampler"
	"github.com/faascluster/simulator/internal/sampler/testutil"
)

func newTestSampler(t *testing.T, seed int64) *sampler.Sampler {
	t.Helper()
	dir := testutil.DataDir(t)
	reg, err := sampler.LoadRegistry(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sampler.New(reg, seed)
}

func TestGenerateProducesWellFormedDAG(t *testing.T) {
	params := Params{StateMul: 2, ArgMul: 3}

	for seed := int64(0); seed < 50; seed++ {
		s := newTestSampler(t, seed)
		d := Generate(s, params)

		if err := d.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(d.Sources) == 0 {
			t.Fatalf("seed %d: expected at least one source", seed)
		}
		if len(d.Sinks) == 0 {
			t.Fatalf("seed %d: expected at least one sink", seed)
		}
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	params := Params{StateMul: 1, ArgMul: 1}

	a := Generate(newTestSampler(t, 7), params)
	b := Generate(newTestSampler(t, 7), params)

	fa, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fb, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fa != fb {
		t.Fatalf("expected identical DAGs for the same seed, fingerprints %d != %d", fa, fb)
	}
}

func TestLevelWidthsSumToN(t *testing.T) {
	s := newTestSampler(t, 1)
	for n := 1; n <= 30; n++ {
		for c := 1; c <= n; c++ {
			widths := levelWidths(s, n, c)
			sum := 0
			for _, w := range widths {
				if w < 1 {
					t.Fatalf("n=%d c=%d: width %v below 1", n, c, w)
				}
				sum += w
			}
			if sum != n {
				t.Fatalf("n=%d c=%d: widths sum to %d, want %d", n, c, sum, n)
			}
		}
	}
}

func TestNewJobDerivesTerminationTime(t *testing.T) {
	s := newTestSampler(t, 3)
	d := Generate(s, Params{StateMul: 1, ArgMul: 1})

	j := NewJob(1, d, 10, 5, 2)
	if j.TerminationTime != 15 {
		t.Fatalf("expected termination time 15, got %v", j.TerminationTime)
	}
	if j.InvocationPeriod() != 0.5 {
		t.Fatalf("expected invocation period 0.5, got %v", j.InvocationPeriod())
	}
}
