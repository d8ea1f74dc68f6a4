package bootstrap

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gomediate/adapters/stats/estimator"
	"gomediate/domain/core"
	"gomediate/domain/design"
	"gomediate/domain/mediation"
	"gomediate/internal/testkit"
)

func newTestSample(t *testing.T) *design.Sample {
	t.Helper()
	sample, err := testkit.Generate(testkit.DefaultConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return sample
}

func TestResample_IntervalsAreOrderedAndFinite(t *testing.T) {
	sample := newTestSample(t)
	r := New(estimator.New())

	result, err := r.Resample(context.Background(), sample, 400, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if result.Valid != 400 {
		t.Fatalf("expected all iterations valid on well-behaved data, got %d/400", result.Valid)
	}

	for name, d := range map[string]mediation.EffectDistribution{
		"indirect": result.Indirect,
		"direct":   result.Direct,
		"total":    result.Total,
		"percent":  result.Percent,
	} {
		if math.IsNaN(d.CI.Low) || math.IsNaN(d.CI.High) ||
			math.IsInf(d.CI.Low, 0) || math.IsInf(d.CI.High, 0) {
			t.Fatalf("%s interval not finite: %+v", name, d.CI)
		}
		if d.CI.Low > d.CI.High {
			t.Fatalf("%s interval inverted: %+v", name, d.CI)
		}
		if d.Count == 0 {
			t.Fatalf("%s distribution empty", name)
		}
	}

	// Non-degenerate interval around a genuinely mediated effect.
	if result.Indirect.CI.High-result.Indirect.CI.Low <= 0 {
		t.Fatalf("indirect interval degenerate: %+v", result.Indirect.CI)
	}
	if result.Indirect.CI.Low < 1.5 || result.Indirect.CI.High > 4.5 {
		t.Fatalf("indirect interval far from generating value 3.0: %+v", result.Indirect.CI)
	}

	// The point decomposition must satisfy indirect + direct == total.
	if math.Abs(result.Indirect.Point+result.Direct.Point-result.Total.Point) > 1e-12 {
		t.Fatalf("point decomposition broken: %f + %f != %f",
			result.Indirect.Point, result.Direct.Point, result.Total.Point)
	}
}

func TestResample_Deterministic(t *testing.T) {
	sample := newTestSample(t)
	r := New(estimator.New())
	r.SetWorkers(8) // parallelism must not change results

	first, err := r.Resample(context.Background(), sample, 200, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("first resample: %v", err)
	}
	second, err := r.Resample(context.Background(), sample, 200, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("second resample: %v", err)
	}

	if first.Valid != second.Valid {
		t.Fatalf("valid counts diverged: %d vs %d", first.Valid, second.Valid)
	}
	if first.Indirect.CI != second.Indirect.CI ||
		first.Direct.CI != second.Direct.CI ||
		first.Total.CI != second.Total.CI ||
		first.Percent.CI != second.Percent.CI {
		t.Fatalf("seeded runs diverged:\n%+v\n%+v", first, second)
	}
}

func TestResample_ZeroIterationsIsExplicitlyEmpty(t *testing.T) {
	sample := newTestSample(t)
	r := New(estimator.New())

	result, err := r.Resample(context.Background(), sample, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if !result.Empty() {
		t.Fatal("zero-iteration run should report an empty result")
	}
	if result.Indirect.Count != 0 || result.Percent.Count != 0 {
		t.Fatalf("no distribution should exist for zero iterations: %+v", result)
	}
	// Point estimates are still reported from the original sample.
	if result.Total.Point != result.Indirect.Point+result.Direct.Point {
		t.Fatal("point estimates missing from empty result")
	}
}

// failingEstimator fails on every resample but succeeds on the original
// sample, exercising the invalid-iteration accounting.
type failingEstimator struct {
	real  *estimator.Estimator
	calls int
}

func (f *failingEstimator) Estimate(sample *design.Sample) (mediation.PathEstimates, error) {
	f.calls++
	if f.calls == 1 {
		return f.real.Estimate(sample)
	}
	return mediation.PathEstimates{}, core.ErrSingularMatrix
}

func (f *failingEstimator) EstimateRobust(sample *design.Sample) (mediation.PathEstimates, error) {
	return f.real.EstimateRobust(sample)
}

func TestResample_FailedIterationsCountedNotFatal(t *testing.T) {
	sample := newTestSample(t)
	r := New(&failingEstimator{real: estimator.New()})
	r.SetWorkers(1) // keep the call-order contract of the stub

	result, err := r.Resample(context.Background(), sample, 50, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("resample must not abort on per-iteration failures: %v", err)
	}
	if result.Valid != 0 {
		t.Fatalf("expected 0 valid iterations, got %d", result.Valid)
	}
	if result.FailureCounts[mediation.FailureSingularDraw] != 50 {
		t.Fatalf("expected 50 counted failures, got %+v", result.FailureCounts)
	}
	if !result.Empty() {
		t.Fatal("all-failed run should report empty")
	}
}

func TestResample_ZeroTotalDrawsExcludedFromPercent(t *testing.T) {
	// A constant estimator whose effects cancel exactly: every draw has
	// total 0, so the percent distribution must be empty and counted.
	r := New(cancellingEstimator{})
	sample := newTestSample(t)

	result, err := r.Resample(context.Background(), sample, 20, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if result.Valid != 20 {
		t.Fatalf("expected 20 valid draws, got %d", result.Valid)
	}
	if result.ZeroTotalExcluded != 20 {
		t.Fatalf("expected 20 zero-total exclusions, got %d", result.ZeroTotalExcluded)
	}
	if result.Percent.Count != 0 {
		t.Fatalf("percent distribution should be empty, got count %d", result.Percent.Count)
	}
	if result.Indirect.Count != 20 || result.Total.Count != 20 {
		t.Fatal("indirect/total distributions must keep zero-total draws")
	}
}

type cancellingEstimator struct{}

func (cancellingEstimator) Estimate(*design.Sample) (mediation.PathEstimates, error) {
	return mediation.PathEstimates{A: 1, B: 2, Direct: -2}, nil
}

func (cancellingEstimator) EstimateRobust(s *design.Sample) (mediation.PathEstimates, error) {
	return cancellingEstimator{}.Estimate(s)
}
