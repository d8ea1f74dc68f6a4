package bootstrap

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"gomediate/domain/design"
	"gomediate/domain/mediation"
	"gomediate/ports"

	"golang.org/x/sync/semaphore"
)

const defaultWorkers = 4

// Resampler draws bootstrap samples with replacement, refits the mediation
// estimator on each, and aggregates percentile confidence intervals for the
// indirect/direct/total/percent-mediated statistics.
type Resampler struct {
	estimator ports.MediationPort
	workers   int
}

// New creates a resampler around a mediation estimator.
func New(est ports.MediationPort) *Resampler {
	return &Resampler{estimator: est, workers: defaultWorkers}
}

// SetWorkers configures the fitting concurrency. Parallelism never changes
// results: all index draws come from the seeded source in sequential order
// before any worker starts.
func (r *Resampler) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	r.workers = n
}

// Resample runs the percentile bootstrap. The random source is caller-owned
// and must be explicitly seeded; identical source state, sample and iteration
// count reproduce the result bit for bit. A failed draw (singular resample)
// is recorded and excluded, never fatal. iterations <= 0 returns an explicit
// empty result rather than percentiles over nothing.
func (r *Resampler) Resample(ctx context.Context, sample *design.Sample, iterations int, rng *rand.Rand) (*mediation.BootstrapResult, error) {
	if err := sample.Validate(); err != nil {
		return nil, err
	}

	// Point estimates come from the original sample, not any resample.
	point, err := r.estimator.Estimate(sample)
	if err != nil {
		return nil, err
	}
	pointDecomp := mediation.Decompose(point)

	result := &mediation.BootstrapResult{
		Requested:     iterations,
		FailureCounts: make(map[mediation.FailureReason]int),
	}
	result.Indirect.Point = pointDecomp.Indirect
	result.Direct.Point = pointDecomp.Direct
	result.Total.Point = pointDecomp.Total
	result.Percent.Point = pointDecomp.PercentMediated

	if iterations <= 0 {
		return result, nil
	}

	n := sample.Rows()

	// Pre-generate every index draw from the seeded source in original
	// sequential order, so worker scheduling cannot affect which indices
	// are drawn.
	draws := make([][]int, iterations)
	for i := range draws {
		idx := make([]int, n)
		for j := range idx {
			idx[j] = rng.Intn(n)
		}
		draws[i] = idx
	}

	outcomes := make([]mediation.IterationOutcome, iterations)
	sem := semaphore.NewWeighted(int64(r.workers))
	var wg sync.WaitGroup
	for i := range draws {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = r.runIteration(i, sample, draws[i])
		}(i)
	}
	wg.Wait()

	r.aggregate(result, outcomes)
	return result, nil
}

// runIteration gathers one resample and fits it. Estimation failure marks the
// iteration invalid with a reason; it must not abort the run.
func (r *Resampler) runIteration(index int, sample *design.Sample, idx []int) mediation.IterationOutcome {
	resampled, err := sample.Gather(idx)
	if err != nil {
		return mediation.IterationOutcome{Index: index, Reason: mediation.FailureEstimator}
	}
	paths, err := r.estimator.Estimate(resampled)
	if err != nil {
		return mediation.IterationOutcome{Index: index, Reason: mediation.FailureSingularDraw}
	}
	return mediation.IterationOutcome{
		Index:    index,
		Valid:    true,
		Indirect: paths.A * paths.B,
		Direct:   paths.Direct,
	}
}

// aggregate filters to valid iterations and computes the four percentile
// intervals. Draws with a zero total effect have an undefined mediated share;
// they stay in the indirect/direct/total distributions but are excluded from
// the percent distribution and counted.
func (r *Resampler) aggregate(result *mediation.BootstrapResult, outcomes []mediation.IterationOutcome) {
	indirect := make([]float64, 0, len(outcomes))
	direct := make([]float64, 0, len(outcomes))
	total := make([]float64, 0, len(outcomes))
	percent := make([]float64, 0, len(outcomes))

	for _, o := range outcomes {
		if !o.Valid {
			result.FailureCounts[o.Reason]++
			continue
		}
		result.Valid++
		t := o.Indirect + o.Direct
		indirect = append(indirect, o.Indirect)
		direct = append(direct, o.Direct)
		total = append(total, t)
		if t == 0 {
			result.ZeroTotalExcluded++
			continue
		}
		pct := o.Indirect / t * 100
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			result.ZeroTotalExcluded++
			continue
		}
		percent = append(percent, pct)
	}

	result.Indirect.CI, result.Indirect.Count = interval(indirect)
	result.Direct.CI, result.Direct.Count = interval(direct)
	result.Total.CI, result.Total.Count = interval(total)
	result.Percent.CI, result.Percent.Count = interval(percent)
}

// interval computes the 95% percentile interval of a bootstrap distribution.
func interval(values []float64) (mediation.Interval, int) {
	if len(values) == 0 {
		return mediation.Interval{}, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return mediation.Interval{
		Low:  percentile(sorted, 2.5),
		High: percentile(sorted, 97.5),
	}, len(values)
}

// percentile uses the linear-interpolation method on pre-sorted data.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
