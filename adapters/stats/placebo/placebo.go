package placebo

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gomediate/adapters/stats/ols"
	"gomediate/domain/core"
	"gomediate/domain/design"
	"gomediate/domain/mediation"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

const defaultWorkers = 4

// Tester runs a placebo permutation test: in a pool of untreated
// observations, it repeatedly assigns a fake treatment to a random subset
// (without replacement), refits the outcome regression, and builds the null
// distribution of the fake-treatment coefficient. A real effect should sit
// far in the tail of that distribution.
type Tester struct {
	draws       int
	fakeTreated int
	workers     int
}

// New creates a placebo tester with the given number of permutation draws and
// fake-treatment group size per draw.
func New(draws, fakeTreated int) *Tester {
	if draws < 1 {
		draws = 1
	}
	return &Tester{draws: draws, fakeTreated: fakeTreated, workers: defaultWorkers}
}

// SetWorkers configures fitting concurrency. Draw index sets are pre-generated
// sequentially from the seeded source, so parallelism never changes results.
func (t *Tester) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	t.workers = n
}

// Run executes the placebo test. The pool sample must carry a treatment
// column that is zero everywhere (an untreated pool); each draw flips it to
// one for fakeTreated randomly chosen rows. observed is the real-sample
// treatment coefficient the null distribution is compared against.
func (t *Tester) Run(ctx context.Context, pool *design.Sample, observed float64, rng *rand.Rand) (*mediation.PlaceboResult, error) {
	if err := pool.Validate(); err != nil {
		return nil, err
	}
	n := pool.Rows()
	if t.fakeTreated <= 0 || t.fakeTreated >= n {
		return nil, core.NewValidationError("placebo", "fake-treatment size must be in (0, pool size)")
	}
	tIdx, err := pool.Layout.TreatmentIndex()
	if err != nil {
		return nil, err
	}

	// Pre-generate all fake-treatment assignments in sequential order.
	assignments := make([][]int, t.draws)
	for i := range assignments {
		assignments[i] = rng.Perm(n)[:t.fakeTreated]
	}

	coefs := make([]float64, t.draws)
	valid := make([]bool, t.draws)
	sem := semaphore.NewWeighted(int64(t.workers))
	var wg sync.WaitGroup
	for i := range assignments {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			coef, err := t.fitDraw(pool, tIdx, assignments[i])
			if err != nil {
				return
			}
			coefs[i] = coef
			valid[i] = true
		}(i)
	}
	wg.Wait()

	null := make([]float64, 0, t.draws)
	for i, ok := range valid {
		if ok {
			null = append(null, coefs[i])
		}
	}
	if len(null) == 0 {
		return nil, core.ErrNoValidIterations
	}

	result := &mediation.PlaceboResult{
		Draws:       t.draws,
		Valid:       len(null),
		FakeTreated: t.fakeTreated,
		Observed:    observed,
	}

	// Empirical two-sided p: share of null coefficients at least as extreme
	// as the observed one.
	for _, c := range null {
		if math.Abs(c) >= math.Abs(observed) {
			result.ExceedCount++
		}
	}
	result.PValue = float64(result.ExceedCount) / float64(len(null))

	mean, _ := stats.Mean(null)
	sd, _ := stats.StandardDeviation(null)
	lo, _ := stats.Min(null)
	hi, _ := stats.Max(null)
	p2, _ := stats.Percentile(null, 2.5)
	p97, _ := stats.Percentile(null, 97.5)
	result.Null = mediation.NullDistributionSummary{
		Mean:         mean,
		StdDev:       sd,
		Min:          lo,
		Max:          hi,
		Percentile2:  p2,
		Percentile97: p97,
	}
	return result, nil
}

// fitDraw copies the pool, sets the fake-treatment rows, and fits the outcome
// regression, returning the fake-treatment coefficient.
func (t *Tester) fitDraw(pool *design.Sample, tIdx int, fake []int) (float64, error) {
	X := ols.DenseFrom(pool.X)
	for _, row := range fake {
		X.Set(row, tIdx, 1)
	}
	coef, err := ols.Solve(X, pool.Outcome)
	if err != nil {
		return 0, err
	}
	return coef[tIdx], nil
}
