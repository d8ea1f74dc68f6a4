package ports

import (
	"context"
	"math/rand"

	"gomediate/domain/design"
	"gomediate/domain/mediation"
)

// MediationPort estimates the a/b/direct path coefficients for a sample.
// Implementations are pure functions of their inputs: no side effects, and an
// error only on dimension mismatch or a matrix singular beyond solver tolerance.
type MediationPort interface {
	Estimate(sample *design.Sample) (mediation.PathEstimates, error)

	// EstimateRobust additionally fills the HC3 robust standard errors for
	// the a and b paths, for point-estimate fits feeding the Sobel test.
	EstimateRobust(sample *design.Sample) (mediation.PathEstimates, error)
}

// ResamplerPort runs the percentile bootstrap over a sample using the supplied
// seeded random source. Implementations must be bit-for-bit reproducible for
// the same sample, iteration count and source state.
type ResamplerPort interface {
	Resample(ctx context.Context, sample *design.Sample, iterations int, rng *rand.Rand) (*mediation.BootstrapResult, error)
}

// PlaceboPort runs a placebo permutation test over an untreated pool.
type PlaceboPort interface {
	Run(ctx context.Context, pool *design.Sample, observed float64, rng *rand.Rand) (*mediation.PlaceboResult, error)
}
