package mediation

import (
	"math"

	"gomediate/domain/core"
)

// PathEstimates holds the three regression coefficients of interest from one
// pair of least-squares fits.
// INVARIANTS:
// - A is the treatment coefficient from the mediator model
// - B is the mediator coefficient from the outcome model
// - Direct is the treatment coefficient from the outcome model
type PathEstimates struct {
	A      float64 `json:"a"`      // treatment -> mediator
	B      float64 `json:"b"`      // mediator -> outcome (controlling treatment)
	Direct float64 `json:"direct"` // treatment -> outcome (controlling mediator)

	// Heteroskedasticity-robust standard errors for the a and b paths.
	// Only populated on full-rank point-estimate fits; zero on resamples.
	SEA float64 `json:"se_a,omitempty"`
	SEB float64 `json:"se_b,omitempty"`

	SampleSize int `json:"sample_size"`
}

// Decomposition is the product-of-coefficients breakdown of the treatment
// effect on the outcome.
type Decomposition struct {
	Indirect float64 `json:"indirect"` // a * b
	Direct   float64 `json:"direct"`
	Total    float64 `json:"total"` // indirect + direct

	// PercentMediated is indirect/total*100. When the direct and indirect
	// effects exactly cancel the share is undefined: PercentMediated is NaN
	// and ShareDefined is false. Callers must check ShareDefined instead of
	// propagating the sentinel into aggregates.
	PercentMediated float64 `json:"percent_mediated"`
	ShareDefined    bool    `json:"share_defined"`
}

// Decompose derives the indirect/direct/total decomposition from path
// estimates. The percent-mediated denominator is always indirect+direct from
// the same outcome-model fit, for the point estimate and for every resample.
func Decompose(p PathEstimates) Decomposition {
	d := Decomposition{
		Indirect: p.A * p.B,
		Direct:   p.Direct,
	}
	d.Total = d.Indirect + d.Direct
	if d.Total == 0 {
		d.PercentMediated = math.NaN()
		d.ShareDefined = false
		return d
	}
	d.PercentMediated = d.Indirect / d.Total * 100
	d.ShareDefined = true
	return d
}

// Share returns the percent-mediated share, or ErrUndefinedShare when the
// direct and indirect effects cancel exactly. Callers that cannot tolerate the
// NaN sentinel use this accessor.
func (d Decomposition) Share() (float64, error) {
	if !d.ShareDefined {
		return 0, core.ErrUndefinedShare
	}
	return d.PercentMediated, nil
}

// Interval is a two-sided percentile interval.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// EffectDistribution pairs a point estimate with its bootstrap interval.
type EffectDistribution struct {
	Point float64  `json:"point"`
	CI    Interval `json:"ci"`
	Count int      `json:"count"` // values that entered the percentile computation
}

// FailureReason classifies why a resampling iteration produced no estimate.
type FailureReason string

const (
	FailureNone         FailureReason = ""
	FailureSingularDraw FailureReason = "singular_draw"
	FailureEstimator    FailureReason = "estimator_error"
)

// IterationOutcome is the explicit per-iteration result of a bootstrap draw:
// either a value or a failure with a reason. Failures are aggregated into
// counts, never swallowed.
type IterationOutcome struct {
	Index    int           `json:"index"`
	Valid    bool          `json:"valid"`
	Reason   FailureReason `json:"reason,omitempty"`
	Indirect float64       `json:"indirect"`
	Direct   float64       `json:"direct"`
}

// BootstrapResult reports the percentile-bootstrap interval estimates for the
// mediation decomposition, plus the diagnostic counts required to interpret
// them.
type BootstrapResult struct {
	Requested int   `json:"requested"`
	Valid     int   `json:"valid"`
	Seed      int64 `json:"seed"`

	// ZeroTotalExcluded counts valid draws whose total effect was exactly
	// zero; their percent-mediated value is undefined and excluded from the
	// Percent distribution.
	ZeroTotalExcluded int `json:"zero_total_excluded"`

	FailureCounts map[FailureReason]int `json:"failure_counts,omitempty"`

	Indirect EffectDistribution `json:"indirect"`
	Direct   EffectDistribution `json:"direct"`
	Total    EffectDistribution `json:"total"`
	Percent  EffectDistribution `json:"percent"`
}

// Empty reports whether the result carries no usable distribution, either
// because zero iterations were requested or none survived.
func (r *BootstrapResult) Empty() bool {
	return r.Valid == 0
}

// NullDistributionSummary describes a permutation null distribution.
type NullDistributionSummary struct {
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile2  float64 `json:"percentile_2_5"`
	Percentile97 float64 `json:"percentile_97_5"`
}

// PlaceboResult reports a placebo permutation test: the distribution of the
// fake-treatment coefficient across random assignments in an untreated pool.
type PlaceboResult struct {
	Draws       int                     `json:"draws"`
	Valid       int                     `json:"valid"`
	FakeTreated int                     `json:"fake_treated"`
	Seed        int64                   `json:"seed"`
	Observed    float64                 `json:"observed"`
	PValue      float64                 `json:"p_value"` // empirical two-sided
	ExceedCount int                     `json:"exceed_count"`
	Null        NullDistributionSummary `json:"null"`
}

// RunManifest captures the complete specification and accounting of one
// analysis run for replayability.
type RunManifest struct {
	RunID        core.RunID     `json:"run_id"`
	Seed         int64          `json:"seed"`
	SampleSize   int            `json:"sample_size"`
	TreatedCount int            `json:"treated_count"`
	Iterations   int            `json:"iterations"`
	Valid        int            `json:"valid"`
	RuntimeMs    int64          `json:"runtime_ms"`
	CreatedAt    core.Timestamp `json:"created_at"`
}

// NewRunManifest creates a manifest with a fresh run ID.
func NewRunManifest(seed int64, sampleSize, treated int) *RunManifest {
	return &RunManifest{
		RunID:        core.NewRunID(),
		Seed:         seed,
		SampleSize:   sampleSize,
		TreatedCount: treated,
		CreatedAt:    core.Now(),
	}
}
