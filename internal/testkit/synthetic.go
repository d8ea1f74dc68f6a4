package testkit

import (
	"math/rand"

	"gomediate/domain/core"
	"gomediate/domain/design"
)

// SyntheticConfig controls the generated mediation dataset. Defaults encode
// the canonical scenario: mediator = 2*treatment + controls.[1,0.5,0] + noise,
// outcome = 1.5*mediator + 0.8*treatment + controls.[0,0,1] + noise.
type SyntheticConfig struct {
	Rows int
	Seed int64

	PathA  float64 // treatment -> mediator
	PathB  float64 // mediator -> outcome
	Direct float64 // treatment -> outcome

	ControlsOnMediator [3]float64
	ControlsOnOutcome  [3]float64
	NoiseSD            float64
}

// DefaultConfig returns the canonical generating coefficients.
func DefaultConfig() SyntheticConfig {
	return SyntheticConfig{
		Rows:               500,
		Seed:               42,
		PathA:              2.0,
		PathB:              1.5,
		Direct:             0.8,
		ControlsOnMediator: [3]float64{1, 0.5, 0},
		ControlsOnOutcome:  [3]float64{0, 0, 1},
		NoiseSD:            1.0,
	}
}

// Generate builds a synthetic mediation sample with a known data-generating
// process: design matrix [1, treatment in {0,1}, three standard-normal
// controls] and linear mediator/outcome responses with Gaussian noise.
func Generate(cfg SyntheticConfig) (*design.Sample, error) {
	if cfg.Rows < 1 {
		return nil, core.ErrEmptySample
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	layout := design.NewLayout(
		"pforr",
		[]core.VariableKey{"ctrl_1", "ctrl_2", "ctrl_3"},
		nil,
	)

	sample := &design.Sample{
		X:        design.Matrix{Data: make([][]float64, cfg.Rows)},
		Layout:   layout,
		Mediator: make([]float64, cfg.Rows),
		Outcome:  make([]float64, cfg.Rows),
	}

	for i := 0; i < cfg.Rows; i++ {
		treatment := float64(rng.Intn(2))
		c1 := rng.NormFloat64()
		c2 := rng.NormFloat64()
		c3 := rng.NormFloat64()
		sample.X.Data[i] = []float64{1, treatment, c1, c2, c3}

		mediator := cfg.PathA*treatment +
			cfg.ControlsOnMediator[0]*c1 +
			cfg.ControlsOnMediator[1]*c2 +
			cfg.ControlsOnMediator[2]*c3 +
			cfg.NoiseSD*rng.NormFloat64()
		sample.Mediator[i] = mediator

		sample.Outcome[i] = cfg.PathB*mediator +
			cfg.Direct*treatment +
			cfg.ControlsOnOutcome[0]*c1 +
			cfg.ControlsOnOutcome[1]*c2 +
			cfg.ControlsOnOutcome[2]*c3 +
			cfg.NoiseSD*rng.NormFloat64()
	}
	return sample, nil
}

// GenerateDegenerate builds a sample whose rows are all copies of a single
// observation, so any resample is rank deficient. Used to exercise the
// minimum-norm fallback and invalid-iteration accounting.
func GenerateDegenerate(rows int) *design.Sample {
	layout := design.NewLayout(
		"pforr",
		[]core.VariableKey{"ctrl_1"},
		nil,
	)
	sample := &design.Sample{
		X:        design.Matrix{Data: make([][]float64, rows)},
		Layout:   layout,
		Mediator: make([]float64, rows),
		Outcome:  make([]float64, rows),
	}
	for i := 0; i < rows; i++ {
		sample.X.Data[i] = []float64{1, 1, 0.5}
		sample.Mediator[i] = 2
		sample.Outcome[i] = 3
	}
	return sample
}

// GenerateUntreatedPool builds a pool with the treatment column all zeros and
// an outcome driven only by controls, for placebo permutation tests.
func GenerateUntreatedPool(rows int, seed int64) *design.Sample {
	rng := rand.New(rand.NewSource(seed))
	layout := design.NewLayout(
		"pforr",
		[]core.VariableKey{"ctrl_1", "ctrl_2"},
		nil,
	)
	sample := &design.Sample{
		X:        design.Matrix{Data: make([][]float64, rows)},
		Layout:   layout,
		Mediator: make([]float64, rows),
		Outcome:  make([]float64, rows),
	}
	for i := 0; i < rows; i++ {
		c1 := rng.NormFloat64()
		c2 := rng.NormFloat64()
		sample.X.Data[i] = []float64{1, 0, c1, c2}
		sample.Mediator[i] = c1 + rng.NormFloat64()
		sample.Outcome[i] = 0.7*c1 - 0.2*c2 + rng.NormFloat64()
	}
	return sample
}
