package estimator

import (
	"gomediate/adapters/stats/ols"
	"gomediate/domain/design"
	"gomediate/domain/mediation"
)

// Estimator computes the mediation path coefficients for one sample:
// a from regressing the mediator on the design matrix, then b and the direct
// effect from regressing the outcome on the design matrix with the mediator
// appended as the last column.
type Estimator struct{}

// New creates a mediation estimator.
func New() *Estimator {
	return &Estimator{}
}

// Estimate fits the two least-squares models and extracts the a/b/direct
// paths. Pure function of the sample; fails only on dimension mismatch or a
// matrix singular beyond solver tolerance.
func (e *Estimator) Estimate(sample *design.Sample) (mediation.PathEstimates, error) {
	if err := sample.Validate(); err != nil {
		return mediation.PathEstimates{}, err
	}
	tIdx, err := sample.Layout.TreatmentIndex()
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	X := ols.DenseFrom(sample.X)
	coefMe, err := ols.Solve(X, sample.Mediator)
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	Xext := ols.AppendColumn(X, sample.Mediator)
	coefOut, err := ols.Solve(Xext, sample.Outcome)
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	return mediation.PathEstimates{
		A:          coefMe[tIdx],
		B:          coefOut[len(coefOut)-1],
		Direct:     coefOut[tIdx],
		SampleSize: sample.Rows(),
	}, nil
}

// EstimateRobust is Estimate plus HC3 robust standard errors for the a and b
// paths, for the point-estimate fit that feeds the Sobel test. Resampling
// iterations use the plain Estimate; the per-draw standard errors are never
// consumed.
func (e *Estimator) EstimateRobust(sample *design.Sample) (mediation.PathEstimates, error) {
	if err := sample.Validate(); err != nil {
		return mediation.PathEstimates{}, err
	}
	tIdx, err := sample.Layout.TreatmentIndex()
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	X := ols.DenseFrom(sample.X)
	fitMe, err := ols.Regress(X, sample.Mediator)
	if err != nil {
		return mediation.PathEstimates{}, err
	}
	seMe, err := ols.RobustSE(X, fitMe.Residuals)
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	Xext := ols.AppendColumn(X, sample.Mediator)
	fitOut, err := ols.Regress(Xext, sample.Outcome)
	if err != nil {
		return mediation.PathEstimates{}, err
	}
	seOut, err := ols.RobustSE(Xext, fitOut.Residuals)
	if err != nil {
		return mediation.PathEstimates{}, err
	}

	last := len(fitOut.Coefficients) - 1
	return mediation.PathEstimates{
		A:          fitMe.Coefficients[tIdx],
		B:          fitOut.Coefficients[last],
		Direct:     fitOut.Coefficients[tIdx],
		SEA:        seMe[tIdx],
		SEB:        seOut[last],
		SampleSize: sample.Rows(),
	}, nil
}
