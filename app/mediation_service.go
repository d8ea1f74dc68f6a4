package app

import (
	"context"
	"time"

	"gomediate/domain/core"
	"gomediate/domain/design"
	"gomediate/domain/mediation"
	"gomediate/internal"
	"gomediate/internal/errors"
	"gomediate/ports"
)

// MediationService orchestrates one full mediation analysis: validation,
// point estimation with robust standard errors, effect decomposition, Sobel
// test, and the percentile bootstrap, with a run manifest for replayability.
type MediationService struct {
	estimator ports.MediationPort
	resampler ports.ResamplerPort
	rng       ports.RNGPort
	logger    *internal.Logger
}

// NewMediationService wires the service from its ports.
func NewMediationService(est ports.MediationPort, res ports.ResamplerPort, rngPort ports.RNGPort, logger *internal.Logger) *MediationService {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &MediationService{
		estimator: est,
		resampler: res,
		rng:       rngPort,
		logger:    logger,
	}
}

// RunRequest specifies one analysis run.
type RunRequest struct {
	Sample     *design.Sample
	Iterations int
	Seed       int64
}

// RunReport is the complete output of one analysis run.
type RunReport struct {
	Paths     mediation.PathEstimates
	Effects   mediation.Decomposition
	Sobel     mediation.SobelResult
	Bootstrap *mediation.BootstrapResult
	Manifest  *mediation.RunManifest
}

// Run executes the analysis. Given the same sample, seed and iteration count
// the report's numeric content is bit-for-bit reproducible.
func (s *MediationService) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	if req.Sample == nil {
		return nil, core.ErrEmptySample
	}
	if err := req.Sample.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	manifest := mediation.NewRunManifest(req.Seed, req.Sample.Rows(), treatedCount(req.Sample))
	manifest.Iterations = req.Iterations

	paths, err := s.estimator.EstimateRobust(req.Sample)
	if err != nil {
		return nil, errors.Wrapf(err, "point estimation failed for run %s", manifest.RunID)
	}
	effects := mediation.Decompose(paths)
	if !effects.ShareDefined {
		s.logger.Warn("direct and indirect effects cancel exactly; percent mediated is undefined for run %s", manifest.RunID)
	}

	sobel := mediation.Sobel(paths.A, paths.SEA, paths.B, paths.SEB)

	stream, err := s.rng.SeededStream(ctx, "bootstrap", req.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "seeding bootstrap stream failed")
	}
	boot, err := s.resampler.Resample(ctx, req.Sample, req.Iterations, stream)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap resampling failed")
	}
	boot.Seed = req.Seed

	manifest.Valid = boot.Valid
	manifest.RuntimeMs = time.Since(started).Milliseconds()

	s.logger.Info("run %s: n=%d a=%.4f b=%.4f indirect=%.4f direct=%.4f total=%.4f, bootstrap %d/%d valid",
		manifest.RunID, paths.SampleSize, paths.A, paths.B,
		effects.Indirect, effects.Direct, effects.Total, boot.Valid, boot.Requested)
	if boot.Valid < boot.Requested {
		s.logger.Warn("run %s: %d of %d bootstrap iterations discarded", manifest.RunID, boot.Requested-boot.Valid, boot.Requested)
	}

	return &RunReport{
		Paths:     paths,
		Effects:   effects,
		Sobel:     sobel,
		Bootstrap: boot,
		Manifest:  manifest,
	}, nil
}

// treatedCount counts rows with treatment indicator 1.
func treatedCount(sample *design.Sample) int {
	tIdx, err := sample.Layout.TreatmentIndex()
	if err != nil {
		return 0
	}
	count := 0
	for _, row := range sample.X.Data {
		if row[tIdx] == 1 {
			count++
		}
	}
	return count
}
