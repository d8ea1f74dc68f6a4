package main

import (
	"fmt"
	"os"

	"gomediate/adapters/rng"
	"gomediate/adapters/stats/bootstrap"
	"gomediate/adapters/stats/descriptive"
	"gomediate/adapters/stats/estimator"
	"gomediate/adapters/stats/placebo"
	"gomediate/app"
	"gomediate/domain/core"
	"gomediate/domain/design"
	"gomediate/internal"
	"gomediate/internal/config"
	"gomediate/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env for local overrides; absence is not an error.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gomediate-cli",
		Short: "Mediation analysis toolkit: OLS paths, Sobel test, percentile bootstrap, placebo test",
	}

	rootCmd.AddCommand(
		newMediateCmd(),
		newPlaceboCmd(),
		newDeterminismCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMediateCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "mediate",
		Short: "Run the full mediation pipeline on a synthetic dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			genCfg := testkit.DefaultConfig()
			genCfg.Rows = rows
			genCfg.Seed = cfg.Analysis.Seed
			sample, err := testkit.Generate(genCfg)
			if err != nil {
				return err
			}

			treatment, err := treatmentColumn(sample)
			if err != nil {
				return err
			}
			groups, err := descriptive.SummarizeByTreatment(sample.Outcome, treatment)
			if err != nil {
				return err
			}
			logger.Info("outcome by group: treated n=%d mean=%.3f, control n=%d mean=%.3f, diff=%.3f",
				groups.Treated.N, groups.Treated.Mean, groups.Control.N, groups.Control.Mean, groups.MeanDiff)

			est := estimator.New()
			res := bootstrap.New(est)
			res.SetWorkers(cfg.Analysis.Workers)
			service := app.NewMediationService(est, res, rng.New(), logger)

			report, err := service.Run(cmd.Context(), app.RunRequest{
				Sample:     sample,
				Iterations: cfg.Analysis.BootstrapIterations,
				Seed:       cfg.Analysis.Seed,
			})
			if err != nil {
				return err
			}

			logger.Info("sobel: z=%.3f se=%.4f p=%.6f", report.Sobel.Z, report.Sobel.SE, report.Sobel.P)
			logger.Info("indirect %.3f [%.3f, %.3f]", report.Bootstrap.Indirect.Point, report.Bootstrap.Indirect.CI.Low, report.Bootstrap.Indirect.CI.High)
			logger.Info("direct   %.3f [%.3f, %.3f]", report.Bootstrap.Direct.Point, report.Bootstrap.Direct.CI.Low, report.Bootstrap.Direct.CI.High)
			logger.Info("total    %.3f [%.3f, %.3f]", report.Bootstrap.Total.Point, report.Bootstrap.Total.CI.Low, report.Bootstrap.Total.CI.High)
			if share, err := report.Effects.Share(); err == nil {
				logger.Info("percent  %.1f%% [%.1f%%, %.1f%%]", share, report.Bootstrap.Percent.CI.Low, report.Bootstrap.Percent.CI.High)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 500, "synthetic sample size")
	return cmd
}

// treatmentColumn extracts the treatment indicator wherever the layout places
// it, never by hard-coded position.
func treatmentColumn(sample *design.Sample) ([]float64, error) {
	tIdx, err := sample.Layout.TreatmentIndex()
	if err != nil {
		return nil, err
	}
	return sample.Column(tIdx)
}

func newPlaceboCmd() *cobra.Command {
	var rows int
	var observed float64
	cmd := &cobra.Command{
		Use:   "placebo",
		Short: "Run the placebo permutation test on a synthetic untreated pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			pool := testkit.GenerateUntreatedPool(rows, cfg.Analysis.Seed)
			treated := cfg.Analysis.PlaceboTreated
			if treated >= rows {
				treated = rows / 4
			}
			tester := placebo.New(cfg.Analysis.PlaceboDraws, treated)
			tester.SetWorkers(cfg.Analysis.Workers)

			stream, err := rng.New().SeededStream(cmd.Context(), "placebo", cfg.Analysis.Seed)
			if err != nil {
				return err
			}
			result, err := tester.Run(cmd.Context(), pool, observed, stream)
			if err != nil {
				return err
			}
			logger.Info("placebo: %d/%d valid draws, null mean=%.4f sd=%.4f, 95%% [%.4f, %.4f]",
				result.Valid, result.Draws, result.Null.Mean, result.Null.StdDev, result.Null.Percentile2, result.Null.Percentile97)
			logger.Info("observed %.4f: empirical p=%.4f (%d/%d draws as extreme)",
				result.Observed, result.PValue, result.ExceedCount, result.Valid)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 800, "untreated pool size")
	cmd.Flags().Float64Var(&observed, "observed", 0.3756, "observed treatment coefficient to test")
	return cmd
}

func newDeterminismCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "determinism",
		Short: "Verify two identically seeded runs produce identical intervals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			sample, err := testkit.Generate(testkit.DefaultConfig())
			if err != nil {
				return err
			}
			run := func() (*app.RunReport, error) {
				est := estimator.New()
				res := bootstrap.New(est)
				res.SetWorkers(cfg.Analysis.Workers)
				service := app.NewMediationService(est, res, rng.New(), logger)
				return service.Run(cmd.Context(), app.RunRequest{
					Sample:     sample,
					Iterations: cfg.Analysis.BootstrapIterations,
					Seed:       cfg.Analysis.Seed,
				})
			}

			first, err := run()
			if err != nil {
				return err
			}
			second, err := run()
			if err != nil {
				return err
			}

			if first.Bootstrap.Indirect.CI != second.Bootstrap.Indirect.CI ||
				first.Bootstrap.Direct.CI != second.Bootstrap.Direct.CI ||
				first.Bootstrap.Total.CI != second.Bootstrap.Total.CI ||
				first.Bootstrap.Valid != second.Bootstrap.Valid {
				return fmt.Errorf("%w: seeded runs diverged", core.ErrNonDeterministic)
			}
			logger.Info("determinism check passed: %d/%d valid iterations, indirect CI [%.6f, %.6f]",
				first.Bootstrap.Valid, first.Bootstrap.Requested,
				first.Bootstrap.Indirect.CI.Low, first.Bootstrap.Indirect.CI.High)
			return nil
		},
	}
	return cmd
}
