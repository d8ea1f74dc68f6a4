package ols

import (
	"errors"
	"math"
	"testing"

	"gomediate/domain/core"

	"gonum.org/v1/gonum/mat"
)

func TestSolve_ExactRecovery(t *testing.T) {
	// y = 1 + 2*x with no noise; coefficients must come back exactly.
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	y := []float64{1, 3, 5, 7}

	coef, err := Solve(X, y)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if math.Abs(coef[0]-1) > 1e-10 || math.Abs(coef[1]-2) > 1e-10 {
		t.Fatalf("expected [1 2], got %v", coef)
	}
}

func TestSolve_DimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2})
	_, err := Solve(X, []float64{1, 2})
	if !errors.Is(err, core.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSolve_RankDeficientReturnsMinimumNorm(t *testing.T) {
	// Second column duplicates the intercept: rank 1. The solver must fall
	// back to a finite minimum-norm solution rather than crash.
	X := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 1,
		1, 1,
	})
	y := []float64{2, 2, 2}

	coef, err := Solve(X, y)
	if err != nil {
		t.Fatalf("solve on rank-deficient matrix: %v", err)
	}
	for _, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Fatalf("expected finite coefficients, got %v", coef)
		}
	}
	// Fitted values still reproduce y.
	fitted := coef[0] + coef[1]
	if math.Abs(fitted-2) > 1e-8 {
		t.Fatalf("minimum-norm solution does not fit the data: %v", coef)
	}
}

func TestRegress_Diagnostics(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	y := []float64{1, 3, 5, 7}

	fit, err := Regress(X, y)
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	if math.Abs(fit.RSquared-1) > 1e-10 {
		t.Fatalf("expected R^2 = 1 on noiseless data, got %f", fit.RSquared)
	}
	for i, r := range fit.Residuals {
		if math.Abs(r) > 1e-8 {
			t.Fatalf("residual %d = %g, want ~0", i, r)
		}
	}
	if fit.N != 4 || fit.K != 2 {
		t.Fatalf("unexpected dims n=%d k=%d", fit.N, fit.K)
	}
}

func TestRobustSE_PositiveOnNoisyFit(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
		1, 4,
		1, 5,
	})
	y := []float64{0.9, 3.2, 4.8, 7.1, 8.9, 11.2}

	fit, err := Regress(X, y)
	if err != nil {
		t.Fatalf("regress: %v", err)
	}
	se, err := RobustSE(X, fit.Residuals)
	if err != nil {
		t.Fatalf("robust se: %v", err)
	}
	for j, s := range se {
		if s <= 0 || math.IsNaN(s) {
			t.Fatalf("se[%d] = %g, want positive", j, s)
		}
	}
}

func TestRobustSE_SingularMatrix(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 1,
		1, 1,
	})
	_, err := RobustSE(X, []float64{0.1, -0.1, 0})
	if !errors.Is(err, core.ErrSingularMatrix) {
		t.Fatalf("expected ErrSingularMatrix, got %v", err)
	}
}

func TestAppendColumn(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	out := AppendColumn(X, []float64{9, 8})
	r, c := out.Dims()
	if r != 2 || c != 3 {
		t.Fatalf("expected 2x3, got %dx%d", r, c)
	}
	if out.At(0, 2) != 9 || out.At(1, 2) != 8 || out.At(1, 1) != 4 {
		t.Fatal("appended column contents wrong")
	}
}
