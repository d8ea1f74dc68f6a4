package ols

import (
	"fmt"
	"math"

	"gomediate/domain/core"
	"gomediate/domain/design"

	"gonum.org/v1/gonum/mat"
)

// rank tolerance for the SVD fallback
const rankTol = 1e-12

// Fit holds the result of one least-squares regression.
type Fit struct {
	Coefficients []float64
	Fitted       []float64
	Residuals    []float64
	RSquared     float64
	AdjRSquared  float64
	N            int
	K            int
}

// DenseFrom converts a domain design matrix into a gonum dense matrix.
func DenseFrom(m design.Matrix) *mat.Dense {
	r, c := m.Rows(), m.Cols()
	out := mat.NewDense(r, c, nil)
	for i, row := range m.Data {
		out.SetRow(i, row)
	}
	return out
}

// AppendColumn returns a new matrix with col appended as the last column.
func AppendColumn(X *mat.Dense, col []float64) *mat.Dense {
	r, c := X.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(i, j))
		}
		out.Set(i, c, col[i])
	}
	return out
}

// Solve computes the least-squares solution of y on X. It tries a QR solve
// first and falls back to an SVD minimum-norm solution when X is rank
// deficient, so degenerate matrices produce a usable coefficient vector
// instead of a crash. An error is returned only when factorization itself
// fails or dimensions disagree.
func Solve(X *mat.Dense, y []float64) ([]float64, error) {
	r, c := X.Dims()
	if len(y) != r {
		return nil, core.NewDimensionError("response vector", r, len(y))
	}
	if r == 0 || c == 0 {
		return nil, core.ErrEmptySample
	}
	yv := mat.NewVecDense(r, y)

	var beta mat.VecDense
	var qr mat.QR
	qr.Factorize(X)
	if err := qr.SolveVecTo(&beta, false, yv); err == nil && allFinite(beta.RawVector().Data) {
		return vecToSlice(&beta), nil
	}

	// Rank deficient or badly conditioned: minimum-norm least squares via SVD.
	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDFullU|mat.SVDFullV); !ok {
		return nil, fmt.Errorf("%w: SVD factorization failed", core.ErrSingularMatrix)
	}
	rank := svd.Rank(rankTol)
	if rank == 0 {
		// Numerically all-zero matrix; the minimum-norm solution is zero.
		return make([]float64, c), nil
	}
	var sol mat.VecDense
	svd.SolveVecTo(&sol, yv, rank)
	return vecToSlice(&sol), nil
}

// Regress fits y on X and derives residual diagnostics.
func Regress(X *mat.Dense, y []float64) (*Fit, error) {
	coef, err := Solve(X, y)
	if err != nil {
		return nil, err
	}
	r, c := X.Dims()

	fit := &Fit{
		Coefficients: coef,
		Fitted:       make([]float64, r),
		Residuals:    make([]float64, r),
		N:            r,
		K:            c,
	}

	beta := mat.NewVecDense(c, coef)
	var yhat mat.VecDense
	yhat.MulVec(X, beta)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(r)

	ssr, sst := 0.0, 0.0
	for i := 0; i < r; i++ {
		fit.Fitted[i] = yhat.AtVec(i)
		fit.Residuals[i] = y[i] - fit.Fitted[i]
		ssr += fit.Residuals[i] * fit.Residuals[i]
		d := y[i] - mean
		sst += d * d
	}
	if sst > 0 {
		fit.RSquared = 1 - ssr/sst
	}
	if r > c {
		fit.AdjRSquared = 1 - (1-fit.RSquared)*float64(r-1)/float64(r-c)
	}
	return fit, nil
}

// RobustSE computes HC3 heteroskedasticity-robust standard errors for a fit:
// (X'X)^-1 X' diag(e_i^2/(1-h_i)^2) X (X'X)^-1, with h_i the leverage of row i.
// Requires a full-rank X; rank-deficient matrices surface ErrSingularMatrix.
func RobustSE(X *mat.Dense, residuals []float64) ([]float64, error) {
	r, c := X.Dims()
	if len(residuals) != r {
		return nil, core.NewDimensionError("residual vector", r, len(residuals))
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var bread mat.Dense
	if err := bread.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: X'X not invertible for robust covariance", core.ErrSingularMatrix)
	}

	// Meat: X' diag(w) X with w_i = e_i^2 / (1-h_i)^2.
	meat := mat.NewDense(c, c, nil)
	for i := 0; i < r; i++ {
		xi := X.RawRowView(i)
		h := quadraticForm(xi, &bread)
		d := 1 - h
		if d < 1e-10 {
			d = 1e-10
		}
		w := residuals[i] * residuals[i] / (d * d)
		for j := 0; j < c; j++ {
			for l := 0; l < c; l++ {
				meat.Set(j, l, meat.At(j, l)+w*xi[j]*xi[l])
			}
		}
	}

	var half mat.Dense
	half.Mul(&bread, meat)
	var cov mat.Dense
	cov.Mul(&half, &bread)

	se := make([]float64, c)
	for j := 0; j < c; j++ {
		se[j] = math.Sqrt(cov.At(j, j))
	}
	return se, nil
}

// quadraticForm computes x' A x for a square matrix A.
func quadraticForm(x []float64, a *mat.Dense) float64 {
	n := len(x)
	total := 0.0
	for j := 0; j < n; j++ {
		inner := 0.0
		for l := 0; l < n; l++ {
			inner += a.At(j, l) * x[l]
		}
		total += x[j] * inner
	}
	return total
}

func vecToSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func allFinite(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
