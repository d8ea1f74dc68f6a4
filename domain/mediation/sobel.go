package mediation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// SobelResult is the closed-form significance test of the product a*b.
type SobelResult struct {
	SE float64 `json:"se"`
	Z  float64 `json:"z"`
	P  float64 `json:"p"`
}

// Sobel computes the first-order delta-method test of the mediated effect.
// The standard error sqrt(b^2*se_a^2 + a^2*se_b^2) ignores the covariance
// between a and b; that is the standard Sobel simplification, not an
// approximation error to be fixed here. se_a and se_b are expected to be
// robust standard errors from the point-estimate fits.
func Sobel(a, seA, b, seB float64) SobelResult {
	se := math.Sqrt(b*b*seA*seA + a*a*seB*seB)
	if se == 0 {
		return SobelResult{SE: 0, Z: math.NaN(), P: math.NaN()}
	}
	z := a * b / se
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * (1 - norm.CDF(math.Abs(z)))
	return SobelResult{SE: se, Z: z, P: p}
}
