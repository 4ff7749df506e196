// Package statsmath wraps the standard normal distribution functions
// needed by the IRB Vasicek capital formula: the CDF Φ and its inverse
// Φ⁻¹, backed by gonum's stat/distuv for the accuracy the published
// regulatory reference outputs demand.
package statsmath

import "gonum.org/v1/gonum/stat/distuv"

var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalCDF returns Φ(x), the standard normal cumulative distribution
// function.
func NormalCDF(x float64) float64 {
	return standardNormal.CDF(x)
}

// NormalQuantile returns Φ⁻¹(p), the standard normal inverse CDF
// (quantile function). p must lie in (0, 1).
func NormalQuantile(p float64) float64 {
	return standardNormal.Quantile(p)
}
