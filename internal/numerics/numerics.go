// Package numerics wraps the linear-algebra and statistics primitives the
// risk engine needs — normal quantiles, covariance estimation, eigen and
// Cholesky decompositions — behind a small domain-flavoured API. The engine
// packages never import gonum directly; everything numeric funnels through
// here.
package numerics

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Numerical failure sentinels. Callers wrap these into their own error
// taxonomy with %w.
var (
	ErrNotPositiveDefinite = errors.New("matrix is not positive definite")
	ErrEigenFailed         = errors.New("eigen decomposition failed to converge")
)

// stdNormal is the unit normal all quantile/CDF/PDF helpers delegate to.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalQuantile returns Φ⁻¹(p), the standard normal quantile at p, 0 < p < 1.
func NormalQuantile(p float64) float64 {
	return stdNormal.Quantile(p)
}

// NormalCDF returns Φ(x).
func NormalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormalPDF returns φ(x), the standard normal density at x.
func NormalPDF(x float64) float64 {
	return stdNormal.Prob(x)
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// WeightedMean returns the mean of xs under weights ws.
func WeightedMean(xs, ws []float64) float64 {
	return stat.Mean(xs, ws)
}

// StdDev returns the sample standard deviation of xs (n−1 denominator).
func StdDev(xs []float64) float64 {
	return stat.StdDev(xs, nil)
}

// Covariance returns the sample covariance of two equally long series.
func Covariance(xs, ys []float64) float64 {
	return stat.Covariance(xs, ys, nil)
}

// Quantile returns the empirical p-quantile of xs. The input need not be
// sorted; a copy is sorted internally.
func Quantile(xs []float64, p float64) (float64, error) {
	if len(xs) == 0 {
		return 0, errors.New("quantile of empty sample")
	}
	if p < 0 || p > 1 {
		return 0, fmt.Errorf("quantile probability %v outside [0,1]", p)
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil), nil
}
