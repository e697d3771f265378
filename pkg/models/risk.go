// Package models defines the core data structures shared across the risk engine.
package models

import "time"

// Method identifies a risk-measure estimation methodology.
type Method string

const (
	MethodGaussian           Method = "gaussian"            // parametric, i.i.d. normal P&L
	MethodHistorical         Method = "historical"          // plain historical simulation
	MethodBootstrap          Method = "bootstrap"           // date-resampled historical simulation
	MethodWeightedHistorical Method = "weighted_historical" // exponentially weighted historical
	MethodPCA                Method = "pca"                 // reduced-rank Gaussian via principal components
	MethodMonteCarlo         Method = "monte_carlo"         // full revaluation under simulated paths
	MethodDeltaNormal        Method = "delta_normal"        // linear (delta) Gaussian approximation
)

// RiskModelParameters holds every knob a single risk-measure computation needs.
// A value is immutable for the duration of one call; callers build a fresh one
// per computation.
type RiskModelParameters struct {
	Confidence  float64 `json:"confidence"`   // confidence level c, 0 < c < 1
	HorizonDays int     `json:"horizon_days"` // risk horizon in business days
	Lambda      float64 `json:"lambda"`       // decay factor for weighted historical, 0 < λ ≤ 1
	WindowDays  int     `json:"window_days"`  // estimation window length in observations
	Components  int     `json:"components"`   // principal components retained (PCA only)
	Paths       int     `json:"paths"`        // Monte Carlo / bootstrap draw count
	Seed        int64   `json:"seed"`         // RNG seed; same seed => identical results
	Antithetic  bool    `json:"antithetic"`   // antithetic variates for Monte Carlo
	Workers     int     `json:"workers"`      // parallel path workers; 0 = sequential
	DeltaGamma  bool    `json:"delta_gamma"`  // gamma correction for the delta-normal method
	VolOfVol    float64 `json:"vol_of_vol"`   // annualized implied-vol shock scale for Monte Carlo; 0 = vols held flat
}

// DefaultRiskModelParameters returns the conventional parameter set:
// 99% one-day VaR over a four-year window, λ=0.95, 10k paths.
func DefaultRiskModelParameters() RiskModelParameters {
	return RiskModelParameters{
		Confidence:  0.99,
		HorizonDays: 1,
		Lambda:      0.95,
		WindowDays:  1008, // 4 years of business days
		Components:  2,
		Paths:       10000,
		Seed:        42,
	}
}

// DistributionKind discriminates the two LossDistribution representations.
type DistributionKind string

const (
	DistGaussian  DistributionKind = "gaussian"  // closed form (mean, stddev)
	DistEmpirical DistributionKind = "empirical" // weighted sample
)

// WeightedLoss is one observation of an empirical loss distribution.
type WeightedLoss struct {
	Loss   float64 `json:"loss"`   // monetary loss; positive = money lost
	Weight float64 `json:"weight"` // probability mass, weights sum to 1
}

// LossDistribution is the intermediate artifact every estimator produces and
// the quantile engine consumes. Exactly one representation is populated:
// Gaussian distributions carry (Mean, StdDev); empirical ones carry Sample
// with weights summing to 1 within 1e-9. Losses are in portfolio currency,
// positive = loss.
type LossDistribution struct {
	Kind   DistributionKind `json:"kind"`
	Mean   float64          `json:"mean,omitempty"`    // Gaussian only
	StdDev float64          `json:"std_dev,omitempty"` // Gaussian only
	Sample []WeightedLoss   `json:"sample,omitempty"`  // empirical only
}

// Empty reports whether the distribution carries no information:
// an empirical distribution without observations, or a zero Gaussian.
func (d LossDistribution) Empty() bool {
	switch d.Kind {
	case DistGaussian:
		return false
	case DistEmpirical:
		return len(d.Sample) == 0
	default:
		return true
	}
}

// RiskMeasureResult is the immutable output of one estimator invocation.
type RiskMeasureResult struct {
	Method       Method    `json:"method"`
	VaR          float64   `json:"var"` // loss not exceeded with probability Confidence
	ES           float64   `json:"es"`  // expected loss beyond VaR
	Confidence   float64   `json:"confidence"`
	HorizonDays  int       `json:"horizon_days"`
	Observations int       `json:"observations,omitempty"` // sample size behind the estimate
	StdErr       float64   `json:"std_err,omitempty"`      // Monte Carlo standard error, when available
	Warnings     []string  `json:"warnings,omitempty"`     // e.g. sqrt-of-time scaling approximation
	ComputedAt   time.Time `json:"computed_at"`
}

// PlausibilityCheck is an order-of-magnitude cross-check of a VaR estimate:
// a stressed per-asset loss vector combined through the return correlation
// matrix. Ratio near 1 means the estimate is in a sane range.
type PlausibilityCheck struct {
	SVaR  float64 `json:"svar"`  // stressed VaR proxy
	Ratio float64 `json:"ratio"` // estimate / SVaR
}

// RiskReport compares every requested method side by side on one portfolio.
type RiskReport struct {
	PortfolioValue float64                      `json:"portfolio_value"`
	Parameters     RiskModelParameters          `json:"parameters"`
	Results        []RiskMeasureResult          `json:"results"`
	Plausibility   map[Method]PlausibilityCheck `json:"plausibility,omitempty"`
	Failures       map[Method]string            `json:"failures,omitempty"` // method -> error text
	GeneratedAt    time.Time                    `json:"generated_at"`
}

// ResultFor returns the result for a method, or nil if that method failed
// or was not requested.
func (r *RiskReport) ResultFor(m Method) *RiskMeasureResult {
	for i := range r.Results {
		if r.Results[i].Method == m {
			return &r.Results[i]
		}
	}
	return nil
}
