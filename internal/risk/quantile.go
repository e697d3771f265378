package risk

import (
	"math"
	"sort"
	"strconv"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Quantile & Tail Engine
// ════════════════════════════════════════════════════════════════════
//
// Every estimator reduces to a LossDistribution; this file turns one into
// VaR and ES at a confidence level. Two branches: closed-form Gaussian and
// weighted empirical sample. Horizon scaling is a separate, explicit step.

const (
	// weightSumTol bounds |Σw − 1| for an empirical sample.
	weightSumTol = 1e-9
	// boundaryTol absorbs float noise when a cumulative weight lands
	// exactly on the tail mass, so the crossing observation is selected
	// rather than the one after it.
	boundaryTol = 1e-12
)

// Tail computes VaR and ES at confidence c from a loss distribution, at the
// distribution's native (1-day) horizon. VaR is the loss at the (1−c)
// quantile; ES the expected loss conditional on exceeding it.
func Tail(dist models.LossDistribution, confidence float64) (varValue, esValue float64, err error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, 0, err
	}
	if dist.Empty() {
		return 0, 0, &models.EmptyDistributionError{Op: "tail measure"}
	}

	switch dist.Kind {
	case models.DistGaussian:
		return gaussianTail(dist.Mean, dist.StdDev, confidence)
	case models.DistEmpirical:
		return empiricalTail(dist.Sample, confidence)
	default:
		return 0, 0, &models.InvalidParameterError{
			Name: "distribution_kind", Value: string(dist.Kind), Reason: "unknown distribution kind",
		}
	}
}

// VaR is the value-at-risk half of Tail.
func VaR(dist models.LossDistribution, confidence float64) (float64, error) {
	v, _, err := Tail(dist, confidence)
	return v, err
}

// ES is the expected-shortfall half of Tail.
func ES(dist models.LossDistribution, confidence float64) (float64, error) {
	_, es, err := Tail(dist, confidence)
	return es, err
}

// ────────────────────────────────────────────────────────────────────
// Gaussian branch
// ────────────────────────────────────────────────────────────────────

// gaussianTail evaluates the closed forms
//
//	VaR = μ + σ·Φ⁻¹(c)
//	ES  = μ + σ·φ(Φ⁻¹(c))/(1−c)
//
// where Φ⁻¹ is the standard normal quantile and φ its density.
func gaussianTail(mean, stdDev, confidence float64) (float64, float64, error) {
	if stdDev < 0 || math.IsNaN(stdDev) || math.IsNaN(mean) {
		return 0, 0, &models.InvalidParameterError{
			Name: "std_dev", Value: stdDev, Reason: "Gaussian distribution needs a finite non-negative standard deviation",
		}
	}

	z := numerics.NormalQuantile(confidence)
	varValue := mean + stdDev*z
	esValue := mean + stdDev*numerics.NormalPDF(z)/(1-confidence)
	return varValue, esValue, nil
}

// ────────────────────────────────────────────────────────────────────
// Weighted empirical branch
// ────────────────────────────────────────────────────────────────────

// empiricalTail walks the sample from the largest loss down, accumulating
// probability mass until it reaches the tail mass (1−c). The loss at that
// crossing is VaR; a cumulative weight landing exactly on the tail mass
// selects its own observation, not the next one. ES averages the losses
// strictly beyond VaR, renormalized by their mass; when nothing lies
// strictly beyond (the crossing is the worst loss), ES falls back to VaR
// so ES ≥ VaR always holds.
func empiricalTail(sample []models.WeightedLoss, confidence float64) (float64, float64, error) {
	pairs := make([]models.WeightedLoss, len(sample))
	copy(pairs, sample)

	var sum float64
	for _, p := range pairs {
		if p.Weight < 0 || math.IsNaN(p.Weight) {
			return 0, 0, &models.InvalidParameterError{
				Name: "weight", Value: p.Weight, Reason: "sample weights must be non-negative",
			}
		}
		if math.IsNaN(p.Loss) || math.IsInf(p.Loss, 0) {
			return 0, 0, &models.InvalidMarketDataError{
				Field: "loss", Value: p.Loss, Reason: "sample contains a non-finite loss",
			}
		}
		sum += p.Weight
	}
	if math.Abs(sum-1) > weightSumTol {
		return 0, 0, &models.InvalidParameterError{
			Name: "weights", Value: sum, Reason: "sample weights must sum to 1 within 1e-9",
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Loss > pairs[j].Loss })

	tailMass := 1 - confidence
	varValue := pairs[len(pairs)-1].Loss
	var cum float64
	for _, p := range pairs {
		cum += p.Weight
		if cum >= tailMass-boundaryTol {
			varValue = p.Loss
			break
		}
	}

	var exceedMass, exceedSum float64
	for _, p := range pairs {
		if p.Loss <= varValue {
			break
		}
		exceedMass += p.Weight
		exceedSum += p.Weight * p.Loss
	}
	esValue := varValue
	if exceedMass > 0 {
		esValue = exceedSum / exceedMass
	}
	return varValue, esValue, nil
}

// ────────────────────────────────────────────────────────────────────
// Horizon scaling
// ────────────────────────────────────────────────────────────────────

// ScaleHorizon converts a 1-day measure to an h-day one by √h. Exact under
// i.i.d. Gaussian returns; for empirical quantiles it is an approximation
// and callers attach HorizonWarning to the result.
func ScaleHorizon(measure float64, horizonDays int) float64 {
	if horizonDays <= 1 {
		return measure
	}
	return measure * math.Sqrt(float64(horizonDays))
}

// HorizonWarning is the caveat attached when an empirical measure is
// √-scaled to a multi-day horizon.
func HorizonWarning(horizonDays int) string {
	return "sqrt-horizon scaling to " + strconv.Itoa(horizonDays) + " days assumes i.i.d. Gaussian returns; empirical quantiles do not scale exactly"
}

func validateConfidence(c float64) error {
	if math.IsNaN(c) || c <= 0 || c >= 1 {
		return &models.InvalidParameterError{
			Name: "confidence", Value: c, Reason: "must lie strictly between 0 and 1",
		}
	}
	return nil
}

func validateHorizon(days int) error {
	if days < 1 {
		return &models.InvalidParameterError{
			Name: "horizon_days", Value: days, Reason: "must be at least 1",
		}
	}
	return nil
}
