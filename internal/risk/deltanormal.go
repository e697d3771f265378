package risk

import (
	"context"
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/pricing"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Delta-normal approximator
// ════════════════════════════════════════════════════════════════════
//
// The analytic counterpart of the Monte Carlo engine: instead of
// revaluing the portfolio under simulated moves, it linearizes each
// position around today's levels. A factor's currency exposure is the
// summed quantity·delta·spot of the positions on it, the 1-day loss is
// Gaussian with variance expᵀΣexp over the factor covariance, and the
// tail comes from the closed-form Gaussian branch of the quantile
// engine. Exact for equity-only portfolios; for options it ignores
// convexity unless the delta-gamma correction is on.

// DeltaNormalVaR approximates portfolio VaR/ES from position Greeks and
// the factor covariance. Equities carry delta 1; options get their
// Black-Scholes delta (and gamma, when params.DeltaGamma is set) at the
// current underlying level.
func DeltaNormalVaR(p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64) (*models.RiskMeasureResult, error) {
	if err := validateConfidence(params.Confidence); err != nil {
		return nil, err
	}
	if err := validateHorizon(params.HorizonDays); err != nil {
		return nil, err
	}

	fm, err := newFactorModel(p, returns, spots, params.WindowDays)
	if err != nil {
		return nil, err
	}

	exposure, gamma, err := factorGreeks(p, fm, rate)
	if err != nil {
		return nil, err
	}

	// Linear term: loss mean −expᵀμ, variance expᵀΣexp, per day.
	meanLoss := -dot(exposure, fm.drift)
	variance := numerics.QuadraticForm(exposure, fm.cov)

	var warnings []string
	if params.DeltaGamma {
		// Gamma correction under joint normality. With g_f the net currency
		// gamma on factor f and x the vector of relative moves, the ½·xᵀGx
		// convexity P&L has mean ½·Σ g_f·Σ_ff and variance ½·Σ g_f·g_k·Σ_fk²,
		// and is uncorrelated with the linear term. The loss stays modeled as
		// Gaussian with the corrected moments.
		for f := range gamma {
			meanLoss -= 0.5 * gamma[f] * fm.cov[f][f]
			for k := range gamma {
				variance += 0.5 * gamma[f] * gamma[k] * fm.cov[f][k] * fm.cov[f][k]
			}
		}
	} else if anyNonzero(gamma) {
		warnings = append(warnings, "portfolio holds options; linear delta approximation ignores convexity")
	}

	if variance < 0 {
		if variance < -varianceTol {
			return nil, &models.NumericalInstabilityError{Op: "delta-normal variance", Err: numerics.ErrNotPositiveDefinite}
		}
		variance = 0
	}

	dist := models.LossDistribution{
		Kind:   models.DistGaussian,
		Mean:   meanLoss,
		StdDev: math.Sqrt(variance),
	}
	return measureDistribution(models.MethodDeltaNormal, dist, warnings, params, fm.observations)
}

// factorGreeks aggregates position sensitivities into per-factor currency
// exposures: exposure_f = Σ qty·Δ·S_f (P&L per unit relative move) and
// gamma_f = Σ qty·Γ·S_f² (P&L per unit relative move squared).
func factorGreeks(p models.Portfolio, fm *factorModel, rate float64) (exposure, gamma []float64, err error) {
	exposure = make([]float64, len(fm.factorIDs))
	gamma = make([]float64, len(fm.factorIDs))

	for pi, pos := range p.Positions {
		fi := fm.posFactor[pi]
		spot := fm.spots[fi]
		if pos.Option == nil {
			exposure[fi] += pos.Quantity * spot
			continue
		}
		q, err := pricing.ValueOption(*pos.Option, spot, pos.Option.ImpliedVol, rate, pos.Option.Maturity)
		if err != nil {
			return nil, nil, err
		}
		exposure[fi] += pos.Quantity * q.Delta * spot
		gamma[fi] += pos.Quantity * q.Gamma * spot * spot
	}
	return exposure, gamma, nil
}

func anyNonzero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return true
		}
	}
	return false
}

// ────────────────────────────────────────────────────────────────────
// Side-by-side comparison
// ────────────────────────────────────────────────────────────────────

// RevaluationComparison pairs the analytic approximation with the full
// Monte Carlo revaluation on identical inputs. RelativeGap is
// (deltaNormal − monteCarlo)/monteCarlo on VaR; a small gap on a linear
// portfolio validates the simulation, a large one on an option book
// quantifies the convexity the linear model misses.
type RevaluationComparison struct {
	DeltaNormal *models.RiskMeasureResult `json:"delta_normal"`
	MonteCarlo  *models.RiskMeasureResult `json:"monte_carlo"`
	RelativeGap float64                   `json:"relative_gap"`
}

// CompareRevaluation runs the delta-normal approximation and the Monte
// Carlo engine on the same portfolio, history, and parameters.
func CompareRevaluation(ctx context.Context, p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64, onProgress func(done, total int)) (*RevaluationComparison, error) {
	dn, err := DeltaNormalVaR(p, returns, spots, params, rate)
	if err != nil {
		return nil, err
	}
	engine, err := NewMonteCarloEngine(p, returns, spots, params, rate)
	if err != nil {
		return nil, err
	}
	mc, err := engine.Run(ctx, onProgress)
	if err != nil {
		return nil, err
	}

	cmp := &RevaluationComparison{DeltaNormal: dn, MonteCarlo: mc}
	if mc.VaR != 0 {
		cmp.RelativeGap = (dn.VaR - mc.VaR) / mc.VaR
	}
	return cmp, nil
}
