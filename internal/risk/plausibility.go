package risk

import (
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Plausibility check
// ════════════════════════════════════════════════════════════════════

// Plausibility cross-checks a VaR estimate against the stressed proxy
//
//	sVaR = √(ℓᵀ C ℓ),  ℓ_i = |w_i|·V·(|q_i(1−c)| + |q_i(c)|)/2
//
// where q_i are the empirical return quantiles of asset i and C the return
// correlation matrix. The proxy is an order-of-magnitude yardstick, not a
// measure: a ratio far from 1 flags an estimate worth a second look.
func Plausibility(in *Input, estimate float64) (*models.PlausibilityCheck, error) {
	c := in.Params.Confidence
	if err := validateConfidence(c); err != nil {
		return nil, err
	}

	corr, err := numerics.CorrelationMatrix(in.Returns.Columns)
	if err != nil {
		return nil, &models.NumericalInstabilityError{Op: "correlation estimation", Err: err}
	}

	ell := make([]float64, len(in.Returns.Columns))
	for i, col := range in.Returns.Columns {
		qLo, err := numerics.Quantile(col, 1-c)
		if err != nil {
			return nil, err
		}
		qHi, err := numerics.Quantile(col, c)
		if err != nil {
			return nil, err
		}
		ell[i] = math.Abs(in.Weights[i]) * in.Value * (math.Abs(qLo) + math.Abs(qHi)) / 2
	}

	s2 := numerics.QuadraticForm(ell, corr)
	if s2 < 0 {
		if s2 < -varianceTol {
			return nil, &models.NumericalInstabilityError{
				Op: "stressed loss aggregation", Err: numerics.ErrNotPositiveDefinite,
			}
		}
		s2 = 0
	}

	check := &models.PlausibilityCheck{SVaR: math.Sqrt(s2)}
	if check.SVaR > 0 {
		check.Ratio = estimate / check.SVaR
	}
	return check, nil
}
