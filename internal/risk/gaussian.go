package risk

import (
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Gaussian parametric estimator
// ════════════════════════════════════════════════════════════════════

// varianceTol absorbs the tiny negative portfolio variances a
// near-singular covariance matrix produces in floating point.
const varianceTol = 1e-12

type gaussianEstimator struct{}

func init() { RegisterEstimator(gaussianEstimator{}) }

func (gaussianEstimator) Method() models.Method { return models.MethodGaussian }

// Estimate fits the linearized portfolio loss L = −V·wᵀr under i.i.d.
// normality: E[L] = −V·wᵀμ and Var[L] = V²·wᵀΣw, with μ and Σ estimated
// from the window.
func (gaussianEstimator) Estimate(in *Input) (models.LossDistribution, []string, error) {
	n := in.Returns.Observations()
	if n < 2 {
		return models.LossDistribution{}, nil, &models.InsufficientDataError{
			Context: "gaussian moment estimation", Need: 2, Got: n,
		}
	}

	means := columnMeans(in.Returns.Columns)
	cov, err := numerics.CovarianceMatrix(in.Returns.Columns)
	if err != nil {
		return models.LossDistribution{}, nil, &models.NumericalInstabilityError{Op: "covariance estimation", Err: err}
	}

	meanLoss := -in.Value * dot(in.Weights, means)
	pvar := numerics.QuadraticForm(in.Weights, cov)
	if pvar < 0 {
		if pvar < -varianceTol {
			return models.LossDistribution{}, nil, &models.NumericalInstabilityError{
				Op: "portfolio variance", Err: numerics.ErrNotPositiveDefinite,
			}
		}
		pvar = 0
	}

	return models.LossDistribution{
		Kind:   models.DistGaussian,
		Mean:   meanLoss,
		StdDev: in.Value * math.Sqrt(pvar),
	}, nil, nil
}

// ────────────────────────────────────────────────────────────────────
// Shared vector helpers
// ────────────────────────────────────────────────────────────────────

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func columnMeans(columns [][]float64) []float64 {
	means := make([]float64, len(columns))
	for i, col := range columns {
		means[i] = numerics.Mean(col)
	}
	return means
}
