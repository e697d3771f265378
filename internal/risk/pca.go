package risk

import (
	"fmt"
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Gaussian PCA estimator
// ════════════════════════════════════════════════════════════════════

type pcaEstimator struct{}

func init() { RegisterEstimator(pcaEstimator{}) }

func (pcaEstimator) Method() models.Method { return models.MethodPCA }

// Estimate reduces the return covariance to its top-k principal
// components, Σ_k = Σ_{j≤k} λ_j v_j v_jᵀ, and fits the linearized
// portfolio loss on the reduced matrix: E[L] = −V·wᵀμ (full mean),
// Var[L] = V²·wᵀΣ_k w. The share of variance the truncation keeps is
// reported as a warning so nobody mistakes the reduced measure for the
// full one.
func (pcaEstimator) Estimate(in *Input) (models.LossDistribution, []string, error) {
	k := in.Params.Components
	assets := len(in.Returns.Columns)
	if k < 1 || k > assets {
		return models.LossDistribution{}, nil, &models.InvalidParameterError{
			Name: "components", Value: k, Reason: fmt.Sprintf("must lie between 1 and the number of assets (%d)", assets),
		}
	}
	if n := in.Returns.Observations(); n < 2 {
		return models.LossDistribution{}, nil, &models.InsufficientDataError{
			Context: "pca covariance estimation", Need: 2, Got: n,
		}
	}

	cov, err := numerics.CovarianceMatrix(in.Returns.Columns)
	if err != nil {
		return models.LossDistribution{}, nil, &models.NumericalInstabilityError{Op: "covariance estimation", Err: err}
	}
	eig, err := numerics.EigenDecompose(cov)
	if err != nil {
		return models.LossDistribution{}, nil, &models.NumericalInstabilityError{Op: "principal component decomposition", Err: err}
	}

	// A sample covariance matrix is PSD up to rounding; anything clearly
	// negative means the inputs are broken.
	var total float64
	for _, v := range eig.Values {
		if v < -varianceTol {
			return models.LossDistribution{}, nil, &models.NumericalInstabilityError{
				Op: "principal component decomposition", Err: numerics.ErrNotPositiveDefinite,
			}
		}
		if v > 0 {
			total += v
		}
	}

	// Reduced-rank portfolio variance: wᵀΣ_k w = Σ_{j≤k} λ_j (v_jᵀw)².
	var pvar, kept float64
	for j := 0; j < k; j++ {
		ev := eig.Values[j]
		if ev <= 0 {
			continue
		}
		proj := dot(eig.Vectors[j], in.Weights)
		pvar += ev * proj * proj
		kept += ev
	}

	var warnings []string
	if total > 0 && k < assets {
		warnings = append(warnings, fmt.Sprintf("top %d of %d components retain %.1f%% of return variance", k, assets, 100*kept/total))
	}

	meanLoss := -in.Value * dot(in.Weights, columnMeans(in.Returns.Columns))
	return models.LossDistribution{
		Kind:   models.DistGaussian,
		Mean:   meanLoss,
		StdDev: in.Value * math.Sqrt(pvar),
	}, warnings, nil
}
