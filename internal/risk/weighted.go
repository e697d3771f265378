package risk

import (
	"errors"
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Exponentially weighted historical estimator
// ════════════════════════════════════════════════════════════════════

// errZeroWeightMass fires when every λ^age underflows to zero, which a
// strong decay on a very old window can produce.
var errZeroWeightMass = errors.New("decay weights sum to zero")

type weightedEstimator struct{}

func init() { RegisterEstimator(weightedEstimator{}) }

func (weightedEstimator) Method() models.Method { return models.MethodWeightedHistorical }

// Estimate weights each observation by λ^age, age in calendar days from
// the most recent observation, then normalizes by the realized sum. The
// textbook (1−λ)/(1−λⁿ) factor assumes consecutive ages 0..n−1 and breaks
// once weekends and holidays open gaps in the age sequence; dividing by
// the realized sum reduces to it in the gap-free case and keeps the total
// mass at 1 within 1e-9 always.
func (weightedEstimator) Estimate(in *Input) (models.LossDistribution, []string, error) {
	lambda := in.Params.Lambda
	if math.IsNaN(lambda) || lambda <= 0 || lambda > 1 {
		return models.LossDistribution{}, nil, &models.InvalidParameterError{
			Name: "lambda", Value: lambda, Reason: "decay factor must satisfy 0 < λ ≤ 1",
		}
	}

	losses, err := in.PortfolioLosses()
	if err != nil {
		return models.LossDistribution{}, nil, err
	}
	if len(losses) == 0 {
		return models.LossDistribution{}, nil, &models.InsufficientDataError{
			Context: "weighted historical simulation", Need: 1, Got: 0,
		}
	}

	ages := in.Returns.AgeDays()
	raw := make([]float64, len(losses))
	var sum float64
	for t, age := range ages {
		raw[t] = math.Pow(lambda, float64(age))
		sum += raw[t]
	}
	if sum <= 0 {
		return models.LossDistribution{}, nil, &models.NumericalInstabilityError{
			Op: "decay weight normalization", Err: errZeroWeightMass,
		}
	}

	sample := make([]models.WeightedLoss, len(losses))
	for t, l := range losses {
		sample[t] = models.WeightedLoss{Loss: l, Weight: raw[t] / sum}
	}
	return models.LossDistribution{Kind: models.DistEmpirical, Sample: sample}, nil, nil
}
