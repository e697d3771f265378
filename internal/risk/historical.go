package risk

import (
	"math/rand"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Historical & bootstrap estimators
// ════════════════════════════════════════════════════════════════════

type historicalEstimator struct{}

func init() { RegisterEstimator(historicalEstimator{}) }

func (historicalEstimator) Method() models.Method { return models.MethodHistorical }

// Estimate treats the window's realized portfolio losses as the empirical
// distribution, every observation carrying equal mass 1/n.
func (historicalEstimator) Estimate(in *Input) (models.LossDistribution, []string, error) {
	losses, err := in.PortfolioLosses()
	if err != nil {
		return models.LossDistribution{}, nil, err
	}
	if len(losses) == 0 {
		return models.LossDistribution{}, nil, &models.InsufficientDataError{
			Context: "historical simulation", Need: 1, Got: 0,
		}
	}

	w := 1.0 / float64(len(losses))
	sample := make([]models.WeightedLoss, len(losses))
	for t, l := range losses {
		sample[t] = models.WeightedLoss{Loss: l, Weight: w}
	}
	return models.LossDistribution{Kind: models.DistEmpirical, Sample: sample}, nil, nil
}

// ────────────────────────────────────────────────────────────────────
// Bootstrap
// ────────────────────────────────────────────────────────────────────

type bootstrapEstimator struct{}

func init() { RegisterEstimator(bootstrapEstimator{}) }

func (bootstrapEstimator) Method() models.Method { return models.MethodBootstrap }

// Estimate resamples whole dates with replacement, Params.Paths draws from
// the seeded generator. Resampling rows rather than individual asset
// returns keeps the cross-asset correlation of each historical day intact.
// The same seed reproduces the same distribution bit for bit.
func (bootstrapEstimator) Estimate(in *Input) (models.LossDistribution, []string, error) {
	draws := in.Params.Paths
	if draws < 1 {
		return models.LossDistribution{}, nil, &models.InvalidParameterError{
			Name: "paths", Value: draws, Reason: "bootstrap needs at least 1 draw",
		}
	}

	losses, err := in.PortfolioLosses()
	if err != nil {
		return models.LossDistribution{}, nil, err
	}
	if len(losses) == 0 {
		return models.LossDistribution{}, nil, &models.InsufficientDataError{
			Context: "bootstrap resampling", Need: 1, Got: 0,
		}
	}

	rng := rand.New(rand.NewSource(in.Params.Seed))
	w := 1.0 / float64(draws)
	sample := make([]models.WeightedLoss, draws)
	for b := 0; b < draws; b++ {
		sample[b] = models.WeightedLoss{Loss: losses[rng.Intn(len(losses))], Weight: w}
	}
	return models.LossDistribution{Kind: models.DistEmpirical, Sample: sample}, nil, nil
}
