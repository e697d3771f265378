package risk

import (
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Risk-factor model
// ════════════════════════════════════════════════════════════════════
//
// The revaluation engines view the portfolio through its risk factors:
// one factor per distinct underlying, equities mapping to themselves and
// options to their underlying. factorModel resolves that mapping against
// the return history once and freezes the per-factor moments, so the
// Monte Carlo engine and the delta-normal approximator price the exact
// same model of the world.

type factorModel struct {
	factorIDs []string    // distinct underlyings, first-appearance order
	spots     []float64   // current level per factor
	drift     []float64   // mean daily log return per factor
	cov       [][]float64 // daily return covariance across factors

	posFactor    []int // position index → factor index
	observations int
}

// newFactorModel maps positions onto factors, applies the estimation
// window, and estimates drift and covariance from the aligned log-return
// history. The spots map supplies current underlying levels; a factor
// missing from it falls back to the price of an equity position in the
// same instrument.
func newFactorModel(p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, windowDays int) (*factorModel, error) {
	if returns.Kind != marketdata.LogReturns {
		return nil, &models.InvalidParameterError{
			Name: "return_type", Value: string(returns.Kind), Reason: "factor simulation works on daily log returns",
		}
	}
	if len(p.Positions) == 0 {
		return nil, &models.InsufficientDataError{Context: "portfolio", Need: 1, Got: 0}
	}

	if windowDays > 0 {
		w, err := returns.Window(windowDays)
		if err != nil {
			return nil, err
		}
		returns = w
	}

	fm := &factorModel{posFactor: make([]int, len(p.Positions))}

	index := make(map[string]int)
	var columns [][]float64
	for pi, pos := range p.Positions {
		id := pos.Instrument
		if pos.Option != nil {
			id = pos.Option.Underlying
		}
		fi, seen := index[id]
		if !seen {
			col, err := returns.ColumnFor(id)
			if err != nil {
				return nil, &models.InvalidMarketDataError{
					Field: "returns", Value: 0, Reason: "no return history for underlying " + id,
				}
			}
			fi = len(fm.factorIDs)
			index[id] = fi
			fm.factorIDs = append(fm.factorIDs, id)
			columns = append(columns, col)
		}
		fm.posFactor[pi] = fi
	}

	fm.observations = returns.Observations()
	if fm.observations < 2 {
		return nil, &models.InsufficientDataError{Context: "factor moment estimation", Need: 2, Got: fm.observations}
	}

	fm.spots = make([]float64, len(fm.factorIDs))
	for fi, id := range fm.factorIDs {
		spot, err := resolveSpot(p, spots, id)
		if err != nil {
			return nil, err
		}
		fm.spots[fi] = spot
	}

	fm.drift = columnMeans(columns)
	cov, err := numerics.CovarianceMatrix(columns)
	if err != nil {
		return nil, &models.NumericalInstabilityError{Op: "covariance estimation", Err: err}
	}
	fm.cov = cov
	return fm, nil
}

// resolveSpot finds the current level for an underlying: the spots map
// first, then the price of an equity position in the same instrument.
func resolveSpot(p models.Portfolio, spots map[string]float64, id string) (float64, error) {
	if s, ok := spots[id]; ok {
		if s <= 0 || math.IsNaN(s) {
			return 0, &models.InvalidMarketDataError{Field: "spot " + id, Value: s, Reason: "underlying level must be positive"}
		}
		return s, nil
	}
	for _, pos := range p.Positions {
		if pos.Option == nil && pos.Instrument == id {
			if pos.Price <= 0 {
				return 0, &models.InvalidMarketDataError{Field: "spot " + id, Value: pos.Price, Reason: "underlying level must be positive"}
			}
			return pos.Price, nil
		}
	}
	return 0, &models.InvalidMarketDataError{Field: "spot " + id, Value: 0, Reason: "no current level supplied for underlying"}
}
