package risk

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/pricing"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Monte Carlo revaluation engine
// ════════════════════════════════════════════════════════════════════
//
// Simulates joint GBM moves of every underlying over the risk horizon,
// revalues each position at the horizon — options through Black-Scholes
// with the shrunken maturity — and measures the tail of the resulting
// full-revaluation loss distribution. With VolOfVol > 0 each path also
// draws one systematic implied-vol shock, applied to every option and
// floored at zero; at the default 0 vols are held at their current
// levels.

// progressStride is how many finished paths pass between progress
// callbacks.
const progressStride = 1024

// MonteCarloEngine is immutable after construction and safe for
// concurrent Run calls.
type MonteCarloEngine struct {
	portfolio models.Portfolio
	params    models.RiskModelParameters
	rate      float64

	factors *factorModel
	chol    [][]float64 // lower Cholesky factor of the daily covariance

	baseQuote []float64 // model value per position at time zero
}

// NewMonteCarloEngine resolves the portfolio's risk factors against the
// return history and freezes everything a simulation needs. History must
// be log returns, since the simulated horizon return is the sum of daily
// log returns.
func NewMonteCarloEngine(p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64) (*MonteCarloEngine, error) {
	if err := validateConfidence(params.Confidence); err != nil {
		return nil, err
	}
	if err := validateHorizon(params.HorizonDays); err != nil {
		return nil, err
	}
	if params.Paths < 1 {
		return nil, &models.InvalidParameterError{Name: "paths", Value: params.Paths, Reason: "need at least one path"}
	}
	if params.Antithetic && params.Paths%2 != 0 {
		return nil, &models.InvalidParameterError{Name: "paths", Value: params.Paths, Reason: "antithetic pairing needs an even path count"}
	}
	if params.VolOfVol < 0 || math.IsNaN(params.VolOfVol) {
		return nil, &models.InvalidParameterError{Name: "vol_of_vol", Value: params.VolOfVol, Reason: "must be zero or positive"}
	}

	fm, err := newFactorModel(p, returns, spots, params.WindowDays)
	if err != nil {
		return nil, err
	}

	e := &MonteCarloEngine{
		portfolio: p,
		params:    params,
		rate:      rate,
		factors:   fm,
		baseQuote: make([]float64, len(p.Positions)),
	}
	e.chol, err = numerics.CholeskyLower(fm.cov)
	if err != nil {
		return nil, &models.NumericalInstabilityError{Op: "covariance factorization", Err: err}
	}

	// Base values: model quotes at time zero. Pricing here also front-loads
	// validation of every option's terms, so path revaluation cannot fail.
	for pi, pos := range p.Positions {
		spot := fm.spots[fm.posFactor[pi]]
		if pos.Option == nil {
			e.baseQuote[pi] = spot
			continue
		}
		q, err := pricing.ValueOption(*pos.Option, spot, pos.Option.ImpliedVol, rate, pos.Option.Maturity)
		if err != nil {
			return nil, err
		}
		e.baseQuote[pi] = q.Price
	}
	return e, nil
}

// Losses simulates every path and returns the per-path portfolio losses in
// path order. onProgress, when non-nil, is called from worker goroutines
// roughly every progressStride finished paths and must be safe for
// concurrent use.
func (e *MonteCarloEngine) Losses(ctx context.Context, onProgress func(done, total int)) ([]float64, error) {
	total := e.params.Paths
	losses := make([]float64, total)

	var done int64
	var once sync.Once
	var pathErr error

	simulate := func(i int) {
		loss, err := e.lossForPath(i)
		if err != nil {
			once.Do(func() { pathErr = err })
			return
		}
		losses[i] = loss
		if onProgress != nil {
			if d := atomic.AddInt64(&done, 1); d%progressStride == 0 || d == int64(total) {
				onProgress(int(d), total)
			}
		}
	}
	if err := numerics.RunPaths(ctx, total, e.params.Workers, simulate); err != nil {
		return nil, err
	}
	if pathErr != nil {
		return nil, pathErr
	}
	return losses, nil
}

// lossForPath simulates one joint horizon move and revalues the portfolio
// under it. Pure given the path index.
func (e *MonteCarloEngine) lossForPath(i int) (float64, error) {
	rng, sign := numerics.PathRand(e.params.Seed, i), 1.0
	if e.params.Antithetic {
		rng, sign = numerics.AntitheticPair(e.params.Seed, i)
	}

	fm := e.factors
	h := float64(e.params.HorizonDays)
	sqrtH := math.Sqrt(h)

	// Correlated horizon log returns: h·μ + √h·L·z.
	z := make([]float64, len(fm.factorIDs))
	for k := range z {
		z[k] = sign * rng.NormFloat64()
	}
	levels := make([]float64, len(fm.factorIDs))
	for fi := range fm.factorIDs {
		var shock float64
		for j := 0; j <= fi; j++ {
			shock += e.chol[fi][j] * z[j]
		}
		levels[fi] = fm.spots[fi] * math.Exp(h*fm.drift[fi]+sqrtH*shock)
	}

	horizonYears := utils.HorizonYears(e.params.HorizonDays)

	// One systematic vol shock per path, drawn after the factor draws so a
	// book without options produces identical losses at any VolOfVol.
	var volShock float64
	if e.params.VolOfVol > 0 {
		volShock = sign * rng.NormFloat64() * e.params.VolOfVol * math.Sqrt(horizonYears)
	}

	var pnl float64
	for pi, pos := range e.portfolio.Positions {
		level := levels[fm.posFactor[pi]]
		if pos.Option == nil {
			pnl += pos.Quantity * (level - e.baseQuote[pi])
			continue
		}
		remaining := pos.Option.Maturity - horizonYears
		if remaining < 0 {
			remaining = 0
		}
		vol := pos.Option.ImpliedVol + volShock
		if vol < 0 {
			vol = 0
		}
		q, err := pricing.ValueOption(*pos.Option, level, vol, e.rate, remaining)
		if err != nil {
			return 0, err
		}
		pnl += pos.Quantity * (q.Price - e.baseQuote[pi])
	}
	return -pnl, nil
}

// Run simulates, measures the tail, and attaches the Monte Carlo standard
// error of the mean loss. The distribution is already at the requested
// horizon, so no √horizon scaling applies.
func (e *MonteCarloEngine) Run(ctx context.Context, onProgress func(done, total int)) (*models.RiskMeasureResult, error) {
	losses, err := e.Losses(ctx, onProgress)
	if err != nil {
		return nil, err
	}

	w := 1.0 / float64(len(losses))
	sample := make([]models.WeightedLoss, len(losses))
	for i, l := range losses {
		sample[i] = models.WeightedLoss{Loss: l, Weight: w}
	}
	dist := models.LossDistribution{Kind: models.DistEmpirical, Sample: sample}

	varValue, esValue, err := Tail(dist, e.params.Confidence)
	if err != nil {
		return nil, err
	}
	res := &models.RiskMeasureResult{
		Method:       models.MethodMonteCarlo,
		VaR:          varValue,
		ES:           esValue,
		Confidence:   e.params.Confidence,
		HorizonDays:  e.params.HorizonDays,
		Observations: len(losses),
		ComputedAt:   time.Now().UTC(),
	}
	if len(losses) > 1 {
		res.StdErr = numerics.StdDev(losses) / math.Sqrt(float64(len(losses)))
	}
	return res, nil
}

// MonteCarloVaR is the one-shot form: build the engine, simulate, measure.
func MonteCarloVaR(ctx context.Context, p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64) (*models.RiskMeasureResult, error) {
	e, err := NewMonteCarloEngine(p, returns, spots, params, rate)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, nil)
}
