package risk

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Estimator interface & registry
// ════════════════════════════════════════════════════════════════════

// Input is the frozen snapshot an estimator works from: the trailing
// estimation window of aligned returns, the portfolio's per-instrument
// value weights in column order, and the current portfolio value. Built
// once by NewInput and shared read-only across estimators.
type Input struct {
	Returns *marketdata.AlignedReturns
	Weights []float64
	Value   float64
	Params  models.RiskModelParameters
}

// NewInput validates parameters, reorders the aligned columns to the
// portfolio's instruments, and applies the estimation window. Instruments
// held in the portfolio but absent from the return history are an error;
// extra history columns are ignored.
func NewInput(p models.Portfolio, returns *marketdata.AlignedReturns, params models.RiskModelParameters) (*Input, error) {
	if err := validateConfidence(params.Confidence); err != nil {
		return nil, err
	}
	if err := validateHorizon(params.HorizonDays); err != nil {
		return nil, err
	}

	value := p.Value()
	if value <= 0 {
		return nil, &models.InvalidMarketDataError{
			Field: "portfolio_value", Value: value, Reason: "portfolio must have positive value",
		}
	}

	instruments := p.Instruments()
	if len(instruments) == 0 {
		return nil, &models.InsufficientDataError{Context: "portfolio", Need: 1, Got: 0}
	}
	columns := make([][]float64, len(instruments))
	for i, id := range instruments {
		col, err := returns.ColumnFor(id)
		if err != nil {
			return nil, &models.InvalidMarketDataError{
				Field: "returns", Value: 0, Reason: "no return history for instrument " + id,
			}
		}
		columns[i] = col
	}

	ordered := &marketdata.AlignedReturns{
		Instruments: instruments,
		Kind:        returns.Kind,
		Dates:       returns.Dates,
		Columns:     columns,
		Dropped:     returns.Dropped,
	}
	if params.WindowDays > 0 {
		w, err := ordered.Window(params.WindowDays)
		if err != nil {
			return nil, err
		}
		ordered = w
	}

	return &Input{
		Returns: ordered,
		Weights: p.Weights(),
		Value:   value,
		Params:  params,
	}, nil
}

// PortfolioLosses maps each aligned date to a portfolio loss in currency:
// loss_t = −V · Σ w_i r_{i,t}. The weighted sum is the portfolio return
// exactly for simple returns and to first order for log returns.
func (in *Input) PortfolioLosses() ([]float64, error) {
	rets, err := in.Returns.PortfolioReturns(in.Weights)
	if err != nil {
		return nil, err
	}
	losses := make([]float64, len(rets))
	for t, r := range rets {
		losses[t] = -in.Value * r
	}
	return losses, nil
}

// Estimator is one estimation methodology: aligned history in, 1-day loss
// distribution out, plus any caveats worth surfacing (e.g. variance lost to
// a low-rank truncation). Horizon scaling and quantile extraction happen
// outside, in the tail engine, so every estimator stays a pure distribution
// builder.
type Estimator interface {
	Method() models.Method
	Estimate(in *Input) (models.LossDistribution, []string, error)
}

// ────────────────────────────────────────────────────────────────────
// Registry
// ────────────────────────────────────────────────────────────────────

var (
	registryMu sync.RWMutex
	registry   = make(map[models.Method]Estimator)
)

// RegisterEstimator adds an estimator under its method name. Duplicate
// registrations overwrite the previous entry.
func RegisterEstimator(e Estimator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[e.Method()] = e
}

// EstimatorFor returns the estimator registered for a method.
func EstimatorFor(m models.Method) (Estimator, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[m]
	if !ok {
		return nil, &models.InvalidParameterError{
			Name: "method", Value: string(m), Reason: "no estimator registered",
		}
	}
	return e, nil
}

// Methods lists the registered estimation methods, sorted.
func Methods() []models.Method {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]models.Method, 0, len(registry))
	for m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ────────────────────────────────────────────────────────────────────
// Measurement
// ────────────────────────────────────────────────────────────────────

// Measure runs one registered estimator and extracts the horizon-scaled
// tail measures from its distribution.
func Measure(m models.Method, in *Input) (*models.RiskMeasureResult, error) {
	est, err := EstimatorFor(m)
	if err != nil {
		return nil, err
	}
	dist, warnings, err := est.Estimate(in)
	if err != nil {
		return nil, fmt.Errorf("%s estimation: %w", m, err)
	}
	return measureDistribution(m, dist, warnings, in.Params, in.Returns.Observations())
}

// measureDistribution turns a 1-day loss distribution into a final result:
// tail extraction, √horizon scaling, and the approximation warning for
// empirical distributions scaled beyond one day.
func measureDistribution(m models.Method, dist models.LossDistribution, warnings []string, params models.RiskModelParameters, observations int) (*models.RiskMeasureResult, error) {
	varValue, esValue, err := Tail(dist, params.Confidence)
	if err != nil {
		return nil, fmt.Errorf("%s tail measure: %w", m, err)
	}

	res := &models.RiskMeasureResult{
		Method:       m,
		VaR:          ScaleHorizon(varValue, params.HorizonDays),
		ES:           ScaleHorizon(esValue, params.HorizonDays),
		Confidence:   params.Confidence,
		HorizonDays:  params.HorizonDays,
		Observations: observations,
		Warnings:     warnings,
		ComputedAt:   time.Now().UTC(),
	}
	if params.HorizonDays > 1 && dist.Kind == models.DistEmpirical {
		res.Warnings = append(res.Warnings, HorizonWarning(params.HorizonDays))
	}
	return res, nil
}
