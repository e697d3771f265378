// Package risk computes portfolio tail-risk measures. Estimators turn
// aligned return history into loss distributions, the quantile engine turns
// distributions into VaR and ES, and the Engine runs several methodologies
// side by side over one portfolio so their estimates can be compared. Monte
// Carlo revaluation and the delta-normal approximation live in their own
// files and feed the same quantile engine.
package risk

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/marketdata"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// Engine holds the frozen estimation input for one portfolio and runs
// measurements over it. Safe for concurrent use; the input never mutates
// after construction.
type Engine struct {
	input *Input
}

// NewEngine validates and freezes the estimation input.
func NewEngine(p models.Portfolio, returns *marketdata.AlignedReturns, params models.RiskModelParameters) (*Engine, error) {
	in, err := NewInput(p, returns, params)
	if err != nil {
		return nil, err
	}
	return &Engine{input: in}, nil
}

// Input exposes the frozen input for callers that need the windowed
// history, e.g. the delta-normal comparison.
func (e *Engine) Input() *Input { return e.input }

// Run measures the requested methods concurrently and assembles the
// side-by-side report. No method is fatal to the others: failures land in
// Failures keyed by method, successes in Results with their plausibility
// cross-check. With no methods given, every registered estimator runs.
func (e *Engine) Run(ctx context.Context, methods ...models.Method) (*models.RiskReport, error) {
	if len(methods) == 0 {
		methods = Methods()
	}

	report := &models.RiskReport{
		PortfolioValue: e.input.Value,
		Parameters:     e.input.Params,
		Plausibility:   make(map[models.Method]models.PlausibilityCheck),
		Failures:       make(map[models.Method]string),
		GeneratedAt:    time.Now().UTC(),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, m := range methods {
		m := m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Measure(m, e.input)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures[m] = err.Error()
				return nil // non-fatal: the report compares what succeeded
			}
			report.Results = append(report.Results, *res)
			if check, perr := Plausibility(e.input, res.VaR); perr == nil {
				report.Plausibility[m] = *check
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Method < report.Results[j].Method
	})
	return report, nil
}

// FullReport runs every registered estimator plus Monte Carlo revaluation
// and the delta-normal approximation over one portfolio, so the cheap
// approximations and the expensive revaluation sit in one table. spots may
// be nil when every underlying also appears as a cash position; rate is the
// continuously compounded risk-free rate used to revalue options.
func FullReport(ctx context.Context, p models.Portfolio, returns *marketdata.AlignedReturns, spots map[string]float64, params models.RiskModelParameters, rate float64) (*models.RiskReport, error) {
	e, err := NewEngine(p, returns, params)
	if err != nil {
		return nil, err
	}
	report, err := e.Run(ctx)
	if err != nil {
		return nil, err
	}

	revaluations := []struct {
		method models.Method
		run    func() (*models.RiskMeasureResult, error)
	}{
		{models.MethodMonteCarlo, func() (*models.RiskMeasureResult, error) {
			return MonteCarloVaR(ctx, p, returns, spots, params, rate)
		}},
		{models.MethodDeltaNormal, func() (*models.RiskMeasureResult, error) {
			return DeltaNormalVaR(p, returns, spots, params, rate)
		}},
	}
	for _, rv := range revaluations {
		res, err := rv.run()
		if err != nil {
			report.Failures[rv.method] = err.Error()
			continue
		}
		report.Results = append(report.Results, *res)
		if check, perr := Plausibility(e.input, res.VaR); perr == nil {
			report.Plausibility[rv.method] = *check
		}
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Method < report.Results[j].Method
	})
	return report, nil
}
