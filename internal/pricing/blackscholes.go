// Package pricing implements the option valuation routines the risk engine
// revalues portfolios with: closed-form Black-Scholes quotes with Greeks,
// and a Monte Carlo pricer for the cliquet structure.
package pricing

import (
	"math"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/internal/numerics"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Black-Scholes
// ════════════════════════════════════════════════════════════════════

// Quote is one Black-Scholes valuation with the sensitivities the
// delta-normal approximation consumes.
type Quote struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"` // ∂price/∂spot
	Gamma float64 `json:"gamma"` // ∂²price/∂spot²
}

// BlackScholes values a European option under continuous dividend yield q:
//
//	d1 = (ln(S/K) + (r − q + σ²/2)·T) / (σ√T),  d2 = d1 − σ√T
//	call = S·e^{−qT}·Φ(d1) − K·e^{−rT}·Φ(d2)
//	put  = K·e^{−rT}·Φ(−d2) − S·e^{−qT}·Φ(−d1)
//
// Degenerate inputs stay well defined: T = 0 returns intrinsic value,
// σ = 0 the discounted forward payoff, both with the matching step deltas.
func BlackScholes(typ models.OptionType, spot, strike, maturity, rate, dividendYield, vol float64) (Quote, error) {
	if err := validateBS(typ, spot, strike, maturity, vol); err != nil {
		return Quote{}, err
	}

	if maturity == 0 {
		return intrinsicQuote(typ, spot, strike), nil
	}
	if vol == 0 {
		return forwardQuote(typ, spot, strike, maturity, rate, dividendYield), nil
	}

	sqrtT := math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate-dividendYield+vol*vol/2)*maturity) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT
	discQ := math.Exp(-dividendYield * maturity)
	discR := math.Exp(-rate * maturity)

	var q Quote
	switch typ {
	case models.Call:
		q.Price = spot*discQ*numerics.NormalCDF(d1) - strike*discR*numerics.NormalCDF(d2)
		q.Delta = discQ * numerics.NormalCDF(d1)
	case models.Put:
		q.Price = strike*discR*numerics.NormalCDF(-d2) - spot*discQ*numerics.NormalCDF(-d1)
		q.Delta = discQ * (numerics.NormalCDF(d1) - 1)
	}
	q.Gamma = discQ * numerics.NormalPDF(d1) / (spot * vol * sqrtT)
	return q, nil
}

// ValueOption revalues an option spec at a given spot and volatility,
// keeping the spec's other terms. The revaluation engine shocks spot and
// vol per simulated path and calls this.
func ValueOption(spec models.OptionSpec, spot, vol, rate, maturity float64) (Quote, error) {
	return BlackScholes(spec.Type, spot, spec.Strike, maturity, rate, spec.DividendYield, vol)
}

func validateBS(typ models.OptionType, spot, strike, maturity, vol float64) error {
	if typ != models.Call && typ != models.Put {
		return &models.InvalidParameterError{Name: "type", Value: string(typ), Reason: "must be call or put"}
	}
	if spot <= 0 || math.IsNaN(spot) {
		return &models.InvalidMarketDataError{Field: "spot", Value: spot, Reason: "underlying level must be positive"}
	}
	if strike <= 0 || math.IsNaN(strike) {
		return &models.InvalidMarketDataError{Field: "strike", Value: strike, Reason: "strike must be positive"}
	}
	if vol < 0 || math.IsNaN(vol) {
		return &models.InvalidMarketDataError{Field: "implied_vol", Value: vol, Reason: "volatility cannot be negative"}
	}
	if maturity < 0 || math.IsNaN(maturity) {
		return &models.InvalidParameterError{Name: "maturity", Value: maturity, Reason: "time to expiry cannot be negative"}
	}
	return nil
}

// intrinsicQuote handles T = 0: the option is its exercise value and delta
// is the exercise indicator.
func intrinsicQuote(typ models.OptionType, spot, strike float64) Quote {
	switch typ {
	case models.Call:
		if spot > strike {
			return Quote{Price: spot - strike, Delta: 1}
		}
	case models.Put:
		if spot < strike {
			return Quote{Price: strike - spot, Delta: -1}
		}
	}
	return Quote{}
}

// forwardQuote handles σ = 0: the terminal level is the forward
// F = S·e^{(r−q)T} with certainty.
func forwardQuote(typ models.OptionType, spot, strike, maturity, rate, dividendYield float64) Quote {
	forward := spot * math.Exp((rate-dividendYield)*maturity)
	discR := math.Exp(-rate * maturity)
	discQ := math.Exp(-dividendYield * maturity)

	switch typ {
	case models.Call:
		if forward > strike {
			return Quote{Price: discR * (forward - strike), Delta: discQ}
		}
	case models.Put:
		if forward < strike {
			return Quote{Price: discR * (strike - forward), Delta: -discQ}
		}
	}
	return Quote{}
}
