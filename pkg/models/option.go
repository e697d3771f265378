package models

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// OptionSpec describes a vanilla European option for revaluation and
// delta-normal approximation. Immutable.
type OptionSpec struct {
	Underlying    string     `json:"underlying"`               // instrument id of the underlying
	Type          OptionType `json:"type"`                     // call or put
	Strike        float64    `json:"strike"`
	Maturity      float64    `json:"maturity"`                 // time to expiry in years
	ImpliedVol    float64    `json:"implied_vol"`              // annualized
	DividendYield float64    `json:"dividend_yield,omitempty"` // continuous, annualized
}

// CliquetSpec describes a multi-period cliquet structure: the payoff sums
// capped/floored periodic returns over a schedule of reset dates.
type CliquetSpec struct {
	Spot        float64   `json:"spot"`                   // initial underlying level
	Periods     int       `json:"periods"`                // number of reset periods
	PeriodYears float64   `json:"period_years"`           // length of one period in years
	LocalCap    float64   `json:"local_cap"`              // cap per periodic return; +Inf disables
	LocalFloor  float64   `json:"local_floor"`            // floor per periodic return; -Inf disables
	GlobalCap   float64   `json:"global_cap,omitempty"`   // cap on the summed payoff; +Inf disables
	GlobalFloor float64   `json:"global_floor,omitempty"` // floor on the summed payoff; -Inf disables
	Rate        float64   `json:"rate"`                   // risk-free rate, continuous compounding
	Vols        []float64 `json:"vols"`                   // per-period volatility term structure; len 1 = flat
	Notional    float64   `json:"notional"`               // payoff multiplier; 0 = 1.0
}

// TotalYears returns the full life of the structure.
func (c CliquetSpec) TotalYears() float64 {
	return float64(c.Periods) * c.PeriodYears
}

// VolForPeriod returns the volatility governing period i (0-based).
// A single-entry term structure is flat across all periods; a shorter
// structure extends its last value.
func (c CliquetSpec) VolForPeriod(i int) float64 {
	if len(c.Vols) == 0 {
		return 0
	}
	if i < len(c.Vols) {
		return c.Vols[i]
	}
	return c.Vols[len(c.Vols)-1]
}
