package models

// Position is one holding in a portfolio: an instrument identifier with a
// signed quantity and its current market price. Negative quantity = short.
type Position struct {
	Instrument string  `json:"instrument"`       // e.g. "ADS.DE"
	Quantity   float64 `json:"quantity"`         // units held; negative for shorts
	Price      float64 `json:"price"`            // current price per unit
	Option     *OptionSpec `json:"option,omitempty"` // set when the position is an option
}

// Value returns the mark-to-market value of the position.
func (p Position) Value() float64 {
	return p.Quantity * p.Price
}

// Portfolio is an immutable set of positions priced at a common timestamp.
// Every instrument must have a return series of compatible date alignment
// before multi-asset risk computations run.
type Portfolio struct {
	Positions []Position `json:"positions"`
}

// Value returns the total portfolio value, Σ quantity × price.
func (pf Portfolio) Value() float64 {
	var v float64
	for _, p := range pf.Positions {
		v += p.Value()
	}
	return v
}

// Weights returns per-position value weights relative to total portfolio
// value. Weights of a zero-value portfolio are all zero.
func (pf Portfolio) Weights() []float64 {
	total := pf.Value()
	w := make([]float64, len(pf.Positions))
	if total == 0 {
		return w
	}
	for i, p := range pf.Positions {
		w[i] = p.Value() / total
	}
	return w
}

// Instruments returns the instrument identifiers in position order.
func (pf Portfolio) Instruments() []string {
	ids := make([]string, len(pf.Positions))
	for i, p := range pf.Positions {
		ids[i] = p.Instrument
	}
	return ids
}

// Underlyings returns the distinct instruments whose return history the
// portfolio depends on: the instrument itself for cash positions, the
// option's underlying for option positions. Order of first appearance.
func (pf Portfolio) Underlyings() []string {
	seen := make(map[string]bool, len(pf.Positions))
	var ids []string
	for _, p := range pf.Positions {
		id := p.Instrument
		if p.Option != nil {
			id = p.Option.Underlying
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
