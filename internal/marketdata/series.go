// Package marketdata loads price histories from market files and turns them
// into the aligned return series the risk engine consumes. It owns the
// boundary between raw (date, instrument, price) records and the engine's
// immutable inputs: validation, calendar checks, date alignment, and return
// computation all happen here, so the estimators downstream never see a
// malformed series.
package marketdata

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/utils"
)

// maxCalendarGap is the widest run of missing business days tolerated inside
// a price series. Ordinary holidays pass; a month-long hole means the file
// is broken and the series is rejected.
const maxCalendarGap = 10

// PricePoint is one (date, price) observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries is an immutable ordered price history for one instrument.
// Construction through NewPriceSeries guarantees strictly increasing dates,
// positive prices, and no gap wider than the business calendar allows.
type PriceSeries struct {
	instrument string
	dates      []time.Time
	prices     []float64
}

// NewPriceSeries validates and freezes a price history. The input need not
// be sorted; observations are ordered by date before validation.
func NewPriceSeries(instrument string, points []PricePoint) (*PriceSeries, error) {
	if instrument == "" {
		return nil, fmt.Errorf("price series requires an instrument identifier")
	}
	if len(points) == 0 {
		return nil, &models.InsufficientDataError{Context: "price series " + instrument, Need: 1, Got: 0}
	}

	sorted := make([]PricePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	ps := &PriceSeries{
		instrument: instrument,
		dates:      make([]time.Time, len(sorted)),
		prices:     make([]float64, len(sorted)),
	}
	for i, pt := range sorted {
		if pt.Price <= 0 {
			return nil, &models.InvalidMarketDataError{
				Field:  instrument + " price",
				Value:  pt.Price,
				Reason: "price must be positive (" + utils.FormatDate(pt.Date) + ")",
			}
		}
		if i > 0 {
			prev := sorted[i-1].Date
			if !pt.Date.After(prev) {
				return nil, &models.InvalidMarketDataError{
					Field:  instrument + " date",
					Value:  float64(pt.Date.Unix()),
					Reason: "duplicate or non-increasing date " + utils.FormatDate(pt.Date),
				}
			}
			if gap := utils.CalendarGap(prev, pt.Date); gap > maxCalendarGap {
				return nil, &models.InvalidMarketDataError{
					Field:  instrument + " date",
					Value:  float64(gap),
					Reason: fmt.Sprintf("gap of %d business days before %s exceeds calendar tolerance %d", gap, utils.FormatDate(pt.Date), maxCalendarGap),
				}
			}
		}
		ps.dates[i] = pt.Date
		ps.prices[i] = pt.Price
	}
	return ps, nil
}

// Instrument returns the instrument identifier.
func (ps *PriceSeries) Instrument() string { return ps.instrument }

// Len returns the number of observations.
func (ps *PriceSeries) Len() int { return len(ps.dates) }

// Date returns the i-th observation date.
func (ps *PriceSeries) Date(i int) time.Time { return ps.dates[i] }

// Price returns the i-th observation price.
func (ps *PriceSeries) Price(i int) float64 { return ps.prices[i] }

// Last returns the most recent observation.
func (ps *PriceSeries) Last() PricePoint {
	n := len(ps.dates)
	return PricePoint{Date: ps.dates[n-1], Price: ps.prices[n-1]}
}

// Dates returns the underlying date index. Callers must treat it as
// read-only.
func (ps *PriceSeries) Dates() []time.Time { return ps.dates }

// --- Return series ---

// ReturnType selects between log and simple returns.
type ReturnType string

const (
	LogReturns    ReturnType = "log"
	SimpleReturns ReturnType = "simple"
)

// ReturnSeries is the per-instrument return history derived from a
// PriceSeries: length n−1, each value dated at the later of its two prices.
// Consumers treat it as read-only.
type ReturnSeries struct {
	Instrument string      `json:"instrument"`
	Kind       ReturnType  `json:"kind"`
	Dates      []time.Time `json:"dates"`
	Values     []float64   `json:"values"`
}

// BuildReturns derives a return series from a price history.
// Fails when fewer than 2 prices are available.
func BuildReturns(ps *PriceSeries, kind ReturnType) (*ReturnSeries, error) {
	if ps.Len() < 2 {
		return nil, &models.InsufficientDataError{Context: "return series " + ps.instrument, Need: 2, Got: ps.Len()}
	}
	if kind != LogReturns && kind != SimpleReturns {
		return nil, &models.InvalidParameterError{Name: "return_type", Value: string(kind), Reason: "must be log or simple"}
	}

	n := ps.Len() - 1
	rs := &ReturnSeries{
		Instrument: ps.instrument,
		Kind:       kind,
		Dates:      make([]time.Time, n),
		Values:     make([]float64, n),
	}
	for i := 0; i < n; i++ {
		rs.Dates[i] = ps.dates[i+1]
		ratio := ps.prices[i+1] / ps.prices[i]
		if kind == LogReturns {
			rs.Values[i] = math.Log(ratio)
		} else {
			rs.Values[i] = ratio - 1
		}
	}
	return rs, nil
}
