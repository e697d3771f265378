package marketdata

import (
	"fmt"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/models"
)

// AlignedReturns is the multi-asset return matrix every estimator consumes:
// one column per instrument, rows on a common date index. Rows where any
// instrument lacks an observation have been dropped (see Align). Consumers
// treat the struct as read-only.
type AlignedReturns struct {
	Instruments []string    `json:"instruments"`
	Kind        ReturnType  `json:"kind"`
	Dates       []time.Time `json:"dates"`   // common index, ascending
	Columns     [][]float64 `json:"columns"` // Columns[a][t] = return of asset a on Dates[t]
	Dropped     int         `json:"dropped"` // per-instrument observations discarded by alignment
}

// Align intersects the date indices of multiple return series and drops
// every observation outside the intersection. Dropping (rather than
// failing) is the alignment policy: holidays differ across exchanges, so a
// missing date on one instrument removes that date for all. The Dropped
// count lets callers reject alignments that discarded too much history.
//
// Fails when the intersection is empty or the series mix return kinds.
func Align(series ...*ReturnSeries) (*AlignedReturns, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("align: no return series supplied")
	}

	kind := series[0].Kind
	for _, rs := range series {
		if rs.Kind != kind {
			return nil, &models.InvalidParameterError{
				Name: "return_type", Value: string(rs.Kind),
				Reason: "all series must use the same return kind for alignment",
			}
		}
	}

	// Count date occurrences; a date common to all series appears len(series) times.
	counts := make(map[time.Time]int)
	total := 0
	for _, rs := range series {
		total += len(rs.Values)
		for _, d := range rs.Dates {
			counts[d]++
		}
	}

	common := make(map[time.Time]bool)
	for d, c := range counts {
		if c == len(series) {
			common[d] = true
		}
	}
	if len(common) == 0 {
		return nil, &models.InsufficientDataError{
			Context: "aligned return series",
			Need:    1,
			Got:     0,
		}
	}

	// The first series' order carries the common index; all series share it
	// since return dates ascend.
	ar := &AlignedReturns{
		Instruments: make([]string, len(series)),
		Kind:        kind,
		Columns:     make([][]float64, len(series)),
	}
	for _, d := range series[0].Dates {
		if common[d] {
			ar.Dates = append(ar.Dates, d)
		}
	}
	for a, rs := range series {
		ar.Instruments[a] = rs.Instrument
		col := make([]float64, 0, len(ar.Dates))
		for i, d := range rs.Dates {
			if common[d] {
				col = append(col, rs.Values[i])
			}
		}
		ar.Columns[a] = col
	}
	ar.Dropped = total - len(ar.Dates)*len(series)
	return ar, nil
}

// Observations returns the number of aligned return dates.
func (ar *AlignedReturns) Observations() int { return len(ar.Dates) }

// Window returns the trailing n observations as a new AlignedReturns
// sharing the underlying arrays. Fails when fewer than n are available.
func (ar *AlignedReturns) Window(n int) (*AlignedReturns, error) {
	if n <= 0 {
		return nil, &models.InvalidParameterError{Name: "window", Value: n, Reason: "must be positive"}
	}
	if ar.Observations() < n {
		return nil, &models.InsufficientDataError{Context: "estimation window", Need: n, Got: ar.Observations()}
	}
	start := ar.Observations() - n
	w := &AlignedReturns{
		Instruments: ar.Instruments,
		Kind:        ar.Kind,
		Dates:       ar.Dates[start:],
		Columns:     make([][]float64, len(ar.Columns)),
		Dropped:     ar.Dropped,
	}
	for a, col := range ar.Columns {
		w.Columns[a] = col[start:]
	}
	return w, nil
}

// PortfolioReturns collapses the matrix into a single portfolio return per
// date under the given per-asset weights.
func (ar *AlignedReturns) PortfolioReturns(weights []float64) ([]float64, error) {
	if len(weights) != len(ar.Columns) {
		return nil, &models.InvalidParameterError{
			Name: "weights", Value: len(weights),
			Reason: fmt.Sprintf("need one weight per instrument (%d)", len(ar.Columns)),
		}
	}
	out := make([]float64, ar.Observations())
	for t := range out {
		var r float64
		for a, col := range ar.Columns {
			r += weights[a] * col[t]
		}
		out[t] = r
	}
	return out, nil
}

// AgeDays returns, for every observation, its age in calendar days relative
// to the most recent observation (most recent = 0). Exponentially weighted
// estimation decays on these ages.
func (ar *AlignedReturns) AgeDays() []int {
	ages := make([]int, len(ar.Dates))
	if len(ar.Dates) == 0 {
		return ages
	}
	last := ar.Dates[len(ar.Dates)-1]
	for i, d := range ar.Dates {
		ages[i] = int(last.Sub(d).Hours() / 24)
	}
	return ages
}

// ColumnFor returns the return column for an instrument, or an error when
// the instrument is not part of the alignment.
func (ar *AlignedReturns) ColumnFor(instrument string) ([]float64, error) {
	for a, id := range ar.Instruments {
		if id == instrument {
			return ar.Columns[a], nil
		}
	}
	return nil, fmt.Errorf("instrument %s not in aligned series", instrument)
}
