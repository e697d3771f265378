package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Tommaso658/Equity-Portfolio-VaR-ES-Counterparty-Risk/pkg/utils"
)

// ParseCSV reads long-format price records — one "date,instrument,price"
// row per observation, header required — and groups them into one
// PriceSeries per instrument. Series validation (ordering, positivity,
// calendar gaps) happens on construction, so a malformed file fails here,
// not inside the engine.
func ParseCSV(r io.Reader) ([]*PriceSeries, error) {
	points, err := parsePoints(r)
	if err != nil {
		return nil, err
	}
	return buildSeries(points)
}

// parsePoints reads the raw per-instrument observations from one CSV stream.
func parsePoints(r io.Reader) (map[string][]PricePoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	if len(header) != 3 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "date") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "instrument") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "price") {
		return nil, fmt.Errorf("unexpected CSV header %v: want date,instrument,price", header)
	}

	points := make(map[string][]PricePoint)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read CSV line %d: %w", line, err)
		}

		date, err := parseRecordDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		instrument := strings.TrimSpace(rec[1])
		if instrument == "" {
			return nil, fmt.Errorf("CSV line %d: empty instrument", line)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: invalid price %q", line, rec[2])
		}

		points[instrument] = append(points[instrument], PricePoint{Date: date, Price: price})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("CSV contains no price records")
	}
	return points, nil
}

// buildSeries validates raw observations into series, instrument-sorted for
// deterministic output.
func buildSeries(points map[string][]PricePoint) ([]*PriceSeries, error) {
	instruments := make([]string, 0, len(points))
	for id := range points {
		instruments = append(instruments, id)
	}
	sort.Strings(instruments)

	series := make([]*PriceSeries, 0, len(instruments))
	for _, id := range instruments {
		ps, err := NewPriceSeries(id, points[id])
		if err != nil {
			return nil, err
		}
		series = append(series, ps)
	}
	return series, nil
}

func parseRecordDate(s string) (time.Time, error) {
	return utils.ParseDate(strings.TrimSpace(s))
}

// LoadCSV parses a long-format price file from disk.
func LoadCSV(path string) ([]*PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	series, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}
