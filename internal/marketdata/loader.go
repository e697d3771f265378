package marketdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// LoadFiles reads several long-format price files concurrently and merges
// their observations per instrument, so a portfolio's history may be split
// one-file-per-instrument or sharded by date range. Unlike a news
// aggregator, a risk run cannot tolerate silently missing inputs: if any
// file fails, the whole load fails with every file's error joined.
func LoadFiles(ctx context.Context, paths ...string) ([]*PriceSeries, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no price files supplied")
	}

	var mu sync.Mutex
	var errs []error
	merged := make(map[string][]PricePoint)

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				mu.Unlock()
				return nil
			}
			defer f.Close()

			points, err := parsePoints(f)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				return nil
			}
			for id, pts := range points {
				merged[id] = append(merged[id], pts...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return buildSeries(merged)
}

// LoadAlignedDir loads <dir>/<instrument>.csv for each requested instrument
// and returns their date-aligned returns of the requested kind. Every
// instrument must resolve to a file and to a series inside that file; a
// portfolio must not silently lose a risk factor to a typo.
func LoadAlignedDir(ctx context.Context, dir string, instruments []string, kind ReturnType) (*AlignedReturns, error) {
	if len(instruments) == 0 {
		return nil, fmt.Errorf("no instruments requested")
	}

	paths := make([]string, 0, len(instruments))
	for _, id := range instruments {
		path := filepath.Join(dir, id+".csv")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("no price data for instrument %s: %w", id, err)
		}
		paths = append(paths, path)
	}

	series, err := LoadFiles(ctx, paths...)
	if err != nil {
		return nil, err
	}

	byInstrument := make(map[string]*PriceSeries, len(series))
	for _, ps := range series {
		byInstrument[ps.Instrument()] = ps
	}

	returns := make([]*ReturnSeries, 0, len(instruments))
	for _, id := range instruments {
		ps, ok := byInstrument[id]
		if !ok {
			return nil, fmt.Errorf("file for instrument %s holds no series named %s", id, id)
		}
		rs, err := BuildReturns(ps, kind)
		if err != nil {
			return nil, err
		}
		returns = append(returns, rs)
	}

	return Align(returns...)
}
