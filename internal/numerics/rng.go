package numerics

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// pathChunk is the number of path indices one worker task owns. Fixed so
// the work split never depends on the worker count.
const pathChunk = 2048

// PathRand returns the dedicated generator for one simulation path. The
// seed is derived from (base seed, path index) through a splitmix-style
// mix, so every path's draws are fixed by the pair alone: results do not
// depend on how paths are scheduled across workers, and the same seed
// reproduces the same simulation bit for bit.
func PathRand(seed int64, path int) *rand.Rand {
	h := uint64(seed) + 0x9e3779b97f4a7c15*uint64(path+1)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return rand.New(rand.NewSource(int64(h)))
}

// AntitheticPair returns the generator and draw sign for path i under
// antithetic pairing: paths 2k and 2k+1 share generator k and mirror each
// other's draws.
func AntitheticPair(seed int64, i int) (*rand.Rand, float64) {
	sign := 1.0
	if i%2 == 1 {
		sign = -1
	}
	return PathRand(seed, i/2), sign
}

// RunPaths executes fn(i) for every i in [0, paths) across a worker pool
// bounded at workers. Tasks own disjoint fixed-size index ranges, so fn
// calls never race with each other as long as each index writes only its
// own slot. Cancellation is checked per chunk.
func RunPaths(ctx context.Context, paths, workers int, fn func(i int)) error {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < paths; start += pathChunk {
		start := start
		end := start + pathChunk
		if end > paths {
			end = paths
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
