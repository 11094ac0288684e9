// Package fileproc provides concurrent source unit processing utilities.
package fileproc

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/assay-dev/assay/pkg/parser"
	"github.com/assay-dev/assay/pkg/source"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed CPU and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each unit is processed.
type ProgressFunc func()

// MapUnits processes units in parallel, calling fn for each unit with a
// dedicated parser. Results are returned in input order, so callers get
// deterministic output regardless of scheduling.
func MapUnits[T any](ctx context.Context, units []source.Unit, fn func(*parser.Parser, source.Unit) T) []T {
	return MapUnitsN(ctx, units, 0, fn, nil)
}

// MapUnitsWithProgress processes units in parallel with a progress callback.
func MapUnitsWithProgress[T any](ctx context.Context, units []source.Unit, fn func(*parser.Parser, source.Unit) T, onProgress ProgressFunc) []T {
	return MapUnitsN(ctx, units, 0, fn, onProgress)
}

// MapUnitsN processes units with a configurable worker count.
// If maxWorkers is <= 0, defaults to 2x NumCPU. Units scheduled after the
// context is cancelled are left as their zero value.
func MapUnitsN[T any](ctx context.Context, units []source.Unit, maxWorkers int, fn func(*parser.Parser, source.Unit) T, onProgress ProgressFunc) []T {
	if len(units) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, len(units))

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, unit := range units {
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			psr := parser.New()
			defer psr.Close()

			results[i] = fn(psr, unit)

			if onProgress != nil {
				onProgress()
			}
		})
	}
	p.Wait()

	return results
}

// ForEachUnit processes units in parallel without a parser. Use this for
// raw-text operations.
func ForEachUnit[T any](ctx context.Context, units []source.Unit, fn func(source.Unit) T) []T {
	if len(units) == 0 {
		return nil
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, len(units))

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, unit := range units {
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			results[i] = fn(unit)
		})
	}
	p.Wait()

	return results
}
