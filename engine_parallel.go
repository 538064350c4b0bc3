package axiom

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WithWorkers sets how many documents AssembleFiles processes at once.
// Rules within one document always run sequentially. Default: NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// FileResult is the outcome of assembling one file.
type FileResult struct {
	Path  string
	Graph *Graph
	Err   error
}

// AssembleFiles assembles every path with a worker pool. Each document is
// parsed and folded by a single worker; results come back in input order.
// The returned error summarizes per-file failures, which are also recorded
// on their FileResult.
func (e *Engine) AssembleFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	numWorkers := e.workers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, len(paths))

	workCh := make(chan int, len(paths))
	for i := range paths {
		workCh <- i
	}
	close(workCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				res := FileResult{Path: paths[i]}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					res.Graph, res.Err = e.AssembleFile(ctx, paths[i])
				}
				results[i] = res
			}
		}()
	}
	wg.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("assemble %s: %w", res.Path, res.Err))
		}
	}
	if len(errs) > 0 {
		return results, fmt.Errorf("assembly had %d error(s): %w", len(errs), errs[0])
	}
	return results, nil
}
