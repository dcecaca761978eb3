package filter

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.workerCount = workers
	}
}

// WithBatchSize sets the number of records below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.batchSize = size
	}
}

// ConcurrentEvaluator applies compiled filters to record sets, splitting
// large sets into chunks that run on a worker pool.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.workerCount <= 0 {
		e.workerCount = 1
	}
	if e.batchSize <= 0 {
		e.batchSize = 1
	}

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the records matching filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	if len(records) < e.batchSize {
		return evaluateChunk(filter, records), ctx.Err()
	}

	return e.evaluateConcurrent(ctx, filter, records)
}

// EvaluateBatch runs every filter against records. The result maps filter
// name to its matches.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, records []Record) (map[string][]Record, error) {
	results := make(map[string][]Record, len(filters))
	if len(filters) == 0 {
		return results, nil
	}

	resultChan := make(chan BatchResult, len(filters))

	// Filters fan out on goroutines; chunks of each use the pool
	g, gctx := errgroup.WithContext(ctx)
	for name, filter := range filters {
		g.Go(func() error {
			matches, err := e.Evaluate(gctx, filter, records)
			if err != nil {
				return err
			}
			resultChan <- BatchResult{FilterName: name, Matches: matches}
			return nil
		})
	}

	err := g.Wait()
	close(resultChan)
	if err != nil {
		return nil, err
	}

	for result := range resultChan {
		results[result.FilterName] = result.Matches
	}
	return results, nil
}

func evaluateChunk(filter CompiledFilter, records []Record) []Record {
	matches := make([]Record, 0, len(records)/10)
	for _, record := range records {
		if filter.Evaluate(record) {
			matches = append(matches, record)
		}
	}
	return matches
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, records []Record) ([]Record, error) {
	chunkSize := max(len(records)/e.workerCount, e.batchSize)
	chunks := make([][]Record, (len(records)+chunkSize-1)/chunkSize)

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(records))

		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			chunks[i] = evaluateChunk(filter, records[start:end])
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	matches := make([]Record, 0, total)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}

// Records converts a typed slice into filter records
func Records[T Record](items []T) []Record {
	records := make([]Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records
}

// Matches converts filter records back into their concrete type, skipping
// records of any other type.
func Matches[T Record](records []Record) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
