package filter

import (
	"context"
	"runtime"
	"sync"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the list size from which evaluation is split into chunks
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator is the BatchEvaluator backed by a worker pool
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	pool        WorkerPool
}

type batchResult struct {
	name    string
	matches []Document
	err     error
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

	e.pool = NewWorkerPool(e.workerCount)

	return e
}

// Evaluate returns the documents matching the filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, docs []Document) ([]Document, error) {
	if len(docs) == 0 {
		return []Document{}, nil
	}

	if len(docs) < e.batchSize {
		return evaluateSequential(filter, docs), nil
	}

	return e.evaluateConcurrent(ctx, filter, docs)
}

// EvaluateBatch evaluates several filters concurrently, one pool task per
// filter. Filters that fail are left out of the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, docs []Document) (map[string][]Document, error) {
	results := make(map[string][]Document, len(filters))
	if len(filters) == 0 || len(docs) == 0 {
		return results, nil
	}

	resultChan := make(chan batchResult, len(filters))
	var wg sync.WaitGroup

	for name, filter := range filters {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				resultChan <- batchResult{name: name, err: err}
				return
			}
			resultChan <- batchResult{name: name, matches: evaluateSequential(filter, docs)}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}

	wg.Wait()
	close(resultChan)

	for result := range resultChan {
		if result.err != nil {
			continue
		}
		results[result.name] = result.matches
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func evaluateSequential(filter CompiledFilter, docs []Document) []Document {
	matches := make([]Document, 0, len(docs)/4)
	for _, doc := range docs {
		if filter.Evaluate(doc) {
			matches = append(matches, doc)
		}
	}
	return matches
}

// evaluateConcurrent splits the documents into ordered chunks on the pool
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, docs []Document) ([]Document, error) {
	chunkSize := max(len(docs)/e.workerCount, e.batchSize)
	chunks := (len(docs) + chunkSize - 1) / chunkSize
	results := make([][]Document, chunks)

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * chunkSize
		chunk := docs[start:min(start+chunkSize, len(docs))]

		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = evaluateSequential(filter, chunk)
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
	for _, r := range results {
		total += len(r)
	}
	matches := make([]Document, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// Stop gracefully stops the evaluator's worker pool
func (e *ConcurrentEvaluator) Stop(ctx context.Context) error {
	return e.pool.Stop(ctx)
}
