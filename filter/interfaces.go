package filter

import "context"

// Filter matches documents
type Filter interface {
	Evaluate(doc Document) bool
}

// CompiledFilter is a Filter built from an expression
type CompiledFilter interface {
	Filter
	Expression() string
}

// Compiler turns expressions into filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler keeps compiled filters for reuse
type CachingCompiler interface {
	Compiler
	Clear()
	Size() int
}

// Evaluator selects the documents a filter matches
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, docs []Document) ([]Document, error)
}

// BatchEvaluator runs a Manager's presets. Stop releases its workers.
type BatchEvaluator interface {
	Evaluator
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, docs []Document) (map[string][]Document, error)
	Stop(ctx context.Context) error
}

// WorkerPool runs submitted work on a fixed set of goroutines
type WorkerPool interface {
	Submit(work func()) error
	Stop(ctx context.Context) error
}

var _ BatchEvaluator = (*ConcurrentEvaluator)(nil)
