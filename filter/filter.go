package filter

import (
	"context"
	"sync"
)

var (
	defaultCompiler     Compiler
	defaultCompilerOnce sync.Once
)

func sharedCompiler() Compiler {
	defaultCompilerOnce.Do(func() {
		defaultCompiler = NewExprCompiler(WithCache(100))
	})
	return defaultCompiler
}

// CompileFilter compiles an expression with a shared, cached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return sharedCompiler().Compile(expression)
}

// EvaluateFilters compiles and evaluates several named expressions against
// the documents in one call.
func EvaluateFilters(ctx context.Context, filters map[string]string, docs []Document) (map[string][]Document, error) {
	m := NewManager(WithCompiler(sharedCompiler()))
	defer m.Close(context.Background())

	if err := m.RegisterFilters(filters); err != nil {
		return nil, err
	}
	return m.EvaluateAll(ctx, docs)
}
