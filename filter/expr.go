package filter

import (
	"fmt"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	onError    func(*EvaluationError)
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithErrorHandler receives runtime errors that Evaluate otherwise treats
// as a non-match. The handler may be called concurrently.
func WithErrorHandler(fn func(*EvaluationError)) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.onError = fn
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
	onError     func(*EvaluationError)
}

// Compile compiles an expression into an executable filter. Unknown
// variables are rejected at compile time.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(createRuntimeEnvironment(c.helperFuncs, Document{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
		onError:    c.onError,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether the document matches. Runtime errors count as
// no match.
func (f *exprFilter) Evaluate(doc Document) bool {
	ok, evalErr := f.run(doc)
	if evalErr != nil {
		if f.onError != nil {
			f.onError(evalErr)
		}
		return false
	}
	return ok
}

// Run evaluates the filter and returns any runtime error
func (f *exprFilter) Run(doc Document) (bool, error) {
	ok, evalErr := f.run(doc)
	if evalErr != nil {
		return false, evalErr
	}
	return ok, nil
}

func (f *exprFilter) run(doc Document) (bool, *EvaluationError) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(f.helpers, doc))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Document:   doc.Path,
			Reason:     err.Error(),
			Err:        err,
		}
	}
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the document independent helpers
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// Date helpers
	funcs["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	funcs["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	funcs["now"] = time.Now

	// String helpers
	funcs["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper

	// Size helper
	funcs["size"] = func(s string) int64 {
		n, _ := ParseSize(s)
		return n
	}

	return funcs
}

// createRuntimeEnvironment binds the document fields and document specific
// helpers on top of the shared helpers.
func createRuntimeEnvironment(helpers map[string]any, doc Document) map[string]any {
	env := make(map[string]any, len(helpers)+16)
	maps.Copy(env, helpers)

	env["Document"] = doc
	env["Name"] = doc.Name
	env["Path"] = doc.Path
	env["Dir"] = doc.Dir
	env["Ext"] = doc.Ext
	env["Format"] = string(doc.Format)
	env["Size"] = doc.Size
	env["Modified"] = doc.Modified
	env["Links"] = int(doc.Links)

	env["hasExt"] = createHasExtFunc(doc.Ext)
	env["isFormat"] = createIsFormatFunc(string(doc.Format))
	env["larger"] = createSizeCompareFunc(doc.Size, true)
	env["smaller"] = createSizeCompareFunc(doc.Size, false)
	env["matches"] = createMatchesFunc(doc.Name)
	env["inDir"] = createInDirFunc(doc.Dir)
	env["modifiedWithin"] = createModifiedWithinFunc(doc.Modified)
	env["hasHardlinks"] = func() bool { return doc.Links > 1 }

	return env
}

func createHasExtFunc(ext string) func(...string) bool {
	return func(exts ...string) bool {
		return slices.ContainsFunc(exts, func(e string) bool {
			return strings.EqualFold(strings.TrimPrefix(e, "."), ext)
		})
	}
}

func createIsFormatFunc(format string) func(string) bool {
	return func(f string) bool {
		return strings.EqualFold(strings.TrimPrefix(f, "."), format)
	}
}

func createSizeCompareFunc(size int64, larger bool) func(string) bool {
	return func(limit string) bool {
		n, err := ParseSize(limit)
		if err != nil {
			return false
		}
		if larger {
			return size > n
		}
		return size < n
	}
}

func createMatchesFunc(name string) func(string) bool {
	return func(pattern string) bool {
		ok, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
		return err == nil && ok
	}
}

func createInDirFunc(dir string) func(string) bool {
	clean := filepath.Clean(dir)
	return func(d string) bool {
		target := filepath.Clean(d)
		return clean == target || strings.HasPrefix(clean, target+string(filepath.Separator))
	}
}

func createModifiedWithinFunc(modified time.Time) func(int) bool {
	return func(days int) bool {
		return !modified.IsZero() && modified.After(time.Now().AddDate(0, 0, -days))
	}
}

var sizeUnits = map[string]int64{
	"":    1,
	"b":   1,
	"k":   1 << 10,
	"kb":  1 << 10,
	"kib": 1 << 10,
	"m":   1 << 20,
	"mb":  1 << 20,
	"mib": 1 << 20,
	"g":   1 << 30,
	"gb":  1 << 30,
	"gib": 1 << 30,
	"t":   1 << 40,
	"tb":  1 << 40,
	"tib": 1 << 40,
}

// ParseSize parses sizes like "512", "10KB" or "1.5 GiB" into bytes.
// Units are binary.
func ParseSize(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if i == -1 {
		i = len(s)
	}

	num, unit := s[:i], strings.TrimSpace(s[i:])
	mult, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unknown size unit %q", unit)
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	// float64(math.MaxInt64) rounds up to 2^63, which does not fit
	size := n * float64(mult)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is out of range", s)
	}
	return int64(size), nil
}
