package filter

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RecordKey is the environment variable holding the whole record. Top-level
// fields are also exposed directly, so `status == "paid"` and
// `record.status == "paid"` are equivalent.
const RecordKey = "record"

// Filter is a compiled boolean expression evaluated against API records
type Filter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables caching of compiled filters
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*Filter](size)
		}
	}
}

// WithFunctions adds custom helper functions
func WithFunctions(funcs map[string]any) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// WithPresets registers named expressions usable as "@name"
func WithPresets(presets map[string]string) CompilerOption {
	return func(c *Compiler) {
		maps.Copy(c.presets, presets)
	}
}

// Compiler compiles filter expressions
type Compiler struct {
	helpers map[string]any
	presets map[string]string
	cache   *lruCache[*Filter]
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		helpers: helperFunctions(),
		presets: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into a Filter. An expression of the form
// "@name" is replaced by the preset of that name.
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression, err := c.resolve(expression)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helpers),
		expr.AllowUndefinedVariables(), // record fields are only known at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}
	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

func (c *Compiler) resolve(expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	name, ok := strings.CutPrefix(expression, "@")
	if !ok {
		return expression, nil
	}
	preset, ok := c.presets[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return strings.TrimSpace(preset), nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Expression returns the compiled expression
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a record. The record is converted through
// its JSON form, so expressions use the API field names (created_at, amount).
func (f *Filter) Match(record any) (bool, error) {
	env, err := f.environment(record)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "record is not JSON serializable",
			Err:        err,
		}
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Record:     recordID(env),
			Reason:     err.Error(),
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

func (f *Filter) environment(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}

	fields, _ := value.(map[string]any)
	env := make(map[string]any, len(fields)+len(f.helpers)+1)
	maps.Copy(env, fields)
	maps.Copy(env, f.helpers)
	env[RecordKey] = value
	return env, nil
}

func recordID(env map[string]any) string {
	if id, ok := env["id"]; ok && id != nil {
		return fmt.Sprintf("%.0f", num(id))
	}
	return ""
}

// Apply returns the items the matcher accepts, in order. A nil matcher keeps
// every item.
func Apply[T any](m Matcher, items []T) ([]T, error) {
	if m == nil {
		return items, nil
	}

	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := m.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, item)
		}
	}
	return matched, nil
}
