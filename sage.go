// Package sage is a formula language for end-user expressions: the
// spreadsheet-style one-liners a platform lets its customers type into
// a field, like `price * quantity * (1 - discount)` or
// `IF(total > 100, "free shipping", "standard")`.
//
// A formula is a single expression. It is parsed into an AST, checked
// or evaluated against a caller-supplied Context of fields and
// datasets, and always returns either a value or a structured,
// positioned error that a UI can show to the person who typed it.
//
//	result := sage.Evaluate(`price * quantity`, &sage.Context{
//		Fields: map[string]any{"price": 10, "quantity": 5},
//	})
//	if result.Success {
//		fmt.Println(result.Value) // 50
//	}
//
// Parsing, validation, and evaluation are separate steps so hosts can
// parse once and evaluate many times, or validate at authoring time
// without running anything.
package sage

import (
	"github.com/sambeau/sage/pkg/ast"
	serrors "github.com/sambeau/sage/pkg/errors"
	"github.com/sambeau/sage/pkg/evaluator"
	"github.com/sambeau/sage/pkg/parser"
	"github.com/sambeau/sage/pkg/validator"
)

// Version is the library version.
const Version = "0.3.0"

// Context aliases the evaluator's Context so callers only import sage.
type Context = evaluator.Context

// Error aliases the structured engine error.
type Error = serrors.Error

// ParseResult is the outcome of parsing a formula.
type ParseResult struct {
	Success   bool
	AST       ast.Expression
	NodeCount int
	Error     *Error
}

// EvaluationResult is the outcome of evaluating a formula. Value holds
// a native Go value: float64, string, bool, nil, time.Time, []any, or
// map[string]any.
type EvaluationResult struct {
	Success bool
	Value   any
	Error   *Error
}

// Parse parses source into an AST without evaluating it.
func Parse(source string) ParseResult {
	expr, err := parser.Parse(source)
	if err != nil {
		return ParseResult{Success: false, Error: err}
	}
	return ParseResult{
		Success:   true,
		AST:       expr,
		NodeCount: ast.Count(expr),
	}
}

// Evaluate parses and evaluates source against ctx. A nil ctx
// evaluates with no fields and no datasets.
func Evaluate(source string, ctx *Context) EvaluationResult {
	parsed := Parse(source)
	if !parsed.Success {
		return EvaluationResult{Success: false, Error: parsed.Error}
	}
	return EvaluateAST(parsed.AST, ctx)
}

// EvaluateAST evaluates an already-parsed formula against ctx. Hosts
// that run the same formula over many records should parse once and
// call this per record.
func EvaluateAST(expr ast.Expression, ctx *Context) EvaluationResult {
	env := evaluator.NewEnvironment(ctx, nil)
	result := evaluator.Eval(expr, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		return EvaluationResult{Success: false, Error: errObj.ToEngineError()}
	}
	return EvaluationResult{Success: true, Value: evaluator.ToNative(result)}
}

// Validate statically checks source: syntax, unknown functions, and,
// when knownFields is non-nil, unknown fields. See validator.Validate.
func Validate(source string, knownFields []string) validator.Result {
	return validator.Validate(source, knownFields, nil)
}

// ListFunctions returns the definition of every built-in function, in
// registration order, for documentation and autocomplete.
func ListFunctions() []*evaluator.Definition {
	return evaluator.Default().Definitions()
}
