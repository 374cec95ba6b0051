// Package validator performs static checks on a formula without
// evaluating it: syntax, references to unknown functions, and
// (optionally) references to unknown fields.
//
// Validation is for authoring-time feedback. Evaluation stays
// permissive about unknown fields; the validator is where a host
// surfaces "did you mean" hints before a formula is ever run.
package validator

import (
	"sort"
	"strings"

	"github.com/sambeau/sage/pkg/ast"
	serrors "github.com/sambeau/sage/pkg/errors"
	"github.com/sambeau/sage/pkg/evaluator"
	"github.com/sambeau/sage/pkg/parser"
)

// Problem is a single validation finding.
type Problem struct {
	// Type is one of "syntax", "unknown_field", "unknown_function".
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Hints   []string `json:"hints,omitempty"`
	Line    int      `json:"line,omitempty"`
	Column  int      `json:"column,omitempty"`
}

// Result is the outcome of validating one formula.
type Result struct {
	Valid  bool      `json:"valid"`
	Errors []Problem `json:"errors,omitempty"`

	// ReferencedFields lists every field name the formula reads,
	// sorted and deduplicated. For dotted paths only the root is
	// reported (order.total reads the field "order").
	ReferencedFields []string `json:"referencedFields"`

	// ReferencedFunctions lists every function the formula calls,
	// sorted, deduplicated, upper-cased.
	ReferencedFunctions []string `json:"referencedFunctions"`
}

// Validate checks source for syntax errors, unknown functions, and,
// when knownFields is non-nil, unknown fields. A nil knownFields means
// "the field universe is open": field references are collected but not
// checked. An empty non-nil slice means no field is known, so every
// field reference is an error.
func Validate(source string, knownFields []string, registry *evaluator.Registry) Result {
	if registry == nil {
		registry = evaluator.Default()
	}

	expr, perr := parser.Parse(source)
	if perr != nil {
		return Result{
			Valid: false,
			Errors: []Problem{{
				Type:    "syntax",
				Message: perr.Message,
				Hints:   perr.Hints,
				Line:    perr.Line,
				Column:  perr.Column,
			}},
		}
	}

	fields, functions := References(expr)

	result := Result{
		Valid:               true,
		ReferencedFields:    fields,
		ReferencedFunctions: functions,
	}

	for _, fn := range functions {
		if !registry.Has(fn) {
			err := serrors.NewUnknownFunction(fn, registry.Names())
			result.Valid = false
			result.Errors = append(result.Errors, Problem{
				Type:    "unknown_function",
				Message: err.Message,
				Hints:   err.Hints,
			})
		}
	}

	if knownFields != nil {
		known := make(map[string]bool, len(knownFields))
		for _, f := range knownFields {
			known[f] = true
		}
		for _, field := range fields {
			if !known[field] {
				err := serrors.NewUnknownField(field, knownFields)
				result.Valid = false
				result.Errors = append(result.Errors, Problem{
					Type:    "unknown_field",
					Message: err.Message,
					Hints:   err.Hints,
				})
			}
		}
	}

	return result
}

// References walks an AST and reports the field roots it reads and the
// functions it calls, both sorted and deduplicated.
func References(expr ast.Expression) (fields, functions []string) {
	fieldSet := map[string]bool{}
	functionSet := map[string]bool{}

	ast.Walk(expr, func(node ast.Expression) bool {
		switch node := node.(type) {
		case *ast.Identifier:
			fieldSet[node.Value] = true
		case *ast.MemberExpression:
			if root := node.RootName(); root != "" {
				fieldSet[root] = true
				return false
			}
		case *ast.CallExpression:
			functionSet[strings.ToUpper(node.Function.Value)] = true
		}
		return true
	})

	for f := range fieldSet {
		fields = append(fields, f)
	}
	for f := range functionSet {
		functions = append(functions, f)
	}
	sort.Strings(fields)
	sort.Strings(functions)
	return fields, functions
}
