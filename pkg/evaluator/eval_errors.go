// eval_errors.go - Error creation helpers for the Sage evaluator
//
// All helpers return *Error objects that can be used directly as
// evaluation results; isError propagation carries them to the caller.

package evaluator

import (
	"fmt"

	serrors "github.com/sambeau/sage/pkg/errors"
	"github.com/sambeau/sage/pkg/lexer"
)

// newError creates a plain error without a catalog code.
func newError(format string, a ...any) *Error {
	return &Error{
		Class:   serrors.ClassType,
		Message: fmt.Sprintf(format, a...),
	}
}

// newStructuredError creates a structured error from the catalog.
func newStructuredError(code string, data map[string]any) *Error {
	return errorFromEngine(serrors.New(code, data), 0, 0)
}

// newStructuredErrorWithPos creates a structured error carrying the
// token's position.
func newStructuredErrorWithPos(code string, tok lexer.Token, data map[string]any) *Error {
	return errorFromEngine(serrors.New(code, data), tok.Line, tok.Column)
}

// errorFromEngine converts a structured engine error into an evaluator
// Error object.
func errorFromEngine(err *serrors.Error, line, column int) *Error {
	if err.Line > 0 {
		line, column = err.Line, err.Column
	}
	return &Error{
		Class:   err.Class,
		Code:    err.Code,
		Message: err.Message,
		Hints:   err.Hints,
		Line:    line,
		Column:  column,
		Data:    err.Data,
	}
}

// withPosition fills in the token position on errors that do not carry
// one yet, so function-body errors point at the call site.
func withPosition(err *Error, tok lexer.Token) *Error {
	if err.Line > 0 {
		return err
	}
	copy := *err
	copy.Line = tok.Line
	copy.Column = tok.Column
	return &copy
}

// newArityError reports a call with the wrong number of arguments.
func newArityError(function string, got, expected int) *Error {
	return newStructuredError("ARITY-0001", map[string]any{
		"Function": function,
		"Expected": expected,
		"Got":      got,
	})
}

// newArityAtLeastError reports a variadic call with too few arguments.
func newArityAtLeastError(function string, got, expected int) *Error {
	return newStructuredError("ARITY-0002", map[string]any{
		"Function": function,
		"Expected": expected,
		"Got":      got,
	})
}

// newArityRangeError reports a call outside an optional-argument range.
func newArityRangeError(function string, got, min, max int) *Error {
	return newStructuredError("ARITY-0003", map[string]any{
		"Function": function,
		"Min":      min,
		"Max":      max,
		"Got":      got,
	})
}

// newTypeError reports an argument of the wrong type.
func newTypeError(function, param, expected string, got ObjectType) *Error {
	return newStructuredError("TYPE-0001", map[string]any{
		"Function": function,
		"Param":    param,
		"Expected": expected,
		"Got":      typeName(got),
	})
}

// newDivisionByZero reports x/0 or x%0.
func newDivisionByZero(tok lexer.Token) *Error {
	return newStructuredErrorWithPos("MATH-0001", tok, nil)
}

// typeName returns a lowercase type name for error messages.
func typeName(t ObjectType) string {
	switch t {
	case NUMBER_OBJ:
		return "a number"
	case STRING_OBJ:
		return "text"
	case BOOLEAN_OBJ:
		return "a boolean"
	case NULL_OBJ:
		return "null"
	case ARRAY_OBJ:
		return "an array"
	case DICTIONARY_OBJ:
		return "an object"
	case DATETIME_OBJ:
		return "a date"
	default:
		return string(t)
	}
}
