// Package evaluator walks a formula AST and produces a value.
//
// Evaluation is a pure function of the AST, the caller's Context, and
// the function Registry: there are no side effects, no I/O, and no
// shared mutable state, so any number of evaluations may run
// concurrently. All failures are returned as *Error objects; malformed
// user formulas never panic.
package evaluator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sambeau/sage/pkg/ast"
	serrors "github.com/sambeau/sage/pkg/errors"
)

// ObjectType represents the type of values in formulas
type ObjectType string

const (
	NUMBER_OBJ     = "NUMBER"
	STRING_OBJ     = "STRING"
	BOOLEAN_OBJ    = "BOOLEAN"
	NULL_OBJ       = "NULL"
	ARRAY_OBJ      = "ARRAY"
	DICTIONARY_OBJ = "DICTIONARY"
	DATETIME_OBJ   = "DATETIME"
	ERROR_OBJ      = "ERROR"
)

// Object represents all values in formulas
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number represents numeric values. Sage has a single numeric type:
// every number is a float64, so 10/4 is 2.5 without any integer
// truncation surprises. Integral values render without a decimal point.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// String represents string values
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean represents boolean values
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Null represents null values
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Array represents ordered lists of values
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out strings.Builder
	elements := []string{}
	for _, e := range a.Elements {
		elements = append(elements, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Dictionary represents key/value records. Key order is preserved from
// the source (object literals) or sorted (values converted from Go
// maps) so Inspect output is deterministic.
type Dictionary struct {
	Pairs map[string]Object
	Keys  []string
}

func (d *Dictionary) Type() ObjectType { return DICTIONARY_OBJ }
func (d *Dictionary) Inspect() string {
	var out strings.Builder
	pairs := []string{}
	for _, key := range d.Keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", key, d.Pairs[key].Inspect()))
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Get returns the value for key, or NULL if absent.
func (d *Dictionary) Get(key string) Object {
	if v, ok := d.Pairs[key]; ok {
		return v
	}
	return NULL
}

// Set stores a value, keeping first-insertion key order.
func (d *Dictionary) Set(key string, value Object) {
	if _, ok := d.Pairs[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Pairs[key] = value
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{Pairs: make(map[string]Object)}
}

// Datetime represents a point in time, produced by the Date functions.
type Datetime struct {
	Value time.Time
}

func (dt *Datetime) Type() ObjectType { return DATETIME_OBJ }
func (dt *Datetime) Inspect() string {
	t := dt.Value
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// Error represents evaluation failures as ordinary values so they can
// propagate out of nested expressions without panics.
type Error struct {
	Message string
	Line    int
	Column  int
	Class   serrors.ErrorClass
	Code    string
	Hints   []string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "ERROR: " + e.Message
}

// ToEngineError converts this Error to a structured engine error.
func (e *Error) ToEngineError() *serrors.Error {
	class := e.Class
	if class == "" {
		class = serrors.ClassType
	}
	return &serrors.Error{
		Class:   class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		Data:    e.Data,
	}
}

// Shared singletons. These are never mutated, so every evaluation can
// hand out the same three values.
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

// Environment carries the per-call inputs of an evaluation: the
// caller's Context and the function Registry. It holds nothing mutable.
type Environment struct {
	ctx      *Context
	registry *Registry
}

// NewEnvironment builds an evaluation environment. A nil context means
// "no fields, no datasets"; a nil registry means the shared default.
func NewEnvironment(ctx *Context, registry *Registry) *Environment {
	if ctx == nil {
		ctx = &Context{}
	}
	if registry == nil {
		registry = Default()
	}
	return &Environment{ctx: ctx, registry: registry}
}

// Context returns the caller-supplied evaluation context.
func (e *Environment) Context() *Context { return e.ctx }

// Registry returns the function registry for this evaluation.
func (e *Environment) Registry() *Registry { return e.registry }

// Eval evaluates an AST node within the given environment.
func Eval(node ast.Expression, env *Environment) Object {
	switch node := node.(type) {

	case *ast.NumberLiteral:
		return &Number{Value: node.Value}

	case *ast.StringLiteral:
		return &String{Value: node.Value}

	case *ast.BooleanLiteral:
		return nativeBoolToBoolean(node.Value)

	case *ast.NullLiteral:
		return NULL

	case *ast.Identifier:
		// Unknown fields resolve to null rather than failing: formulas
		// routinely run against partially populated records. validate
		// is the strict path.
		return env.ctx.ResolveField(node.Value)

	case *ast.PrefixExpression:
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node.Token, node.Operator, right)

	case *ast.InfixExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Token, node.Operator, left, right)

	case *ast.LogicalExpression:
		// Short-circuit: the right operand is only evaluated when the
		// left side has not already decided the result.
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		if node.Operator == "&&" {
			if !isTruthy(left) {
				return FALSE
			}
		} else {
			if isTruthy(left) {
				return TRUE
			}
		}
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return nativeBoolToBoolean(isTruthy(right))

	case *ast.ConditionalExpression:
		// Only the taken branch is evaluated; the other branch may
		// contain expressions that would error (e.g. 1/0).
		condition := Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if isTruthy(condition) {
			return Eval(node.Consequent, env)
		}
		return Eval(node.Alternate, env)

	case *ast.MemberExpression:
		return evalMemberExpression(node, env)

	case *ast.IndexExpression:
		return evalIndexExpression(node, env)

	case *ast.ArrayLiteral:
		elements := make([]Object, 0, len(node.Elements))
		for _, el := range node.Elements {
			value := Eval(el, env)
			if isError(value) {
				return value
			}
			elements = append(elements, value)
		}
		return &Array{Elements: elements}

	case *ast.ObjectLiteral:
		dict := NewDictionary()
		for _, entry := range node.Entries {
			value := Eval(entry.Value, env)
			if isError(value) {
				return value
			}
			dict.Set(entry.Key, value)
		}
		return dict

	case *ast.CallExpression:
		return evalCallExpression(node, env)
	}

	return newError("unknown node type: %T", node)
}

// evalMemberExpression resolves dot access. Whole unresolved paths
// yield null (permissive, like identifier resolution); dot access on a
// non-record value also yields null so chains never explode mid-path.
func evalMemberExpression(node *ast.MemberExpression, env *Environment) Object {
	obj := Eval(node.Object, env)
	if isError(obj) {
		return obj
	}

	switch obj := obj.(type) {
	case *Dictionary:
		return obj.Get(node.Property.Value)
	default:
		return NULL
	}
}

func evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := Eval(node.Index, env)
	if isError(index) {
		return index
	}

	switch left := left.(type) {
	case *Array:
		idx, ok := index.(*Number)
		if !ok {
			return newStructuredErrorWithPos("TYPE-0006", node.Token,
				map[string]any{"Got": string(left.Type()), "IndexType": string(index.Type())})
		}
		i := int(idx.Value)
		if float64(i) != idx.Value {
			return newStructuredErrorWithPos("TYPE-0006", node.Token,
				map[string]any{"Got": string(left.Type()), "IndexType": "a fractional number"})
		}
		if i < 0 {
			i += len(left.Elements)
		}
		if i < 0 || i >= len(left.Elements) {
			// Out-of-range indexing is permissive like field access;
			// the INDEX function is the strict variant.
			return NULL
		}
		return left.Elements[i]

	case *Dictionary:
		key, ok := index.(*String)
		if !ok {
			return newStructuredErrorWithPos("TYPE-0006", node.Token,
				map[string]any{"Got": string(left.Type()), "IndexType": string(index.Type())})
		}
		return left.Get(key.Value)

	case *Null:
		return NULL

	default:
		return newStructuredErrorWithPos("TYPE-0006", node.Token,
			map[string]any{"Got": string(left.Type()), "IndexType": string(index.Type())})
	}
}

func evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	name := node.Function.Value

	def, ok := env.registry.Lookup(name)
	if !ok {
		engineErr := serrors.NewUnknownFunction(name, env.registry.Names())
		return errorFromEngine(engineErr, node.Function.Token.Line, node.Function.Token.Column)
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		value := Eval(a, env)
		if isError(value) {
			return value
		}
		args = append(args, value)
	}

	if errObj := checkArgs(def, args); errObj != nil {
		return withPosition(errObj, node.Token)
	}

	result := def.Fn(args, env)
	if errObj, ok := result.(*Error); ok {
		return withPosition(errObj, node.Token)
	}
	return result
}

// isTruthy reports whether a value counts as true in conditions.
// false, null, 0, and "" are falsy; everything else is truthy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Null:
		return false
	case *Number:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	default:
		return true
	}
}

func nativeBoolToBoolean(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
