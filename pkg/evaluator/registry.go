// registry.go - the built-in function table
//
// The registry is a data-driven table: every built-in carries its
// category, parameters, return type, and worked examples alongside
// its implementation, so formula-builder UIs can render documentation
// and the conformance tests can execute every example. It is built
// once and read-only afterwards; concurrent evaluations share one
// instance without locking.

package evaluator

import (
	"sort"
	"strings"
	"sync"
)

// Category groups built-ins for documentation and autocomplete.
type Category string

const (
	CategoryMath  Category = "math"
	CategoryText  Category = "text"
	CategoryLogic Category = "logic"
	CategoryDate  Category = "date"
	CategoryArray Category = "array"
	CategoryData  Category = "data"
)

// Param describes one parameter of a built-in. Types are the
// user-facing names: "number", "text", "boolean", "array", "date",
// or "any". A Variadic param may repeat and must come last.
type Param struct {
	Name     string
	Type     string
	Required bool
	Variadic bool
}

// Example is a worked example: a call and the value it produces,
// both rendered as formula source. Every definition must have at
// least one; the conformance suite evaluates them all.
type Example struct {
	Call   string
	Result string
}

// BuiltinFn is the implementation signature of a built-in. Arguments
// arrive already evaluated and arity/type checked against Params.
// env is only consulted by the dataset-aware functions (LOOKUP);
// everything else is a pure function of args.
type BuiltinFn func(args []Object, env *Environment) Object

// Definition describes one built-in function.
type Definition struct {
	Name        string
	Category    Category
	Description string
	Params      []Param
	ReturnType  string
	Examples    []Example
	Fn          BuiltinFn
}

// Registry is the immutable table of built-ins. Lookup is
// case-insensitive; canonical names are upper-case.
type Registry struct {
	defs  map[string]*Definition
	names []string
}

// NewRegistry builds the full built-in table.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*Definition)}

	r.register(mathFunctions()...)
	r.register(textFunctions()...)
	r.register(logicFunctions()...)
	r.register(dateFunctions()...)
	r.register(arrayFunctions()...)
	r.register(dataFunctions()...)

	sort.Strings(r.names)
	return r
}

func (r *Registry) register(defs ...*Definition) {
	for _, def := range defs {
		r.defs[strings.ToUpper(def.Name)] = def
		r.names = append(r.names, def.Name)
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the shared process-wide registry, built on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Lookup finds a definition by name, ignoring case.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[strings.ToUpper(name)]
	return def, ok
}

// Has reports whether a function name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the canonical function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Definitions returns every definition, sorted by name.
func (r *Registry) Definitions() []*Definition {
	defs := make([]*Definition, 0, len(r.names))
	for _, name := range r.names {
		def, _ := r.Lookup(name)
		defs = append(defs, def)
	}
	return defs
}

// checkArgs validates argument count and types against a definition's
// declared parameters. Returns nil when the call is well-formed.
func checkArgs(def *Definition, args []Object) *Error {
	min := 0
	max := 0
	variadic := false
	for _, p := range def.Params {
		if p.Variadic {
			variadic = true
			if p.Required {
				min++
			}
			continue
		}
		if p.Required {
			min++
		}
		max++
	}

	if variadic {
		if len(args) < min {
			return newArityAtLeastError(def.Name, len(args), min)
		}
	} else if min == max {
		if len(args) != min {
			return newArityError(def.Name, len(args), min)
		}
	} else if len(args) < min || len(args) > max {
		return newArityRangeError(def.Name, len(args), min, max)
	}

	for i, arg := range args {
		p := paramAt(def.Params, i)
		if p == nil {
			break
		}
		if !typeMatches(p.Type, arg) {
			return newTypeError(def.Name, p.Name, p.Type, arg.Type())
		}
	}

	return nil
}

// paramAt returns the parameter covering argument i, with the
// trailing variadic parameter covering everything past the end.
func paramAt(params []Param, i int) *Param {
	if i < len(params) {
		return &params[i]
	}
	if len(params) > 0 && params[len(params)-1].Variadic {
		return &params[len(params)-1]
	}
	return nil
}

// typeMatches checks a value against a user-facing type name.
// "date" accepts datetimes and parseable text (the Date functions
// coerce); "any" accepts everything including null.
func typeMatches(paramType string, arg Object) bool {
	switch paramType {
	case "any":
		return true
	case "number":
		return arg.Type() == NUMBER_OBJ
	case "text":
		return arg.Type() == STRING_OBJ
	case "boolean":
		return arg.Type() == BOOLEAN_OBJ
	case "array":
		return arg.Type() == ARRAY_OBJ
	case "date":
		return arg.Type() == DATETIME_OBJ || arg.Type() == STRING_OBJ
	default:
		return true
	}
}
