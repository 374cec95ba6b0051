// funcs_logic.go - Logic built-ins
//
// Arguments to IF, AND, and OR are evaluated before the call like any
// other function arguments; the ?: operator is the short-circuiting
// form.

package evaluator

func logicFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "IF",
			Category:    CategoryLogic,
			Description: "Returns one of two values depending on a condition",
			Params: []Param{
				{Name: "condition", Type: "any", Required: true},
				{Name: "then", Type: "any", Required: true},
				{Name: "else", Type: "any", Required: true},
			},
			ReturnType: "any",
			Examples: []Example{
				{Call: `IF(1 > 2, "yes", "no")`, Result: `"no"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				if isTruthy(args[0]) {
					return args[1]
				}
				return args[2]
			},
		},
		{
			Name:        "AND",
			Category:    CategoryLogic,
			Description: "True when every argument is truthy",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `AND(true, 1, "x")`, Result: `true`},
				{Call: `AND(true, 0)`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				for _, arg := range args {
					if !isTruthy(arg) {
						return FALSE
					}
				}
				return TRUE
			},
		},
		{
			Name:        "OR",
			Category:    CategoryLogic,
			Description: "True when any argument is truthy",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `OR(false, 0, "x")`, Result: `true`},
				{Call: `OR(false, "")`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				for _, arg := range args {
					if isTruthy(arg) {
						return TRUE
					}
				}
				return FALSE
			},
		},
		{
			Name:        "NOT",
			Category:    CategoryLogic,
			Description: "Logical negation of a truthy/falsy value",
			Params:      []Param{{Name: "value", Type: "any", Required: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `NOT(false)`, Result: `true`},
				{Call: `NOT("x")`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return nativeBoolToBoolean(!isTruthy(args[0]))
			},
		},
		{
			Name:        "XOR",
			Category:    CategoryLogic,
			Description: "True when an odd number of arguments are truthy",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `XOR(true, false)`, Result: `true`},
				{Call: `XOR(true, true)`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				odd := false
				for _, arg := range args {
					if isTruthy(arg) {
						odd = !odd
					}
				}
				return nativeBoolToBoolean(odd)
			},
		},
		{
			Name:        "ISBLANK",
			Category:    CategoryLogic,
			Description: "True when the value is null or empty text",
			Params:      []Param{{Name: "value", Type: "any", Required: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `ISBLANK(null)`, Result: `true`},
				{Call: `ISBLANK("")`, Result: `true`},
				{Call: `ISBLANK(0)`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				switch arg := args[0].(type) {
				case *Null:
					return TRUE
				case *String:
					return nativeBoolToBoolean(arg.Value == "")
				default:
					return FALSE
				}
			},
		},
		{
			Name:        "COALESCE",
			Category:    CategoryLogic,
			Description: "First argument that is not null",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "any",
			Examples: []Example{
				{Call: `COALESCE(null, null, 3)`, Result: `3`},
				{Call: `COALESCE(null, "")`, Result: `""`},
			},
			Fn: func(args []Object, env *Environment) Object {
				for _, arg := range args {
					if _, isNull := arg.(*Null); !isNull {
						return arg
					}
				}
				return NULL
			},
		},
		{
			Name:        "ISNUMBER",
			Category:    CategoryLogic,
			Description: "True when the value is a number",
			Params:      []Param{{Name: "value", Type: "any", Required: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `ISNUMBER(42)`, Result: `true`},
				{Call: `ISNUMBER("42")`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return nativeBoolToBoolean(args[0].Type() == NUMBER_OBJ)
			},
		},
		{
			Name:        "ISTEXT",
			Category:    CategoryLogic,
			Description: "True when the value is text",
			Params:      []Param{{Name: "value", Type: "any", Required: true}},
			ReturnType:  "boolean",
			Examples: []Example{
				{Call: `ISTEXT("hi")`, Result: `true`},
				{Call: `ISTEXT(42)`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return nativeBoolToBoolean(args[0].Type() == STRING_OBJ)
			},
		},
	}
}
