// funcs_array.go - Array built-ins

package evaluator

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func arrayFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "FIRST",
			Category:    CategoryArray,
			Description: "First element of an array, null when empty",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "any",
			Examples: []Example{
				{Call: `FIRST([1, 2, 3])`, Result: `1`},
				{Call: `FIRST([])`, Result: `null`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				if len(elements) == 0 {
					return NULL
				}
				return elements[0]
			},
		},
		{
			Name:        "LAST",
			Category:    CategoryArray,
			Description: "Last element of an array, null when empty",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "any",
			Examples: []Example{
				{Call: `LAST([1, 2, 3])`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				if len(elements) == 0 {
					return NULL
				}
				return elements[len(elements)-1]
			},
		},
		{
			Name:        "INDEX",
			Category:    CategoryArray,
			Description: "Element at a 0-based position; errors when out of range",
			Params: []Param{
				{Name: "array", Type: "array", Required: true},
				{Name: "position", Type: "number", Required: true},
			},
			ReturnType: "any",
			Examples: []Example{
				{Call: `INDEX([1, 2, 3], 1)`, Result: `2`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				position := int(args[1].(*Number).Value)
				if position < 0 || position >= len(elements) {
					return newStructuredError("INDEX-0001", map[string]any{
						"Index":  position,
						"Length": len(elements),
					})
				}
				return elements[position]
			},
		},
		{
			Name:        "LENGTH",
			Category:    CategoryArray,
			Description: "Number of elements in an array",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `LENGTH([1, 2, 3])`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: float64(len(args[0].(*Array).Elements))}
			},
		},
		{
			Name:        "CONTAINS",
			Category:    CategoryArray,
			Description: "True when the array holds an element equal to the value",
			Params: []Param{
				{Name: "array", Type: "array", Required: true},
				{Name: "value", Type: "any", Required: true},
			},
			ReturnType: "boolean",
			Examples: []Example{
				{Call: `CONTAINS([1, 2, 3], 2)`, Result: `true`},
				{Call: `CONTAINS([1, 2, 3], "2")`, Result: `false`},
			},
			Fn: func(args []Object, env *Environment) Object {
				for _, el := range args[0].(*Array).Elements {
					if objectsEqual(el, args[1]) {
						return TRUE
					}
				}
				return FALSE
			},
		},
		{
			Name:        "UNIQUE",
			Category:    CategoryArray,
			Description: "Removes duplicate elements, keeping first-seen order",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "array",
			Examples: []Example{
				{Call: `UNIQUE([1, 2, 2, 3, 3, 3])`, Result: `[1, 2, 3]`},
			},
			Fn: func(args []Object, env *Environment) Object {
				var out []Object
				for _, el := range args[0].(*Array).Elements {
					seen := false
					for _, kept := range out {
						if objectsEqual(kept, el) {
							seen = true
							break
						}
					}
					if !seen {
						out = append(out, el)
					}
				}
				return &Array{Elements: out}
			},
		},
		{
			Name:        "SORT",
			Category:    CategoryArray,
			Description: "Sorts an array of numbers or an array of text ascending",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "array",
			Examples: []Example{
				{Call: `SORT([3, 1, 2])`, Result: `[1, 2, 3]`},
				{Call: `SORT(["b", "a", "c"])`, Result: `["a", "b", "c"]`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				if len(elements) == 0 {
					return &Array{Elements: nil}
				}
				switch elements[0].(type) {
				case *Number:
					nums := make([]float64, 0, len(elements))
					for _, el := range elements {
						n, ok := el.(*Number)
						if !ok {
							return newTypeError("SORT", "array", "number", el.Type())
						}
						nums = append(nums, n.Value)
					}
					sort.Float64s(nums)
					out := make([]Object, len(nums))
					for i, n := range nums {
						out[i] = &Number{Value: n}
					}
					return &Array{Elements: out}
				case *String:
					texts := make([]string, 0, len(elements))
					for _, el := range elements {
						s, ok := el.(*String)
						if !ok {
							return newTypeError("SORT", "array", "text", el.Type())
						}
						texts = append(texts, s.Value)
					}
					collate.New(language.Und).SortStrings(texts)
					out := make([]Object, len(texts))
					for i, s := range texts {
						out[i] = &String{Value: s}
					}
					return &Array{Elements: out}
				default:
					return newTypeError("SORT", "array", "number or text", elements[0].Type())
				}
			},
		},
		{
			Name:        "JOIN",
			Category:    CategoryArray,
			Description: "Joins array elements into text with a separator",
			Params: []Param{
				{Name: "array", Type: "array", Required: true},
				{Name: "separator", Type: "text", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `JOIN([1, 2, 3], "-")`, Result: `"1-2-3"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				parts := make([]string, len(elements))
				for i, el := range elements {
					parts[i] = toText(el)
				}
				return &String{Value: strings.Join(parts, args[1].(*String).Value)}
			},
		},
		{
			Name:        "REVERSE",
			Category:    CategoryArray,
			Description: "Reverses the order of array elements",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "array",
			Examples: []Example{
				{Call: `REVERSE([1, 2, 3])`, Result: `[3, 2, 1]`},
			},
			Fn: func(args []Object, env *Environment) Object {
				elements := args[0].(*Array).Elements
				out := make([]Object, len(elements))
				for i, el := range elements {
					out[len(elements)-1-i] = el
				}
				return &Array{Elements: out}
			},
		},
		{
			Name:        "FLATTEN",
			Category:    CategoryArray,
			Description: "Flattens nested arrays into a single array",
			Params:      []Param{{Name: "array", Type: "array", Required: true}},
			ReturnType:  "array",
			Examples: []Example{
				{Call: `FLATTEN([[1, 2], [3, [4]]])`, Result: `[1, 2, 3, 4]`},
			},
			Fn: func(args []Object, env *Environment) Object {
				var out []Object
				var walk func(elements []Object)
				walk = func(elements []Object) {
					for _, el := range elements {
						if nested, ok := el.(*Array); ok {
							walk(nested.Elements)
						} else {
							out = append(out, el)
						}
					}
				}
				walk(args[0].(*Array).Elements)
				return &Array{Elements: out}
			},
		},
	}
}
