// funcs_math.go - Math built-ins
//
// Aggregates (SUM, AVERAGE, MIN, MAX, PRODUCT, MEDIAN) accept either
// spread numbers or arrays of numbers, so SUM(1,2,3) and
// SUM(lineItems) both work.

package evaluator

import (
	"math"
	"sort"
)

func mathFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "SUM",
			Category:    CategoryMath,
			Description: "Adds numbers or arrays of numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `SUM(1, 2, 3)`, Result: `6`},
				{Call: `SUM([10, 20, 30])`, Result: `60`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("SUM", args)
				if err != nil {
					return err
				}
				total := 0.0
				for _, n := range nums {
					total += n
				}
				return &Number{Value: total}
			},
		},
		{
			Name:        "AVERAGE",
			Category:    CategoryMath,
			Description: "Arithmetic mean of numbers or arrays of numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `AVERAGE(2, 4, 6)`, Result: `4`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("AVERAGE", args)
				if err != nil {
					return err
				}
				if len(nums) == 0 {
					return newStructuredError("MATH-0002",
						map[string]any{"Function": "AVERAGE", "Value": "an empty list"})
				}
				total := 0.0
				for _, n := range nums {
					total += n
				}
				return &Number{Value: total / float64(len(nums))}
			},
		},
		{
			Name:        "MIN",
			Category:    CategoryMath,
			Description: "Smallest of the given numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `MIN(3, 1, 2)`, Result: `1`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("MIN", args)
				if err != nil {
					return err
				}
				if len(nums) == 0 {
					return newStructuredError("MATH-0002",
						map[string]any{"Function": "MIN", "Value": "an empty list"})
				}
				min := nums[0]
				for _, n := range nums[1:] {
					if n < min {
						min = n
					}
				}
				return &Number{Value: min}
			},
		},
		{
			Name:        "MAX",
			Category:    CategoryMath,
			Description: "Largest of the given numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `MAX(3, 1, 2)`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("MAX", args)
				if err != nil {
					return err
				}
				if len(nums) == 0 {
					return newStructuredError("MATH-0002",
						map[string]any{"Function": "MAX", "Value": "an empty list"})
				}
				max := nums[0]
				for _, n := range nums[1:] {
					if n > max {
						max = n
					}
				}
				return &Number{Value: max}
			},
		},
		{
			Name:        "ABS",
			Category:    CategoryMath,
			Description: "Absolute value",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `ABS(-5)`, Result: `5`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: math.Abs(args[0].(*Number).Value)}
			},
		},
		{
			Name:        "ROUND",
			Category:    CategoryMath,
			Description: "Rounds to the nearest value with the given number of decimal places (default 0)",
			Params: []Param{
				{Name: "value", Type: "number", Required: true},
				{Name: "digits", Type: "number"},
			},
			ReturnType: "number",
			Examples: []Example{
				{Call: `ROUND(3.14159, 2)`, Result: `3.14`},
				{Call: `ROUND(2.5)`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				value := args[0].(*Number).Value
				digits := 0.0
				if len(args) == 2 {
					digits = args[1].(*Number).Value
				}
				factor := math.Pow(10, digits)
				return &Number{Value: math.Round(value*factor) / factor}
			},
		},
		{
			Name:        "FLOOR",
			Category:    CategoryMath,
			Description: "Rounds down to the nearest integer",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `FLOOR(3.7)`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: math.Floor(args[0].(*Number).Value)}
			},
		},
		{
			Name:        "CEIL",
			Category:    CategoryMath,
			Description: "Rounds up to the nearest integer",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `CEIL(3.2)`, Result: `4`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: math.Ceil(args[0].(*Number).Value)}
			},
		},
		{
			Name:        "POWER",
			Category:    CategoryMath,
			Description: "Raises a base to an exponent",
			Params: []Param{
				{Name: "base", Type: "number", Required: true},
				{Name: "exponent", Type: "number", Required: true},
			},
			ReturnType: "number",
			Examples: []Example{
				{Call: `POWER(2, 10)`, Result: `1024`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: math.Pow(args[0].(*Number).Value, args[1].(*Number).Value)}
			},
		},
		{
			Name:        "SQRT",
			Category:    CategoryMath,
			Description: "Square root",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `SQRT(16)`, Result: `4`},
			},
			Fn: func(args []Object, env *Environment) Object {
				value := args[0].(*Number).Value
				if value < 0 {
					return newStructuredError("MATH-0002",
						map[string]any{"Function": "SQRT", "Value": "negative numbers"})
				}
				return &Number{Value: math.Sqrt(value)}
			},
		},
		{
			Name:        "MOD",
			Category:    CategoryMath,
			Description: "Remainder after division",
			Params: []Param{
				{Name: "value", Type: "number", Required: true},
				{Name: "divisor", Type: "number", Required: true},
			},
			ReturnType: "number",
			Examples: []Example{
				{Call: `MOD(10, 3)`, Result: `1`},
			},
			Fn: func(args []Object, env *Environment) Object {
				divisor := args[1].(*Number).Value
				if divisor == 0 {
					return newStructuredError("MATH-0001", nil)
				}
				return &Number{Value: math.Mod(args[0].(*Number).Value, divisor)}
			},
		},
		{
			Name:        "PRODUCT",
			Category:    CategoryMath,
			Description: "Multiplies numbers or arrays of numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `PRODUCT(2, 3, 4)`, Result: `24`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("PRODUCT", args)
				if err != nil {
					return err
				}
				total := 1.0
				for _, n := range nums {
					total *= n
				}
				return &Number{Value: total}
			},
		},
		{
			Name:        "MEDIAN",
			Category:    CategoryMath,
			Description: "Middle value of numbers or arrays of numbers",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `MEDIAN(1, 5, 2)`, Result: `2`},
				{Call: `MEDIAN([1, 2, 3, 4])`, Result: `2.5`},
			},
			Fn: func(args []Object, env *Environment) Object {
				nums, err := flattenNumbers("MEDIAN", args)
				if err != nil {
					return err
				}
				if len(nums) == 0 {
					return newStructuredError("MATH-0002",
						map[string]any{"Function": "MEDIAN", "Value": "an empty list"})
				}
				sorted := make([]float64, len(nums))
				copy(sorted, nums)
				sort.Float64s(sorted)
				mid := len(sorted) / 2
				if len(sorted)%2 == 1 {
					return &Number{Value: sorted[mid]}
				}
				return &Number{Value: (sorted[mid-1] + sorted[mid]) / 2}
			},
		},
		{
			Name:        "SIGN",
			Category:    CategoryMath,
			Description: "Sign of a number: -1, 0, or 1",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `SIGN(-42)`, Result: `-1`},
				{Call: `SIGN(0)`, Result: `0`},
			},
			Fn: func(args []Object, env *Environment) Object {
				value := args[0].(*Number).Value
				switch {
				case value > 0:
					return &Number{Value: 1}
				case value < 0:
					return &Number{Value: -1}
				default:
					return &Number{Value: 0}
				}
			},
		},
		{
			Name:        "TRUNC",
			Category:    CategoryMath,
			Description: "Drops the fractional part, rounding toward zero",
			Params:      []Param{{Name: "value", Type: "number", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `TRUNC(3.9)`, Result: `3`},
				{Call: `TRUNC(-3.9)`, Result: `-3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: math.Trunc(args[0].(*Number).Value)}
			},
		},
	}
}

// flattenNumbers collects numbers from a spread of numbers and arrays,
// flattening one level. Null values are skipped so aggregates tolerate
// sparse records.
func flattenNumbers(function string, args []Object) ([]float64, *Error) {
	var nums []float64
	for _, arg := range args {
		switch arg := arg.(type) {
		case *Number:
			nums = append(nums, arg.Value)
		case *Null:
			// skip
		case *Array:
			for _, el := range arg.Elements {
				switch el := el.(type) {
				case *Number:
					nums = append(nums, el.Value)
				case *Null:
					// skip
				default:
					return nil, newTypeError(function, "values", "number", el.Type())
				}
			}
		default:
			return nil, newTypeError(function, "values", "number", arg.Type())
		}
	}
	return nums, nil
}
