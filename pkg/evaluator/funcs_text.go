// funcs_text.go - Text built-ins
//
// Positions are 1-based and counted in characters, not bytes, so the
// text functions behave the same for "héllo" as for "hello".

package evaluator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

func textFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "CONCAT",
			Category:    CategoryText,
			Description: "Joins values into one text string, coercing non-text values",
			Params:      []Param{{Name: "values", Type: "any", Required: true, Variadic: true}},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `CONCAT("a", "b", "c")`, Result: `"abc"`},
				{Call: `CONCAT("total: ", 42)`, Result: `"total: 42"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				var out strings.Builder
				for _, arg := range args {
					out.WriteString(toText(arg))
				}
				return &String{Value: out.String()}
			},
		},
		{
			Name:        "UPPER",
			Category:    CategoryText,
			Description: "Converts text to upper case",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `UPPER("hello")`, Result: `"HELLO"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &String{Value: strings.ToUpper(args[0].(*String).Value)}
			},
		},
		{
			Name:        "LOWER",
			Category:    CategoryText,
			Description: "Converts text to lower case",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `LOWER("HELLO")`, Result: `"hello"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &String{Value: strings.ToLower(args[0].(*String).Value)}
			},
		},
		{
			Name:        "TRIM",
			Category:    CategoryText,
			Description: "Removes leading and trailing whitespace",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `TRIM("  hi  ")`, Result: `"hi"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &String{Value: strings.TrimSpace(args[0].(*String).Value)}
			},
		},
		{
			Name:        "LEFT",
			Category:    CategoryText,
			Description: "First n characters of text",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "count", Type: "number", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `LEFT("Hello", 2)`, Result: `"He"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				runes := []rune(args[0].(*String).Value)
				n := clampIndex(int(args[1].(*Number).Value), len(runes))
				return &String{Value: string(runes[:n])}
			},
		},
		{
			Name:        "RIGHT",
			Category:    CategoryText,
			Description: "Last n characters of text",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "count", Type: "number", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `RIGHT("Hello", 3)`, Result: `"llo"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				runes := []rune(args[0].(*String).Value)
				n := clampIndex(int(args[1].(*Number).Value), len(runes))
				return &String{Value: string(runes[len(runes)-n:])}
			},
		},
		{
			Name:        "MID",
			Category:    CategoryText,
			Description: "Substring starting at a 1-based position",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "start", Type: "number", Required: true},
				{Name: "count", Type: "number", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `MID("Hello", 2, 3)`, Result: `"ell"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				runes := []rune(args[0].(*String).Value)
				start := int(args[1].(*Number).Value) - 1
				count := int(args[2].(*Number).Value)
				if start < 0 {
					start = 0
				}
				if start >= len(runes) || count <= 0 {
					return &String{Value: ""}
				}
				end := start + count
				if end > len(runes) {
					end = len(runes)
				}
				return &String{Value: string(runes[start:end])}
			},
		},
		{
			Name:        "LEN",
			Category:    CategoryText,
			Description: "Number of characters in text",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `LEN("Hello")`, Result: `5`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Number{Value: float64(len([]rune(args[0].(*String).Value)))}
			},
		},
		{
			Name:        "FIND",
			Category:    CategoryText,
			Description: "1-based position of needle in haystack, 0 if absent",
			Params: []Param{
				{Name: "needle", Type: "text", Required: true},
				{Name: "haystack", Type: "text", Required: true},
			},
			ReturnType: "number",
			Examples: []Example{
				{Call: `FIND("l", "Hello")`, Result: `3`},
				{Call: `FIND("x", "Hello")`, Result: `0`},
			},
			Fn: func(args []Object, env *Environment) Object {
				needle := args[0].(*String).Value
				haystack := args[1].(*String).Value
				byteIdx := strings.Index(haystack, needle)
				if byteIdx < 0 {
					return &Number{Value: 0}
				}
				return &Number{Value: float64(len([]rune(haystack[:byteIdx])) + 1)}
			},
		},
		{
			Name:        "REPLACE",
			Category:    CategoryText,
			Description: "Replaces all occurrences of a substring",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "old", Type: "text", Required: true},
				{Name: "new", Type: "text", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `REPLACE("a-b-c", "-", "+")`, Result: `"a+b+c"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &String{Value: strings.ReplaceAll(
					args[0].(*String).Value,
					args[1].(*String).Value,
					args[2].(*String).Value,
				)}
			},
		},
		{
			Name:        "PROPER",
			Category:    CategoryText,
			Description: "Capitalises the first letter of each word",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `PROPER("hello world")`, Result: `"Hello World"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				caser := cases.Title(language.Und)
				return &String{Value: caser.String(args[0].(*String).Value)}
			},
		},
		{
			Name:        "SPLIT",
			Category:    CategoryText,
			Description: "Splits text on a separator into an array of strings",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "separator", Type: "text", Required: true},
			},
			ReturnType: "array",
			Examples: []Example{
				{Call: `SPLIT("a,b,c", ",")`, Result: `["a", "b", "c"]`},
			},
			Fn: func(args []Object, env *Environment) Object {
				parts := strings.Split(args[0].(*String).Value, args[1].(*String).Value)
				elements := make([]Object, len(parts))
				for i, p := range parts {
					elements[i] = &String{Value: p}
				}
				return &Array{Elements: elements}
			},
		},
		{
			Name:        "REPT",
			Category:    CategoryText,
			Description: "Repeats text a given number of times",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "count", Type: "number", Required: true},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `REPT("ab", 3)`, Result: `"ababab"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				count := int(args[1].(*Number).Value)
				if count < 0 {
					count = 0
				}
				return &String{Value: strings.Repeat(args[0].(*String).Value, count)}
			},
		},
		{
			Name:        "STARTSWITH",
			Category:    CategoryText,
			Description: "True when text begins with the given prefix",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "prefix", Type: "text", Required: true},
			},
			ReturnType: "boolean",
			Examples: []Example{
				{Call: `STARTSWITH("Hello", "He")`, Result: `true`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return nativeBoolToBoolean(strings.HasPrefix(
					args[0].(*String).Value, args[1].(*String).Value))
			},
		},
		{
			Name:        "ENDSWITH",
			Category:    CategoryText,
			Description: "True when text ends with the given suffix",
			Params: []Param{
				{Name: "text", Type: "text", Required: true},
				{Name: "suffix", Type: "text", Required: true},
			},
			ReturnType: "boolean",
			Examples: []Example{
				{Call: `ENDSWITH("Hello", "lo")`, Result: `true`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return nativeBoolToBoolean(strings.HasSuffix(
					args[0].(*String).Value, args[1].(*String).Value))
			},
		},
		{
			Name:        "NUMBERFORMAT",
			Category:    CategoryText,
			Description: "Formats a number with locale-aware grouping, e.g. 1,234,567.89",
			Params: []Param{
				{Name: "value", Type: "number", Required: true},
				{Name: "locale", Type: "text"},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `NUMBERFORMAT(1234567.89)`, Result: `"1,234,567.89"`},
				{Call: `NUMBERFORMAT(1234567.89, "de")`, Result: `"1.234.567,89"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				locale := "en"
				if len(args) == 2 {
					locale = args[1].(*String).Value
				}
				tag, err := language.Parse(locale)
				if err != nil {
					return newStructuredError("FORMAT-0003", map[string]any{"Locale": locale})
				}
				printer := message.NewPrinter(tag)
				return &String{Value: printer.Sprint(number.Decimal(args[0].(*Number).Value))}
			},
		},
	}
}

// clampIndex bounds a character count to [0, length].
func clampIndex(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}
