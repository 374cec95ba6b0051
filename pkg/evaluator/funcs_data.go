// funcs_data.go - Data built-ins
//
// LOOKUP is the only way a formula reaches a dataset; identifiers
// never resolve against one.

package evaluator

import (
	"github.com/google/uuid"

	serrors "github.com/sambeau/sage/pkg/errors"
)

func dataFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "LOOKUP",
			Category:    CategoryData,
			Description: "Finds the first dataset row whose key field equals a value and returns another field from it",
			Params: []Param{
				{Name: "dataset", Type: "text", Required: true},
				{Name: "keyField", Type: "text", Required: true},
				{Name: "keyValue", Type: "any", Required: true},
				{Name: "returnField", Type: "text", Required: true},
			},
			ReturnType: "any",
			Examples: []Example{
				{Call: `LOOKUP("employees", "id", 2, "name")`, Result: `"Alice"`},
				{Call: `LOOKUP("employees", "id", 99, "name")`, Result: `null`},
			},
			Fn: func(args []Object, env *Environment) Object {
				name := args[0].(*String).Value
				keyField := args[1].(*String).Value
				keyValue := args[2]
				returnField := args[3].(*String).Value

				rows, ok := env.Context().Dataset(name)
				if !ok {
					err := serrors.New("UNDEF-0003", map[string]any{"Name": name})
					if suggestion := serrors.FindClosestMatch(name, env.Context().DatasetNames()); suggestion != "" {
						err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
					}
					return errorFromEngine(err, 0, 0)
				}
				for _, row := range rows {
					candidate, present := row[keyField]
					if !present {
						continue
					}
					if objectsEqual(FromNative(candidate), keyValue) {
						value, present := row[returnField]
						if !present {
							return NULL
						}
						return FromNative(value)
					}
				}
				return NULL
			},
		},
		{
			Name:        "UUID",
			Category:    CategoryData,
			Description: "Generates a random version 4 UUID as text",
			Params:      []Param{},
			ReturnType:  "text",
			Examples: []Example{
				{Call: `LEN(UUID())`, Result: `36`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &String{Value: uuid.NewString()}
			},
		},
	}
}
