// funcs_date.go - Date built-ins
//
// Date arguments accept either a datetime value or text that parses as
// a date, so YEAR("2024-03-15") works without an explicit DATEVALUE.

package evaluator

import (
	"math"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
)

func dateFunctions() []*Definition {
	return []*Definition{
		{
			Name:        "NOW",
			Category:    CategoryDate,
			Description: "Current date and time",
			Params:      []Param{},
			ReturnType:  "date",
			Examples: []Example{
				{Call: `YEAR(NOW()) >= 2024`, Result: `true`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Datetime{Value: time.Now()}
			},
		},
		{
			Name:        "TODAY",
			Category:    CategoryDate,
			Description: "Current date with the time set to midnight",
			Params:      []Param{},
			ReturnType:  "date",
			Examples: []Example{
				{Call: `TODAY() <= NOW()`, Result: `true`},
			},
			Fn: func(args []Object, env *Environment) Object {
				now := time.Now()
				return &Datetime{Value: time.Date(
					now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())}
			},
		},
		{
			Name:        "DATE",
			Category:    CategoryDate,
			Description: "Builds a date from year, month (1-12), and day",
			Params: []Param{
				{Name: "year", Type: "number", Required: true},
				{Name: "month", Type: "number", Required: true},
				{Name: "day", Type: "number", Required: true},
			},
			ReturnType: "date",
			Examples: []Example{
				{Call: `YEAR(DATE(2024, 3, 15))`, Result: `2024`},
			},
			Fn: func(args []Object, env *Environment) Object {
				return &Datetime{Value: time.Date(
					int(args[0].(*Number).Value),
					time.Month(int(args[1].(*Number).Value)),
					int(args[2].(*Number).Value),
					0, 0, 0, 0, time.UTC)}
			},
		},
		{
			Name:        "YEAR",
			Category:    CategoryDate,
			Description: "Year component of a date",
			Params:      []Param{{Name: "date", Type: "date", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `YEAR(DATE(2024, 3, 15))`, Result: `2024`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("YEAR", args[0])
				if err != nil {
					return err
				}
				return &Number{Value: float64(t.Year())}
			},
		},
		{
			Name:        "MONTH",
			Category:    CategoryDate,
			Description: "Month component of a date, 1-12",
			Params:      []Param{{Name: "date", Type: "date", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `MONTH(DATE(2024, 3, 15))`, Result: `3`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("MONTH", args[0])
				if err != nil {
					return err
				}
				return &Number{Value: float64(t.Month())}
			},
		},
		{
			Name:        "DAY",
			Category:    CategoryDate,
			Description: "Day-of-month component of a date",
			Params:      []Param{{Name: "date", Type: "date", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `DAY(DATE(2024, 3, 15))`, Result: `15`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("DAY", args[0])
				if err != nil {
					return err
				}
				return &Number{Value: float64(t.Day())}
			},
		},
		{
			Name:        "WEEKDAY",
			Category:    CategoryDate,
			Description: "Day of the week, 1 (Sunday) through 7 (Saturday)",
			Params:      []Param{{Name: "date", Type: "date", Required: true}},
			ReturnType:  "number",
			Examples: []Example{
				{Call: `WEEKDAY(DATE(2024, 3, 15))`, Result: `6`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("WEEKDAY", args[0])
				if err != nil {
					return err
				}
				return &Number{Value: float64(t.Weekday()) + 1}
			},
		},
		{
			Name:        "DATEVALUE",
			Category:    CategoryDate,
			Description: "Parses text into a date, detecting common formats",
			Params:      []Param{{Name: "text", Type: "text", Required: true}},
			ReturnType:  "date",
			Examples: []Example{
				{Call: `YEAR(DATEVALUE("March 15, 2024"))`, Result: `2024`},
				{Call: `DAY(DATEVALUE("2024-03-15"))`, Result: `15`},
			},
			Fn: func(args []Object, env *Environment) Object {
				text := args[0].(*String).Value
				t, err := dateparse.ParseAny(text)
				if err != nil {
					return newStructuredError("FORMAT-0001", map[string]any{"Value": text})
				}
				return &Datetime{Value: t}
			},
		},
		{
			Name:        "DATEFORMAT",
			Category:    CategoryDate,
			Description: "Formats a date using a Go layout and optional locale, e.g. \"2 January 2006\" with \"fr_FR\"",
			Params: []Param{
				{Name: "date", Type: "date", Required: true},
				{Name: "layout", Type: "text", Required: true},
				{Name: "locale", Type: "text"},
			},
			ReturnType: "text",
			Examples: []Example{
				{Call: `DATEFORMAT(DATE(2024, 3, 15), "02 Jan 2006")`, Result: `"15 Mar 2024"`},
				{Call: `DATEFORMAT(DATE(2024, 3, 15), "January", "fr_FR")`, Result: `"mars"`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("DATEFORMAT", args[0])
				if err != nil {
					return err
				}
				layout := args[1].(*String).Value
				var locale monday.Locale = monday.LocaleEnUS
				if len(args) == 3 {
					requested := monday.Locale(args[2].(*String).Value)
					found := false
					for _, known := range monday.ListLocales() {
						if known == requested {
							found = true
							break
						}
					}
					if !found {
						return newStructuredError("FORMAT-0003",
							map[string]any{"Locale": string(requested)})
					}
					locale = requested
				}
				return &String{Value: monday.Format(t, layout, locale)}
			},
		},
		{
			Name:        "DATEADD",
			Category:    CategoryDate,
			Description: "Adds an amount of years, months, days, hours, minutes, or seconds to a date",
			Params: []Param{
				{Name: "date", Type: "date", Required: true},
				{Name: "amount", Type: "number", Required: true},
				{Name: "unit", Type: "text", Required: true},
			},
			ReturnType: "date",
			Examples: []Example{
				{Call: `DAY(DATEADD(DATE(2024, 3, 15), 10, "days"))`, Result: `25`},
				{Call: `YEAR(DATEADD(DATE(2024, 3, 15), -1, "years"))`, Result: `2023`},
			},
			Fn: func(args []Object, env *Environment) Object {
				t, err := argDatetime("DATEADD", args[0])
				if err != nil {
					return err
				}
				amount := int(args[1].(*Number).Value)
				switch unit := args[2].(*String).Value; unit {
				case "years", "year":
					return &Datetime{Value: t.AddDate(amount, 0, 0)}
				case "months", "month":
					return &Datetime{Value: t.AddDate(0, amount, 0)}
				case "days", "day":
					return &Datetime{Value: t.AddDate(0, 0, amount)}
				case "hours", "hour":
					return &Datetime{Value: t.Add(time.Duration(amount) * time.Hour)}
				case "minutes", "minute":
					return &Datetime{Value: t.Add(time.Duration(amount) * time.Minute)}
				case "seconds", "second":
					return &Datetime{Value: t.Add(time.Duration(amount) * time.Second)}
				default:
					return newStructuredError("FORMAT-0002", map[string]any{"Unit": unit})
				}
			},
		},
		{
			Name:        "DATEDIFF",
			Category:    CategoryDate,
			Description: "Difference between two dates in the given unit, truncated toward zero",
			Params: []Param{
				{Name: "start", Type: "date", Required: true},
				{Name: "end", Type: "date", Required: true},
				{Name: "unit", Type: "text", Required: true},
			},
			ReturnType: "number",
			Examples: []Example{
				{Call: `DATEDIFF(DATE(2024, 3, 15), DATE(2024, 3, 25), "days")`, Result: `10`},
				{Call: `DATEDIFF(DATE(2023, 1, 1), DATE(2024, 7, 1), "years")`, Result: `1`},
			},
			Fn: func(args []Object, env *Environment) Object {
				start, err := argDatetime("DATEDIFF", args[0])
				if err != nil {
					return err
				}
				end, err := argDatetime("DATEDIFF", args[1])
				if err != nil {
					return err
				}
				diff := end.Sub(start)
				switch unit := args[2].(*String).Value; unit {
				case "years", "year":
					return &Number{Value: math.Trunc(diff.Hours() / 24 / 365.2425)}
				case "months", "month":
					return &Number{Value: math.Trunc(diff.Hours() / 24 / 30.436875)}
				case "days", "day":
					return &Number{Value: math.Trunc(diff.Hours() / 24)}
				case "hours", "hour":
					return &Number{Value: math.Trunc(diff.Hours())}
				case "minutes", "minute":
					return &Number{Value: math.Trunc(diff.Minutes())}
				case "seconds", "second":
					return &Number{Value: math.Trunc(diff.Seconds())}
				default:
					return newStructuredError("FORMAT-0002", map[string]any{"Unit": unit})
				}
			},
		},
	}
}

// argDatetime unwraps a date argument, parsing text dates on the fly.
func argDatetime(function string, arg Object) (time.Time, *Error) {
	switch arg := arg.(type) {
	case *Datetime:
		return arg.Value, nil
	case *String:
		t, err := dateparse.ParseAny(arg.Value)
		if err != nil {
			return time.Time{}, newStructuredError("FORMAT-0001",
				map[string]any{"Value": arg.Value})
		}
		return t, nil
	default:
		return time.Time{}, newTypeError(function, "date", "date", arg.Type())
	}
}
