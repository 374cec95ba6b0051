package evaluator

import (
	"fmt"
	"strings"
	"testing"
)

func TestMathFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"SUM(1, 2, 3)", 6},
		{"SUM([10, 20, 30])", 60},
		{"SUM(1, [2, 3], 4)", 10},
		{"SUM(1, null, 3)", 4},
		{"AVERAGE(2, 4, 6)", 4},
		{"MIN(3, 1, 2)", 1},
		{"MAX(3, 1, 2)", 3},
		{"ABS(-5)", 5},
		{"ROUND(3.14159, 2)", 3.14},
		{"ROUND(2.5)", 3},
		{"FLOOR(3.7)", 3},
		{"CEIL(3.2)", 4},
		{"POWER(2, 10)", 1024},
		{"SQRT(16)", 4},
		{"MOD(10, 3)", 1},
		{"PRODUCT(2, 3, 4)", 24},
		{"MEDIAN(1, 5, 2)", 2},
		{"MEDIAN([1, 2, 3, 4])", 2.5},
		{"SIGN(-42)", -1},
		{"SIGN(0)", 0},
		{"TRUNC(-3.9)", -3},
	}

	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestMathFunctionErrors(t *testing.T) {
	testError(t, testEval(t, "SQRT(-1)"), "MATH-0002", "SQRT(-1)")
	testError(t, testEval(t, "MOD(1, 0)"), "MATH-0001", "MOD(1, 0)")
	testError(t, testEval(t, "AVERAGE([])"), "MATH-0002", "AVERAGE([])")
	testError(t, testEval(t, `SUM(1, "x")`), "TYPE-0001", `SUM(1, "x")`)
	testError(t, testEval(t, `SUM([1, "x"])`), "TYPE-0001", `SUM([1, "x"])`)
}

func TestTextFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`CONCAT("a", "b", "c")`, "abc"},
		{`CONCAT("n=", 1, " ok=", true)`, "n=1 ok=true"},
		{`UPPER("hello")`, "HELLO"},
		{`LOWER("HELLO")`, "hello"},
		{`TRIM("  hi  ")`, "hi"},
		{`LEFT("Hello", 2)`, "He"},
		{`LEFT("Hello", 99)`, "Hello"},
		{`RIGHT("Hello", 3)`, "llo"},
		{`MID("Hello", 2, 3)`, "ell"},
		{`MID("Hello", 4, 99)`, "lo"},
		{`MID("Hello", 99, 1)`, ""},
		{`REPLACE("a-b-c", "-", "+")`, "a+b+c"},
		{`PROPER("hello world")`, "Hello World"},
		{`REPT("ab", 3)`, "ababab"},
		{`LEFT("héllo", 2)`, "hé"},
		{`JOIN(SPLIT("a,b,c", ","), "-")`, "a-b-c"},
	}

	for _, tt := range tests {
		testString(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestTextPositionsAreOneBasedCharacters(t *testing.T) {
	testNumber(t, testEval(t, `LEN("Hello")`), 5, "LEN")
	testNumber(t, testEval(t, `LEN("héllo")`), 5, "LEN counts characters")
	testNumber(t, testEval(t, `FIND("l", "Hello")`), 3, "FIND first match")
	testNumber(t, testEval(t, `FIND("x", "Hello")`), 0, "FIND absent")
	testNumber(t, testEval(t, `FIND("llo", "héllo")`), 3, "FIND after multibyte rune")
}

func TestNumberFormat(t *testing.T) {
	testString(t, testEval(t, "NUMBERFORMAT(1234567.89)"), "1,234,567.89", "default locale")
	testString(t, testEval(t, `NUMBERFORMAT(1234567.89, "de")`), "1.234.567,89", "german locale")
	testError(t, testEval(t, `NUMBERFORMAT(1, "no-such-locale!")`), "FORMAT-0003", "bad locale")
}

func TestLogicFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`AND(true, 1, "x")`, true},
		{"AND(true, 0)", false},
		{`OR(false, 0, "x")`, true},
		{`OR(false, "")`, false},
		{"NOT(false)", true},
		{"XOR(true, false)", true},
		{"XOR(true, true)", false},
		{"XOR(true, true, true)", true},
		{"ISBLANK(null)", true},
		{`ISBLANK("")`, true},
		{"ISBLANK(0)", false},
		{"ISNUMBER(42)", true},
		{`ISNUMBER("42")`, false},
		{`ISTEXT("hi")`, true},
	}
	for _, tt := range tests {
		testBoolean(t, testEval(t, tt.input), tt.expected, tt.input)
	}

	testString(t, testEval(t, `IF(1 > 2, "yes", "no")`), "no", "IF")
	testNumber(t, testEval(t, "COALESCE(null, null, 3)"), 3, "COALESCE")
	testString(t, testEval(t, `COALESCE(null, "")`), "", "COALESCE empty string is not null")
	if testEval(t, "COALESCE(null, null)") != NULL {
		t.Error("COALESCE with only nulls should be null")
	}
}

func TestDateFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"YEAR(DATE(2024, 3, 15))", 2024},
		{"MONTH(DATE(2024, 3, 15))", 3},
		{"DAY(DATE(2024, 3, 15))", 15},
		{"WEEKDAY(DATE(2024, 3, 15))", 6}, // a Friday
		{`YEAR("2024-03-15")`, 2024},      // text coerces to a date
		{`YEAR(DATEVALUE("March 15, 2024"))`, 2024},
		{`DAY(DATEADD(DATE(2024, 3, 15), 10, "days"))`, 25},
		{`MONTH(DATEADD(DATE(2024, 1, 31), 1, "months"))`, 3}, // Jan 31 + 1 month normalises
		{`DATEDIFF(DATE(2024, 3, 15), DATE(2024, 3, 25), "days")`, 10},
		{`DATEDIFF(DATE(2024, 3, 25), DATE(2024, 3, 15), "days")`, -10},
		{`DATEDIFF(DATE(2024, 3, 15), DATE(2024, 3, 15), "hours")`, 0},
	}
	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected, tt.input)
	}

	testString(t, testEval(t, `DATEFORMAT(DATE(2024, 3, 15), "02 Jan 2006")`), "15 Mar 2024", "DATEFORMAT")
	testString(t, testEval(t, `DATEFORMAT(DATE(2024, 3, 15), "January", "fr_FR")`), "mars", "DATEFORMAT locale")

	testError(t, testEval(t, `DATEVALUE("not a date")`), "FORMAT-0001", "DATEVALUE junk")
	testError(t, testEval(t, `DATEADD(DATE(2024, 1, 1), 1, "fortnights")`), "FORMAT-0002", "bad unit")
	testError(t, testEval(t, `DATEFORMAT(DATE(2024, 1, 1), "Jan", "xx_XX")`), "FORMAT-0003", "bad locale")
	testError(t, testEval(t, "YEAR(42)"), "TYPE-0001", "YEAR of a number")
}

func TestDatetimeComparison(t *testing.T) {
	testBoolean(t, testEval(t, "DATE(2024, 1, 1) < DATE(2024, 6, 1)"), true, "date <")
	testBoolean(t, testEval(t, "DATE(2024, 1, 1) == DATE(2024, 1, 1)"), true, "date ==")
	testBoolean(t, testEval(t, "TODAY() <= NOW()"), true, "TODAY <= NOW")
}

func TestArrayFunctions(t *testing.T) {
	testNumber(t, testEval(t, "FIRST([1, 2, 3])"), 1, "FIRST")
	testNumber(t, testEval(t, "LAST([1, 2, 3])"), 3, "LAST")
	if testEval(t, "FIRST([])") != NULL {
		t.Error("FIRST of empty array should be null")
	}
	testNumber(t, testEval(t, "INDEX([1, 2, 3], 1)"), 2, "INDEX is 0-based")
	testError(t, testEval(t, "INDEX([1, 2, 3], 3)"), "INDEX-0001", "INDEX out of range")
	testError(t, testEval(t, "INDEX([1, 2, 3], -1)"), "INDEX-0001", "INDEX negative")
	testNumber(t, testEval(t, "LENGTH([1, 2, 3])"), 3, "LENGTH")
	testBoolean(t, testEval(t, "CONTAINS([1, 2, 3], 2)"), true, "CONTAINS")
	testBoolean(t, testEval(t, `CONTAINS([1, 2, 3], "2")`), false, "CONTAINS is strict")

	tests := []struct {
		input    string
		expected string
	}{
		{"UNIQUE([1, 2, 2, 3, 3, 3])", "[1, 2, 3]"},
		{"SORT([3, 1, 2])", "[1, 2, 3]"},
		{`SORT(["b", "a", "c"])`, "[a, b, c]"},
		{"REVERSE([1, 2, 3])", "[3, 2, 1]"},
		{"FLATTEN([[1, 2], [3, [4]]])", "[1, 2, 3, 4]"},
	}
	for _, tt := range tests {
		result := testEval(t, tt.input)
		if result.Inspect() != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.input, tt.expected, result.Inspect())
		}
	}

	testString(t, testEval(t, `JOIN([1, 2, 3], "-")`), "1-2-3", "JOIN")
	testError(t, testEval(t, `SORT([1, "x"])`), "TYPE-0001", "SORT mixed types")
}

func lookupContext() *Context {
	return &Context{
		Datasets: map[string][]map[string]any{
			"employees": {
				{"id": 1, "name": "Bob", "rate": 95.0},
				{"id": 2, "name": "Alice", "rate": 120.0},
			},
		},
	}
}

func TestLookup(t *testing.T) {
	ctx := lookupContext()

	testString(t, testEvalCtx(t, `LOOKUP("employees", "id", 2, "name")`, ctx), "Alice", "LOOKUP hit")
	testNumber(t, testEvalCtx(t, `LOOKUP("employees", "name", "Bob", "rate")`, ctx), 95, "LOOKUP by text key")

	if testEvalCtx(t, `LOOKUP("employees", "id", 99, "name")`, ctx) != NULL {
		t.Error("LOOKUP miss should be null")
	}
	if testEvalCtx(t, `LOOKUP("employees", "id", 1, "missing")`, ctx) != NULL {
		t.Error("LOOKUP with absent return field should be null")
	}

	testError(t, testEvalCtx(t, `LOOKUP("employes", "id", 1, "name")`, ctx), "UNDEF-0003", "unknown dataset")
}

func TestUUIDShape(t *testing.T) {
	testNumber(t, testEval(t, "LEN(UUID())"), 36, "UUID length")
	testBoolean(t, testEval(t, "UUID() != UUID()"), true, "UUIDs are unique")
}

func TestRegistryMetadata(t *testing.T) {
	defs := Default().Definitions()
	if len(defs) < 50 {
		t.Fatalf("expected at least 50 built-ins, got %d", len(defs))
	}

	for _, def := range defs {
		if def.Description == "" {
			t.Errorf("%s has no description", def.Name)
		}
		if def.ReturnType == "" {
			t.Errorf("%s has no return type", def.Name)
		}
		if len(def.Examples) == 0 {
			t.Errorf("%s has no examples", def.Name)
		}
		if def.Category == "" {
			t.Errorf("%s has no category", def.Name)
		}
		if def.Fn == nil {
			t.Errorf("%s has no implementation", def.Name)
		}
	}
}

// reprExample renders a value the way Definition examples are written:
// strings quoted, arrays element-wise.
func reprExample(obj Object) string {
	switch obj := obj.(type) {
	case *String:
		return fmt.Sprintf("%q", obj.Value)
	case *Array:
		parts := make([]string, len(obj.Elements))
		for i, el := range obj.Elements {
			parts[i] = reprExample(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return obj.Inspect()
	}
}

// TestExamplesEvaluate runs every registered example and checks it
// produces its documented result.
func TestExamplesEvaluate(t *testing.T) {
	ctx := lookupContext()

	for _, def := range Default().Definitions() {
		for _, ex := range def.Examples {
			result := testEvalCtx(t, ex.Call, ctx)
			if errObj, ok := result.(*Error); ok {
				t.Errorf("%s example %q failed: %s", def.Name, ex.Call, errObj.Message)
				continue
			}
			if got := reprExample(result); got != ex.Result {
				t.Errorf("%s example %q: documented %s, got %s", def.Name, ex.Call, ex.Result, got)
			}
		}
	}
}
