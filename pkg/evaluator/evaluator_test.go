package evaluator

import (
	"strings"
	"testing"

	"github.com/sambeau/sage/pkg/parser"
)

// Helper to parse and evaluate a formula with no context
func testEval(t *testing.T, input string) Object {
	t.Helper()
	return testEvalCtx(t, input, nil)
}

// Helper to parse and evaluate a formula against a context
func testEvalCtx(t *testing.T, input string, ctx *Context) Object {
	t.Helper()
	expr, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse(%q) failed: %s", input, err.Message)
	}
	return Eval(expr, NewEnvironment(ctx, nil))
}

func testNumber(t *testing.T, obj Object, expected float64, input string) {
	t.Helper()
	num, ok := obj.(*Number)
	if !ok {
		t.Errorf("%q: expected NUMBER, got %s (%s)", input, obj.Type(), obj.Inspect())
		return
	}
	if num.Value != expected {
		t.Errorf("%q: expected %v, got %v", input, expected, num.Value)
	}
}

func testString(t *testing.T, obj Object, expected string, input string) {
	t.Helper()
	str, ok := obj.(*String)
	if !ok {
		t.Errorf("%q: expected STRING, got %s (%s)", input, obj.Type(), obj.Inspect())
		return
	}
	if str.Value != expected {
		t.Errorf("%q: expected %q, got %q", input, expected, str.Value)
	}
}

func testBoolean(t *testing.T, obj Object, expected bool, input string) {
	t.Helper()
	b, ok := obj.(*Boolean)
	if !ok {
		t.Errorf("%q: expected BOOLEAN, got %s (%s)", input, obj.Type(), obj.Inspect())
		return
	}
	if b.Value != expected {
		t.Errorf("%q: expected %v, got %v", input, expected, b.Value)
	}
}

func testError(t *testing.T, obj Object, expectedCode string, input string) {
	t.Helper()
	errObj, ok := obj.(*Error)
	if !ok {
		t.Errorf("%q: expected error %s, got %s (%s)", input, expectedCode, obj.Type(), obj.Inspect())
		return
	}
	if errObj.Code != expectedCode {
		t.Errorf("%q: expected %s, got %s (%s)", input, expectedCode, errObj.Code, errObj.Message)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3 - 4 / 2", 7},
		{"10 % 3", 1},
		{"2 ** 10", 1024},
		{"2 ** 3 ** 2", 512},
		{"-5 + 10", 5},
		{"0.1 + 0.2", 0.30000000000000004},
		{"1e3 + 1", 1001},
	}

	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestLongChain(t *testing.T) {
	// 100 chained additions: 1 + 1 + ... + 1
	input := strings.Repeat("1 + ", 100) + "1"
	testNumber(t, testEval(t, input), 101, "100 chained additions")
}

func TestDeepParens(t *testing.T) {
	input := "((((((1 + 2))))))"
	testNumber(t, testEval(t, input), 3, input)
}

func TestStringOperations(t *testing.T) {
	testString(t, testEval(t, `"hello" & " " & "world"`), "hello world", "& concat")
	testString(t, testEval(t, `"total: " & 42`), "total: 42", "& coerces numbers")
	testString(t, testEval(t, `"x" & null`), "x", "& renders null as empty")
	testString(t, testEval(t, `"x" & true`), "xtrue", "& coerces booleans")
	testString(t, testEval(t, `"foo" + "bar"`), "foobar", "+ on two strings")
	testBoolean(t, testEval(t, `"abc" < "abd"`), true, "string relational")
}

func TestMixedPlusIsAnError(t *testing.T) {
	testError(t, testEval(t, `"1" + 2`), "TYPE-0007", `"1" + 2`)
	testError(t, testEval(t, `2 + "1"`), "TYPE-0007", `2 + "1"`)
}

func TestEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 == 1", true},
		{"1 == 2", false},
		{"1 != 2", true},
		{`"a" == "a"`, true},
		{`1 == "1"`, false}, // no cross-type coercion
		{`"" == null`, false},
		{"0 == false", false},
		{"null == null", true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [2, 1]", false},
		{`{a: 1} == {a: 1}`, true},
		{`{a: 1} == {a: 2}`, false},
	}

	for _, tt := range tests {
		testBoolean(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"4 >= 4", true},
	}
	for _, tt := range tests {
		testBoolean(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestLogicalOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true && true", true},
		{"true && false", false},
		{"false || true", true},
		{"false || false", false},
		{`1 && "x"`, true},  // truthy operands
		{`0 || ""`, false},  // falsy operands
		{"!true", false},
		{"!0", true},
		{`!""`, true},
		{"!null", true},
	}
	for _, tt := range tests {
		testBoolean(t, testEval(t, tt.input), tt.expected, tt.input)
	}
}

func TestShortCircuit(t *testing.T) {
	// The right side would divide by zero; short-circuiting must skip it.
	testBoolean(t, testEval(t, "false && 1 / 0 > 0"), false, "&& short-circuit")
	testBoolean(t, testEval(t, "true || 1 / 0 > 0"), true, "|| short-circuit")
}

func TestTernary(t *testing.T) {
	testNumber(t, testEval(t, "1 < 2 ? 10 : 20"), 10, "ternary true")
	testNumber(t, testEval(t, "1 > 2 ? 10 : 20"), 20, "ternary false")
	testString(t, testEval(t, `0 ? "yes" : "no"`), "no", "ternary falsy condition")

	// Only the taken branch is evaluated.
	testNumber(t, testEval(t, "true ? 1 : (1 / 0)"), 1, "untaken branch not evaluated")
	testNumber(t, testEval(t, "false ? (1 / 0) : 2"), 2, "untaken branch not evaluated")
}

func TestMathErrors(t *testing.T) {
	testError(t, testEval(t, "1 / 0"), "MATH-0001", "1 / 0")
	testError(t, testEval(t, "1 % 0"), "MATH-0001", "1 % 0")
	testError(t, testEval(t, "-\"abc\""), "TYPE-0004", "negating a string")
}

func TestErrorPropagation(t *testing.T) {
	testError(t, testEval(t, "1 + 2 * (3 / 0)"), "MATH-0001", "error inside subexpression")
	testError(t, testEval(t, "SUM(1, 1 / 0, 3)"), "MATH-0001", "error inside call argument")
}

func TestFieldResolution(t *testing.T) {
	ctx := &Context{Fields: map[string]any{
		"price":    10,
		"quantity": 5,
		"name":     "Widget",
		"active":   true,
	}}

	testNumber(t, testEvalCtx(t, "price * quantity", ctx), 50, "price * quantity")
	testString(t, testEvalCtx(t, `name & "!"`, ctx), "Widget!", "string field")
	testBoolean(t, testEvalCtx(t, "active", ctx), true, "boolean field")

	// Unknown fields resolve to null, not an error.
	result := testEvalCtx(t, "missing", ctx)
	if result != NULL {
		t.Errorf("unknown field should be null, got %s", result.Inspect())
	}
}

func TestNestedFieldAccess(t *testing.T) {
	ctx := &Context{Fields: map[string]any{
		"order": map[string]any{
			"total":    100,
			"discount": 10,
			"customer": map[string]any{"name": "Ada"},
		},
	}}

	testNumber(t, testEvalCtx(t, "order.total - order.discount", ctx), 90, "nested access")
	testString(t, testEvalCtx(t, "order.customer.name", ctx), "Ada", "deep nested access")

	// Missing leaves are null.
	if testEvalCtx(t, "order.missing", ctx) != NULL {
		t.Error("missing nested field should be null")
	}
	if testEvalCtx(t, "order.customer.missing", ctx) != NULL {
		t.Error("missing deep field should be null")
	}
}

func TestIndexing(t *testing.T) {
	ctx := &Context{Fields: map[string]any{
		"items": []any{10, 20, 30},
		"row":   map[string]any{"name": "Ada"},
	}}

	testNumber(t, testEvalCtx(t, "items[0]", ctx), 10, "items[0]")
	testNumber(t, testEvalCtx(t, "items[2]", ctx), 30, "items[2]")
	testNumber(t, testEvalCtx(t, "items[-1]", ctx), 30, "negative index from end")
	testString(t, testEvalCtx(t, `row["name"]`, ctx), "Ada", "dictionary string index")

	// Out of range is null, like unknown fields.
	if testEvalCtx(t, "items[99]", ctx) != NULL {
		t.Error("out-of-range index should be null")
	}

	testError(t, testEvalCtx(t, `items["x"]`, ctx), "TYPE-0006", "string index on array")
	testError(t, testEvalCtx(t, "1[0]", ctx), "TYPE-0006", "indexing a number")
}

func TestLiteralsAndCollections(t *testing.T) {
	result := testEval(t, "[1, 2, 3]")
	arr, ok := result.(*Array)
	if !ok {
		t.Fatalf("expected ARRAY, got %s", result.Type())
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}

	result = testEval(t, `{label: "x", n: 1 + 1}`)
	dict, ok := result.(*Dictionary)
	if !ok {
		t.Fatalf("expected DICTIONARY, got %s", result.Type())
	}
	testNumber(t, dict.Get("n"), 2, "object value expression")
}

func TestUnicodeRoundTrip(t *testing.T) {
	ctx := &Context{Fields: map[string]any{"café": "au lait"}}
	testString(t, testEvalCtx(t, `café & " ☕"`, ctx), "au lait ☕", "unicode field and string")
}

func TestUnknownFunction(t *testing.T) {
	result := testEval(t, "SUMM(1, 2)")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected error, got %s", result.Inspect())
	}
	if errObj.Code != "UNDEF-0001" {
		t.Errorf("expected UNDEF-0001, got %s", errObj.Code)
	}
	found := false
	for _, hint := range errObj.Hints {
		if strings.Contains(hint, "SUM") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected did-you-mean hint, got %v", errObj.Hints)
	}
}

func TestCallArityAndTypes(t *testing.T) {
	testError(t, testEval(t, "ABS()"), "ARITY-0001", "ABS()")
	testError(t, testEval(t, "ABS(1, 2)"), "ARITY-0001", "ABS(1, 2)")
	testError(t, testEval(t, "SUM()"), "ARITY-0002", "SUM()")
	testError(t, testEval(t, "ROUND(1, 2, 3)"), "ARITY-0003", "ROUND(1, 2, 3)")
	testError(t, testEval(t, `ABS("x")`), "TYPE-0001", `ABS("x")`)
}

func TestCaseInsensitiveFunctionNames(t *testing.T) {
	testNumber(t, testEval(t, "sum(1, 2, 3)"), 6, "lowercase call")
	testNumber(t, testEval(t, "Sum(1, 2, 3)"), 6, "mixed-case call")
}
