package parser

import (
	"strings"
	"testing"

	"github.com/sambeau/sage/pkg/ast"
	"github.com/sambeau/sage/pkg/lexer"
)

func parse(t *testing.T, input string) ast.Expression {
	t.Helper()
	p := New(lexer.New(input))
	expr, ok := p.ParseFormula()
	if !ok {
		t.Fatalf("ParseFormula(%q) failed: %v", input, p.Errors())
	}
	return expr
}

func parseError(t *testing.T, input string) *Parser {
	t.Helper()
	p := New(lexer.New(input))
	if _, ok := p.ParseFormula(); ok {
		t.Fatalf("ParseFormula(%q) should have failed", input)
	}
	if len(p.StructuredErrors()) == 0 {
		t.Fatalf("ParseFormula(%q) failed without recording an error", input)
	}
	return p
}

// TestOperatorPrecedence checks grouping via the AST's parenthesised
// String form.
func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 + 2 + 3", "((1 + 2) + 3)"},
		{"2 * 3 % 4", "((2 * 3) % 4)"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"a + b & c", "((a + b) & c)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "((-2) ** 2)"},
		{"a == b && c != d", "((a == b) && (c != d))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"a < b == b < c", "((a < b) == (b < c))"},
		{"a || b ? c : d", "((a || b) ? c : d)"},
		{"a ? b : c ? d : e", "(a ? b : (c ? d : e))"},
		{"a ? b ? c : d : e", "(a ? (b ? c : d) : e)"},
		{"1 + SUM(a, b) * 2", "(1 + (SUM(a, b) * 2))"},
		{"items[0] + 1", "((items[0]) + 1)"},
		{"order.total * rate", "(order.total * rate)"},
		{"a.b.c", "a.b.c"},
	}

	for _, tt := range tests {
		expr := parse(t, tt.input)
		if got := expr.String(); got != tt.expected {
			t.Errorf("parse(%q): got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestLiterals(t *testing.T) {
	expr := parse(t, "42.5")
	num, ok := expr.(*ast.NumberLiteral)
	if !ok {
		t.Fatalf("expected NumberLiteral, got %T", expr)
	}
	if num.Value != 42.5 {
		t.Errorf("expected 42.5, got %v", num.Value)
	}

	expr = parse(t, "true")
	boolean, ok := expr.(*ast.BooleanLiteral)
	if !ok {
		t.Fatalf("expected BooleanLiteral, got %T", expr)
	}
	if !boolean.Value {
		t.Errorf("expected true")
	}

	expr = parse(t, "null")
	if _, ok := expr.(*ast.NullLiteral); !ok {
		t.Fatalf("expected NullLiteral, got %T", expr)
	}

	expr = parse(t, `"hi"`)
	str, ok := expr.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected StringLiteral, got %T", expr)
	}
	if str.Value != "hi" {
		t.Errorf("expected %q, got %q", "hi", str.Value)
	}
}

func TestArrayAndObjectLiterals(t *testing.T) {
	expr := parse(t, "[1, 2, 3]")
	arr, ok := expr.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected ArrayLiteral, got %T", expr)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(arr.Elements))
	}

	// Trailing commas are allowed.
	expr = parse(t, "[1, 2, 3,]")
	arr = expr.(*ast.ArrayLiteral)
	if len(arr.Elements) != 3 {
		t.Errorf("trailing comma: expected 3 elements, got %d", len(arr.Elements))
	}

	expr = parse(t, `{name: "x", "full label": 2}`)
	obj, ok := expr.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", expr)
	}
	if len(obj.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(obj.Entries))
	}
	if obj.Entries[0].Key != "name" || obj.Entries[1].Key != "full label" {
		t.Errorf("wrong keys: %q, %q", obj.Entries[0].Key, obj.Entries[1].Key)
	}
}

func TestCallExpression(t *testing.T) {
	expr := parse(t, "SUM(1, 2, 3,)")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected CallExpression, got %T", expr)
	}
	if call.Function.Value != "SUM" {
		t.Errorf("expected SUM, got %s", call.Function.Value)
	}
	if len(call.Arguments) != 3 {
		t.Errorf("expected 3 arguments, got %d", len(call.Arguments))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input        string
		expectedCode string
	}{
		{"", "PARSE-0003"},
		{"   ", "PARSE-0003"},
		{"1 + + 2", "PARSE-0002"},
		{"1 +", "PARSE-0001"},
		{"(1 + 2", "PARSE-0001"},
		{"[1, 2", "PARSE-0001"},
		{"1 2", "PARSE-0002"},
		{"a = 1", "PARSE-0007"},
		{"a === b", "PARSE-0007"},
		{"items[0](1)", "PARSE-0009"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		if _, ok := p.ParseFormula(); ok {
			t.Errorf("ParseFormula(%q) should have failed", tt.input)
			continue
		}
		errs := p.StructuredErrors()
		if len(errs) != 1 {
			t.Errorf("ParseFormula(%q): expected exactly 1 error, got %d", tt.input, len(errs))
			continue
		}
		if errs[0].Code != tt.expectedCode {
			t.Errorf("ParseFormula(%q): expected %s, got %s (%s)",
				tt.input, tt.expectedCode, errs[0].Code, errs[0].Message)
		}
	}
}

func TestAssignmentHint(t *testing.T) {
	p := parseError(t, "a = 1")
	err := p.StructuredErrors()[0]
	found := false
	for _, hint := range err.Hints {
		if strings.Contains(hint, "==") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a hint mentioning ==, got %v", err.Hints)
	}
}

func TestNestingLimit(t *testing.T) {
	deep := strings.Repeat("(", MaxNesting+1) + "1" + strings.Repeat(")", MaxNesting+1)
	p := parseError(t, deep)
	if code := p.StructuredErrors()[0].Code; code != "PARSE-0008" {
		t.Errorf("expected PARSE-0008, got %s", code)
	}

	// Just inside the limit is fine.
	ok := strings.Repeat("(", MaxNesting-1) + "1" + strings.Repeat(")", MaxNesting-1)
	parse(t, ok)
}

func TestParseConvenience(t *testing.T) {
	expr, err := Parse("1 + 2")
	if err != nil {
		t.Fatalf("Parse failed: %s", err.Message)
	}
	if expr.String() != "(1 + 2)" {
		t.Errorf("got %s", expr.String())
	}

	if _, err := Parse(`"unclosed`); err == nil || err.Code != "PARSE-0004" {
		t.Errorf("expected PARSE-0004, got %v", err)
	}
	if _, err := Parse("1 + + 2"); err == nil || err.Code != "PARSE-0002" {
		t.Errorf("expected PARSE-0002, got %v", err)
	}
}

// Lexical errors keep their own codes no matter where the bad token
// sits: in prefix position, after a complete expression, or where the
// parser expected a specific token.
func TestLexErrorPositionsInStream(t *testing.T) {
	tests := []struct {
		input        string
		expectedCode string
	}{
		{`@ + 1`, "PARSE-0006"},
		{`1 + 2 @`, "PARSE-0006"},
		{`1 "unclosed`, "PARSE-0004"},
		{`total.2e`, "PARSE-0005"},
		{`1 + 2e`, "PARSE-0005"},
	}

	for _, tt := range tests {
		p := parseError(t, tt.input)
		if code := p.StructuredErrors()[0].Code; code != tt.expectedCode {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expectedCode, code)
		}
	}
}

func TestNodeCount(t *testing.T) {
	expr := parse(t, "1 + 2 * 3")
	if n := ast.Count(expr); n != 5 {
		t.Errorf("expected 5 nodes, got %d", n)
	}
}
