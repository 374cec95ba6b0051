// Package errors provides structured error types for the Sage formula engine.
//
// This package defines Error, a unified error type that can represent
// lexer, parser, and runtime errors with rich metadata for display and
// programmatic handling. Formula errors are ordinary values: nothing in
// the engine panics for malformed user input.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse     ErrorClass = "parse"     // Lexer/parser syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Unknown function or field
	ClassMath      ErrorClass = "math"      // Division by zero and friends
	ClassIndex     ErrorClass = "index"     // Out of bounds
	ClassFormat    ErrorClass = "format"    // Invalid format/parse
	ClassOperator  ErrorClass = "operator"  // Invalid operations
)

// Error represents any error from tokenizing, parsing, or evaluation.
type Error struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "TYPE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *Error) String() string {
	var sb strings.Builder

	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *Error) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse:
		sb.WriteString("Syntax error")
	case ClassUndefined:
		sb.WriteString("Reference error")
	default:
		sb.WriteString("Evaluation error")
	}

	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *Error) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithPosition returns a copy of the error with line and column set.
func (e *Error) WithPosition(line, column int) *Error {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this is a lexer or parser error.
func (e *Error) IsParseError() bool {
	return e.Class == ClassParse
}

// IsRuntimeError returns true if this error happened during evaluation.
func (e *Error) IsRuntimeError() bool {
	return e.Class != ClassParse
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected token '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "empty formula",
		Hints:    []string{"a formula must contain at least one expression"},
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "unterminated string",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "invalid character {{printf \"%q\" .Char}}",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "assignment is not supported in formulas",
		Hints:    []string{"use == for comparison"},
	},
	"PARSE-0008": {
		Class:    ClassParse,
		Template: "formula is nested too deeply (more than {{.Max}} levels)",
	},
	"PARSE-0009": {
		Class:    ClassParse,
		Template: "{{.What}} can only be called by name",
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "{{.Function}} expected {{.Expected}} for `{{.Param}}`, got {{.Got}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "argument to `{{.Function}}` not supported, got {{.Got}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "unknown operator: {{.Left}} {{.Operator}} {{.Right}}",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "unknown operator: {{.Operator}}{{.Right}}",
	},
	"TYPE-0005": {
		Class:    ClassType,
		Template: "cannot compare {{.Left}} with {{.Right}} using {{.Operator}}",
	},
	"TYPE-0006": {
		Class:    ClassType,
		Template: "cannot index {{.Got}} with {{.IndexType}}",
		Hints:    []string{"arrays are indexed with numbers, objects with strings"},
	},
	"TYPE-0007": {
		Class:    ClassType,
		Template: "cannot concatenate {{.Left}} and {{.Right}} with +",
		Hints:    []string{"use & to join values as text"},
	},

	// ========================================
	// Arity errors (ARITY-0xxx)
	// ========================================
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "{{.Function}} expects {{.Expected}} argument{{if ne .Expected 1}}s{{end}}, got {{.Got}}",
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "{{.Function}} expects at least {{.Expected}} argument{{if ne .Expected 1}}s{{end}}, got {{.Got}}",
	},
	"ARITY-0003": {
		Class:    ClassArity,
		Template: "{{.Function}} expects between {{.Min}} and {{.Max}} arguments, got {{.Got}}",
	},

	// ========================================
	// Undefined errors (UNDEF-0xxx)
	// ========================================
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "unknown function: {{.Name}}",
	},
	"UNDEF-0002": {
		Class:    ClassUndefined,
		Template: "unknown field: {{.Name}}",
	},
	"UNDEF-0003": {
		Class:    ClassUndefined,
		Template: "unknown dataset: {{.Name}}",
	},

	// ========================================
	// Math errors (MATH-0xxx)
	// ========================================
	"MATH-0001": {
		Class:    ClassMath,
		Template: "division by zero",
	},
	"MATH-0002": {
		Class:    ClassMath,
		Template: "{{.Function}} is undefined for {{.Value}}",
	},

	// ========================================
	// Index errors (INDEX-0xxx)
	// ========================================
	"INDEX-0001": {
		Class:    ClassIndex,
		Template: "index {{.Index}} out of range (length {{.Length}})",
	},

	// ========================================
	// Format errors (FORMAT-0xxx)
	// ========================================
	"FORMAT-0001": {
		Class:    ClassFormat,
		Template: "cannot parse {{printf \"%q\" .Value}} as a date",
	},
	"FORMAT-0002": {
		Class:    ClassFormat,
		Template: "unknown unit {{printf \"%q\" .Unit}}",
		Hints:    []string{"units are: years, months, days, hours, minutes, seconds"},
	},
	"FORMAT-0003": {
		Class:    ClassFormat,
		Template: "unknown locale {{printf \"%q\" .Locale}}",
	},
}

// New creates an Error from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *Error {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &Error{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &Error{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates an Error with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *Error {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// FuzzyMatch pairs a candidate with its edit distance from the input.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FindClosestMatch returns the closest candidate within an edit-distance
// threshold scaled to the input length, or "" if nothing is close enough.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	bestMatch := ""
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Short words (1-3): max 1 edit
	// Medium words (4-6): max 2 edits
	// Longer words (7+): max 3 edits
	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// FindTopMatches returns the top N closest matches to the input.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		if matches[i].Distance <= threshold {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewUnknownFunction creates an unknown-function error with a fuzzy
// "Did you mean?" hint drawn from the registered function names. Up to
// two suggestions are offered when several names are close.
func NewUnknownFunction(name string, available []string) *Error {
	err := New("UNDEF-0001", map[string]any{"Name": name})
	switch matches := FindTopMatches(name, available, 2); len(matches) {
	case 1:
		err.Hints = append(err.Hints, "Did you mean `"+matches[0]+"`?")
	case 2:
		err.Hints = append(err.Hints, "Did you mean `"+matches[0]+"` or `"+matches[1]+"`?")
	}
	return err
}

// NewUnknownField creates an unknown-field error with a fuzzy hint drawn
// from the caller's known field names.
func NewUnknownField(name string, available []string) *Error {
	err := New("UNDEF-0002", map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
