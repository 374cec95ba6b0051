// eval_infix.go - prefix and infix operator semantics

package evaluator

import (
	"math"

	"github.com/sambeau/sage/pkg/lexer"
)

func evalPrefixExpression(tok lexer.Token, operator string, right Object) Object {
	switch operator {
	case "!":
		return nativeBoolToBoolean(!isTruthy(right))
	case "-":
		num, ok := right.(*Number)
		if !ok {
			return newStructuredErrorWithPos("TYPE-0004", tok,
				map[string]any{"Operator": "-", "Right": typeName(right.Type())})
		}
		return &Number{Value: -num.Value}
	default:
		return newStructuredErrorWithPos("TYPE-0004", tok,
			map[string]any{"Operator": operator, "Right": typeName(right.Type())})
	}
}

func evalInfixExpression(tok lexer.Token, operator string, left, right Object) Object {
	switch {
	case operator == "&":
		// & is the coercing concatenation operator: every operand is
		// rendered as text, so "Total: " & 42 works.
		return &String{Value: toText(left) + toText(right)}

	case operator == "==":
		return nativeBoolToBoolean(objectsEqual(left, right))

	case operator == "!=":
		return nativeBoolToBoolean(!objectsEqual(left, right))

	case left.Type() == NUMBER_OBJ && right.Type() == NUMBER_OBJ:
		return evalNumberInfixExpression(tok, operator, left.(*Number), right.(*Number))

	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfixExpression(tok, operator, left.(*String), right.(*String))

	case left.Type() == DATETIME_OBJ && right.Type() == DATETIME_OBJ:
		return evalDatetimeInfixExpression(tok, operator, left.(*Datetime), right.(*Datetime))

	case operator == "+" && (left.Type() == STRING_OBJ || right.Type() == STRING_OBJ):
		// + never coerces: string + number is an error, with a hint
		// pointing at &. Between two strings + behaves exactly like &.
		return newStructuredErrorWithPos("TYPE-0007", tok,
			map[string]any{"Left": typeName(left.Type()), "Right": typeName(right.Type())})

	case operator == "<" || operator == ">" || operator == "<=" || operator == ">=":
		return newStructuredErrorWithPos("TYPE-0005", tok, map[string]any{
			"Left": typeName(left.Type()), "Operator": operator, "Right": typeName(right.Type())})

	default:
		return newStructuredErrorWithPos("TYPE-0003", tok, map[string]any{
			"Left": typeName(left.Type()), "Operator": operator, "Right": typeName(right.Type())})
	}
}

func evalNumberInfixExpression(tok lexer.Token, operator string, left, right *Number) Object {
	switch operator {
	case "+":
		return &Number{Value: left.Value + right.Value}
	case "-":
		return &Number{Value: left.Value - right.Value}
	case "*":
		return &Number{Value: left.Value * right.Value}
	case "/":
		if right.Value == 0 {
			return newDivisionByZero(tok)
		}
		return &Number{Value: left.Value / right.Value}
	case "%":
		if right.Value == 0 {
			return newDivisionByZero(tok)
		}
		return &Number{Value: math.Mod(left.Value, right.Value)}
	case "**":
		return &Number{Value: math.Pow(left.Value, right.Value)}
	case "<":
		return nativeBoolToBoolean(left.Value < right.Value)
	case ">":
		return nativeBoolToBoolean(left.Value > right.Value)
	case "<=":
		return nativeBoolToBoolean(left.Value <= right.Value)
	case ">=":
		return nativeBoolToBoolean(left.Value >= right.Value)
	default:
		return newStructuredErrorWithPos("TYPE-0003", tok, map[string]any{
			"Left": "a number", "Operator": operator, "Right": "a number"})
	}
}

// Datetimes order chronologically, so `deadline < NOW()` works.
// Arithmetic on dates goes through DATEADD and DATEDIFF instead.
func evalDatetimeInfixExpression(tok lexer.Token, operator string, left, right *Datetime) Object {
	switch operator {
	case "<":
		return nativeBoolToBoolean(left.Value.Before(right.Value))
	case ">":
		return nativeBoolToBoolean(left.Value.After(right.Value))
	case "<=":
		return nativeBoolToBoolean(!left.Value.After(right.Value))
	case ">=":
		return nativeBoolToBoolean(!left.Value.Before(right.Value))
	default:
		return newStructuredErrorWithPos("TYPE-0003", tok, map[string]any{
			"Left": "a date", "Operator": operator, "Right": "a date"})
	}
}

func evalStringInfixExpression(tok lexer.Token, operator string, left, right *String) Object {
	switch operator {
	case "+":
		// Identical to & when both operands are strings.
		return &String{Value: left.Value + right.Value}
	case "<":
		return nativeBoolToBoolean(left.Value < right.Value)
	case ">":
		return nativeBoolToBoolean(left.Value > right.Value)
	case "<=":
		return nativeBoolToBoolean(left.Value <= right.Value)
	case ">=":
		return nativeBoolToBoolean(left.Value >= right.Value)
	default:
		return newStructuredErrorWithPos("TYPE-0003", tok, map[string]any{
			"Left": "text", "Operator": operator, "Right": "text"})
	}
}

// objectsEqual implements == and !=. Equality is strict: values of
// different types are never equal, so 1 == "1" is false rather than a
// coercion. Numbers compare numerically, strings byte-for-byte, arrays
// and objects structurally.
func objectsEqual(left, right Object) bool {
	if left.Type() != right.Type() {
		return false
	}

	switch left := left.(type) {
	case *Number:
		return left.Value == right.(*Number).Value
	case *String:
		return left.Value == right.(*String).Value
	case *Boolean:
		return left.Value == right.(*Boolean).Value
	case *Null:
		return true
	case *Datetime:
		return left.Value.Equal(right.(*Datetime).Value)
	case *Array:
		rightArr := right.(*Array)
		if len(left.Elements) != len(rightArr.Elements) {
			return false
		}
		for i := range left.Elements {
			if !objectsEqual(left.Elements[i], rightArr.Elements[i]) {
				return false
			}
		}
		return true
	case *Dictionary:
		rightDict := right.(*Dictionary)
		if len(left.Pairs) != len(rightDict.Pairs) {
			return false
		}
		for key, value := range left.Pairs {
			other, ok := rightDict.Pairs[key]
			if !ok || !objectsEqual(value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// toText renders a value for & concatenation and text functions.
// null renders as the empty string.
func toText(obj Object) string {
	switch obj := obj.(type) {
	case *String:
		return obj.Value
	case *Null:
		return ""
	default:
		return obj.Inspect()
	}
}
