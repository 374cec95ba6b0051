// Package ast defines the abstract syntax tree for Sage formulas.
//
// Every production of the grammar has its own node struct, so the
// evaluator and validator can exhaustively switch on node kind. Trees
// are immutable once the parser returns them: nodes hold no parent or
// sibling references and are never shared between formulas.
package ast

import (
	"bytes"
	"strings"

	"github.com/sambeau/sage/pkg/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents expression nodes. Formulas are a single
// expression; there are no statements.
type Expression interface {
	Node
	expressionNode()
}

// NumberLiteral represents a numeric literal like 42, 3.14, or 1e10.
// Sage has a single numeric type: all numbers are float64.
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// StringLiteral represents a string literal like "hello" or 'hello'
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// BooleanLiteral represents true or false
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// NullLiteral represents the null literal
type NullLiteral struct {
	Token lexer.Token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

// Identifier represents a field reference like price or $user
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// PrefixExpression represents unary expressions: -x, !x
type PrefixExpression struct {
	Token    lexer.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

// InfixExpression represents binary expressions: arithmetic,
// relational, equality, and `&` text concatenation.
type InfixExpression struct {
	Token    lexer.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

// LogicalExpression represents && and ||. It is a distinct node from
// InfixExpression because its right operand is evaluated conditionally:
// the evaluator short-circuits when the left operand already decides
// the result.
type LogicalExpression struct {
	Token    lexer.Token // the && or || token
	Left     Expression
	Operator string
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(le.Left.String())
	out.WriteString(" " + le.Operator + " ")
	out.WriteString(le.Right.String())
	out.WriteString(")")

	return out.String()
}

// ConditionalExpression represents the ternary operator:
// condition ? consequent : alternate. Only the taken branch is
// evaluated.
type ConditionalExpression struct {
	Token      lexer.Token // the ? token
	Condition  Expression
	Consequent Expression
	Alternate  Expression
}

func (ce *ConditionalExpression) expressionNode()      {}
func (ce *ConditionalExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *ConditionalExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ce.Condition.String())
	out.WriteString(" ? ")
	out.WriteString(ce.Consequent.String())
	out.WriteString(" : ")
	out.WriteString(ce.Alternate.String())
	out.WriteString(")")

	return out.String()
}

// MemberExpression represents dot access like order.total, including
// chains (order.customer.name).
type MemberExpression struct {
	Token    lexer.Token // the . token
	Object   Expression
	Property *Identifier
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MemberExpression) String() string {
	return me.Object.String() + "." + me.Property.String()
}

// RootName returns the left-most identifier of a member chain, or ""
// if the chain is not rooted in an identifier (e.g. [1,2][0]).
func (me *MemberExpression) RootName() string {
	switch obj := me.Object.(type) {
	case *Identifier:
		return obj.Value
	case *MemberExpression:
		return obj.RootName()
	default:
		return ""
	}
}

// IndexExpression represents bracket indexing like items[0] or row["name"]
type IndexExpression struct {
	Token lexer.Token // the [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString("[")
	out.WriteString(ie.Index.String())
	out.WriteString("])")

	return out.String()
}

// ArrayLiteral represents array literals like [1, 2, 3]
type ArrayLiteral struct {
	Token    lexer.Token // the [ token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	var out bytes.Buffer

	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}

	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")

	return out.String()
}

// ObjectEntry is a single key/value pair of an object literal.
// Entry order is preserved.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// ObjectLiteral represents object literals like { total: 1, "tax rate": 0.2 }
type ObjectLiteral struct {
	Token   lexer.Token // the { token
	Entries []ObjectEntry
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	var out bytes.Buffer

	entries := []string{}
	for _, e := range ol.Entries {
		entries = append(entries, e.Key+": "+e.Value.String())
	}

	out.WriteString("{")
	out.WriteString(strings.Join(entries, ", "))
	out.WriteString("}")

	return out.String()
}

// CallExpression represents a function call like SUM(a, b). Callees are
// always bare names: formulas cannot construct or pass functions.
type CallExpression struct {
	Token     lexer.Token // the ( token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}

// Walk calls fn for node and every node beneath it, parents before
// children. If fn returns false the walk stops descending at that node.
func Walk(node Expression, fn func(Expression) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *PrefixExpression:
		Walk(n.Right, fn)
	case *InfixExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *LogicalExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *ConditionalExpression:
		Walk(n.Condition, fn)
		Walk(n.Consequent, fn)
		Walk(n.Alternate, fn)
	case *MemberExpression:
		Walk(n.Object, fn)
	case *IndexExpression:
		Walk(n.Left, fn)
		Walk(n.Index, fn)
	case *ArrayLiteral:
		for _, el := range n.Elements {
			Walk(el, fn)
		}
	case *ObjectLiteral:
		for _, e := range n.Entries {
			Walk(e.Value, fn)
		}
	case *CallExpression:
		for _, a := range n.Arguments {
			Walk(a, fn)
		}
	}
}

// Count returns the number of nodes in the tree. Hosts can use this to
// reject oversized formulas before evaluating them.
func Count(node Expression) int {
	n := 0
	Walk(node, func(Expression) bool {
		n++
		return true
	})
	return n
}
