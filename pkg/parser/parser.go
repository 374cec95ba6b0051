// Package parser builds an AST from a token stream using a Pratt
// (operator-precedence) parser.
//
// Parsing never panics: syntax errors are collected as structured
// errors and the first error stops the parse. A formula is exactly one
// expression; anything after it (and empty input) is a syntax error.
package parser

import (
	"strconv"

	"github.com/sambeau/sage/pkg/ast"
	serrors "github.com/sambeau/sage/pkg/errors"
	"github.com/sambeau/sage/pkg/lexer"
)

// MaxNesting bounds how deeply expressions may nest. Formulas are
// authored by end users of a multi-tenant platform, so pathological
// inputs like ten thousand opening parens must be rejected at parse
// time rather than blowing the stack later.
const MaxNesting = 200

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	TERNARY     // ?:
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + - &
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x or !x
	INDEX       // array[index], a.b
	CALL        // FN(x)
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.QUESTION: TERNARY,
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALS,
	lexer.NOT_EQ:   EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.AMP:      SUM,
	lexer.SLASH:    PRODUCT,
	lexer.ASTERISK: PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.POW:      POWER,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      INDEX,
	lexer.LPAREN:   CALL,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*serrors.Error

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	nesting int

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH, p.parseInfixExpression)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpression)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpression)
	p.registerInfix(lexer.POW, p.parseInfixExpression)
	p.registerInfix(lexer.AMP, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseInfixExpression)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.LT, p.parseInfixExpression)
	p.registerInfix(lexer.GT, p.parseInfixExpression)
	p.registerInfix(lexer.LTE, p.parseInfixExpression)
	p.registerInfix(lexer.GTE, p.parseInfixExpression)
	p.registerInfix(lexer.AND, p.parseLogicalExpression)
	p.registerInfix(lexer.OR, p.parseLogicalExpression)
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse tokenizes and parses source as a single formula expression.
// The lexer feeds the parser directly; lexical errors surface as the
// ILLEGAL token they produced, with its exact position.
func Parse(source string) (ast.Expression, *serrors.Error) {
	p := New(lexer.New(source))
	expr, ok := p.ParseFormula()
	if !ok {
		if len(p.structuredErrors) > 0 {
			return nil, p.structuredErrors[0]
		}
		return nil, serrors.New("PARSE-0002", map[string]any{"Token": "<unknown>"})
	}
	return expr, nil
}

// Errors returns parser errors as plain strings.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		result[i] = err.String()
	}
	return result
}

// StructuredErrors returns parser errors as structured Error objects.
func (p *Parser) StructuredErrors() []*serrors.Error {
	return p.structuredErrors
}

// addError adds a structured error from the catalog.
// Only the first error is recorded - subsequent errors are usually cascading noise.
func (p *Parser) addError(code string, line, column int, data map[string]any) {
	if len(p.structuredErrors) > 0 {
		return
	}

	p.structuredErrors = append(p.structuredErrors, serrors.NewWithPosition(code, line, column, data))
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseFormula parses the whole input as a single expression. The
// boolean result is false when any syntax error was recorded; the
// returned expression is nil in that case.
func (p *Parser) ParseFormula() (ast.Expression, bool) {
	if p.curTokenIs(lexer.EOF) {
		p.addError("PARSE-0003", p.curToken.Line, p.curToken.Column, nil)
		return nil, false
	}

	expr := p.parseExpression(LOWEST)
	if len(p.structuredErrors) > 0 {
		return nil, false
	}

	if !p.peekTokenIs(lexer.EOF) {
		tok := p.peekToken
		switch tok.Type {
		case lexer.ASSIGN:
			p.addError("PARSE-0007", tok.Line, tok.Column, nil)
		case lexer.ILLEGAL:
			p.illegalTokenError(tok)
		default:
			p.addError("PARSE-0002", tok.Line, tok.Column, map[string]any{"Token": tok.Literal})
		}
		return nil, false
	}

	return expr, true
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.nesting++
	defer func() { p.nesting-- }()
	if p.nesting > MaxNesting {
		p.addError("PARSE-0008", p.curToken.Line, p.curToken.Column, map[string]any{"Max": MaxNesting})
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError()
		return nil
	}

	leftExp := prefix()

	for len(p.structuredErrors) == 0 && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	// true, false, and null are lexed as plain identifiers and resolved
	// to literals here, so user fields can never shadow them.
	switch p.curToken.Literal {
	case "true":
		return &ast.BooleanLiteral{Token: p.curToken, Value: true}
	case "false":
		return &ast.BooleanLiteral{Token: p.curToken, Value: false}
	case "null":
		return &ast.NullLiteral{Token: p.curToken}
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("PARSE-0005", p.curToken.Line, p.curToken.Column,
			map[string]any{"Literal": p.curToken.Literal})
		return nil
	}

	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)

	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	if p.curTokenIs(lexer.POW) {
		// ** is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2)
		precedence--
	}
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expression := &ast.LogicalExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)

	return expression
}

// parseConditionalExpression parses cond ? consequent : alternate.
// Right-associative: a ? b : c ? d : e groups as a ? b : (c ? d : e).
func (p *Parser) parseConditionalExpression(condition ast.Expression) ast.Expression {
	expression := &ast.ConditionalExpression{
		Token:     p.curToken,
		Condition: condition,
	}

	p.nextToken()
	expression.Consequent = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.COLON) {
		return nil
	}

	p.nextToken()
	expression.Alternate = p.parseExpression(LOWEST)

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	tok := p.curToken // the . token

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}

	return &ast.MemberExpression{
		Token:    tok,
		Object:   object,
		Property: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expression := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expression.Index = p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return expression
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.addError("PARSE-0009", p.curToken.Line, p.curToken.Column,
			map[string]any{"What": "functions"})
		return nil
	}

	expression := &ast.CallExpression{Token: p.curToken, Function: ident}
	expression.Arguments = p.parseExpressionList(lexer.RPAREN)

	return expression
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	array.Elements = p.parseExpressionList(lexer.RBRACKET)

	return array
}

// parseExpressionList parses a comma-separated list up to the given end
// token. Trailing commas are tolerated.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // consume comma
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	object := &ast.ObjectLiteral{Token: p.curToken}

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()

		// Keys may be bare identifiers or strings
		if !p.curTokenIs(lexer.IDENT) && !p.curTokenIs(lexer.STRING) {
			p.addError("PARSE-0001", p.curToken.Line, p.curToken.Column,
				map[string]any{"Expected": "a key", "Got": p.curToken.Literal})
			return nil
		}
		key := p.curToken.Literal

		if !p.expectPeek(lexer.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)
		if len(p.structuredErrors) > 0 {
			return nil
		}

		object.Entries = append(object.Entries, ast.ObjectEntry{Key: key, Value: value})

		if !p.peekTokenIs(lexer.RBRACE) && !p.expectPeek(lexer.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return object
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekToken.Type == lexer.ILLEGAL {
		p.illegalTokenError(p.peekToken)
		return
	}

	gotLiteral := p.peekToken.Literal
	if gotLiteral == "" {
		gotLiteral = tokenTypeToReadableName(p.peekToken.Type)
	}

	// Report the error just after the last successfully parsed token
	line := p.curToken.Line
	column := p.curToken.Column + len(p.curToken.Literal)

	p.addError("PARSE-0001", line, column,
		map[string]any{"Expected": tokenTypeToReadableName(t), "Got": gotLiteral})
}

// noPrefixParseFnError reports a token that cannot start an expression.
func (p *Parser) noPrefixParseFnError() {
	tok := p.curToken

	switch tok.Type {
	case lexer.ILLEGAL:
		p.illegalTokenError(tok)
	case lexer.ASSIGN:
		// Catches both a stray '=' and the '===' spelling, which lexes
		// as '==' followed by '='.
		p.addError("PARSE-0007", tok.Line, tok.Column, nil)
	case lexer.EOF:
		p.addError("PARSE-0001", p.prevToken.Line, p.prevToken.Column+len(p.prevToken.Literal),
			map[string]any{"Expected": "an expression", "Got": "end of formula"})
	default:
		p.addError("PARSE-0002", tok.Line, tok.Column, map[string]any{"Token": tok.Literal})
	}
}

// illegalTokenError maps an ILLEGAL token back to the lexical error
// that produced it, wherever in the token stream it turns up.
func (p *Parser) illegalTokenError(tok lexer.Token) {
	if tok.Literal == "unterminated string" {
		p.addError("PARSE-0004", tok.Line, tok.Column, nil)
	} else if len(tok.Literal) > 0 && tok.Literal[0] >= '0' && tok.Literal[0] <= '9' {
		p.addError("PARSE-0005", tok.Line, tok.Column, map[string]any{"Literal": tok.Literal})
	} else {
		p.addError("PARSE-0006", tok.Line, tok.Column, map[string]any{"Char": tok.Literal})
	}
}

// tokenTypeToReadableName returns a human-friendly name for error messages.
func tokenTypeToReadableName(t lexer.TokenType) string {
	switch t {
	case lexer.IDENT:
		return "an identifier"
	case lexer.NUMBER:
		return "a number"
	case lexer.STRING:
		return "a string"
	case lexer.COMMA:
		return "','"
	case lexer.COLON:
		return "':'"
	case lexer.RPAREN:
		return "')'"
	case lexer.RBRACKET:
		return "']'"
	case lexer.RBRACE:
		return "'}'"
	case lexer.EOF:
		return "end of formula"
	default:
		return "'" + t.String() + "'"
	}
}
