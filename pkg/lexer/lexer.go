// Package lexer turns a formula source string into a stream of tokens.
//
// The lexer is rune-aware: string literals may contain any UTF-8 text
// (including emoji) and identifiers may use Unicode letters. It never
// fails part-way silently; an invalid character or unterminated string
// becomes an ILLEGAL token, and Tokenize reports it as a structured
// error for the whole input.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	serrors "github.com/sambeau/sage/pkg/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // price, order, $user, ...
	NUMBER // 123, 45.67, 1e10
	STRING // "hello" or 'hello'

	// Operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	POW      // **
	AMP      // & (text concatenation)
	EQ       // ==
	NOT_EQ   // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	AND      // &&
	OR       // ||
	BANG     // !
	ASSIGN   // = (never valid; kept so the parser can hint "use ==")
	QUESTION // ?

	// Delimiters
	COMMA    // ,
	COLON    // :
	DOT      // .
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case PERCENT:
		return "PERCENT"
	case POW:
		return "POW"
	case AMP:
		return "AMP"
	case EQ:
		return "EQ"
	case NOT_EQ:
		return "NOT_EQ"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case LTE:
		return "LTE"
	case GTE:
		return "GTE"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case BANG:
		return "BANG"
	case ASSIGN:
		return "ASSIGN"
	case QUESTION:
		return "QUESTION"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case DOT:
		return "DOT"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	default:
		return "UNKNOWN"
	}
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune (for Unicode support)
	chSize       int  // byte size of current character (1 for ASCII, 1-4 for UTF-8)
	line         int  // current line number
	column       int  // current column number
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances position.
// Uses a hybrid approach: ASCII fast-path for single-byte characters,
// UTF-8 decoding for multi-byte characters (to support Unicode identifiers).
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	// ASCII fast-path: single-byte characters (most common case)
	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	// Non-ASCII: decode the full UTF-8 rune
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size

	l.column++
}

// appendCurrentChar appends the current character (all bytes for multi-byte UTF-8) to the given slice.
func (l *Lexer) appendCurrentChar(result []byte) []byte {
	if l.chSize == 1 {
		return append(result, l.ch)
	}
	return append(result, l.input[l.position:l.position+l.chSize]...)
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	switch l.ch {
	case '+':
		tok = newToken(PLUS, l.ch, l.line, l.column)
	case '-':
		tok = newToken(MINUS, l.ch, l.line, l.column)
	case '*':
		if l.peekChar() == '*' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: POW, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(ASTERISK, l.ch, l.line, l.column)
		}
	case '/':
		tok = newToken(SLASH, l.ch, l.line, l.column)
	case '%':
		tok = newToken(PERCENT, l.ch, l.line, l.column)
	case '&':
		if l.peekChar() == '&' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: AND, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(AMP, l.ch, l.line, l.column)
		}
	case '|':
		if l.peekChar() == '|' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: OR, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(ILLEGAL, l.ch, l.line, l.column)
		}
	case '=':
		if l.peekChar() == '=' {
			ch := l.ch
			line := l.line
			col := l.column
			l.readChar()
			tok = Token{Type: EQ, Literal: string(ch) + string(l.ch), Line: line, Column: col}
		} else {
			// Bare '=' is never valid in a formula. The parser turns
			// this into a "use == for comparison" hint, which also
			// covers the '===' spelling (lexed as '==' then '=').
			tok = newToken(ASSIGN, l.ch, l.line, l.column)
		}
	case '!':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(BANG, l.ch, l.line, l.column)
		}
	case '<':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: LTE, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(LT, l.ch, l.line, l.column)
		}
	case '>':
		if l.peekChar() == '=' {
			ch := l.ch
			l.readChar()
			tok = Token{Type: GTE, Literal: string(ch) + string(l.ch), Line: l.line, Column: l.column - 1}
		} else {
			tok = newToken(GT, l.ch, l.line, l.column)
		}
	case '?':
		tok = newToken(QUESTION, l.ch, l.line, l.column)
	case ':':
		tok = newToken(COLON, l.ch, l.line, l.column)
	case ',':
		tok = newToken(COMMA, l.ch, l.line, l.column)
	case '.':
		tok = newToken(DOT, l.ch, l.line, l.column)
	case '(':
		tok = newToken(LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(RPAREN, l.ch, l.line, l.column)
	case '[':
		tok = newToken(LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(RBRACKET, l.ch, l.line, l.column)
	case '{':
		tok = newToken(LBRACE, l.ch, l.line, l.column)
	case '}':
		tok = newToken(RBRACE, l.ch, l.line, l.column)
	case '"', '\'':
		line := l.line
		column := l.column
		str, terminated := l.readString(l.ch)
		if !terminated {
			return Token{Type: ILLEGAL, Literal: "unterminated string", Line: line, Column: column}
		}
		tok = Token{Type: STRING, Literal: str, Line: line, Column: column}
		l.readChar() // consume closing quote
		return tok
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		tok.Line = l.line
		tok.Column = l.column
	default:
		if isLetterRune(l.chRune) || l.ch == '$' {
			line := l.line
			column := l.column
			tok.Literal = l.readIdentifier()
			tok.Type = IDENT
			tok.Line = line
			tok.Column = column
			return tok
		} else if isDigit(l.ch) {
			line := l.line
			column := l.column
			literal, ok := l.readNumber()
			tok.Type = NUMBER
			if !ok {
				tok.Type = ILLEGAL
			}
			tok.Literal = literal
			tok.Line = line
			tok.Column = column
			return tok
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.chRune), Line: l.line, Column: l.column}
	}

	l.readChar()
	return tok
}

// skipWhitespace advances past spaces, tabs, and newlines. Whitespace is
// insignificant in formulas and never reaches the parser.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier reads an identifier.
// Supports Unicode identifiers (e.g., π, prix, 日本語) via isLetterRune,
// plus a leading '$' for system-bound variables.
func (l *Lexer) readIdentifier() string {
	position := l.position
	if l.ch == '$' {
		l.readChar()
	}
	for isLetterRune(l.chRune) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a number literal: integer, decimal, or exponent form.
// The literal is kept as source text; numeric conversion happens later.
func (l *Lexer) readNumber() (string, bool) {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	// Decimal point
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume the '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Exponent: 1e10, 2.5E-3
	if l.ch == 'e' || l.ch == 'E' {
		mark := l.position
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			// Not an exponent after all (e.g. "12e" in "12elephants"):
			// the 'e' belongs to whatever follows. Report the partial
			// literal as illegal rather than guessing.
			return l.input[position:l.position], mark == l.position
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[position:l.position], true
}

// readString reads a string literal delimited by the given quote
// character. Both '"' and '\'' delimiters support the same escapes:
// \n, \t, \\, \", \'. Any other backslash pair is kept verbatim.
func (l *Lexer) readString(quote byte) (string, bool) {
	var result []byte
	l.readChar() // skip opening quote

	// A raw newline ends the scan: formulas are logically one line, so
	// an unescaped line break inside a string is an unterminated string,
	// not a multi-line literal.
	for l.ch != quote && l.ch != 0 && l.ch != '\n' {
		if l.ch == '\\' {
			l.readChar() // consume backslash
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case '\'':
				result = append(result, '\'')
			default:
				// Unknown escape, keep as-is
				result = append(result, '\\')
				result = l.appendCurrentChar(result)
			}
		} else {
			result = l.appendCurrentChar(result)
		}
		l.readChar()
	}

	terminated := l.ch == quote
	return string(result), terminated
}

// Tokenize scans the whole input and returns every token up to EOF.
// A lex error (invalid character or unterminated string) aborts the
// scan: no tokens are returned, only the positioned error.
func Tokenize(input string) ([]Token, *serrors.Error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			if tok.Literal == "unterminated string" {
				return nil, serrors.NewWithPosition("PARSE-0004", tok.Line, tok.Column, nil)
			}
			if len(tok.Literal) > 0 && isDigit(tok.Literal[0]) {
				return nil, serrors.NewWithPosition("PARSE-0005", tok.Line, tok.Column,
					map[string]any{"Literal": tok.Literal})
			}
			return nil, serrors.NewWithPosition("PARSE-0006", tok.Line, tok.Column,
				map[string]any{"Char": tok.Literal})
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// newToken creates a single-character token
func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

// isLetterRune checks if a rune is a valid identifier character (letter or underscore).
// This supports Unicode letters like π, α, 日本語, etc.
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
