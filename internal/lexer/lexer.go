// Package lexer splits term text into tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/funterm/internal/token"
)

const operatorChars = `-+*/=<>!&|^%~?@#\:`

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
	prev         token.TokenType // type of the last token returned
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, prev: token.ILLEGAL}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.position = l.readPosition
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.readPosition++
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.readPosition += w
	}
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next token, an EOF token at the end of input.
func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	l.prev = tok.Type
	return tok
}

func (l *Lexer) nextToken() token.Token {
	before := l.position
	l.skipWhitespace()
	spaced := l.position > before
	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case l.ch == '(':
		return l.single(token.LPAREN)
	case l.ch == ')':
		return l.single(token.RPAREN)
	case l.ch == '{':
		return l.single(token.LBRACE)
	case l.ch == '}':
		return l.single(token.RBRACE)
	case l.ch == '.':
		return l.single(token.DOT)
	case l.ch == '"':
		return l.readText()
	case isDigit(l.ch):
		return l.readNumber(l.position)
	// f -1 applies f to minus one; f - 1 and f-1 subtract.
	case l.ch == '-' && isDigit(l.peekChar()) && (spaced || !l.prev.IsOperand()):
		start := l.position
		l.readChar()
		return l.readNumber(start)
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.Token{Type: token.IDENT, Lexeme: ident, Literal: ident, Line: line, Column: col}
	case isOperatorChar(l.ch):
		start := l.position
		for isOperatorChar(l.ch) {
			l.readChar()
			// a*-2 is a times negative two
			if l.ch == '-' && isDigit(l.peekChar()) {
				break
			}
		}
		op := l.input[start:l.position]
		return token.Token{Type: token.OPERATOR, Lexeme: op, Literal: op, Line: line, Column: col}
	}

	lexeme := string(l.ch)
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

func (l *Lexer) single(tt token.TokenType) token.Token {
	tok := token.Token{Type: tt, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

// readNumber reads the digits of a numeral starting at start, which is
// the position of a leading minus sign if there is one.
func (l *Lexer) readNumber(start int) token.Token {
	line, col := l.line, l.column-(l.position-start)
	for isDigit(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "numeral out of range", Line: line, Column: col}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: n, Line: line, Column: col}
}

// readIdentifier reads a name such as x, x_1, neg, $a or empty?.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '?' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readText reads a double-quoted literal with Go escapes. An unterminated
// or malformed literal gives an ILLEGAL token.
func (l *Lexer) readText() token.Token {
	line, col := l.line, l.column
	start := l.position
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "unterminated text", Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
		}
		l.readChar()
	}
	l.readChar() // closing quote
	lexeme := l.input[start:l.position]
	s, err := strconv.Unquote(lexeme)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "malformed text", Line: line, Column: col}
	}
	return token.Token{Type: token.TEXT, Lexeme: lexeme, Literal: s, Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isOperatorChar(ch rune) bool {
	return ch != 0 && strings.ContainsRune(operatorChars, ch)
}

// Tokenize returns every token of input up to and including EOF.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
