// Package token defines the tokens of the term reader.
package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT    TokenType = "IDENT"    // neg, x, forall, divides
	NUMBER   TokenType = "NUMBER"   // 42, -7
	TEXT     TokenType = "TEXT"     // "hello"
	OPERATOR TokenType = "OPERATOR" // +, =>, <=, ??

	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"
	DOT    TokenType = "."
)

type Token struct {
	Type    TokenType
	Lexeme  string // source text of the token
	Literal any    // int64 for NUMBER, unquoted string for TEXT, Lexeme otherwise
	Line    int
	Column  int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

// IsOperand reports whether a token of this type can end an operand. A
// minus sign after such a token is a binary operator unless whitespace
// separates them and a digit follows it; elsewhere it may start a
// negative numeral.
func (tt TokenType) IsOperand() bool {
	switch tt {
	case IDENT, NUMBER, TEXT, RPAREN, RBRACE:
		return true
	}
	return false
}
