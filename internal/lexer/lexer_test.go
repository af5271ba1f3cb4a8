package lexer

import (
	"testing"

	"github.com/funvibe/funterm/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `{x. f x} (+ a) = -7 x - 1 a*-2 "hi\n" empty? => <= divides`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.DOT, "."},
		{token.IDENT, "f"},
		{token.IDENT, "x"},
		{token.RBRACE, "}"},
		{token.LPAREN, "("},
		{token.OPERATOR, "+"},
		{token.IDENT, "a"},
		{token.RPAREN, ")"},
		{token.OPERATOR, "="},
		{token.NUMBER, "-7"},
		{token.IDENT, "x"},
		{token.OPERATOR, "-"},
		{token.NUMBER, "1"},
		{token.IDENT, "a"},
		{token.OPERATOR, "*"},
		{token.NUMBER, "-2"},
		{token.TEXT, `"hi\n"`},
		{token.IDENT, "empty?"},
		{token.OPERATOR, "=>"},
		{token.OPERATOR, "<="},
		{token.IDENT, "divides"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	toks := Tokenize(`-12 "a\"b"`)
	if n, ok := toks[0].Literal.(int64); !ok || n != -12 {
		t.Errorf("numeral literal = %v", toks[0].Literal)
	}
	if s, ok := toks[1].Literal.(string); !ok || s != `a"b` {
		t.Errorf("text literal = %v", toks[1].Literal)
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("a +\n  -3")
	want := [][2]int{{1, 1}, {1, 3}, {2, 3}}
	for i, w := range want {
		if toks[i].Line != w[0] || toks[i].Column != w[1] {
			t.Errorf("token %d (%s) at %d:%d, want %d:%d", i, toks[i], toks[i].Line, toks[i].Column, w[0], w[1])
		}
	}
}

func TestIllegal(t *testing.T) {
	tests := []string{`"open`, "a ; b", "99999999999999999999"}
	for _, input := range tests {
		found := false
		for _, tok := range Tokenize(input) {
			if tok.Type == token.ILLEGAL {
				found = true
			}
		}
		if !found {
			t.Errorf("Tokenize(%q) produced no ILLEGAL token", input)
		}
	}
}

func TestMinusAfterOperand(t *testing.T) {
	tests := []struct {
		input string
		types []token.TokenType
	}{
		{"f -1", []token.TokenType{token.IDENT, token.NUMBER, token.EOF}},
		{"(f x) -1", []token.TokenType{token.LPAREN, token.IDENT, token.IDENT, token.RPAREN, token.NUMBER, token.EOF}},
		{"f - 1", []token.TokenType{token.IDENT, token.OPERATOR, token.NUMBER, token.EOF}},
		{"f-1", []token.TokenType{token.IDENT, token.OPERATOR, token.NUMBER, token.EOF}},
		{"(f)-1", []token.TokenType{token.LPAREN, token.IDENT, token.RPAREN, token.OPERATOR, token.NUMBER, token.EOF}},
	}
	for _, tt := range tests {
		toks := Tokenize(tt.input)
		if len(toks) != len(tt.types) {
			t.Fatalf("Tokenize(%q) = %v, want %d tokens", tt.input, toks, len(tt.types))
		}
		for i, want := range tt.types {
			if toks[i].Type != want {
				t.Errorf("Tokenize(%q)[%d] = %s, want %s", tt.input, i, toks[i].Type, want)
			}
		}
	}
}
