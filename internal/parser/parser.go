// Package parser reads term text into terms.
//
// The grammar is small: juxtaposition is application and binds tighter
// than any infix operator; infix operators take their binding power from
// the symbol registry and associate to the left; {x. body} is an
// abstraction; an operator standing where an operand is expected, or
// closing a group, is the operator constant itself, so (+ a) is the
// partial application of + and (f =>) applies f to =>.
// Canonical strings therefore read back as the terms they came from.
package parser

import (
	"fmt"
	"sync"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/lexer"
	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
	"github.com/funvibe/funterm/internal/token"
)

const (
	LOWEST            = 0
	MaxRecursionDepth = 1000
)

// SyntaxError reports malformed term text.
type SyntaxError struct {
	Line   int
	Column int
	Token  string
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

func newSyntaxError(tok token.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line:   tok.Line,
		Column: tok.Column,
		Token:  tok.Lexeme,
		Msg:    fmt.Sprintf(format, args...),
	}
}

type Parser struct {
	tokens []token.Token
	pos    int
	reg    *symbols.Registry
	depth  int

	curToken  token.Token
	peekToken token.Token
}

// New returns a parser over tokens, which must end with an EOF token.
// A nil registry means the default one.
func New(tokens []token.Token, reg *symbols.Registry) *Parser {
	if reg == nil {
		reg = DefaultRegistry()
	}
	p := &Parser{tokens: tokens, reg: reg}
	p.nextToken()
	p.nextToken()
	return p
}

// DefaultRegistry returns the shared built-in registry used when none is
// given.
var DefaultRegistry = sync.OnceValue(symbols.NewDefault)

// Parse reads text as a single term.
func Parse(text string, reg *symbols.Registry) (term.Term, error) {
	return New(lexer.Tokenize(text), reg).ParseTerm()
}

// MustParse reads text with the default registry and panics on error.
// For terms written in code and tests.
func MustParse(text string) term.Term {
	t, err := Parse(text, nil)
	if err != nil {
		panic(fmt.Sprintf("parse %q: %v", text, err))
	}
	return t
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) error {
	if !p.peekTokenIs(t) {
		return newSyntaxError(p.peekToken, "expected %s, got %s", t, p.peekToken)
	}
	p.nextToken()
	return nil
}

// ParseTerm parses the whole token stream as one term.
func (p *Parser) ParseTerm() (term.Term, error) {
	if p.curTokenIs(token.EOF) {
		return nil, newSyntaxError(p.curToken, "empty input")
	}
	t, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if !p.peekTokenIs(token.EOF) {
		return nil, newSyntaxError(p.peekToken, "unexpected %s after term", p.peekToken)
	}
	return t, nil
}

// infixPower returns the binding power of tok used as an infix operator.
// Any operator token is infix, unknown ones at the default power; an
// identifier is infix only if registered as such.
func (p *Parser) infixPower(tok token.Token) (int, bool) {
	switch tok.Type {
	case token.OPERATOR:
		if power, ok := p.reg.Precedence(tok.Lexeme); ok {
			return power, true
		}
		return config.InfixPower, true
	case token.IDENT:
		return p.reg.Precedence(tok.Lexeme)
	}
	return 0, false
}

func (p *Parser) parseExpression(precedence int) (term.Term, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		return nil, newSyntaxError(p.curToken, "term too deeply nested")
	}

	left, err := p.parseApplication()
	if err != nil {
		return nil, err
	}
	for {
		power, ok := p.infixPower(p.peekToken)
		if !ok || precedence >= power {
			return left, nil
		}
		p.nextToken()
		op, err := p.constant(p.curToken)
		if err != nil {
			return nil, err
		}
		p.nextToken()
		right, err := p.parseExpression(power)
		if err != nil {
			return nil, err
		}
		left = term.Infix(left, op, right)
	}
}

func (p *Parser) parseApplication() (term.Term, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peekStartsOperand() {
		p.nextToken()
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = term.Apply(left, arg)
	}
	return left, nil
}

// peekStartsOperand reports whether the next token is an argument of the
// application being read. An infix operator is one only when it closes
// a group, as in (f =>); a + at the end of input is still an error.
func (p *Parser) peekStartsOperand() bool {
	switch p.peekToken.Type {
	case token.NUMBER, token.TEXT, token.LPAREN, token.LBRACE:
		return true
	case token.IDENT, token.OPERATOR:
		if _, infix := p.infixPower(p.peekToken); !infix {
			return true
		}
		switch p.afterPeek().Type {
		case token.RPAREN, token.RBRACE:
			return true
		}
	}
	return false
}

// afterPeek returns the token following peekToken.
func (p *Parser) afterPeek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) parseAtom() (term.Term, error) {
	tok := p.curToken
	switch tok.Type {
	case token.IDENT:
		if term.IsVariableName(tok.Lexeme) {
			v, err := term.NewVariable(tok.Lexeme)
			if err != nil {
				return nil, newSyntaxError(tok, "%v", err)
			}
			return v, nil
		}
		return p.constant(tok)
	case token.OPERATOR:
		return p.constant(tok)
	case token.NUMBER:
		return term.Integer(tok.Literal.(int64)), nil
	case token.TEXT:
		return term.Text(tok.Literal.(string)), nil
	case token.LPAREN:
		return p.parseGrouped()
	case token.LBRACE:
		return p.parseAbstraction()
	case token.ILLEGAL:
		return nil, newSyntaxError(tok, "%v: %s", tok.Literal, tok)
	case token.EOF:
		return nil, newSyntaxError(tok, "unexpected end of input")
	}
	return nil, newSyntaxError(tok, "unexpected %s", tok)
}

// constant builds the constant written as tok, resolving aliases.
func (p *Parser) constant(tok token.Token) (*term.Constant, error) {
	c, err := term.Aliased(tok.Lexeme, p.reg.Resolve(tok.Lexeme))
	if err != nil {
		return nil, newSyntaxError(tok, "%v", err)
	}
	return c, nil
}

func (p *Parser) parseGrouped() (term.Term, error) {
	p.nextToken() // consume '('
	if p.curTokenIs(token.RPAREN) {
		return nil, newSyntaxError(p.curToken, "empty parentheses")
	}
	t, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RPAREN); err != nil {
		return nil, err
	}
	return t, nil
}

// parseAbstraction parses {x. body}.
func (p *Parser) parseAbstraction() (term.Term, error) {
	if err := p.expectPeek(token.IDENT); err != nil {
		return nil, err
	}
	tok := p.curToken
	if !term.IsVariableName(tok.Lexeme) {
		return nil, newSyntaxError(tok, "cannot bind %s: not a variable name", tok)
	}
	bound := term.MustVariable(tok.Lexeme)
	if err := p.expectPeek(token.DOT); err != nil {
		return nil, err
	}
	p.nextToken()
	body, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if err := p.expectPeek(token.RBRACE); err != nil {
		return nil, err
	}
	return term.Abstract(bound, body), nil
}
