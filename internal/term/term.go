// Package term implements the immutable expression trees of the engine:
// variables, constants, applications and abstractions.
//
// Terms never change after construction. Any transformation builds a new
// term that shares the untouched subtrees of its input, so terms can be
// handed across goroutines freely. Derived values (canonical string, free
// variable names) are computed lazily and cached on the instance.
package term

import (
	"sync/atomic"
)

// Term is a node of an expression tree. The set of implementations is
// closed: *Variable, *Constant, *Application and *Abstraction.
type Term interface {
	// CanonicalString is the alias-resolved text form used as the
	// identity of a term in collections. It reads back through the parser.
	CanonicalString() string
	String() string
	Kind() Kind
	isTerm()
}

type Kind int

const (
	KindVariable Kind = iota
	KindConstant
	KindApplication
	KindAbstraction
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindApplication:
		return "application"
	case KindAbstraction:
		return "abstraction"
	default:
		return "unknown"
	}
}

// TypeHandle is an opaque type attached to a variable or constant. The
// engine only checks for its presence and prints it on request.
type TypeHandle interface {
	String() string
}

// nameSet is a read-only set of names once published through a memo.
type nameSet map[string]struct{}

// memo caches derived values. Concurrent first computations may race;
// both produce the same value, and either write is fine.
type memo struct {
	canon atomic.Pointer[string]
	free  atomic.Pointer[nameSet]
	size  atomic.Int64
}

// Variable is a named placeholder, free or bound depending on context.
type Variable struct {
	name string
	typ  TypeHandle
}

func (v *Variable) Name() string            { return v.name }
func (v *Variable) Type() TypeHandle        { return v.typ }
func (v *Variable) CanonicalString() string { return v.name }
func (v *Variable) String() string          { return v.name }
func (v *Variable) Kind() Kind              { return KindVariable }
func (v *Variable) isTerm()                 {}

// Constant is a name with fixed meaning, optionally carrying a literal
// value (integer or text).
type Constant struct {
	name    string // canonical name after alias resolution
	pname   string // name as written
	literal any    // nil, int64 or string
	typ     TypeHandle
}

func (c *Constant) Name() string            { return c.name }
func (c *Constant) Pname() string           { return c.pname }
func (c *Constant) Type() TypeHandle        { return c.typ }
func (c *Constant) CanonicalString() string { return c.name }
func (c *Constant) String() string          { return c.name }
func (c *Constant) Kind() Kind              { return KindConstant }
func (c *Constant) isTerm()                 {}

// IsLiteral reports whether the constant carries a literal value.
func (c *Constant) IsLiteral() bool { return c.literal != nil }

// IsNamed reports whether the constant is a plain named constant.
func (c *Constant) IsNamed() bool { return c.literal == nil }

// Int returns the integer value of a numeral.
func (c *Constant) Int() (int64, bool) {
	n, ok := c.literal.(int64)
	return n, ok
}

// Text returns the value of a text literal.
func (c *Constant) Text() (string, bool) {
	s, ok := c.literal.(string)
	return s, ok
}

// Application applies Fn to Arg.
type Application struct {
	fn  Term
	arg Term
	memo
}

func (a *Application) Fn() Term   { return a.fn }
func (a *Application) Arg() Term  { return a.arg }
func (a *Application) Kind() Kind { return KindApplication }
func (a *Application) isTerm()    {}

func (a *Application) CanonicalString() string {
	if s := a.canon.Load(); s != nil {
		return *s
	}
	s := "(" + a.fn.CanonicalString() + " " + a.arg.CanonicalString() + ")"
	a.canon.Store(&s)
	return s
}

func (a *Application) String() string { return a.CanonicalString() }

// Abstraction binds a variable over a body.
type Abstraction struct {
	bound *Variable
	body  Term
	memo
}

func (l *Abstraction) Bound() *Variable { return l.bound }
func (l *Abstraction) Body() Term       { return l.body }
func (l *Abstraction) Kind() Kind       { return KindAbstraction }
func (l *Abstraction) isTerm()          {}

func (l *Abstraction) CanonicalString() string {
	if s := l.canon.Load(); s != nil {
		return *s
	}
	s := "{" + l.bound.name + ". " + l.body.CanonicalString() + "}"
	l.canon.Store(&s)
	return s
}

func (l *Abstraction) String() string { return l.CanonicalString() }

// Size returns the number of nodes in t.
func Size(t Term) int {
	switch t := t.(type) {
	case *Application:
		if n := t.size.Load(); n > 0 {
			return int(n)
		}
		n := 1 + Size(t.fn) + Size(t.arg)
		t.size.Store(int64(n))
		return n
	case *Abstraction:
		if n := t.size.Load(); n > 0 {
			return int(n)
		}
		n := 2 + Size(t.body)
		t.size.Store(int64(n))
		return n
	default:
		return 1
	}
}
