package term

import "github.com/funvibe/funterm/internal/config"

func IsVariable(t Term) bool {
	_, ok := t.(*Variable)
	return ok
}

func IsConstant(t Term) bool {
	_, ok := t.(*Constant)
	return ok
}

func IsApplication(t Term) bool {
	_, ok := t.(*Application)
	return ok
}

func IsAbstraction(t Term) bool {
	_, ok := t.(*Abstraction)
	return ok
}

// IsNamedConstant reports whether t is a constant without a literal value.
func IsNamedConstant(t Term) bool {
	c, ok := t.(*Constant)
	return ok && c.IsNamed()
}

// IsNumeralTerm reports whether t is an integer literal.
func IsNumeralTerm(t Term) bool {
	c, ok := t.(*Constant)
	if !ok {
		return false
	}
	_, isInt := c.Int()
	return isInt
}

// IsCall1 reports whether t is an application of a constant to one argument.
func IsCall1(t Term) bool {
	a, ok := t.(*Application)
	return ok && IsConstant(a.fn)
}

// IsCall1Of reports whether t is (name arg).
func IsCall1Of(t Term, name string) bool {
	a, ok := t.(*Application)
	if !ok {
		return false
	}
	c, ok := a.fn.(*Constant)
	return ok && c.name == name
}

// IsCall2 reports whether t has the binary operator shape ((c l) r) with c
// a constant.
func IsCall2(t Term) bool {
	_, ok := binop(t)
	return ok
}

// IsCall2Of reports whether t is a binary call to the operator named op.
func IsCall2Of(t Term, op string) bool {
	c, ok := binop(t)
	return ok && c.name == op
}

func binop(t Term) (*Constant, bool) {
	a, ok := t.(*Application)
	if !ok {
		return nil, false
	}
	inner, ok := a.fn.(*Application)
	if !ok {
		return nil, false
	}
	c, ok := inner.fn.(*Constant)
	return c, ok
}

// IsLambdaCall reports whether t applies an abstraction to an argument.
func IsLambdaCall(t Term) bool {
	a, ok := t.(*Application)
	return ok && IsAbstraction(a.fn)
}

// Implies reports whether t is a binary call to "=>".
func Implies(t Term) bool { return IsCall2Of(t, config.ImpliesOp) }

// IsEquation reports whether t is a binary call to "=".
func IsEquation(t Term) bool { return IsCall2Of(t, config.EqualsOp) }

// Fn returns the function part of an application.
func Fn(t Term) (Term, error) {
	if a, ok := t.(*Application); ok {
		return a.fn, nil
	}
	return nil, NewShapeError("fn", "an application", t)
}

// Arg returns the argument part of an application.
func Arg(t Term) (Term, error) {
	if a, ok := t.(*Application); ok {
		return a.arg, nil
	}
	return nil, NewShapeError("arg", "an application", t)
}

// Bound returns the bound variable of an abstraction.
func Bound(t Term) (*Variable, error) {
	if l, ok := t.(*Abstraction); ok {
		return l.bound, nil
	}
	return nil, NewShapeError("bound", "an abstraction", t)
}

// Body returns the body of an abstraction.
func Body(t Term) (Term, error) {
	if l, ok := t.(*Abstraction); ok {
		return l.body, nil
	}
	return nil, NewShapeError("body", "an abstraction", t)
}

// BinOp returns the operator of a binary call.
func BinOp(t Term) (*Constant, error) {
	if c, ok := binop(t); ok {
		return c, nil
	}
	return nil, NewShapeError("binop", "a binary call", t)
}

// Left returns the left operand of a binary call.
func Left(t Term) (Term, error) {
	if _, ok := binop(t); ok {
		return t.(*Application).fn.(*Application).arg, nil
	}
	return nil, NewShapeError("left", "a binary call", t)
}

// Right returns the right operand of a binary call.
func Right(t Term) (Term, error) {
	if _, ok := binop(t); ok {
		return t.(*Application).arg, nil
	}
	return nil, NewShapeError("right", "a binary call", t)
}

// Operands returns left and right operands and the operator of a binary
// call, with ok false for other terms.
func Operands(t Term) (left Term, op *Constant, right Term, ok bool) {
	op, ok = binop(t)
	if !ok {
		return nil, nil, nil, false
	}
	a := t.(*Application)
	return a.fn.(*Application).arg, op, a.arg, true
}

// Func returns the head of a call chain: the first function part that is
// not itself an application. Returns nil if t is not an application.
func Func(t Term) Term {
	a, ok := t.(*Application)
	if !ok {
		return nil
	}
	var head Term = a
	for {
		app, ok := head.(*Application)
		if !ok {
			return head
		}
		head = app.fn
	}
}

// Args returns the actual arguments of a call chain, first argument
// first. Returns nil for terms that are not applications.
func Args(t Term) []Term {
	var rev []Term
	for {
		a, ok := t.(*Application)
		if !ok {
			break
		}
		rev = append(rev, a.arg)
		t = a.fn
	}
	args := make([]Term, len(rev))
	for i, arg := range rev {
		args[len(rev)-1-i] = arg
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// NthArg returns argument n (counting from 1) of a call chain.
func NthArg(t Term, n int) (Term, bool) {
	args := Args(t)
	if n < 1 || n > len(args) {
		return nil, false
	}
	return args[n-1], true
}
