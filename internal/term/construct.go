package term

import (
	"strconv"
)

// NewVariable returns a variable named name.
func NewVariable(name string) (*Variable, error) {
	if !IsVariableName(name) {
		return nil, NewNameError(name, "not a variable name")
	}
	return &Variable{name: name}, nil
}

// NewConstant returns a constant named name. Numerals and quoted text
// carry their literal value.
func NewConstant(name string) (*Constant, error) {
	return Aliased(name, name)
}

// Aliased returns a constant written as pname that denotes the constant
// named name, e.g. "==" written for "=".
func Aliased(pname, name string) (*Constant, error) {
	if err := checkConstantName(name); err != nil {
		return nil, err
	}
	if pname != name {
		if err := checkConstantName(pname); err != nil {
			return nil, err
		}
	}
	lit, err := parseLiteral(name)
	if err != nil {
		return nil, err
	}
	return &Constant{name: name, pname: pname, literal: lit}, nil
}

func checkConstantName(name string) error {
	switch {
	case name == "":
		return NewNameError(name, "empty name")
	case IsVariableName(name):
		return NewNameError(name, "spelled as a variable")
	case IsIdentifier(name), IsNumeral(name), IsOperatorName(name), IsTextLiteral(name):
		return nil
	default:
		return NewNameError(name, "not a constant name")
	}
}

// Named returns a variable or a constant, whichever the spelling of name
// calls for.
func Named(name string) (Term, error) {
	if IsVariableName(name) {
		return NewVariable(name)
	}
	return NewConstant(name)
}

// MustNamed is like Named but panics on a malformed name. For names known
// at compile time.
func MustNamed(name string) Term {
	t, err := Named(name)
	if err != nil {
		panic(err)
	}
	return t
}

// MustVariable is like NewVariable but panics on a malformed name.
func MustVariable(name string) *Variable {
	v, err := NewVariable(name)
	if err != nil {
		panic(err)
	}
	return v
}

// MustConstant is like NewConstant but panics on a malformed name.
func MustConstant(name string) *Constant {
	c, err := NewConstant(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Integer returns a numeral constant.
func Integer(n int64) *Constant {
	name := strconv.FormatInt(n, 10)
	return &Constant{name: name, pname: name, literal: n}
}

// Text returns a text literal constant.
func Text(s string) *Constant {
	name := strconv.Quote(s)
	return &Constant{name: name, pname: name, literal: s}
}

// Apply returns the application of fn to arg.
func Apply(fn, arg Term) *Application {
	return &Application{fn: fn, arg: arg}
}

// Abstract returns the abstraction binding v over body.
func Abstract(v *Variable, body Term) *Abstraction {
	return &Abstraction{bound: v, body: body}
}

// Call applies fn to each of args in turn: Call(f, a, b) is ((f a) b).
func Call(fn Term, args ...Term) Term {
	result := fn
	for _, arg := range args {
		result = Apply(result, arg)
	}
	return result
}

// Infix returns the binary call ((op left) right).
func Infix(left Term, op *Constant, right Term) *Application {
	return Apply(Apply(op, left), right)
}

// WithType returns a copy of the variable or constant t carrying typ.
// Other terms are returned unchanged.
func WithType(t Term, typ TypeHandle) Term {
	switch t := t.(type) {
	case *Variable:
		return &Variable{name: t.name, typ: typ}
	case *Constant:
		c := *t
		c.typ = typ
		return &c
	default:
		return t
	}
}

// Renamed returns a variable with the given name and the type of v.
func (v *Variable) Renamed(name string) *Variable {
	return &Variable{name: name, typ: v.typ}
}
