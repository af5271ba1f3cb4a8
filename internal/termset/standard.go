package termset

import (
	"fmt"

	"github.com/funvibe/funterm/internal/analysis"
	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// StandardVars renames every variable of t to a1, a2, ... in order of
// first occurrence. Free variables are recorded in m's substitution;
// bound ones get their own names for the extent of their binder.
func (m *Map) StandardVars(t term.Term) term.Term {
	switch t := t.(type) {
	case *term.Variable:
		return m.AddTerm(t)
	case *term.Application:
		return term.Apply(m.StandardVars(t.Fn()), m.StandardVars(t.Arg()))
	case *term.Abstraction:
		bound := m.BindVar(t.Bound())
		body := m.StandardVars(t.Body())
		m.Unbind()
		return term.Abstract(bound, body)
	}
	return t
}

// StandardVars renames the variables of t with a new Map and returns the
// result together with the substitution that maps the new free variable
// names back.
func StandardVars(t term.Term) (term.Term, subst.Subst) {
	m := NewMap()
	return m.StandardVars(t), m.Subst()
}

// StandardSubst maps each free variable of t to a1, a2, ... in the order
// the variables are written.
func StandardSubst(t term.Term) subst.Subst {
	s := make(subst.Subst)
	for i, name := range analysis.FreeVarsInOrder(t) {
		s[name] = term.MustVariable(fmt.Sprintf("%s%d", VarPrefix, i+1))
	}
	return s
}

func isBoolOp(op *term.Constant) bool {
	switch op.Name() {
	case config.AndOp, config.OrOp, config.ImpliesOp:
		return true
	}
	return op.Pname() == config.EquivOp
}

// BoolSchema abstracts the propositional structure of t: connectives, not,
// T and F are kept and every other subterm becomes a variable, equal
// subterms getting the same one.
func (m *Map) BoolSchema(t term.Term) term.Term {
	if v, ok := m.Get(t); ok {
		return v
	}
	if left, op, right, ok := term.Operands(t); ok && isBoolOp(op) {
		l := m.BoolSchema(left)
		return term.Infix(l, op, m.BoolSchema(right))
	}
	if term.IsCall1Of(t, config.NotName) {
		app := t.(*term.Application)
		return term.Apply(app.Fn(), m.BoolSchema(app.Arg()))
	}
	if c, ok := t.(*term.Constant); ok && (c.Name() == config.TrueName || c.Name() == config.FalseName) {
		return t
	}
	return m.AddTerm(t)
}

// BoolSchema returns the propositional schema of t and the substitution
// that instantiates it back to t.
func BoolSchema(t term.Term) (term.Term, subst.Subst) {
	m := NewMap()
	return m.BoolSchema(t), m.Subst()
}
