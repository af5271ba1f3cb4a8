package termset

import (
	"fmt"

	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// VarPrefix starts the names Map gives out: a1, a2 and so on.
const VarPrefix = "a"

type shadowed struct {
	key   string
	outer *term.Variable // nil when key was unmapped
}

// Map assigns a fresh variable to each distinct term added to it, keyed
// by canonical string. Variables bound with BindVar are scoped: Unbind
// restores whatever the name meant before.
//
// A Map is not safe for concurrent use.
type Map struct {
	counter int
	vars    map[string]*term.Variable
	subst   subst.Subst
	shadow  []shadowed
}

func NewMap() *Map {
	return &Map{
		vars:  make(map[string]*term.Variable),
		subst: make(subst.Subst),
	}
}

func (m *Map) fresh() *term.Variable {
	m.counter++
	return term.MustVariable(fmt.Sprintf("%s%d", VarPrefix, m.counter))
}

// Get returns the variable assigned to t, if any.
func (m *Map) Get(t term.Term) (*term.Variable, bool) {
	v, ok := m.vars[t.CanonicalString()]
	return v, ok
}

// AddTerm returns the variable assigned to t, assigning a fresh one the
// first time t is seen. The new variable stands for t in Subst.
func (m *Map) AddTerm(t term.Term) *term.Variable {
	key := t.CanonicalString()
	if v, ok := m.vars[key]; ok {
		return v
	}
	v := m.fresh()
	m.vars[key] = v
	m.subst[v.Name()] = t
	return v
}

// BindVar maps the bound variable v to a fresh variable until the
// matching Unbind. A bound variable does not appear in Subst.
func (m *Map) BindVar(v *term.Variable) *term.Variable {
	key := v.CanonicalString()
	outer := m.vars[key]
	m.shadow = append(m.shadow, shadowed{key: key, outer: outer})
	nv := m.fresh()
	m.vars[key] = nv
	return nv
}

// Unbind undoes the most recent BindVar.
func (m *Map) Unbind() {
	n := len(m.shadow)
	if n == 0 {
		panic("termset: Unbind without BindVar")
	}
	top := m.shadow[n-1]
	m.shadow = m.shadow[:n-1]
	if top.outer != nil {
		m.vars[top.key] = top.outer
	} else {
		delete(m.vars, top.key)
	}
}

// Subst returns a copy of the substitution from each assigned variable
// to its term.
func (m *Map) Subst() subst.Subst {
	out := make(subst.Subst, len(m.subst))
	for name, t := range m.subst {
		out[name] = t
	}
	return out
}

// Len returns the number of terms added with AddTerm.
func (m *Map) Len() int { return len(m.subst) }
