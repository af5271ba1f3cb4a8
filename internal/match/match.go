// Package match finds substitutions that make a pattern or schema equal
// to a target term.
//
// Schema matching is first order where possible. When an application in
// the schema fails to match and its head is a free schema variable, the
// matcher falls back to a limited higher-order mode: it synthesizes an
// abstraction for the head variable that yields the target after beta
// reduction. The number of reductions needed is reported per variable.
package match

import (
	"github.com/funvibe/funterm/internal/persist"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// Result is a successful schema match.
type Result struct {
	// Subst maps schema variables to parts of the target.
	Subst subst.Subst
	// Expansions counts, for each variable bound to a synthesized
	// abstraction, how many beta reductions turn the instantiated schema
	// back into the target.
	Expansions map[string]int
}

// state is the working substitution. It is persistent: extending it
// yields a new state, so a failed branch leaves its caller's state as
// it was.
type state struct {
	subst      *persist.Map[term.Term]
	expansions *persist.Map[int]
}

func newState() state {
	return state{subst: persist.Empty[term.Term](), expansions: persist.Empty[int]()}
}

func (s state) bind(name string, value term.Term) state {
	return state{subst: s.subst.Put(name, value), expansions: s.expansions}
}

func (s state) expand(name string, value term.Term, n int) state {
	return state{subst: s.subst.Put(name, value), expansions: s.expansions.Put(name, n)}
}

func (s state) result() *Result {
	return &Result{Subst: subst.Subst(s.subst.ToMap()), Expansions: s.expansions.ToMap()}
}

// MatchPattern matches target against a purely syntactic pattern. Every
// variable of the pattern, bound variables included, is a pattern
// variable; constants match themselves. A variable seen twice must match
// terms that are equal up to bound variable names.
func MatchPattern(target, pattern term.Term) (subst.Subst, bool) {
	s := make(subst.Subst)
	if !matchPattern(target, pattern, s) {
		return nil, false
	}
	return s, true
}

func matchPattern(target, pattern term.Term, s subst.Subst) bool {
	switch p := pattern.(type) {
	case *term.Constant:
		return term.Matches(p, target, nil)
	case *term.Variable:
		if value, ok := s[p.Name()]; ok {
			return term.Matches(value, target, nil)
		}
		s[p.Name()] = target
		return true
	case *term.Application:
		t, ok := target.(*term.Application)
		return ok && matchPattern(t.Fn(), p.Fn(), s) && matchPattern(t.Arg(), p.Arg(), s)
	case *term.Abstraction:
		t, ok := target.(*term.Abstraction)
		return ok && matchPattern(t.Bound(), p.Bound(), s) && matchPattern(t.Body(), p.Body(), s)
	}
	return false
}

// MatchSchema finds a substitution for the free variables of schema that
// makes it match target, up to bound variable names and, where
// Result.Expansions says so, beta reduction.
//
// A free schema variable never maps to a term with a free occurrence of
// a variable bound around the position it matches. The first
// higher-order solution found is the one returned.
func MatchSchema(target, schema term.Term) (*Result, bool) {
	st, ok := matchSchema(target, schema, newState(), nil)
	if !ok {
		return nil, false
	}
	return st.result(), true
}

func matchSchema(target, schema term.Term, st state, bindings *term.Bindings) (state, bool) {
	switch sc := schema.(type) {
	case *term.Constant:
		return st, term.Matches(sc, target, nil)

	case *term.Variable:
		if to, bound := bindings.Lookup(sc.Name()); bound {
			v, ok := target.(*term.Variable)
			return st, ok && v.Name() == to
		}
		if escapes(target, bindings) {
			return st, false
		}
		if mapped, ok := st.subst.Get(sc.Name()); ok {
			return st, term.Matches(mapped, target, nil)
		}
		return st.bind(sc.Name(), target), true

	case *term.Application:
		if t, ok := target.(*term.Application); ok {
			if next, ok := matchSchema(t.Fn(), sc.Fn(), st, bindings); ok {
				if next, ok := matchSchema(t.Arg(), sc.Arg(), next, bindings); ok {
					return next, true
				}
			}
		}
		// First order failed; st is still the state on entry.
		head, ok := term.Func(sc).(*term.Variable)
		if !ok {
			return st, false
		}
		if _, bound := bindings.Lookup(head.Name()); bound {
			return st, false
		}
		if _, mapped := st.subst.Get(head.Name()); mapped {
			return st, checkFnMatch(target, sc, head, st, bindings)
		}
		return addFnMatch(target, sc, head, st, bindings)

	case *term.Abstraction:
		t, ok := target.(*term.Abstraction)
		if !ok {
			return st, false
		}
		return matchSchema(t.Body(), sc.Body(), st, bindings.Bind(sc.Bound().Name(), t.Bound().Name()))
	}
	return st, false
}

// escapes reports whether target has a free occurrence of a variable
// bound in its context.
func escapes(target term.Term, bindings *term.Bindings) bool {
	for b := bindings; b != nil; b = b.More {
		if term.HasFree(target, b.To) {
			return true
		}
	}
	return false
}
