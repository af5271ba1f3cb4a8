package subst

import "github.com/funvibe/funterm/internal/term"

// BetaReduce reduces a redex ({x. body} arg) to body with arg substituted
// for x. Other terms are returned unchanged with ok false.
func BetaReduce(t term.Term) (result term.Term, ok bool) {
	app, isApp := t.(*term.Application)
	if !isApp {
		return t, false
	}
	lam, isLam := app.Fn().(*term.Abstraction)
	if !isLam {
		return t, false
	}
	return Substitute(lam.Body(), Subst{lam.Bound().Name(): app.Arg()}), true
}

// ReduceHead performs one beta step on the innermost redex along the
// function spine of t: in (({x. {y. b}} 1) 2) that is ({x. {y. b}} 1).
// The spine above the redex is rebuilt around the result.
func ReduceHead(t term.Term) (term.Term, bool) {
	app, ok := t.(*term.Application)
	if !ok {
		return t, false
	}
	if fn, ok := ReduceHead(app.Fn()); ok {
		return term.Apply(fn, app.Arg()), true
	}
	return BetaReduce(app)
}

// Normalize reduces t in normal order, leftmost outermost redex first,
// for at most limit steps. It reports whether the result is in normal
// form; a term with no normal form stops at the limit.
func Normalize(t term.Term, limit int) (term.Term, bool) {
	for range limit {
		next, reduced := step(t)
		if !reduced {
			return t, true
		}
		t = next
	}
	_, reducible := step(t)
	return t, !reducible
}

func step(t term.Term) (term.Term, bool) {
	switch t := t.(type) {
	case *term.Application:
		if r, ok := BetaReduce(t); ok {
			return r, true
		}
		if fn, ok := step(t.Fn()); ok {
			return term.Apply(fn, t.Arg()), true
		}
		if arg, ok := step(t.Arg()); ok {
			return term.Apply(t.Fn(), arg), true
		}
	case *term.Abstraction:
		if body, ok := step(t.Body()); ok {
			return term.Abstract(t.Bound(), body), true
		}
	}
	return t, false
}
