package path

import (
	"fmt"

	"github.com/funvibe/funterm/internal/term"
)

// NavigationError reports a segment that does not apply to the shape of
// the term reached.
type NavigationError struct {
	Segment Segment
	Term    term.Term
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("path segment %q is not applicable to %s %s", e.Segment, e.Term.Kind(), e.Term)
}

func NewNavigationError(seg Segment, t term.Term) *NavigationError {
	return &NavigationError{Segment: seg, Term: t}
}

// Descend applies one segment to t. Pretty segments other than main apply
// only to binary operator calls. Main selects the right side of an
// implication and is the identity on any other term.
func Descend(t term.Term, seg Segment) (term.Term, error) {
	switch seg {
	case Main:
		if term.Implies(t) {
			return t.(*term.Application).Arg(), nil
		}
		return t, nil
	case Left, Binop, Right:
		left, op, right, ok := term.Operands(t)
		if !ok {
			return nil, NewNavigationError(seg, t)
		}
		switch seg {
		case Left:
			return left, nil
		case Binop:
			return op, nil
		default:
			return right, nil
		}
	case Fn, Arg:
		app, ok := t.(*term.Application)
		if !ok {
			return nil, NewNavigationError(seg, t)
		}
		if seg == Fn {
			return app.Fn(), nil
		}
		return app.Arg(), nil
	case Bound, Body:
		lam, ok := t.(*term.Abstraction)
		if !ok {
			return nil, NewNavigationError(seg, t)
		}
		if seg == Bound {
			return lam.Bound(), nil
		}
		return lam.Body(), nil
	}
	return nil, NewNavigationError(seg, t)
}

// At returns the subterm of t addressed by p.
func At(t term.Term, p Path) (term.Term, error) {
	for _, seg := range p.segs {
		next, err := Descend(t, seg)
		if err != nil {
			return nil, err
		}
		t = next
	}
	return t, nil
}

// Ancestors returns the terms visited while following p from t: t itself,
// then one term per segment. The addressed subterm is last.
func Ancestors(t term.Term, p Path) ([]term.Term, error) {
	result := make([]term.Term, 0, len(p.segs)+1)
	result = append(result, t)
	for _, seg := range p.segs {
		next, err := Descend(t, seg)
		if err != nil {
			return nil, err
		}
		t = next
		result = append(result, t)
	}
	return result, nil
}

// FindParent returns the path to the ancestor nearest to the subterm at p
// (the subterm included) that satisfies pred.
func FindParent(t term.Term, p Path, pred func(term.Term) bool) (Path, bool, error) {
	ancestors, err := Ancestors(t, p)
	if err != nil {
		return Empty, false, err
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		if pred(ancestors[i]) {
			return Path{segs: p.segs[:i]}, true, nil
		}
	}
	return Empty, false, nil
}

// Prettify rewrites a structural path into the pretty dialect: on binary
// operator calls fn/fn becomes binop, fn/arg becomes left and arg becomes
// right. Elsewhere segments are kept.
func Prettify(t term.Term, p Path) (Path, error) {
	out := make([]Segment, 0, len(p.segs))
	segs := p.segs
	for len(segs) > 0 {
		if left, op, right, ok := term.Operands(t); ok {
			switch {
			case segs[0] == Fn && len(segs) > 1 && segs[1] == Fn:
				out, t, segs = append(out, Binop), op, segs[2:]
				continue
			case segs[0] == Fn && len(segs) > 1 && segs[1] == Arg:
				out, t, segs = append(out, Left), left, segs[2:]
				continue
			case segs[0] == Arg:
				out, t, segs = append(out, Right), right, segs[1:]
				continue
			}
		}
		next, err := Descend(t, segs[0])
		if err != nil {
			return Empty, err
		}
		out, t, segs = append(out, segs[0]), next, segs[1:]
	}
	return Path{segs: out}, nil
}

// Expand rewrites a path into the structural dialect, the inverse of
// Prettify. Main expands to arg on an implication and to nothing elsewhere.
func Expand(t term.Term, p Path) (Path, error) {
	out := make([]Segment, 0, len(p.segs)+2)
	for _, seg := range p.segs {
		next, err := Descend(t, seg)
		if err != nil {
			return Empty, err
		}
		switch seg {
		case Left:
			out = append(out, Fn, Arg)
		case Binop:
			out = append(out, Fn, Fn)
		case Right:
			out = append(out, Arg)
		case Main:
			if term.Implies(t) {
				out = append(out, Arg)
			}
		default:
			out = append(out, seg)
		}
		t = next
	}
	return Path{segs: out}, nil
}

// BoundNames returns the variables bound around the subterm at p, keyed by
// name. Inner bindings shadow outer ones.
func BoundNames(t term.Term, p Path) (map[string]*term.Variable, error) {
	bound := make(map[string]*term.Variable)
	for _, seg := range p.segs {
		if lam, ok := t.(*term.Abstraction); ok {
			bound[lam.Bound().Name()] = lam.Bound()
		}
		next, err := Descend(t, seg)
		if err != nil {
			return nil, err
		}
		t = next
	}
	return bound, nil
}

// FreeBound returns the names free in the subterm at p that are bound in
// its context, sorted.
func FreeBound(t term.Term, p Path) ([]string, error) {
	bound, err := BoundNames(t, p)
	if err != nil {
		return nil, err
	}
	target, err := At(t, p)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, name := range term.FreeNames(target) {
		if _, ok := bound[name]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}
