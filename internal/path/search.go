package path

import (
	"slices"

	"github.com/funvibe/funterm/internal/term"
)

// PathTo finds the first subterm of t satisfying pred and returns a
// structural path to it. A term is tested before its parts, and the
// argument of an application before its function. Bound variables of
// abstractions are not visited.
func PathTo(t term.Term, pred func(term.Term) bool) (Path, bool) {
	rev, ok := pathTo(t, pred, nil)
	if !ok {
		return Empty, false
	}
	slices.Reverse(rev)
	return Path{segs: rev}, true
}

func pathTo(t term.Term, pred func(term.Term) bool, rev []Segment) ([]Segment, bool) {
	if pred(t) {
		return rev, true
	}
	switch t := t.(type) {
	case *term.Application:
		if found, ok := pathTo(t.Arg(), pred, append(rev, Arg)); ok {
			return found, true
		}
		return pathTo(t.Fn(), pred, append(rev, Fn))
	case *term.Abstraction:
		return pathTo(t.Body(), pred, append(rev, Body))
	}
	return nil, false
}

// PrettyPathTo is like PathTo but answers with pretty segments through
// binary operator calls, searching left operand, operator, then right
// operand. Other applications are searched function first.
func PrettyPathTo(t term.Term, pred func(term.Term) bool) (Path, bool) {
	segs, ok := prettyPathTo(t, pred)
	if !ok {
		return Empty, false
	}
	return Path{segs: segs}, true
}

func prettyPathTo(t term.Term, pred func(term.Term) bool) ([]Segment, bool) {
	if pred(t) {
		return nil, true
	}
	if left, op, right, ok := term.Operands(t); ok {
		parts := []struct {
			seg Segment
			sub term.Term
		}{{Left, left}, {Binop, op}, {Right, right}}
		for _, part := range parts {
			if rest, ok := prettyPathTo(part.sub, pred); ok {
				return append([]Segment{part.seg}, rest...), true
			}
		}
		return nil, false
	}
	switch t := t.(type) {
	case *term.Application:
		if rest, ok := prettyPathTo(t.Fn(), pred); ok {
			return append([]Segment{Fn}, rest...), true
		}
		if rest, ok := prettyPathTo(t.Arg(), pred); ok {
			return append([]Segment{Arg}, rest...), true
		}
	case *term.Abstraction:
		if rest, ok := prettyPathTo(t.Body(), pred); ok {
			return append([]Segment{Body}, rest...), true
		}
	}
	return nil, false
}

// LocateFree returns structural paths to every free occurrence of the
// variable name in t, leftmost first.
func LocateFree(t term.Term, name string) []Path {
	var paths []Path
	var walk func(t term.Term, segs []Segment)
	walk = func(t term.Term, segs []Segment) {
		switch t := t.(type) {
		case *term.Variable:
			if t.Name() == name {
				paths = append(paths, New(segs...))
			}
		case *term.Application:
			walk(t.Fn(), append(segs, Fn))
			walk(t.Arg(), append(segs, Arg))
		case *term.Abstraction:
			if t.Bound().Name() != name {
				walk(t.Body(), append(segs, Body))
			}
		}
	}
	if term.HasFree(t, name) {
		walk(t, nil)
	}
	return paths
}

// ReplaceAt returns t with the subterm at p replaced by xform applied to
// it. Terms off the path are shared with t, and t itself is returned when
// xform returns its input unchanged.
func ReplaceAt(t term.Term, p Path, xform func(term.Term) (term.Term, error)) (term.Term, error) {
	if p.IsEmpty() {
		return xform(t)
	}
	seg, rest := p.First(), p.Rest()
	if seg == Main {
		if !term.Implies(t) {
			return ReplaceAt(t, rest, xform)
		}
		seg = Right
	}

	if seg == Left || seg == Binop || seg == Right {
		left, op, right, ok := term.Operands(t)
		if !ok {
			return nil, NewNavigationError(seg, t)
		}
		var sub term.Term
		switch seg {
		case Left:
			sub = left
		case Binop:
			sub = op
		default:
			sub = right
		}
		replaced, err := ReplaceAt(sub, rest, xform)
		if err != nil {
			return nil, err
		}
		if replaced == sub {
			return t, nil
		}
		var fn term.Term = op
		switch seg {
		case Left:
			left = replaced
		case Right:
			right = replaced
		default:
			fn = replaced
		}
		return term.Apply(term.Apply(fn, left), right), nil
	}

	switch t := t.(type) {
	case *term.Application:
		switch seg {
		case Fn:
			fn, err := ReplaceAt(t.Fn(), rest, xform)
			if err != nil {
				return nil, err
			}
			if fn == t.Fn() {
				return t, nil
			}
			return term.Apply(fn, t.Arg()), nil
		case Arg:
			arg, err := ReplaceAt(t.Arg(), rest, xform)
			if err != nil {
				return nil, err
			}
			if arg == t.Arg() {
				return t, nil
			}
			return term.Apply(t.Fn(), arg), nil
		}
	case *term.Abstraction:
		if seg == Body {
			body, err := ReplaceAt(t.Body(), rest, xform)
			if err != nil {
				return nil, err
			}
			if body == t.Body() {
				return t, nil
			}
			return term.Abstract(t.Bound(), body), nil
		}
	}
	return nil, NewNavigationError(seg, t)
}

// LeftNeighbor returns the path to the operand written just left of the
// right operand at p, within a chain of calls to the given operators,
// such as b in a + b - c for the path to c.
func LeftNeighbor(t term.Term, p Path, ops []string) (Path, bool) {
	last, ok := p.Last()
	if !ok || last != Right {
		return Empty, false
	}
	parentPath, _ := p.Parent()
	parent, err := At(t, parentPath)
	if err != nil || !isCallToAny(parent, ops) {
		return Empty, false
	}
	left, _ := term.Left(parent)
	if isCallToAny(left, ops) {
		return parentPath.Append(Left, Right), true
	}
	return parentPath.Append(Left), true
}

// RightNeighbor is the mirror of LeftNeighbor.
func RightNeighbor(t term.Term, p Path, ops []string) (Path, bool) {
	if p.IsEmpty() {
		return Empty, false
	}
	parentPath, _ := p.Parent()
	parent, err := At(t, parentPath)
	if err != nil || !isCallToAny(parent, ops) {
		return Empty, false
	}
	last, _ := p.Last()
	if last == Left {
		return parentPath.Append(Right), true
	}
	grandPath, ok := parentPath.Parent()
	if !ok {
		return Empty, false
	}
	if parentLast, _ := parentPath.Last(); parentLast != Left {
		return Empty, false
	}
	grand, err := At(t, grandPath)
	if err != nil || !isCallToAny(grand, ops) {
		return Empty, false
	}
	return grandPath.Append(Right), true
}

func isCallToAny(t term.Term, ops []string) bool {
	op, err := term.BinOp(t)
	return err == nil && slices.Contains(ops, op.Name())
}
