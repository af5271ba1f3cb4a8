package term

// SameAs reports whether a and b are exactly the same term: identical
// structure and identical canonical names throughout, bound names included.
// Type handles are not compared.
func SameAs(a, b Term) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && a.name == bv.name
	case *Constant:
		bc, ok := b.(*Constant)
		return ok && a.name == bc.name
	case *Application:
		ba, ok := b.(*Application)
		return ok && SameAs(a.fn, ba.fn) && SameAs(a.arg, ba.arg)
	case *Abstraction:
		bl, ok := b.(*Abstraction)
		return ok && a.bound.name == bl.bound.name && SameAs(a.body, bl.body)
	}
	return false
}

// Matches reports whether a and b are equal up to a consistent
// correspondence of bound variables. The bindings pair names bound around
// a (From) with names bound around b (To); pass nil at top level.
func Matches(a, b Term, bindings *Bindings) bool {
	if a == b && bindings == nil {
		return true
	}
	switch a := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		if !ok {
			return false
		}
		if to, bound := bindings.Lookup(a.name); bound {
			return bv.name == to
		}
		if _, bound := bindings.FindTo(bv.name); bound {
			return false
		}
		return a.name == bv.name
	case *Constant:
		bc, ok := b.(*Constant)
		return ok && a.name == bc.name
	case *Application:
		ba, ok := b.(*Application)
		return ok && Matches(a.fn, ba.fn, bindings) && Matches(a.arg, ba.arg, bindings)
	case *Abstraction:
		bl, ok := b.(*Abstraction)
		return ok && Matches(a.body, bl.body, bindings.Bind(a.bound.name, bl.bound.name))
	}
	return false
}

// AlphaEquivalent reports whether a and b differ only by a renaming of
// variables: bound variables correspond pairwise, and free variables of a
// map injectively onto free variables of b.
func AlphaEquivalent(a, b Term) bool {
	fwd := make(map[string]string)
	rev := make(map[string]string)
	return alpha(a, b, nil, fwd, rev)
}

func alpha(a, b Term, bindings *Bindings, fwd, rev map[string]string) bool {
	switch a := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		if !ok {
			return false
		}
		if to, bound := bindings.Lookup(a.name); bound {
			return bv.name == to
		}
		if _, bound := bindings.FindTo(bv.name); bound {
			return false
		}
		if to, seen := fwd[a.name]; seen {
			return to == bv.name
		}
		if _, taken := rev[bv.name]; taken {
			return false
		}
		fwd[a.name] = bv.name
		rev[bv.name] = a.name
		return true
	case *Constant:
		bc, ok := b.(*Constant)
		return ok && a.name == bc.name
	case *Application:
		ba, ok := b.(*Application)
		return ok && alpha(a.fn, ba.fn, bindings, fwd, rev) && alpha(a.arg, ba.arg, bindings, fwd, rev)
	case *Abstraction:
		bl, ok := b.(*Abstraction)
		return ok && alpha(a.body, bl.body, bindings.Bind(a.bound.name, bl.bound.name), fwd, rev)
	}
	return false
}
