package term

import "sort"

var emptyNames = nameSet{}

func freeNames(t Term) nameSet {
	switch t := t.(type) {
	case *Variable:
		return nameSet{t.name: {}}
	case *Constant:
		return emptyNames
	case *Application:
		if s := t.free.Load(); s != nil {
			return *s
		}
		fn, arg := freeNames(t.fn), freeNames(t.arg)
		var s nameSet
		switch {
		case len(arg) == 0:
			s = fn
		case len(fn) == 0:
			s = arg
		default:
			s = make(nameSet, len(fn)+len(arg))
			for name := range fn {
				s[name] = struct{}{}
			}
			for name := range arg {
				s[name] = struct{}{}
			}
		}
		t.free.Store(&s)
		return s
	case *Abstraction:
		if s := t.free.Load(); s != nil {
			return *s
		}
		body := freeNames(t.body)
		s := body
		if _, ok := body[t.bound.name]; ok {
			s = make(nameSet, len(body)-1)
			for name := range body {
				if name != t.bound.name {
					s[name] = struct{}{}
				}
			}
		}
		t.free.Store(&s)
		return s
	default:
		panic("term: unknown term variant")
	}
}

// HasFree reports whether the variable name occurs free in t.
func HasFree(t Term, name string) bool {
	if v, ok := t.(*Variable); ok {
		return v.name == name
	}
	_, ok := freeNames(t)[name]
	return ok
}

// HasAnyFree reports whether any of names occurs free in t.
func HasAnyFree[V any](t Term, names map[string]V) bool {
	free := freeNames(t)
	if len(free) < len(names) {
		for name := range free {
			if _, ok := names[name]; ok {
				return true
			}
		}
		return false
	}
	for name := range names {
		if _, ok := free[name]; ok {
			return true
		}
	}
	return false
}

// FreeNames returns the names of the free variables of t, sorted.
func FreeNames(t Term) []string {
	free := freeNames(t)
	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsClosed reports whether t has no free variables.
func IsClosed(t Term) bool {
	return len(freeNames(t)) == 0
}

// AllNames adds the names of every variable and constant occurring in t,
// bound or free, to names.
func AllNames(t Term, names map[string]struct{}) {
	switch t := t.(type) {
	case *Variable:
		names[t.name] = struct{}{}
	case *Constant:
		names[t.name] = struct{}{}
	case *Application:
		AllNames(t.fn, names)
		AllNames(t.arg, names)
	case *Abstraction:
		names[t.bound.name] = struct{}{}
		AllNames(t.body, names)
	}
}
