// Package analysis answers questions about the names occurring in a
// term: which variables are free and in what order, which constants are
// new to a registry, and which variables are used arithmetically.
package analysis

import (
	"slices"

	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/funterm/internal/term"
)

// FreeVars returns the names of the free variables of t.
func FreeVars(t term.Term) *set.Set[string] {
	return set.From(term.FreeNames(t))
}

// FreeVarSet returns the free variable names of t in order of first
// occurrence, visiting the argument of an application before its
// function.
func FreeVarSet(t term.Term) []string {
	return collectFree(t, false)
}

// FreeVarsInOrder returns the free variable names of t in order of first
// occurrence, function before argument: the left to right order of the
// written term.
func FreeVarsInOrder(t term.Term) []string {
	return collectFree(t, true)
}

func collectFree(t term.Term, fnFirst bool) []string {
	seen := set.New[string](0)
	var names []string
	var walk func(t term.Term, bindings *term.Bindings)
	walk = func(t term.Term, bindings *term.Bindings) {
		switch t := t.(type) {
		case *term.Variable:
			if _, bound := bindings.Lookup(t.Name()); !bound && seen.Insert(t.Name()) {
				names = append(names, t.Name())
			}
		case *term.Application:
			if fnFirst {
				walk(t.Fn(), bindings)
				walk(t.Arg(), bindings)
			} else {
				walk(t.Arg(), bindings)
				walk(t.Fn(), bindings)
			}
		case *term.Abstraction:
			name := t.Bound().Name()
			walk(t.Body(), bindings.Bind(name, name))
		}
	}
	if !term.IsClosed(t) {
		walk(t, nil)
	}
	return names
}

// AllNames returns the names of every variable and constant in t, bound
// variables included.
func AllNames(t term.Term) *set.Set[string] {
	names := make(map[string]struct{})
	term.AllNames(t, names)
	s := set.New[string](len(names))
	for name := range names {
		s.Insert(name)
	}
	return s
}

// UnmappedVars returns the free variable names of t that are not keys of
// mapping, sorted.
func UnmappedVars[V any](t term.Term, mapping map[string]V) []string {
	var names []string
	for _, name := range term.FreeNames(t) {
		if _, ok := mapping[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// Occurrences counts the free occurrences of the variable name in t.
func Occurrences(t term.Term, name string) int {
	if !term.HasFree(t, name) {
		return 0
	}
	switch t := t.(type) {
	case *term.Variable:
		return 1
	case *term.Application:
		return Occurrences(t.Fn(), name) + Occurrences(t.Arg(), name)
	case *term.Abstraction:
		return Occurrences(t.Body(), name)
	}
	return 0
}

// ConstantRegistry is the part of a symbol registry NewConstants needs.
type ConstantRegistry interface {
	IsNamedConstant(name string) bool
}

// NewConstants returns the names of the named constants in t that reg
// does not know, in order of first occurrence visiting arguments before
// functions. Literals are never new.
func NewConstants(t term.Term, reg ConstantRegistry) []string {
	seen := set.New[string](0)
	var names []string
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch t := t.(type) {
		case *term.Constant:
			if t.IsNamed() && !reg.IsNamedConstant(t.Name()) && seen.Insert(t.Name()) {
				names = append(names, t.Name())
			}
		case *term.Application:
			walk(t.Arg())
			walk(t.Fn())
		case *term.Abstraction:
			walk(t.Body())
		}
	}
	walk(t)
	return names
}

// ConstantNames returns the names of all constants in t, sorted.
func ConstantNames(t term.Term) []string {
	names := set.New[string](0)
	var walk func(t term.Term)
	walk = func(t term.Term) {
		switch t := t.(type) {
		case *term.Constant:
			names.Insert(t.Name())
		case *term.Application:
			walk(t.Fn())
			walk(t.Arg())
		case *term.Abstraction:
			walk(t.Body())
		}
	}
	walk(t)
	sorted := names.Slice()
	slices.Sort(sorted)
	return sorted
}
