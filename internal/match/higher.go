package match

import (
	"slices"

	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// addFnMatch handles a schema call (P a1 ... an) whose head P is free
// and not yet mapped, where first-order matching against target failed.
// It binds P to {b1. ... {bn. target}}: bi is the target's counterpart
// of ai when ai is bound in context, and a fresh name otherwise, so that
// the call reduces to target in n beta steps.
//
// Every argument must be a variable, and every variable free in target
// but bound in its context must correspond to one of the arguments.
func addFnMatch(target term.Term, schema *term.Application, head *term.Variable, st state, bindings *term.Bindings) (state, bool) {
	args := term.Args(schema)
	argNames := make([]string, len(args))
	for i, arg := range args {
		v, ok := arg.(*term.Variable)
		if !ok {
			return st, false
		}
		argNames[i] = v.Name()
	}

	for _, name := range term.FreeNames(target) {
		if b, bound := bindings.FindTo(name); bound && !slices.Contains(argNames, b.From) {
			return st, false
		}
	}

	used := make(map[string]struct{})
	term.AllNames(target, used)
	for _, name := range argNames {
		if to, bound := bindings.Lookup(name); bound {
			used[to] = struct{}{}
		}
	}
	result := target
	for i := len(args) - 1; i >= 0; i-- {
		var binder *term.Variable
		if to, bound := bindings.Lookup(argNames[i]); bound {
			binder = args[i].(*term.Variable).Renamed(to)
		} else {
			// Unbound arguments are not substituted anywhere; any
			// name not occurring in target will do.
			fresh := subst.FreshName(argNames[i], used)
			used[fresh] = struct{}{}
			binder = args[i].(*term.Variable).Renamed(fresh)
		}
		result = term.Abstract(binder, result)
	}
	return st.expand(head.Name(), result, len(args)), true
}

// checkFnMatch handles a schema call whose head is already mapped, to an
// abstraction built by an earlier addFnMatch. It substitutes the mapping
// into the call and beta reduces it step by step, succeeding if some
// step matches target.
func checkFnMatch(target term.Term, schema *term.Application, head *term.Variable, st state, bindings *term.Bindings) bool {
	mapped, _ := st.subst.Get(head.Name())
	if !term.IsAbstraction(mapped) {
		return false
	}
	reduced := subst.Substitute(schema, subst.Subst{head.Name(): mapped})
	for range len(term.Args(schema)) {
		if term.Matches(reduced, target, bindings) {
			return true
		}
		next, ok := subst.ReduceHead(reduced)
		if !ok {
			return false
		}
		reduced = next
	}
	return term.Matches(reduced, target, bindings)
}
