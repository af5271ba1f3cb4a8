package match

import (
	"github.com/funvibe/funterm/internal/path"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// AlphaMatch reports whether a and b differ only in the names of their
// variables, free or bound. On success the substitution maps each free
// variable name of a to the variable of b it corresponds to.
func AlphaMatch(a, b term.Term) (subst.Subst, bool) {
	r, ok := MatchSchema(b, a)
	if !ok {
		return nil, false
	}
	seen := make(map[string]bool, len(r.Subst))
	for _, value := range r.Subst {
		v, ok := value.(*term.Variable)
		if !ok || seen[v.Name()] {
			return nil, false
		}
		seen[v.Name()] = true
	}
	return r.Subst, true
}

// MatchSchemaPart matches schema against the subterm of target that
// contains the term at p in the position where part occurs in schema.
// It returns the match and the pretty path to the matched subterm. An
// error means p does not address a subterm of target.
//
// For example with target (a + b) * c, p addressing a, schema x + y and
// part x, the subterm a + b is matched, giving {x: a, y: b} at /left.
func MatchSchemaPart(target term.Term, p path.Path, schema, part term.Term) (*Result, path.Path, bool, error) {
	targetPath, err := path.Prettify(target, p)
	if err != nil {
		return nil, path.Empty, false, err
	}
	schemaPath, ok := path.PrettyPathTo(schema, func(t term.Term) bool {
		return term.Matches(t, part, nil)
	})
	if !ok {
		return nil, path.Empty, false, nil
	}
	prefix, ok := targetPath.UpTo(schemaPath)
	if !ok {
		return nil, path.Empty, false, nil
	}
	sub, err := path.At(target, prefix)
	if err != nil {
		return nil, path.Empty, false, err
	}
	r, ok := MatchSchema(sub, schema)
	if !ok {
		return nil, path.Empty, false, nil
	}
	return r, prefix, true, nil
}

// Instantiate substitutes a match result into schema and performs the
// beta reductions recorded in its expansions, so that the outcome matches
// the target the schema was matched against.
func Instantiate(schema term.Term, r *Result) term.Term {
	inst := subst.Substitute(schema, r.Subst)
	if len(r.Expansions) == 0 {
		return inst
	}
	return reduceExpansions(schema, inst, r.Expansions, nil)
}

// reduceExpansions walks schema and its instance in parallel. Both have
// the same shape down to the schema's variables, which substitution
// replaced.
func reduceExpansions(schema, inst term.Term, expansions map[string]int, bound map[string]bool) term.Term {
	switch sc := schema.(type) {
	case *term.Application:
		app, ok := inst.(*term.Application)
		if !ok {
			return inst
		}
		if head, ok := term.Func(sc).(*term.Variable); ok && !bound[head.Name()] {
			if n := expansions[head.Name()]; n > 0 && n == len(term.Args(sc)) {
				reduced := term.Term(app)
				for range n {
					reduced, _ = subst.ReduceHead(reduced)
				}
				return reduced
			}
		}
		fn := reduceExpansions(sc.Fn(), app.Fn(), expansions, bound)
		arg := reduceExpansions(sc.Arg(), app.Arg(), expansions, bound)
		if fn == app.Fn() && arg == app.Arg() {
			return inst
		}
		return term.Apply(fn, arg)
	case *term.Abstraction:
		lam, ok := inst.(*term.Abstraction)
		if !ok {
			return inst
		}
		inner := make(map[string]bool, len(bound)+1)
		for name := range bound {
			inner[name] = true
		}
		inner[sc.Bound().Name()] = true
		body := reduceExpansions(sc.Body(), lam.Body(), expansions, inner)
		if body == lam.Body() {
			return inst
		}
		return term.Abstract(lam.Bound(), body)
	}
	return inst
}
