package analysis

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/term"
)

var (
	arithmeticOps = set.From([]string{"+", "-", "*", "/", "**"})
	orderingOps   = set.From([]string{"<", "<=", ">", ">="})
)

// MathVars returns the free variables of t that are used as real
// numbers: operands of arithmetic or ordering operators, arguments of neg
// and recip, and variables equated to a real-valued expression.
func MathVars(t term.Term) *set.Set[string] {
	vars := set.New[string](0)
	mathVars(t, nil, vars)
	return vars
}

// mathVars adds to vars and reports whether t itself is real-valued.
func mathVars(t term.Term, bound *set.Set[string], vars *set.Set[string]) bool {
	addFree := func(t term.Term) {
		if v, ok := t.(*term.Variable); ok && (bound == nil || !bound.Contains(v.Name())) {
			vars.Insert(v.Name())
		}
	}

	switch t := t.(type) {
	case *term.Application:
		if term.IsCall1Of(t, config.NegName) || term.IsCall1Of(t, config.RecipName) {
			addFree(t.Arg())
			mathVars(t.Arg(), bound, vars)
			return true
		}
		if left, op, right, ok := term.Operands(t); ok {
			isReal := false
			switch {
			case arithmeticOps.Contains(op.Name()):
				addFree(left)
				addFree(right)
				isReal = true
			case orderingOps.Contains(op.Name()):
				addFree(left)
				addFree(right)
			}
			leftReal := mathVars(left, bound, vars)
			rightReal := mathVars(right, bound, vars)
			if op.Name() == config.EqualsOp || op.Name() == config.NotEqOp {
				if leftReal {
					addFree(right)
				}
				if rightReal {
					addFree(left)
				}
			}
			return isReal
		}
		mathVars(t.Fn(), bound, vars)
		mathVars(t.Arg(), bound, vars)
	case *term.Abstraction:
		inner := set.New[string](1)
		if bound != nil {
			inner = bound.Copy()
		}
		inner.Insert(t.Bound().Name())
		mathVars(t.Body(), inner, vars)
	}
	return false
}

// MathVarConditions returns the conjunction (R x) & (R y) & ... over the
// math variables of t, in the order they are written. When base is not
// nil the conditions are conjoined onto it. The result is nil when there
// is neither a condition nor a base.
func MathVarConditions(t term.Term, base term.Term) term.Term {
	vars := MathVars(t)
	and := term.MustConstant(config.AndOp)
	realConst := term.MustConstant(config.RealName)
	result := base
	for _, name := range FreeVarsInOrder(t) {
		if !vars.Contains(name) {
			continue
		}
		cond := term.Apply(realConst, term.MustVariable(name))
		if result == nil {
			result = cond
		} else {
			result = term.Infix(result, and, cond)
		}
	}
	return result
}
