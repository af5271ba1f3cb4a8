// Package subst implements capture-avoiding substitution and beta
// reduction over terms.
package subst

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/funterm/internal/term"
)

// Subst maps variable names to replacement terms.
type Subst map[string]term.Term

// Names returns the mapped names, sorted.
func (s Subst) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s Subst) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range s.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s[name].CanonicalString())
	}
	b.WriteByte('}')
	return b.String()
}

// Equal reports whether s and other map the same names to exactly the
// same terms.
func (s Subst) Equal(other Subst) bool {
	return maps.EqualFunc(s, other, term.SameAs)
}

// Substitute replaces the free occurrences of the mapped variables in t.
//
// A binder whose name is free in a replacement that can reach its body
// is renamed first, so no free variable of a replacement is ever
// captured. Fresh names avoid every name occurring in t, every free name
// of a replacement and every name generated earlier in the same call.
// Subterms containing no mapped free variable are returned as they are,
// and so is t itself when nothing is replaced.
//
// Substitute panics if a key of s is not a variable name.
func Substitute(t term.Term, s Subst) term.Term {
	mapping := make(map[string]term.Term, len(s))
	free := make(map[string]struct{})
	for name, repl := range s {
		if !term.IsVariableName(name) {
			panic(fmt.Sprintf("subst: key %q is not a variable name", name))
		}
		if v, ok := repl.(*term.Variable); ok && v.Name() == name {
			continue
		}
		mapping[name] = repl
		for _, n := range term.FreeNames(repl) {
			free[n] = struct{}{}
		}
	}
	if len(mapping) == 0 || !term.HasAnyFree(t, mapping) {
		return t
	}
	used := free
	term.AllNames(t, used)
	return (&substituter{used: used}).walk(t, mapping)
}

type substituter struct {
	used map[string]struct{}
}

func (s *substituter) walk(t term.Term, mapping map[string]term.Term) term.Term {
	if !term.HasAnyFree(t, mapping) {
		return t
	}
	switch t := t.(type) {
	case *term.Variable:
		return mapping[t.Name()]
	case *term.Application:
		fn := s.walk(t.Fn(), mapping)
		arg := s.walk(t.Arg(), mapping)
		if fn == t.Fn() && arg == t.Arg() {
			return t
		}
		return term.Apply(fn, arg)
	case *term.Abstraction:
		bound := t.Bound()
		scope := mapping
		if _, shadowed := mapping[bound.Name()]; shadowed {
			scope = maps.Clone(mapping)
			delete(scope, bound.Name())
		}
		if captures(scope, bound.Name()) {
			fresh := bound.Renamed(FreshName(bound.Name(), s.used))
			s.used[fresh.Name()] = struct{}{}
			if len(scope) == len(mapping) {
				scope = maps.Clone(mapping)
			}
			scope[bound.Name()] = fresh
			return term.Abstract(fresh, s.walk(t.Body(), scope))
		}
		body := s.walk(t.Body(), scope)
		if body == t.Body() {
			return t
		}
		return term.Abstract(bound, body)
	}
	return t
}

// captures reports whether a replacement in mapping has name free.
func captures(mapping map[string]term.Term, name string) bool {
	for _, repl := range mapping {
		if term.HasFree(repl, name) {
			return true
		}
	}
	return false
}

// FreshName returns name itself if it is not in used, otherwise the first
// of base_1, base_2, ... not in used, where base is the first character
// of name.
func FreshName(name string, used map[string]struct{}) string {
	if _, taken := used[name]; !taken {
		return name
	}
	r, _ := utf8.DecodeRuneInString(name)
	base := string(r)
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// Rename replaces free occurrences of the variable from with a variable
// named to.
func Rename(t term.Term, from, to string) (term.Term, error) {
	v, err := term.NewVariable(to)
	if err != nil {
		return nil, err
	}
	return Substitute(t, Subst{from: v}), nil
}
