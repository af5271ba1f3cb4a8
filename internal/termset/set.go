// Package termset holds collections keyed by a term's canonical string,
// and the variable standardizations built on them.
package termset

import (
	"iter"

	"github.com/funvibe/funterm/internal/term"
)

// Set is a set of terms compared by canonical string. It remembers
// insertion order.
type Set struct {
	index map[string]int
	terms []term.Term
}

// NewSet returns a set holding terms.
func NewSet(terms ...term.Term) *Set {
	s := &Set{index: make(map[string]int, len(terms))}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was not already present.
func (s *Set) Add(t term.Term) bool {
	key := t.CanonicalString()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.terms)
	s.terms = append(s.terms, t)
	return true
}

// Has reports whether a term with the same canonical string is present.
func (s *Set) Has(t term.Term) bool {
	_, ok := s.index[t.CanonicalString()]
	return ok
}

// Remove deletes t and reports whether it was present.
func (s *Set) Remove(t term.Term) bool {
	key := t.CanonicalString()
	i, ok := s.index[key]
	if !ok {
		return false
	}
	delete(s.index, key)
	s.terms = append(s.terms[:i], s.terms[i+1:]...)
	for _, t := range s.terms[i:] {
		s.index[t.CanonicalString()]--
	}
	return true
}

func (s *Set) Len() int { return len(s.terms) }

// All yields the members in insertion order.
func (s *Set) All() iter.Seq[term.Term] {
	return func(yield func(term.Term) bool) {
		for _, t := range s.terms {
			if !yield(t) {
				return
			}
		}
	}
}

// Terms returns the members in insertion order.
func (s *Set) Terms() []term.Term {
	out := make([]term.Term, len(s.terms))
	copy(out, s.terms)
	return out
}
