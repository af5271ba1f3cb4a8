// Package symbols holds the registry of named constants, name aliases and
// infix operators an engine instance knows about.
//
// The registry only grows: entries can be added but never removed or
// redefined, so a name once known keeps its meaning for the lifetime of
// the engine.
package symbols

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/term"
)

type SymbolKind int

const (
	ConstantSymbol SymbolKind = iota // named constant
	AliasSymbol                      // alternative spelling of a constant
	OperatorSymbol                   // infix operator with a binding power
)

func (k SymbolKind) String() string {
	switch k {
	case ConstantSymbol:
		return "constant"
	case AliasSymbol:
		return "alias"
	case OperatorSymbol:
		return "operator"
	}
	return "unknown"
}

// Symbol is one registry entry, as listed by Symbols and persisted by Store.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Target     string // canonical name, for aliases
	Precedence int    // binding power, for operators
}

// ConflictError reports an attempt to redefine an existing entry.
type ConflictError struct {
	Name     string
	Kind     SymbolKind
	Existing string
	New      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already defined as %s, cannot redefine as %s", e.Kind, e.Name, e.Existing, e.New)
}

// Registry is an add-only table of constants, aliases and operators.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	constants map[string]bool
	aliases   map[string]string
	operators map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constants: make(map[string]bool),
		aliases:   make(map[string]string),
		operators: make(map[string]int),
	}
}

// AddConstant registers a named constant. Adding a known name is a no-op.
func (r *Registry) AddConstant(name string) error {
	if _, err := term.NewConstant(name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constants[name] = true
	return nil
}

// AddAlias registers pname as another spelling of the constant name.
func (r *Registry) AddAlias(pname, name string) error {
	if _, err := term.Aliased(pname, name); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.aliases[pname]; ok && existing != name {
		return &ConflictError{Name: pname, Kind: AliasSymbol, Existing: existing, New: name}
	}
	r.aliases[pname] = name
	return nil
}

// AddOperator registers an infix operator with its binding power. The
// operator is also registered as a named constant.
func (r *Registry) AddOperator(op string, power int) error {
	if _, err := term.NewConstant(op); err != nil {
		return err
	}
	if power < 1 || power >= config.NamePower {
		return fmt.Errorf("operator %q: precedence %d out of range", op, power)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.operators[op]; ok && existing != power {
		return &ConflictError{
			Name:     op,
			Kind:     OperatorSymbol,
			Existing: fmt.Sprint(existing),
			New:      fmt.Sprint(power),
		}
	}
	r.operators[op] = power
	r.constants[op] = true
	return nil
}

// IsNamedConstant reports whether name is a registered constant.
func (r *Registry) IsNamedConstant(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.constants[name]
}

// Resolve returns the canonical name for pname: the alias target when
// pname is an alias, pname itself otherwise.
func (r *Registry) Resolve(pname string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.aliases[pname]; ok {
		return name
	}
	return pname
}

// Precedence returns the binding power of an infix operator. Both the
// alias and its target are looked up, the alias first.
func (r *Registry) Precedence(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.operators[name]; ok {
		return p, true
	}
	if target, ok := r.aliases[name]; ok {
		p, ok := r.operators[target]
		return p, ok
	}
	return 0, false
}

// IsInfix reports whether name is written between its operands.
func (r *Registry) IsInfix(name string) bool {
	_, ok := r.Precedence(name)
	return ok
}

// Symbols lists every entry, constants first, each group sorted by name.
func (r *Registry) Symbols() []Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Symbol
	for _, name := range slices.Sorted(maps.Keys(r.constants)) {
		out = append(out, Symbol{Name: name, Kind: ConstantSymbol})
	}
	for _, name := range slices.Sorted(maps.Keys(r.aliases)) {
		out = append(out, Symbol{Name: name, Kind: AliasSymbol, Target: r.aliases[name]})
	}
	for _, name := range slices.Sorted(maps.Keys(r.operators)) {
		out = append(out, Symbol{Name: name, Kind: OperatorSymbol, Precedence: r.operators[name]})
	}
	return out
}

// Add registers sym according to its kind.
func (r *Registry) Add(sym Symbol) error {
	switch sym.Kind {
	case ConstantSymbol:
		return r.AddConstant(sym.Name)
	case AliasSymbol:
		return r.AddAlias(sym.Name, sym.Target)
	case OperatorSymbol:
		return r.AddOperator(sym.Name, sym.Precedence)
	}
	return fmt.Errorf("symbol %q: unknown kind %d", sym.Name, sym.Kind)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.constants) + len(r.aliases) + len(r.operators)
}
