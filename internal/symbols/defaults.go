package symbols

import (
	"fmt"
	"maps"
	"slices"

	"github.com/funvibe/funterm/internal/config"
)

// NewDefault returns a registry seeded with the built-in constants,
// aliases and operator table.
func NewDefault() *Registry {
	r := NewRegistry()
	if err := r.seed(config.DefaultConstants, config.DefaultAliases, config.Precedence); err != nil {
		panic(fmt.Sprintf("symbols: bad built-in table: %v", err))
	}
	return r
}

// FromConfig returns a default registry extended with the constants,
// aliases and operators declared in cfg. A config entry that contradicts
// a built-in one is an error.
func FromConfig(cfg *config.Config) (*Registry, error) {
	r := NewDefault()
	if cfg == nil {
		return r, nil
	}
	if err := r.seed(cfg.Constants, cfg.Aliases, cfg.Operators); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return r, nil
}

func (r *Registry) seed(constants []string, aliases map[string]string, operators map[string]int) error {
	for _, name := range constants {
		if err := r.AddConstant(name); err != nil {
			return err
		}
	}
	// Sorted so the first reported conflict does not depend on map order.
	for _, op := range slices.Sorted(maps.Keys(operators)) {
		if err := r.AddOperator(op, operators[op]); err != nil {
			return err
		}
	}
	for _, pname := range slices.Sorted(maps.Keys(aliases)) {
		if err := r.AddAlias(pname, aliases[pname]); err != nil {
			return err
		}
	}
	return nil
}
