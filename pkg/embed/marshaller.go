package funterm

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/term"
)

// Marshaller converts between Go values and literal terms: integers,
// text, and the truth values T and F.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var termType = reflect.TypeOf((*term.Term)(nil)).Elem()

// ToTerm converts a Go value to a term. Terms are returned as they are.
func (m *Marshaller) ToTerm(val any) (term.Term, error) {
	if val == nil {
		return nil, fmt.Errorf("cannot convert nil to a term")
	}
	if t, ok := val.(term.Term); ok {
		return t, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return term.Integer(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d out of range", v.Uint())
		}
		return term.Integer(int64(v.Uint())), nil
	case reflect.Bool:
		if v.Bool() {
			return term.MustConstant(config.TrueName), nil
		}
		return term.MustConstant(config.FalseName), nil
	case reflect.String:
		return term.Text(v.String()), nil
	default:
		return nil, fmt.Errorf("unsupported type for conversion: %s", v.Type())
	}
}

// FromTerm converts a literal term to a Go value. targetType is optional;
// when given the result has that type.
func (m *Marshaller) FromTerm(t term.Term, targetType reflect.Type) (any, error) {
	if t == nil {
		return nil, nil
	}
	if targetType == termType {
		return t, nil
	}

	c, ok := t.(*term.Constant)
	if !ok {
		if targetType != nil && targetType.Kind() == reflect.String {
			return t.CanonicalString(), nil
		}
		return nil, fmt.Errorf("term %s is not a literal", t)
	}
	if n, ok := c.Int(); ok {
		if targetType != nil {
			switch targetType.Kind() {
			case reflect.Int64:
				return n, nil
			case reflect.Float64:
				return float64(n), nil
			case reflect.String:
				return c.Name(), nil
			}
		}
		return int(n), nil
	}
	if s, ok := c.Text(); ok {
		return s, nil
	}
	switch c.Name() {
	case config.TrueName:
		return true, nil
	case config.FalseName:
		return false, nil
	}
	if targetType != nil && targetType.Kind() == reflect.String {
		return c.Pname(), nil
	}
	return nil, fmt.Errorf("constant %s has no Go value", c.Name())
}

// SubstituteValues replaces the free variables named in values by the
// terms their Go values convert to.
func (m *Marshaller) SubstituteValues(t term.Term, values map[string]any) (term.Term, error) {
	s := make(subst.Subst, len(values))
	for name, val := range values {
		if !term.IsVariableName(name) {
			return nil, term.NewNameError(name, "not a variable name")
		}
		vt, err := m.ToTerm(val)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", name, err)
		}
		s[name] = vt
	}
	return subst.Substitute(t, s), nil
}
