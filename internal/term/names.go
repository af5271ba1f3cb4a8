package term

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/funvibe/funterm/internal/config"
)

var (
	variablePattern   = regexp.MustCompile(`^[a-zA-Z$][0-9_]*([.:]|$)|^_`)
	identifierPattern = regexp.MustCompile(`^[_$a-zA-Z][_a-zA-Z0-9]*[?]?$`)
	numeralPattern    = regexp.MustCompile(`^-?[0-9]+$`)
	operatorPattern   = regexp.MustCompile(`^[-+*/=<>!&|^%~?@#\\:]+$`)
)

var specialConstants = func() map[string]bool {
	m := make(map[string]bool, len(config.SpecialConstants))
	for _, name := range config.SpecialConstants {
		m[name] = true
	}
	return m
}()

// IsVariableName reports whether name is spelled as a variable: a single
// letter optionally followed by digits and underscores, or any name with
// a leading underscore. T, F, R and e are constants.
func IsVariableName(name string) bool {
	return variablePattern.MatchString(name) && !specialConstants[name]
}

// IsIdentifier reports whether name is alphanumeric.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IsNumeral reports whether name is an integer literal.
func IsNumeral(name string) bool {
	return numeralPattern.MatchString(name)
}

// IsOperatorName reports whether name consists of operator characters only.
func IsOperatorName(name string) bool {
	return operatorPattern.MatchString(name)
}

// IsTextLiteral reports whether name is a quoted text literal.
func IsTextLiteral(name string) bool {
	return strings.HasPrefix(name, `"`)
}

// NameError reports a malformed variable or constant name.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("bad name %q: %s", e.Name, e.Reason)
}

func NewNameError(name, reason string) *NameError {
	return &NameError{Name: name, Reason: reason}
}

// ShapeError reports an accessor applied to a term of the wrong variant.
type ShapeError struct {
	Op   string
	Want string
	Term Term
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: not %s: %s", e.Op, e.Want, e.Term)
}

func NewShapeError(op, want string, t Term) *ShapeError {
	return &ShapeError{Op: op, Want: want, Term: t}
}

// parseLiteral returns the literal value a constant spelled name carries.
func parseLiteral(name string) (any, error) {
	switch {
	case IsNumeral(name):
		n, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return nil, NewNameError(name, "numeral out of range")
		}
		return n, nil
	case IsTextLiteral(name):
		s, err := strconv.Unquote(name)
		if err != nil {
			return nil, NewNameError(name, "malformed text literal")
		}
		return s, nil
	}
	return nil, nil
}
