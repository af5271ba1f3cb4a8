// Package prettyprinter renders terms for people: binary operator calls
// are written infix and names can be shown in unicode.
package prettyprinter

import (
	"strings"
	"sync"

	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
)

// InfixTable tells the printer which operators are written infix.
type InfixTable interface {
	IsInfix(name string) bool
}

var defaultTable = sync.OnceValue(func() InfixTable { return symbols.NewDefault() })

type Options struct {
	Unicode   bool       // use config.UnicodeNames and subscript digits
	ShowTypes bool       // append ":type" to typed variables
	Infix     InfixTable // nil means the built-in operator table
}

// Printer accumulates the display text of one or more terms.
type Printer struct {
	buf  strings.Builder
	opts Options
}

func NewPrinter(opts Options) *Printer {
	if opts.Infix == nil {
		opts.Infix = defaultTable()
	}
	return &Printer{opts: opts}
}

// Display returns the display text of t.
func Display(t term.Term, opts Options) string {
	p := NewPrinter(opts)
	p.Print(t)
	return p.String()
}

func (p *Printer) String() string {
	return p.buf.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

// Print appends the display text of t.
func (p *Printer) Print(t term.Term) {
	switch t := t.(type) {
	case *term.Variable:
		p.printVariable(t)
	case *term.Constant:
		p.write(p.constantName(t))
	case *term.Application:
		p.printApplication(t)
	case *term.Abstraction:
		p.write("{")
		p.printVariable(t.Bound())
		p.write(". ")
		p.Print(t.Body())
		p.write("}")
	}
}

func (p *Printer) printVariable(v *term.Variable) {
	if p.opts.Unicode {
		p.write(subscripted(v.Name()))
	} else {
		p.write(v.Name())
	}
	if p.opts.ShowTypes && v.Type() != nil {
		p.write(":")
		p.write(v.Type().String())
	}
}

func (p *Printer) constantName(c *term.Constant) string {
	if !p.opts.Unicode {
		return c.Pname()
	}
	if u, ok := config.UnicodeNames[c.Pname()]; ok {
		return u
	}
	if u, ok := config.UnicodeNames[c.Name()]; ok {
		return u
	}
	return c.Pname()
}

func (p *Printer) printApplication(a *term.Application) {
	left, op, right, ok := term.Operands(a)
	if !ok {
		p.write("(")
		p.Print(a.Fn())
		p.write(" ")
		p.Print(a.Arg())
		p.write(")")
		return
	}
	p.write("(")
	if p.opts.Infix.IsInfix(op.Pname()) {
		p.Print(left)
		p.write(" ")
		p.write(p.constantName(op))
		p.write(" ")
		p.Print(right)
	} else {
		p.write(p.constantName(op))
		p.write(" ")
		p.Print(left)
		p.write(" ")
		p.Print(right)
	}
	p.write(")")
}

// subscripted turns the digits after the first "_" or "." of a
// generated name into unicode subscripts: x_12 becomes x₁₂.
func subscripted(name string) string {
	i := strings.IndexAny(name, "_.")
	if i <= 0 || i == len(name)-1 {
		return name
	}
	sub := name[i+1:]
	var b strings.Builder
	b.WriteString(name[:i])
	for _, r := range sub {
		if r < '0' || r > '9' {
			return name
		}
		b.WriteRune('₀' + (r - '0'))
	}
	return b.String()
}
