package funterm_test

import (
	"errors"
	"reflect"
	"testing"

	funterm "github.com/funvibe/funterm/pkg/embed"
)

func TestEmbedAPI(t *testing.T) {
	eng, err := funterm.New(nil, funterm.WithDisplay(funterm.DisplayOptions{Unicode: true}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	target := eng.MustParse("{x. g x 7} + g 3 7")
	schema := eng.MustParse("{x. P x} + P 3")
	r, ok := eng.Match(target, schema)
	if !ok {
		t.Fatal("expected a match")
	}
	var res *funterm.MatchResult = r
	inst := funterm.Instantiate(schema, res)
	if !funterm.AlphaEquivalent(inst, target) {
		t.Errorf("Instantiate = %s, want %s", inst, target)
	}

	p, err := funterm.ParsePath("/right/fn")
	if err != nil {
		t.Fatal(err)
	}
	sub, err := eng.At(target, p)
	if err != nil || sub.CanonicalString() != "(g 3)" {
		t.Errorf("At = %v, %v", sub, err)
	}

	if got := eng.Display(eng.MustParse("p & q")); got != "(p ∧ q)" {
		t.Errorf("Display = %q", got)
	}

	_, err = funterm.NewVariable("foo")
	var nameErr *funterm.NameError
	if !errors.As(err, &nameErr) {
		t.Errorf("NewVariable(foo) error = %v", err)
	}
}

func TestMarshaller(t *testing.T) {
	m := funterm.NewMarshaller()

	tests := []struct {
		in   any
		want string
	}{
		{42, "42"},
		{uint8(7), "7"},
		{-3, "-3"},
		{"hi", `"hi"`},
		{true, "T"},
		{false, "F"},
	}
	for _, tt := range tests {
		got, err := m.ToTerm(tt.in)
		if err != nil {
			t.Fatalf("ToTerm(%v): %v", tt.in, err)
		}
		if got.CanonicalString() != tt.want {
			t.Errorf("ToTerm(%v) = %s, want %s", tt.in, got, tt.want)
		}
		back, err := m.FromTerm(got, reflect.TypeOf(tt.in))
		if err != nil {
			t.Fatalf("FromTerm(%s): %v", got, err)
		}
		if tt.in == uint8(7) {
			continue
		}
		if back != tt.in {
			t.Errorf("FromTerm(%s) = %#v, want %#v", got, back, tt.in)
		}
	}

	if _, err := m.ToTerm(3.5); err == nil {
		t.Error("floats are not literals")
	}
	if _, err := m.ToTerm(nil); err == nil {
		t.Error("nil has no term")
	}
	v := funterm.Apply(funterm.Text("f"), funterm.Integer(1))
	if s, err := m.FromTerm(v, reflect.TypeOf("")); err != nil || s != `("f" 1)` {
		t.Errorf("FromTerm as string = %v, %v", s, err)
	}
	if _, err := m.FromTerm(v, nil); err == nil {
		t.Error("an application has no Go value")
	}
}

func TestSubstituteValues(t *testing.T) {
	eng, err := funterm.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	m := funterm.NewMarshaller()
	got, err := m.SubstituteValues(eng.MustParse("x + n"), map[string]any{"x": 2, "n": "k"})
	if err != nil {
		t.Fatal(err)
	}
	if got.CanonicalString() != `((+ 2) "k")` {
		t.Errorf("SubstituteValues = %s", got)
	}
	if _, err := m.SubstituteValues(eng.MustParse("x"), map[string]any{"xyz": 1}); err == nil {
		t.Error("xyz is not a variable name")
	}
}
