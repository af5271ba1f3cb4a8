package path

import (
	"errors"
	"testing"

	"github.com/funvibe/funterm/internal/parser"
	"github.com/funvibe/funterm/internal/term"
)

func named(name string) func(term.Term) bool {
	return func(t term.Term) bool { return t.CanonicalString() == name }
}

func TestPathTo(t *testing.T) {
	tm := parser.MustParse("f x + g x")

	// The argument is searched before the function, so the x of g x wins.
	p, ok := PathTo(tm, named("x"))
	if !ok || p.String() != "/arg/arg" {
		t.Errorf("PathTo(x) = %q, %v, want /arg/arg", p, ok)
	}
	if p, ok := PathTo(tm, named("f")); !ok || p.String() != "/fn/arg/fn" {
		t.Errorf("PathTo(f) = %q", p)
	}
	if p, ok := PathTo(tm, term.IsCall2); !ok || !p.IsEmpty() {
		t.Errorf("PathTo should test the root first, got %q", p)
	}
	if _, ok := PathTo(tm, named("h")); ok {
		t.Error("PathTo(h) should be absent")
	}

	// Round trip through text for every path PathTo produces.
	for _, name := range []string{"f", "g", "x", "+", "(g x)"} {
		p, ok := PathTo(tm, named(name))
		if !ok {
			t.Fatalf("PathTo(%s) absent", name)
		}
		again, err := Parse(p.String())
		if err != nil || !again.Equal(p) {
			t.Errorf("Parse(%q) did not round trip", p)
		}
	}

	lam := parser.MustParse("{y. y + z}")
	if p, ok := PathTo(lam, named("z")); !ok || p.String() != "/body/arg" {
		t.Errorf("PathTo(z) in lambda = %q", p)
	}
}

func TestPrettyPathTo(t *testing.T) {
	tm := parser.MustParse("f x + g x")
	p, ok := PrettyPathTo(tm, named("x"))
	if !ok || p.String() != "/left/arg" {
		t.Errorf("PrettyPathTo(x) = %q, want /left/arg", p)
	}
	if p, _ := PrettyPathTo(tm, named("+")); p.String() != "/binop" {
		t.Errorf("PrettyPathTo(+) = %q", p)
	}
	if p, _ := PrettyPathTo(tm, named("g")); p.String() != "/right/fn" {
		t.Errorf("PrettyPathTo(g) = %q", p)
	}
}

func TestLocateFree(t *testing.T) {
	tm := parser.MustParse("x + {x. x} (x * y)")
	paths := LocateFree(tm, "x")
	var got []string
	for _, p := range paths {
		got = append(got, p.String())
	}
	want := []string{"/fn/arg", "/arg/arg/fn/arg"}
	if len(got) != len(want) {
		t.Fatalf("LocateFree = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LocateFree[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if len(LocateFree(tm, "z")) != 0 {
		t.Error("z does not occur")
	}
}

func TestReplaceAt(t *testing.T) {
	tm := parser.MustParse("a + b * c")
	replacement := term.MustVariable("d")
	put := func(term.Term) (term.Term, error) { return replacement, nil }

	tests := []struct {
		path string
		want string
	}{
		{"/left", "((+ d) ((* b) c))"},
		{"/right/right", "((+ a) ((* b) d))"},
		{"/right/arg", "((+ a) ((* b) d))"},
		{"/right/fn/arg", "((+ a) ((* d) c))"},
		{"", "d"},
	}
	for _, tt := range tests {
		got, err := ReplaceAt(tm, MustParse(tt.path), put)
		if err != nil {
			t.Fatalf("ReplaceAt(%q): %v", tt.path, err)
		}
		if got.CanonicalString() != tt.want {
			t.Errorf("ReplaceAt(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}

	minus := term.MustConstant("-")
	swapped, err := ReplaceAt(tm, MustParse("/binop"), func(term.Term) (term.Term, error) { return minus, nil })
	if err != nil || swapped.CanonicalString() != "((- a) ((* b) c))" {
		t.Errorf("ReplaceAt(/binop) = %v, %v", swapped, err)
	}

	// Untouched branches are shared.
	got, _ := ReplaceAt(tm, MustParse("/left"), put)
	oldRight, _ := At(tm, MustParse("/right"))
	newRight, _ := At(got, MustParse("/right"))
	if oldRight != newRight {
		t.Error("right operand should be shared")
	}
	same, _ := ReplaceAt(tm, MustParse("/right/left"), func(t term.Term) (term.Term, error) { return t, nil })
	if same != tm {
		t.Error("identity replacement should return the input")
	}

	boom := errors.New("boom")
	if _, err := ReplaceAt(tm, MustParse("/left"), func(term.Term) (term.Term, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("error from xform lost: %v", err)
	}
	var navErr *NavigationError
	if _, err := ReplaceAt(tm, MustParse("/left/left"), put); !errors.As(err, &navErr) {
		t.Errorf("ReplaceAt(/left/left) error = %v", err)
	}

	imp := parser.MustParse("p => q")
	got, _ = ReplaceAt(imp, MustParse("/main"), put)
	if got.CanonicalString() != "((=> p) d)" {
		t.Errorf("ReplaceAt(/main) = %s", got)
	}
}

func TestBoundNames(t *testing.T) {
	tm := parser.MustParse("forall {x. exists {y. x < y + z}}")
	p, ok := PathTo(tm, named("((+ y) z)"))
	if !ok {
		t.Fatal("subterm not found")
	}
	bound, err := BoundNames(tm, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(bound) != 2 || bound["x"] == nil || bound["y"] == nil {
		t.Errorf("BoundNames = %v", bound)
	}
	free, err := FreeBound(tm, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(free) != 1 || free[0] != "y" {
		t.Errorf("FreeBound = %v, want [y]", free)
	}
}

func TestNeighbors(t *testing.T) {
	tm := parser.MustParse("a + b - c")
	ops := []string{"+", "-"}

	left, ok := LeftNeighbor(tm, MustParse("/right"), ops)
	if !ok || left.String() != "/left/right" {
		t.Errorf("LeftNeighbor(c) = %q, %v", left, ok)
	}
	left, ok = LeftNeighbor(tm, MustParse("/left/right"), ops)
	if !ok || left.String() != "/left/left" {
		t.Errorf("LeftNeighbor(b) = %q, %v", left, ok)
	}
	if _, ok := LeftNeighbor(tm, MustParse("/left/left"), ops); ok {
		t.Error("a has no left neighbor")
	}

	right, ok := RightNeighbor(tm, MustParse("/left/right"), ops)
	if !ok || right.String() != "/right" {
		t.Errorf("RightNeighbor(b) = %q, %v", right, ok)
	}
	right, ok = RightNeighbor(tm, MustParse("/left/left"), ops)
	if !ok || right.String() != "/left/right" {
		t.Errorf("RightNeighbor(a) = %q, %v", right, ok)
	}
	if _, ok := RightNeighbor(tm, MustParse("/right"), ops); ok {
		t.Error("c has no right neighbor")
	}
	if _, ok := RightNeighbor(tm, MustParse("/right"), []string{"*"}); ok {
		t.Error("operators outside the list do not chain")
	}
}
