package subst

import (
	"testing"

	"github.com/funvibe/funterm/internal/parser"
	"github.com/funvibe/funterm/internal/term"
)

func v(name string) term.Term { return term.MustVariable(name) }

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		subst Subst
		want  string
	}{
		{"capture in function part", "{y. x} x", Subst{"x": v("y")}, "({y_1. y} y)"},
		{"binder renamed", "{x. y x}", Subst{"y": v("x")}, "{x_1. (x x_1)}"},
		{"simultaneous", "x + y", Subst{"y": v("x"), "x": v("y")}, "((+ y) x)"},
		{"bound occurrence kept", "x + {x. x}", Subst{"x": v("a")}, "((+ a) {x. x})"},
		{"nested fresh names", "{x. {x_1. y x x_1}}", Subst{"y": v("x")}, "{x_2. {x_1. ((x x_2) x_1)}}"},
		{"compound replacement", "f x", Subst{"x": parser.MustParse("a + 1")}, "(f ((+ a) 1))"},
		{"no capture without need", "{z. x + z}", Subst{"x": v("y")}, "{z. ((+ y) z)}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Substitute(parser.MustParse(tt.input), tt.subst)
			if got.CanonicalString() != tt.want {
				t.Errorf("Substitute(%s, %s) = %s, want %s", tt.input, tt.subst, got, tt.want)
			}
		})
	}
}

func TestSubstituteSharing(t *testing.T) {
	tm := parser.MustParse("f x + g y")
	if got := Substitute(tm, Subst{"z": v("a")}); got != tm {
		t.Error("substituting an absent variable should return the input")
	}
	if got := Substitute(tm, Subst{"x": v("x")}); got != tm {
		t.Error("identity entries should be dropped")
	}
	lam := parser.MustParse("{x. x + 1}")
	if got := Substitute(lam, Subst{"x": v("b")}); got != lam {
		t.Error("only bound occurrences: input should come back")
	}

	got := Substitute(tm, Subst{"x": v("a")})
	oldRight, _ := term.Right(tm)
	newRight, _ := term.Right(got)
	if oldRight != newRight {
		t.Error("the untouched operand should be shared")
	}
}

func TestSubstitutePanicsOnBadKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a constant key")
		}
	}()
	Substitute(v("x"), Subst{"T": v("y")})
}

func TestFreshName(t *testing.T) {
	used := map[string]struct{}{"x": {}, "x_1": {}, "y": {}}
	if got := FreshName("z", used); got != "z" {
		t.Errorf("FreshName(z) = %s", got)
	}
	if got := FreshName("x", used); got != "x_2" {
		t.Errorf("FreshName(x) = %s, want x_2", got)
	}
	if got := FreshName("x_1", used); got != "x_2" {
		t.Errorf("FreshName(x_1) = %s, want x_2", got)
	}
}

func TestRename(t *testing.T) {
	got, err := Rename(parser.MustParse("x + {x. x} y"), "x", "w")
	if err != nil {
		t.Fatal(err)
	}
	if got.CanonicalString() != "((+ w) ({x. x} y))" {
		t.Errorf("Rename = %s", got)
	}
	if _, err := Rename(v("x"), "x", "not a name"); err == nil {
		t.Error("Rename to a bad name should fail")
	}
}

func TestSubstString(t *testing.T) {
	s := Subst{"y": v("b"), "x": parser.MustParse("a + 1")}
	if got := s.String(); got != "{x: ((+ a) 1), y: b}" {
		t.Errorf("String = %s", got)
	}
	if !s.Equal(Subst{"x": parser.MustParse("a + 1"), "y": v("b")}) {
		t.Error("Equal should compare structurally")
	}
}

func TestBetaReduce(t *testing.T) {
	got, ok := BetaReduce(parser.MustParse("{x. x + 1} 2"))
	if !ok || got.CanonicalString() != "((+ 2) 1)" {
		t.Errorf("BetaReduce = %s, %v", got, ok)
	}
	if _, ok := BetaReduce(parser.MustParse("f 2")); ok {
		t.Error("f 2 is not a redex")
	}
	// The argument's free y is not captured by the inner binder.
	got, _ = BetaReduce(parser.MustParse("{x. {y. x + y}} y"))
	if got.CanonicalString() != "{y_1. ((+ y) y_1)}" {
		t.Errorf("BetaReduce = %s", got)
	}
}

func TestReduceHead(t *testing.T) {
	got, ok := ReduceHead(parser.MustParse("{x. {y. x + y}} 1 2"))
	if !ok || got.CanonicalString() != "({y. ((+ 1) y)} 2)" {
		t.Errorf("ReduceHead = %s, %v", got, ok)
	}
	got, ok = ReduceHead(got)
	if !ok || got.CanonicalString() != "((+ 1) 2)" {
		t.Errorf("second ReduceHead = %s, %v", got, ok)
	}
	if _, ok := ReduceHead(got); ok {
		t.Error("no redex left on the spine")
	}
	if _, ok := ReduceHead(parser.MustParse("f ({x. x} 1)")); ok {
		t.Error("redex off the spine should not be reduced")
	}
}

func TestNormalize(t *testing.T) {
	got, done := Normalize(parser.MustParse("{f. {x. f (f x)}} g 7"), 10)
	if !done || got.CanonicalString() != "(g (g 7))" {
		t.Errorf("Normalize = %s, %v", got, done)
	}
	got, done = Normalize(parser.MustParse("f ({x. x} 1)"), 10)
	if !done || got.CanonicalString() != "(f 1)" {
		t.Errorf("Normalize = %s, %v", got, done)
	}
	if _, done := Normalize(parser.MustParse("{x. x x} {x. x x}"), 5); done {
		t.Error("omega has no normal form")
	}
}
