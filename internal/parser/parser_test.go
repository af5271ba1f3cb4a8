package parser

import (
	"errors"
	"testing"

	"github.com/funvibe/funterm/internal/lexer"
	"github.com/funvibe/funterm/internal/pipeline"
	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
)

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"f x y", "((f x) y)"},
		{"a + b * c", "((+ a) ((* b) c))"},
		{"a + b - c", "((- ((+ a) b)) c)"},
		{"a * b ** c", "((* a) ((** b) c))"},
		{"p => q & r", "((=> p) ((& q) r))"},
		{"a == b", "((= a) b)"},
		{"x = y + neg (b * c)", "((= x) ((+ y) (neg ((* b) c))))"},
		{"f x + g x", "((+ (f x)) (g x))"},
		{"{x. x}", "{x. x}"},
		{"{y. y + z}", "{y. ((+ y) z)}"},
		{"x + {x. x} (x * y)", "((+ x) ({x. x} ((* x) y)))"},
		{"forall {x. exists {y. x < y + z}}", "(forall {x. (exists {y. ((< x) ((+ y) z))})})"},
		{"n divides m", "((divides n) m)"},
		{"x in S", "((in x) S)"},
		{"a * -1", "((* a) -1)"},
		{"x - 1", "((- x) 1)"},
		{"x-1", "((- x) 1)"},
		{"f -1", "(f -1)"},
		{`"hi" = s`, `((= "hi") s)`},
		{"(+)", "+"},
		{"a ~~ b", "((~~ a) b)"},
		{"T & F", "((& T) F)"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input, nil)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.input, err)
		}
		if got.CanonicalString() != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	inputs := []string{
		"a + neg (b * c)",
		"forall {x. P x => Q x}",
		"{f. {x. f (f x)}} g 7",
		`concat "a" "b\n"`,
		"x ~~ y",
		"n mod 2 = 0",
	}
	for _, input := range inputs {
		first := MustParse(input)
		again, err := Parse(first.CanonicalString(), nil)
		if err != nil {
			t.Fatalf("reparse of %s: %v", first, err)
		}
		if !term.SameAs(first, again) {
			t.Errorf("canonical %s read back as %s", first, again)
		}
	}
}

func TestCanonicalRoundTripBuilt(t *testing.T) {
	f := term.MustVariable("f")
	x := term.MustVariable("x")
	minusOne := term.Integer(-1)
	plus := term.MustConstant("+")
	implies := term.MustConstant("=>")

	terms := []term.Term{
		term.Apply(f, minusOne),
		term.Infix(x, plus, minusOne),
		term.Apply(term.MustConstant("neg"), minusOne),
		term.Apply(minusOne, term.Integer(-2)),
		term.Apply(f, implies),
		term.Apply(term.Apply(f, x), plus),
		term.Apply(plus, plus),
		term.Apply(f, term.MustConstant("divides")),
		term.Abstract(x, term.Apply(f, implies)),
		term.Infix(term.Apply(f, implies), implies, term.Apply(f, minusOne)),
	}
	for _, tm := range terms {
		again, err := Parse(tm.CanonicalString(), nil)
		if err != nil {
			t.Fatalf("reparse of %s: %v", tm, err)
		}
		if !term.SameAs(tm, again) {
			t.Errorf("canonical %s read back as %s", tm, again)
		}
	}
}

func TestParseKinds(t *testing.T) {
	tm := MustParse("x + neg 3")
	left, op, right, ok := term.Operands(tm)
	if !ok {
		t.Fatalf("not a binary call: %s", tm)
	}
	if !term.IsVariable(left) {
		t.Errorf("x should be a variable, got %s", left.Kind())
	}
	if op.Name() != "+" {
		t.Errorf("operator = %s", op)
	}
	arg, _ := term.Arg(right)
	if n, ok := arg.(*term.Constant).Int(); !ok || n != 3 {
		t.Errorf("numeral literal = %v", arg)
	}

	eq := MustParse("a == b")
	op, _ = term.BinOp(eq)
	if op.Pname() != "==" || op.Name() != "=" {
		t.Errorf("alias = %q/%q, want ==/=", op.Pname(), op.Name())
	}
}

func TestParseWithRegistry(t *testing.T) {
	reg := symbols.NewDefault()
	if err := reg.AddOperator("xor", 14); err != nil {
		t.Fatal(err)
	}
	got, err := Parse("p xor q & r", reg)
	if err != nil {
		t.Fatal(err)
	}
	if got.CanonicalString() != "((xor p) ((& q) r))" {
		t.Errorf("got %s", got)
	}

	// Without the operator, xor is an ordinary constant applied by juxtaposition.
	got, _ = Parse("p xor q", nil)
	if got.CanonicalString() != "((p xor) q)" {
		t.Errorf("got %s", got)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"",
		"(a + b",
		"{x y}",
		"{T. x}",
		"a )",
		"()",
		"a + ",
		`"open`,
	}
	for _, input := range tests {
		_, err := Parse(input, nil)
		var synErr *SyntaxError
		if !errors.As(err, &synErr) {
			t.Errorf("Parse(%q) error = %v, want *SyntaxError", input, err)
		}
	}
}

func TestParserProcessor(t *testing.T) {
	ctx := &pipeline.PipelineContext{SourceCode: "f x + 1"}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &ParserProcessor{}).Run(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", ctx.Err())
	}
	if ctx.Term.CanonicalString() != "((+ (f x)) 1)" {
		t.Errorf("term = %s", ctx.Term)
	}

	ctx = pipeline.New(&lexer.LexerProcessor{}, &ParserProcessor{}).Run(&pipeline.PipelineContext{SourceCode: "(x"})
	if ctx.Term != nil || len(ctx.Errors) != 1 {
		t.Errorf("want one error and no term, got %v / %v", ctx.Term, ctx.Errors)
	}
}
