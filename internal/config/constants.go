package config

const ConfigFileName = "funterm.yaml"

// ConfigFileNames are all recognized config file names, in lookup order.
var ConfigFileNames = []string{"funterm.yaml", "funterm.yml"}

// IsTestMode indicates if the program is running in test mode.
// Set once at startup; quiets logging in the engine.
var IsTestMode = false

// Path segment names
const (
	SegFn    = "fn"
	SegArg   = "arg"
	SegBound = "bound"
	SegBody  = "body"
	SegLeft  = "left"
	SegBinop = "binop"
	SegRight = "right"
	SegMain  = "main"
)

// Special constants. Single letters that would otherwise read as variables.
const (
	TrueName  = "T"
	FalseName = "F"
	RealName  = "R"
	EulerName = "e"
)

// SpecialConstants are the single-letter names that are never variables.
var SpecialConstants = []string{TrueName, FalseName, RealName, EulerName}

// Logical and arithmetic operator names the engine looks at structurally.
const (
	ImpliesOp  = "=>"
	EqualsOp   = "="
	EquivOp    = "=="
	NotEqOp    = "!="
	AndOp      = "&"
	OrOp       = "|"
	NotName    = "not"
	NegName    = "neg"
	RecipName  = "recip"
	ForallName = "forall"
	ExistsName = "exists"
)

// Binding power of names without an entry in the precedence table.
const (
	NamePower  = 100
	InfixPower = 70
	UnaryPower = 200
)

// Precedence is the default infix operator table. Higher binds tighter.
var Precedence = map[string]int{
	"==":      2,
	"=>":      11,
	"??":      12,
	"|":       13,
	"&":       15,
	"=":       20,
	"!=":      20,
	"<":       20,
	"<=":      20,
	">":       20,
	">=":      20,
	"divides": 20,
	"in":      20,
	"notin":   20,
	"+":       30,
	"-":       30,
	"*":       40,
	"/":       40,
	"div":     40,
	"mod":     40,
	"**":      50,
}

// DefaultAliases map a name as written to its canonical constant name.
var DefaultAliases = map[string]string{
	"==": "=",
}

// DefaultConstants are named (non-literal) constants known at startup.
var DefaultConstants = []string{
	"T", "F", "R", "e", "not", "neg", "recip", "forall", "exists", "exists1",
	"if", "the", "iota", "pi", "sqrt", "abs", "div", "mod", "divides",
	"in", "notin", "??", "=", "!=", "<", "<=", ">", ">=", "+", "-", "*",
	"/", "**", "&", "|", "=>",
}

// UnicodeNames maps a constant name to its display form in unicode mode.
var UnicodeNames = map[string]string{
	"==":     "≡",
	"&":      "∧",
	"|":      "∨",
	"not":    "¬",
	"=>":     "⇒",
	"!=":     "≠",
	"<=":     "≤",
	">=":     "≥",
	"**":     "**",
	"*":      "⋅",
	"-":      "−",
	"forall": "∀",
	"exists": "∃",
	"R":      "ℝ",
	"iota":   "℩",
	"in":     "∈",
	"notin":  "∉",
}
