// Package funterm is the public embedding API of the term engine. It
// re-exports the engine and the term, path, substitution and matching
// types so programs outside this module can use them.
package funterm

import (
	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/engine"
	"github.com/funvibe/funterm/internal/match"
	"github.com/funvibe/funterm/internal/path"
	"github.com/funvibe/funterm/internal/prettyprinter"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
)

type (
	Term        = term.Term
	Variable    = term.Variable
	Constant    = term.Constant
	Application = term.Application
	Abstraction = term.Abstraction
	TypeHandle  = term.TypeHandle

	Path    = path.Path
	Segment = path.Segment

	Subst       = subst.Subst
	MatchResult = match.Result

	Engine         = engine.Engine
	Option         = engine.Option
	Config         = config.Config
	DisplayOptions = prettyprinter.Options
	Registry       = symbols.Registry

	NameError       = term.NameError
	ShapeError      = term.ShapeError
	SegmentError    = path.SegmentError
	NavigationError = path.NavigationError
	ConflictError   = symbols.ConflictError
	SizeError       = engine.SizeError
)

var (
	New          = engine.New
	WithLogger   = engine.WithLogger
	WithRegistry = engine.WithRegistry
	WithDisplay  = engine.WithDisplay

	LoadConfig    = config.LoadConfig
	DefaultConfig = config.Default

	ParsePath = path.Parse

	NewVariable = term.NewVariable
	NewConstant = term.NewConstant
	Integer     = term.Integer
	Text        = term.Text
	Apply       = term.Apply
	Abstract    = term.Abstract
	Call        = term.Call
	Infix       = term.Infix

	Substitute      = subst.Substitute
	AlphaEquivalent = term.AlphaEquivalent
	Instantiate     = match.Instantiate
)
