// Package engine ties the term packages together behind one instance
// that owns a symbol registry, a logger and display settings.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/funvibe/funterm/internal/analysis"
	"github.com/funvibe/funterm/internal/config"
	"github.com/funvibe/funterm/internal/lexer"
	"github.com/funvibe/funterm/internal/match"
	"github.com/funvibe/funterm/internal/parser"
	"github.com/funvibe/funterm/internal/path"
	"github.com/funvibe/funterm/internal/pipeline"
	"github.com/funvibe/funterm/internal/prettyprinter"
	"github.com/funvibe/funterm/internal/subst"
	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
)

// Engine is safe for concurrent use once constructed. The registry may
// grow while requests are being served.
type Engine struct {
	id          uuid.UUID
	registry    *symbols.Registry
	logger      *slog.Logger
	display     prettyprinter.Options
	maxTermSize int
}

type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry replaces the registry built from the config.
func WithRegistry(r *symbols.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithDisplay overrides the display options from the config.
func WithDisplay(opts prettyprinter.Options) Option {
	return func(e *Engine) { e.display = opts }
}

// New returns an engine configured by cfg. A nil cfg means defaults.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		id:     uuid.New(),
		logger: slog.New(slog.DiscardHandler),
		display: prettyprinter.Options{
			Unicode:   cfg.Display.Unicode,
			ShowTypes: cfg.Display.ShowTypes,
		},
		maxTermSize: cfg.Server.MaxTermSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		reg, err := symbols.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		e.registry = reg
	}
	if e.display.Infix == nil {
		e.display.Infix = e.registry
	}
	e.logger = e.logger.With("engine", e.id.String())
	e.logger.Debug("engine ready", "symbols", e.registry.Len())
	return e, nil
}

func (e *Engine) ID() uuid.UUID                         { return e.id }
func (e *Engine) Registry() *symbols.Registry           { return e.registry }
func (e *Engine) Logger() *slog.Logger                  { return e.logger }
func (e *Engine) DisplayOptions() prettyprinter.Options { return e.display }

// SizeError reports a term larger than the engine accepts.
type SizeError struct {
	Size int
	Max  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("term has %d nodes, limit is %d", e.Size, e.Max)
}

func (e *Engine) newContext(source string) *pipeline.PipelineContext {
	return &pipeline.PipelineContext{SourceCode: source, Registry: e.registry}
}

func (e *Engine) checkSize(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Term == nil || e.maxTermSize <= 0 {
		return ctx
	}
	if n := term.Size(ctx.Term); n > e.maxTermSize {
		ctx.AddError(&SizeError{Size: n, Max: e.maxTermSize})
		ctx.Term = nil
	}
	return ctx
}

// Parse reads a term written in the engine's notation.
func (e *Engine) Parse(text string) (term.Term, error) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		pipeline.ProcessorFunc(e.checkSize),
	).Run(e.newContext(text))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ctx.Term, nil
}

// MustParse is Parse for known-good input.
func (e *Engine) MustParse(text string) term.Term {
	t, err := e.Parse(text)
	if err != nil {
		panic(fmt.Sprintf("engine: MustParse(%q): %v", text, err))
	}
	return t
}

// Display renders t with the engine's display options.
func (e *Engine) Display(t term.Term) string {
	return prettyprinter.Display(t, e.display)
}

// Operation transforms a parsed term in Run.
type Operation func(t term.Term) (term.Term, error)

// Run parses source, applies op and renders the result. A nil op renders
// the parsed term itself.
func (e *Engine) Run(source string, op Operation) (term.Term, string, error) {
	apply := pipeline.ProcessorFunc(func(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
		if ctx.Term == nil {
			return ctx
		}
		if op == nil {
			ctx.Result = ctx.Term
			return ctx
		}
		result, err := op(ctx.Term)
		if err != nil {
			ctx.AddError(err)
			return ctx
		}
		ctx.Result = result
		return ctx
	})
	render := pipeline.ProcessorFunc(func(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
		if ctx.Result != nil {
			ctx.Output = e.Display(ctx.Result)
		}
		return ctx
	})
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		pipeline.ProcessorFunc(e.checkSize),
		apply,
		render,
	).Run(e.newContext(source))
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return ctx.Result, ctx.Output, nil
}

// Match matches target against schema, allowing higher-order variables
// in the schema.
func (e *Engine) Match(target, schema term.Term) (*match.Result, bool) {
	return match.MatchSchema(target, schema)
}

// MatchPattern matches target against a first-order pattern.
func (e *Engine) MatchPattern(target, pattern term.Term) (subst.Subst, bool) {
	return match.MatchPattern(target, pattern)
}

func (e *Engine) Substitute(t term.Term, s subst.Subst) term.Term {
	return subst.Substitute(t, s)
}

func (e *Engine) At(t term.Term, p path.Path) (term.Term, error) {
	return path.At(t, p)
}

func (e *Engine) Prettify(t term.Term, p path.Path) (path.Path, error) {
	return path.Prettify(t, p)
}

func (e *Engine) PathTo(t term.Term, pred func(term.Term) bool) (path.Path, bool) {
	return path.PathTo(t, pred)
}

// FreeVars returns the free variable names of t, sorted.
func (e *Engine) FreeVars(t term.Term) []string {
	return term.FreeNames(t)
}

// NewConstants returns the named constants of t the registry does not
// know yet.
func (e *Engine) NewConstants(t term.Term) []string {
	return analysis.NewConstants(t, e.registry)
}

// MathVars returns the variables of t used as real numbers, sorted.
func (e *Engine) MathVars(t term.Term) []string {
	names := analysis.MathVars(t).Slice()
	slices.Sort(names)
	return names
}

// LoadSymbols adds the entries stored at storePath to the registry.
func (e *Engine) LoadSymbols(ctx context.Context, storePath string) (int, error) {
	store, err := symbols.OpenStore(ctx, storePath)
	if err != nil {
		return 0, err
	}
	defer store.Close()
	n, err := store.Load(ctx, e.registry)
	if err != nil {
		e.logger.Warn("symbol load failed", "path", storePath, "loaded", n, "error", err)
		return n, err
	}
	e.logger.Info("symbols loaded", "path", storePath, "count", n)
	return n, nil
}

// SaveSymbols writes the registry to storePath.
func (e *Engine) SaveSymbols(ctx context.Context, storePath string) error {
	store, err := symbols.OpenStore(ctx, storePath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(ctx, e.registry); err != nil {
		return err
	}
	e.logger.Info("symbols saved", "path", storePath, "count", e.registry.Len())
	return nil
}
