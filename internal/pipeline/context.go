package pipeline

import (
	"errors"

	"github.com/funvibe/funterm/internal/symbols"
	"github.com/funvibe/funterm/internal/term"
	"github.com/funvibe/funterm/internal/token"
)

// PipelineContext carries the state passed from stage to stage.
type PipelineContext struct {
	SourceCode string
	Registry   *symbols.Registry // nil means the default registry

	Tokens []token.Token
	Term   term.Term
	Result term.Term // output of the operation stage, if any
	Output string    // rendered text

	Errors []error
}

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext {
	return f(ctx)
}

// AddError records a stage failure.
func (ctx *PipelineContext) AddError(err error) {
	ctx.Errors = append(ctx.Errors, err)
}

// Err joins every recorded error, nil when there are none.
func (ctx *PipelineContext) Err() error {
	return errors.Join(ctx.Errors...)
}
