package parser

import (
	"errors"

	"github.com/funvibe/funterm/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		// This case should ideally not be hit if the lexer runs first.
		ctx.AddError(errors.New("parser: token stream is nil"))
		return ctx
	}
	t, err := New(ctx.Tokens, ctx.Registry).ParseTerm()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Term = t
	return ctx
}
