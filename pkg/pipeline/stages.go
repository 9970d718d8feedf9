package pipeline

import (
	"github.com/Emmyhack/invar/internal/corelog"
	"github.com/Emmyhack/invar/internal/evaluator"
	"github.com/Emmyhack/invar/internal/parser"
	"github.com/Emmyhack/invar/internal/threatmodel"
	"github.com/Emmyhack/invar/internal/typesystem"
)

// ParseProcessor lexes and parses ctx.Source into ctx.Invariant.
type ParseProcessor struct{}

func (ParseProcessor) Process(ctx *Context) *Context {
	inv, err := parser.ParseInvariant(ctx.Source)
	if err != nil {
		ctx.ParseErr = err
		return ctx
	}
	ctx.Invariant = inv
	return ctx
}

// TypeCheckProcessor type-checks ctx.Invariant.Expression against
// ctx.Env, skipping if the parse stage already failed.
type TypeCheckProcessor struct{}

func (TypeCheckProcessor) Process(ctx *Context) *Context {
	if ctx.ParseErr != nil {
		return ctx
	}
	if ctx.Env == nil {
		ctx.Env = typesystem.NewEnvironment()
	}
	checker := typesystem.NewChecker(ctx.Env)
	t, err := checker.Check(ctx.Invariant.Expression)
	if err != nil {
		ctx.TypeErr = err
		corelog.Emit(ctx.Sink, corelog.Warn, "type check failed", corelog.F("invariant", ctx.Invariant.Name), corelog.F("error", err.Error()))
		return ctx
	}
	ctx.CheckedType = t
	return ctx
}

// SandboxProcessor validates ctx.Invariant.Expression against the DSL
// sandbox allow-list, independent of whether type-checking succeeded —
// the threat model must reject a sandbox escape even in an otherwise
// ill-typed expression.
type SandboxProcessor struct{}

func (SandboxProcessor) Process(ctx *Context) *Context {
	if ctx.ParseErr != nil {
		return ctx
	}
	if err := threatmodel.ValidateExpression(ctx.Invariant.Expression); err != nil {
		ctx.SandboxErr = err
		corelog.Emit(ctx.Sink, corelog.Warn, "sandbox escape detected", corelog.F("invariant", ctx.Invariant.Name), corelog.F("error", err.Error()))
	}
	return ctx
}

// EvalProcessor evaluates ctx.Invariant.Expression against ctx.EvalCtx,
// when one was supplied and every earlier stage succeeded.
type EvalProcessor struct{}

func (EvalProcessor) Process(ctx *Context) *Context {
	if ctx.ParseErr != nil || ctx.TypeErr != nil || ctx.SandboxErr != nil || ctx.EvalCtx == nil {
		return ctx
	}
	ev := evaluator.New(ctx.EvalCtx)
	result, err := ev.Eval(ctx.Invariant.Expression)
	if err != nil {
		ctx.EvalErr = err
		return ctx
	}
	ctx.Result = result
	return ctx
}
