// Package pipeline threads invariant DSL source through the lex/parse,
// type-check, sandbox, and evaluate stages as a sequence of Processor
// stages over a shared Context, in the teacher's own pipeline idiom:
// every stage is called in turn. Type-check and sandbox both run after
// a successful parse, so one pass reports a type error and a sandbox
// escape together; both skip after a parse error, and evaluation runs
// only when every earlier stage succeeded.
package pipeline

import (
	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/corelog"
	"github.com/Emmyhack/invar/internal/evaluator"
	"github.com/Emmyhack/invar/internal/typesystem"
)

// Context carries one invariant's state across pipeline stages.
type Context struct {
	Source string
	Sink   corelog.Sink

	// Populated by the parse stage.
	Invariant   ast.Invariant
	ParseErr    error

	// Populated by the type-check stage.
	Env          *typesystem.Environment
	CheckedType  typesystem.Type
	TypeErr      error

	// Populated by the sandbox stage.
	SandboxErr error

	// Populated by the evaluate stage, only if EvalCtx was supplied.
	EvalCtx    *evaluator.ExecutionContext
	Result     evaluator.Value
	EvalErr    error
}

// NewContext builds a Context for a single invariant_def source string,
// evaluated (if at all) against env/evalCtx.
func NewContext(source string, env *typesystem.Environment, evalCtx *evaluator.ExecutionContext, sink corelog.Sink) *Context {
	return &Context{Source: source, Env: env, EvalCtx: evalCtx, Sink: sink}
}

// Failed reports whether any stage recorded an error.
func (c *Context) Failed() bool {
	return c.ParseErr != nil || c.TypeErr != nil || c.SandboxErr != nil || c.EvalErr != nil
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}
