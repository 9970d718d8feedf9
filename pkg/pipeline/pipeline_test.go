package pipeline

import (
	"testing"

	"github.com/Emmyhack/invar/internal/evaluator"
	"github.com/Emmyhack/invar/internal/typesystem"
)

func TestStandardPipelineSuccess(t *testing.T) {
	env := typesystem.NewEnvironment()
	env.RegisterStateVar("balance", typesystem.U64)

	evalCtx := evaluator.NewExecutionContext()
	evalCtx.SetState("balance", evaluator.U64Val(100))

	ctx := NewContext(`invariant BalancePositive { balance >= 0 }`, env, evalCtx, nil)
	out := Standard().Run(ctx)

	if out.Failed() {
		t.Fatalf("unexpected failure: parse=%v type=%v sandbox=%v eval=%v",
			out.ParseErr, out.TypeErr, out.SandboxErr, out.EvalErr)
	}
	if out.Result.Kind != evaluator.KindBool || !out.Result.B {
		t.Errorf("expected invariant to evaluate true, got %v", out.Result)
	}
}

func TestStandardPipelineParseErrorSkipsLaterStages(t *testing.T) {
	ctx := NewContext(`invariant { }`, nil, nil, nil)
	out := Standard().Run(ctx)

	if out.ParseErr == nil {
		t.Fatal("expected parse error")
	}
	if out.TypeErr != nil || out.SandboxErr != nil || out.EvalErr != nil {
		t.Error("expected later stages to be skipped after a parse error")
	}
}

func TestStandardPipelineSandboxEscapeBlocksEval(t *testing.T) {
	evalCtx := evaluator.NewExecutionContext()
	evalCtx.SetState("file_handle", evaluator.U64Val(1))

	ctx := NewContext(`invariant Bad { file_handle > 0 }`, nil, evalCtx, nil)
	out := Standard().Run(ctx)

	if out.SandboxErr == nil {
		t.Fatal("expected sandbox escape error")
	}
	if out.EvalErr != nil || out.Result.Kind == evaluator.KindU64 {
		t.Error("expected eval stage to be skipped after a sandbox error")
	}
}

func TestStandardPipelineTypeErrorBlocksEval(t *testing.T) {
	env := typesystem.NewEnvironment()
	env.RegisterStateVar("flag", typesystem.Bool)

	evalCtx := evaluator.NewExecutionContext()
	evalCtx.SetState("flag", evaluator.Bool(true))

	ctx := NewContext(`invariant Bad { flag > 0 }`, env, evalCtx, nil)
	out := Standard().Run(ctx)

	if out.TypeErr == nil {
		t.Fatal("expected a type error comparing bool to an int literal")
	}
	if out.EvalErr != nil {
		t.Error("expected eval stage to be skipped after a type error")
	}
}
