package evaluator

import (
	"math/big"

	"github.com/Emmyhack/invar/internal/ast"
)

// Evaluator evaluates Expression trees against an ExecutionContext.
// Evaluation is pure, single-threaded, and deterministic.
type Evaluator struct {
	ctx *ExecutionContext
}

// New returns an Evaluator bound to ctx.
func New(ctx *ExecutionContext) *Evaluator {
	return &Evaluator{ctx: ctx}
}

// Eval is the public entrypoint. It recovers from any unexpected
// runtime panic in a builtin and reports it as a CustomError rather
// than letting it cross into the host process — mirroring the teacher
// evaluator's own recursion-depth guard, which exists for the same
// reason: a caller-triggered condition must never crash the process.
func (e *Evaluator) Eval(expr ast.Expression) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = Value{}
			err = CustomError{Msg: "internal evaluator panic"}
		}
	}()
	return e.eval(expr)
}

func (e *Evaluator) eval(expr ast.Expression) (Value, error) {
	switch n := expr.(type) {
	case ast.Boolean:
		return Bool(n.Value), nil

	case ast.Int:
		return evalIntLiteral(n)

	case ast.Var:
		v, ok := e.ctx.StateVars[n.Name]
		if !ok {
			return Value{}, UndefinedVariableError{Name: n.Name}
		}
		return v, nil

	case ast.LayerVar:
		return e.lookupQualified(n.Layer+"::"+n.Name, []string{n.Name})

	case ast.PhaseQualifiedVar:
		qualified := n.Phase + "::" + n.Layer + "::" + n.Name
		return e.lookupQualified(qualified, []string{n.Layer + "::" + n.Name, n.Name})

	case ast.PhaseConstraint:
		return e.eval(n.Constraint)

	case ast.CrossPhaseRelation:
		left, err := e.eval(n.Expr1)
		if err != nil {
			return Value{}, err
		}
		right, err := e.eval(n.Expr2)
		if err != nil {
			return Value{}, err
		}
		return evalBinaryOp(left, n.Op, right)

	case ast.BinaryExpr:
		left, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}
		return evalBinaryOp(left, n.Op, right)

	case ast.Logical:
		return e.evalLogical(n)

	case ast.Not:
		v, err := e.eval(n.Expr)
		if err != nil {
			return Value{}, err
		}
		b, err := v.ToBool()
		if err != nil {
			return Value{}, err
		}
		return Bool(!b), nil

	case ast.FunctionCall:
		fn, ok := e.ctx.Functions[n.Name]
		if !ok {
			return Value{}, UndefinedFunctionError{Name: n.Name}
		}
		args := make([]Value, len(n.Args))
		for i, a := range n.Args {
			v, err := e.eval(a)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return fn(args)

	case ast.Tuple:
		if len(n.Exprs) == 0 {
			return Bool(true), nil
		}
		return e.eval(n.Exprs[0])
	}
	return Value{}, TypeError{}
}

// lookupQualified tries the fully-qualified key first, then each
// fallback key in order, failing on the most-qualified name if none hit.
func (e *Evaluator) lookupQualified(qualified string, fallbacks []string) (Value, error) {
	if v, ok := e.ctx.StateVars[qualified]; ok {
		return v, nil
	}
	for _, k := range fallbacks {
		if v, ok := e.ctx.StateVars[k]; ok {
			return v, nil
		}
	}
	return Value{}, UndefinedVariableError{Name: qualified}
}

func (e *Evaluator) evalLogical(n ast.Logical) (Value, error) {
	left, err := e.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	leftBool, err := left.ToBool()
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case ast.OpAnd:
		if !leftBool {
			return Bool(false), nil
		}
	case ast.OpOr:
		if leftBool {
			return Bool(true), nil
		}
	}

	right, err := e.eval(n.Right)
	if err != nil {
		return Value{}, err
	}
	rightBool, err := right.ToBool()
	if err != nil {
		return Value{}, err
	}
	return Bool(rightBool), nil
}

func evalIntLiteral(n ast.Int) (Value, error) {
	if n.Neg {
		i := new(big.Int)
		if _, ok := i.SetString(n.Text, 10); !ok {
			return Value{}, InvalidArgumentError{Msg: "invalid integer literal " + n.Text}
		}
		if !i.IsInt64() {
			return Value{}, ConversionOverflowError{}
		}
		return I64Val(i.Int64()), nil
	}
	u, ok := NewU128FromString(n.Text)
	if !ok {
		return Value{}, InvalidArgumentError{Msg: "invalid integer literal " + n.Text}
	}
	if u.Cmp(NewU128FromUint64(^uint64(0))) <= 0 {
		return U64Val(u.big().Uint64()), nil
	}
	return U128Val(u), nil
}

func evalBinaryOp(left Value, op ast.BinaryOp, right Value) (Value, error) {
	if left.Kind != right.Kind {
		return Value{}, TypeError{}
	}

	switch op {
	case ast.OpEq:
		return Bool(left.Equal(right)), nil
	case ast.OpNeq:
		return Bool(!left.Equal(right)), nil
	}

	switch left.Kind {
	case KindU64:
		return Bool(compareUint64(left.U64, op, right.U64)), nil
	case KindI64:
		return Bool(compareInt64(left.I64, op, right.I64)), nil
	case KindU128:
		return Bool(compareU128(left.U128, op, right.U128)), nil
	default:
		return Value{}, TypeError{}
	}
}

func compareUint64(l uint64, op ast.BinaryOp, r uint64) bool {
	switch op {
	case ast.OpLt:
		return l < r
	case ast.OpGt:
		return l > r
	case ast.OpLte:
		return l <= r
	case ast.OpGte:
		return l >= r
	}
	return false
}

func compareInt64(l int64, op ast.BinaryOp, r int64) bool {
	switch op {
	case ast.OpLt:
		return l < r
	case ast.OpGt:
		return l > r
	case ast.OpLte:
		return l <= r
	case ast.OpGte:
		return l >= r
	}
	return false
}

func compareU128(l U128, op ast.BinaryOp, r U128) bool {
	c := l.Cmp(r)
	switch op {
	case ast.OpLt:
		return c < 0
	case ast.OpGt:
		return c > 0
	case ast.OpLte:
		return c <= 0
	case ast.OpGte:
		return c >= 0
	}
	return false
}
