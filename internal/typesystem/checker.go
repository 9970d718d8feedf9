package typesystem

import (
	"math/big"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/model"
)

// FunctionSignature is a registered function's parameter and return types.
type FunctionSignature struct {
	Params     []Type
	ReturnType Type
}

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// Environment is the checker's symbol table: state variable types and
// function signatures, populated once from a ProgramModel and then
// treated as read-only.
type Environment struct {
	stateVars map[string]Type
	functions map[string]FunctionSignature
}

// NewEnvironment returns an empty environment with the standard library
// functions pre-registered, matching the reference checker.
func NewEnvironment() *Environment {
	env := &Environment{
		stateVars: make(map[string]Type),
		functions: make(map[string]FunctionSignature),
	}
	env.registerStdlib()
	return env
}

func (e *Environment) registerStdlib() {
	e.functions["sum"] = FunctionSignature{Params: []Type{U64}, ReturnType: U64}
	e.functions["len"] = FunctionSignature{Params: []Type{Address}, ReturnType: U64}
	e.functions["min"] = FunctionSignature{Params: []Type{U64, U64}, ReturnType: U64}
	e.functions["max"] = FunctionSignature{Params: []Type{U64, U64}, ReturnType: U64}
}

// RegisterStateVar registers or replaces a state variable's type.
func (e *Environment) RegisterStateVar(name string, ty Type) {
	e.stateVars[name] = ty
}

// RegisterFunction registers or replaces a function signature.
func (e *Environment) RegisterFunction(name string, sig FunctionSignature) {
	e.functions[name] = sig
}

// LoadFromProgram populates state variable types from a ProgramModel,
// mapping each StateVar.TypeName via FromTypeName.
func (e *Environment) LoadFromProgram(p *model.ProgramModel) {
	for _, name := range p.StateVarNames() {
		e.RegisterStateVar(name, FromTypeName(p.StateVars[name].TypeName))
	}
}

// Checker performs static type inference and validation over Expression
// trees using an Environment.
type Checker struct {
	env *Environment
}

// NewChecker returns a Checker backed by env.
func NewChecker(env *Environment) *Checker {
	return &Checker{env: env}
}

// Check infers and returns the type of expr, or a typed error.
func (c *Checker) Check(expr ast.Expression) (Type, error) {
	switch e := expr.(type) {
	case ast.Boolean:
		return Bool, nil

	case ast.Int:
		return intLiteralType(e)

	case ast.Var:
		ty, ok := c.env.stateVars[e.Name]
		if !ok {
			return 0, NewUndefinedVariableError(e.Name)
		}
		return ty, nil

	case ast.LayerVar:
		ty, ok := c.env.stateVars[e.Name]
		if !ok {
			return 0, NewUndefinedVariableError(e.Layer + "::" + e.Name)
		}
		return ty, nil

	case ast.PhaseQualifiedVar:
		ty, ok := c.env.stateVars[e.Name]
		if !ok {
			return 0, NewUndefinedVariableError(e.Phase + "::" + e.Layer + "::" + e.Name)
		}
		return ty, nil

	case ast.PhaseConstraint:
		ty, err := c.Check(e.Constraint)
		if err != nil {
			return 0, err
		}
		if ty != Bool {
			return 0, NewUnaryOpTypeMismatchError("phase", ty)
		}
		return Bool, nil

	case ast.CrossPhaseRelation:
		return c.checkBinaryTyped(e.Expr1, e.Op, e.Expr2)

	case ast.BinaryExpr:
		return c.checkBinaryTyped(e.Left, e.Op, e.Right)

	case ast.Logical:
		return c.checkLogical(e)

	case ast.Not:
		ty, err := c.Check(e.Expr)
		if err != nil {
			return 0, err
		}
		if ty != Bool {
			return 0, NewUnaryOpTypeMismatchError("!", ty)
		}
		return Bool, nil

	case ast.FunctionCall:
		return c.checkFunctionCall(e)

	case ast.Tuple:
		if len(e.Exprs) == 0 {
			return Bool, nil
		}
		return c.Check(e.Exprs[0])
	}
	return 0, NewUnaryOpTypeMismatchError("?", 0)
}

func intLiteralType(i ast.Int) (Type, error) {
	v, ok := new(big.Int).SetString(i.Text, 10)
	if !ok {
		return 0, NewInvalidIntLiteralError(i.Text)
	}
	if i.Neg {
		return I64, nil
	}
	if v.Cmp(maxUint64) <= 0 {
		return U64, nil
	}
	return U128, nil
}

func (c *Checker) checkBinaryTyped(left ast.Expression, op ast.BinaryOp, right ast.Expression) (Type, error) {
	leftTy, err := c.Check(left)
	if err != nil {
		return 0, err
	}
	rightTy, err := c.Check(right)
	if err != nil {
		return 0, err
	}

	switch op {
	case ast.OpEq, ast.OpNeq:
		if leftTy != rightTy {
			return 0, NewIncomparableTypesError(leftTy, rightTy)
		}
		return Bool, nil
	default: // Lt, Gt, Lte, Gte
		if !leftTy.IsNumeric() || !rightTy.IsNumeric() {
			return 0, NewIncomparableTypesError(leftTy, rightTy)
		}
		if leftTy != rightTy {
			return 0, NewBinaryOpTypeMismatchError(leftTy, op.String(), rightTy)
		}
		return Bool, nil
	}
}

func (c *Checker) checkLogical(e ast.Logical) (Type, error) {
	leftTy, err := c.Check(e.Left)
	if err != nil {
		return 0, err
	}
	rightTy, err := c.Check(e.Right)
	if err != nil {
		return 0, err
	}
	if leftTy != Bool {
		return 0, NewLogicalOpRequiresBoolError(e.Op.String(), leftTy)
	}
	if rightTy != Bool {
		return 0, NewLogicalOpRequiresBoolError(e.Op.String(), rightTy)
	}
	return Bool, nil
}

func (c *Checker) checkFunctionCall(e ast.FunctionCall) (Type, error) {
	sig, ok := c.env.functions[e.Name]
	if !ok {
		return 0, NewUndefinedFunctionError(e.Name)
	}
	if len(e.Args) != len(sig.Params) {
		return 0, NewArityMismatchError(e.Name, len(sig.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		actual, err := c.Check(arg)
		if err != nil {
			return 0, err
		}
		if actual != sig.Params[i] {
			return 0, NewFunctionArgMismatchError(e.Name, i, sig.Params[i], actual)
		}
	}
	return sig.ReturnType, nil
}
