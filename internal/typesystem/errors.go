package typesystem

import "fmt"

// UndefinedVariableError reports a Var/LayerVar/PhaseQualifiedVar that
// does not resolve against the checker's environment.
type UndefinedVariableError struct{ Name string }

func NewUndefinedVariableError(name string) *UndefinedVariableError {
	return &UndefinedVariableError{Name: name}
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable: %s", e.Name)
}

// UndefinedFunctionError reports a FunctionCall to an unregistered name.
type UndefinedFunctionError struct{ Name string }

func NewUndefinedFunctionError(name string) *UndefinedFunctionError {
	return &UndefinedFunctionError{Name: name}
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function: %s", e.Name)
}

// IncomparableTypesError reports two mismatched operand types under ==/!=
// or a non-numeric operand under a relational operator.
type IncomparableTypesError struct {
	Left, Right Type
}

func NewIncomparableTypesError(left, right Type) *IncomparableTypesError {
	return &IncomparableTypesError{Left: left, Right: right}
}

func (e *IncomparableTypesError) Error() string {
	return fmt.Sprintf("incomparable types: %s vs %s", e.Left, e.Right)
}

// BinaryOpTypeMismatchError reports a relational operator applied to two
// numeric-but-unequal-width operands.
type BinaryOpTypeMismatchError struct {
	Left  Type
	Op    string
	Right Type
}

func NewBinaryOpTypeMismatchError(left Type, op string, right Type) *BinaryOpTypeMismatchError {
	return &BinaryOpTypeMismatchError{Left: left, Op: op, Right: right}
}

func (e *BinaryOpTypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in '%s %s %s'", e.Left, e.Op, e.Right)
}

// UnaryOpTypeMismatchError reports Not applied to a non-Bool operand.
type UnaryOpTypeMismatchError struct {
	Op      string
	Operand Type
}

func NewUnaryOpTypeMismatchError(op string, operand Type) *UnaryOpTypeMismatchError {
	return &UnaryOpTypeMismatchError{Op: op, Operand: operand}
}

func (e *UnaryOpTypeMismatchError) Error() string {
	return fmt.Sprintf("unary operator '%s' requires bool, got %s", e.Op, e.Operand)
}

// LogicalOpRequiresBoolError reports a non-Bool operand to && or ||.
type LogicalOpRequiresBoolError struct {
	Op     string
	Actual Type
}

func NewLogicalOpRequiresBoolError(op string, actual Type) *LogicalOpRequiresBoolError {
	return &LogicalOpRequiresBoolError{Op: op, Actual: actual}
}

func (e *LogicalOpRequiresBoolError) Error() string {
	return fmt.Sprintf("operator '%s' requires bool operands, got %s", e.Op, e.Actual)
}

// FunctionArgMismatchError reports a single mistyped call argument.
type FunctionArgMismatchError struct {
	Function string
	ParamIdx int
	Expected Type
	Actual   Type
}

func NewFunctionArgMismatchError(function string, idx int, expected, actual Type) *FunctionArgMismatchError {
	return &FunctionArgMismatchError{Function: function, ParamIdx: idx, Expected: expected, Actual: actual}
}

func (e *FunctionArgMismatchError) Error() string {
	return fmt.Sprintf("function '%s' argument %d: expected %s, got %s", e.Function, e.ParamIdx, e.Expected, e.Actual)
}

// InvalidIntLiteralError reports an ast.Int whose Text isn't a valid
// decimal magnitude. The parser rejects out-of-range literals before
// they reach the checker; this guards Check against an ast.Int built
// directly rather than through ParseInvariant.
type InvalidIntLiteralError struct{ Text string }

func NewInvalidIntLiteralError(text string) *InvalidIntLiteralError {
	return &InvalidIntLiteralError{Text: text}
}

func (e *InvalidIntLiteralError) Error() string {
	return fmt.Sprintf("invalid integer literal: %s", e.Text)
}

// ArityMismatchError reports a call with the wrong number of arguments.
type ArityMismatchError struct {
	Function string
	Expected int
	Actual   int
}

func NewArityMismatchError(function string, expected, actual int) *ArityMismatchError {
	return &ArityMismatchError{Function: function, Expected: expected, Actual: actual}
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("function '%s' expects %d arguments but got %d", e.Function, e.Expected, e.Actual)
}
