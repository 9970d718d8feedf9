package evaluator

import "fmt"

// EvaluationError is the closed taxonomy of errors eval() may return.
type EvaluationError interface {
	error
	isEvaluationError()
}

// OverflowError reports a checked arithmetic overflow.
type OverflowError struct{}

func (OverflowError) Error() string     { return "arithmetic overflow" }
func (OverflowError) isEvaluationError() {}

// UnderflowError reports a checked arithmetic underflow.
type UnderflowError struct{}

func (UnderflowError) Error() string     { return "arithmetic underflow" }
func (UnderflowError) isEvaluationError() {}

// TypeError reports an operation applied to mismatched or invalid types
// at evaluation time (type checking should normally prevent this).
type TypeError struct{}

func (TypeError) Error() string     { return "type error" }
func (TypeError) isEvaluationError() {}

// DivisionByZeroError reports division or modulo by zero.
type DivisionByZeroError struct{}

func (DivisionByZeroError) Error() string     { return "division by zero" }
func (DivisionByZeroError) isEvaluationError() {}

// UndefinedVariableError reports a name with no binding in the context.
type UndefinedVariableError struct{ Name string }

func (e UndefinedVariableError) Error() string { return fmt.Sprintf("undefined variable '%s'", e.Name) }
func (UndefinedVariableError) isEvaluationError() {}

// UndefinedFunctionError reports a call to a name not in the function table.
type UndefinedFunctionError struct{ Name string }

func (e UndefinedFunctionError) Error() string { return fmt.Sprintf("undefined function '%s'", e.Name) }
func (UndefinedFunctionError) isEvaluationError() {}

// InvalidArgumentError reports a builtin rejecting its argument list.
type InvalidArgumentError struct{ Msg string }

func (e InvalidArgumentError) Error() string { return fmt.Sprintf("invalid argument: %s", e.Msg) }
func (InvalidArgumentError) isEvaluationError() {}

// ConversionOverflowError reports a narrowing conversion that does not fit.
type ConversionOverflowError struct{}

func (ConversionOverflowError) Error() string     { return "conversion overflow" }
func (ConversionOverflowError) isEvaluationError() {}

// CustomError is an escape hatch for errors outside the named set above,
// including the recover-guard's last-resort wrapping of a runtime panic.
type CustomError struct{ Msg string }

func (e CustomError) Error() string { return e.Msg }
func (CustomError) isEvaluationError() {}
