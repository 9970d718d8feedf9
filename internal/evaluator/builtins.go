package evaluator

// StandardFunctions is the full builtin table a driver may register
// into an ExecutionContext: the four functions the type checker
// pre-registers (sum, len, min, max) plus the checked-arithmetic and
// logical primitives the sandbox allow-list names (add, sub, mul, div,
// mod, abs, and, or, not) for use by structured invariants authored
// outside the text grammar (e.g. the TOML loader).
var StandardFunctions = map[string]EvalFunction{
	"sum": biSum,
	"len": biLen,
	"min": biMin,
	"max": biMax,
	"add": biAdd,
	"sub": biSub,
	"mul": biMul,
	"div": biDiv,
	"mod": biMod,
	"abs": biAbs,
	"and": biAnd,
	"or":  biOr,
	"not": biNot,
}

func arity(args []Value, n int) error {
	if len(args) != n {
		return InvalidArgumentError{Msg: "wrong number of arguments"}
	}
	return nil
}

func biSum(args []Value) (Value, error) {
	if err := arity(args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindU64 {
		return Value{}, TypeError{}
	}
	return args[0], nil
}

func biLen(args []Value) (Value, error) {
	if err := arity(args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindAddress {
		return Value{}, TypeError{}
	}
	return U64Val(uint64(len(args[0].Addr))), nil
}

func biMin(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindU64 || args[1].Kind != KindU64 {
		return Value{}, TypeError{}
	}
	if args[0].U64 < args[1].U64 {
		return args[0], nil
	}
	return args[1], nil
}

func biMax(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindU64 || args[1].Kind != KindU64 {
		return Value{}, TypeError{}
	}
	if args[0].U64 > args[1].U64 {
		return args[0], nil
	}
	return args[1], nil
}

func biAdd(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	l, r := args[0], args[1]
	if l.Kind != r.Kind {
		return Value{}, TypeError{}
	}
	switch l.Kind {
	case KindU64:
		sum := l.U64 + r.U64
		if sum < l.U64 {
			return Value{}, OverflowError{}
		}
		return U64Val(sum), nil
	case KindI64:
		sum := l.I64 + r.I64
		if (r.I64 > 0 && sum < l.I64) || (r.I64 < 0 && sum > l.I64) {
			return Value{}, OverflowError{}
		}
		return I64Val(sum), nil
	case KindU128:
		v, ok := l.U128.CheckedAdd(r.U128)
		if !ok {
			return Value{}, OverflowError{}
		}
		return U128Val(v), nil
	default:
		return Value{}, TypeError{}
	}
}

func biSub(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	l, r := args[0], args[1]
	if l.Kind != r.Kind {
		return Value{}, TypeError{}
	}
	switch l.Kind {
	case KindU64:
		if r.U64 > l.U64 {
			return Value{}, UnderflowError{}
		}
		return U64Val(l.U64 - r.U64), nil
	case KindI64:
		diff := l.I64 - r.I64
		if (r.I64 < 0 && diff < l.I64) || (r.I64 > 0 && diff > l.I64) {
			return Value{}, UnderflowError{}
		}
		return I64Val(diff), nil
	case KindU128:
		v, ok := l.U128.CheckedSub(r.U128)
		if !ok {
			return Value{}, UnderflowError{}
		}
		return U128Val(v), nil
	default:
		return Value{}, TypeError{}
	}
}

func biMul(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	l, r := args[0], args[1]
	if l.Kind != r.Kind {
		return Value{}, TypeError{}
	}
	switch l.Kind {
	case KindU64:
		if l.U64 == 0 || r.U64 == 0 {
			return U64Val(0), nil
		}
		prod := l.U64 * r.U64
		if prod/l.U64 != r.U64 {
			return Value{}, OverflowError{}
		}
		return U64Val(prod), nil
	case KindI64:
		if l.I64 == 0 || r.I64 == 0 {
			return I64Val(0), nil
		}
		if (l.I64 == -1 && r.I64 == minInt64) || (r.I64 == -1 && l.I64 == minInt64) {
			return Value{}, OverflowError{}
		}
		prod := l.I64 * r.I64
		if prod/l.I64 != r.I64 {
			return Value{}, OverflowError{}
		}
		return I64Val(prod), nil
	case KindU128:
		v, ok := l.U128.CheckedMul(r.U128)
		if !ok {
			return Value{}, OverflowError{}
		}
		return U128Val(v), nil
	default:
		return Value{}, TypeError{}
	}
}

func biDiv(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	l, r := args[0], args[1]
	if l.Kind != r.Kind {
		return Value{}, TypeError{}
	}
	switch l.Kind {
	case KindU64:
		if r.U64 == 0 {
			return Value{}, DivisionByZeroError{}
		}
		return U64Val(l.U64 / r.U64), nil
	case KindI64:
		if r.I64 == 0 {
			return Value{}, DivisionByZeroError{}
		}
		if l.I64 == minInt64 && r.I64 == -1 {
			return Value{}, OverflowError{}
		}
		return I64Val(l.I64 / r.I64), nil
	case KindU128:
		v, ok := l.U128.CheckedDiv(r.U128)
		if !ok {
			return Value{}, DivisionByZeroError{}
		}
		return U128Val(v), nil
	default:
		return Value{}, TypeError{}
	}
}

func biMod(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	l, r := args[0], args[1]
	if l.Kind != r.Kind {
		return Value{}, TypeError{}
	}
	switch l.Kind {
	case KindU64:
		if r.U64 == 0 {
			return Value{}, DivisionByZeroError{}
		}
		return U64Val(l.U64 % r.U64), nil
	case KindI64:
		if r.I64 == 0 {
			return Value{}, DivisionByZeroError{}
		}
		return I64Val(l.I64 % r.I64), nil
	case KindU128:
		v, ok := l.U128.CheckedMod(r.U128)
		if !ok {
			return Value{}, DivisionByZeroError{}
		}
		return U128Val(v), nil
	default:
		return Value{}, TypeError{}
	}
}

func biAbs(args []Value) (Value, error) {
	if err := arity(args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindI64 {
		return Value{}, TypeError{}
	}
	n := args[0].I64
	if n == minInt64 {
		return Value{}, ConversionOverflowError{}
	}
	if n < 0 {
		n = -n
	}
	return U64Val(uint64(n)), nil
}

const minInt64 = -1 << 63

func biAnd(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindBool || args[1].Kind != KindBool {
		return Value{}, TypeError{}
	}
	return Bool(args[0].B && args[1].B), nil
}

func biOr(args []Value) (Value, error) {
	if err := arity(args, 2); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindBool || args[1].Kind != KindBool {
		return Value{}, TypeError{}
	}
	return Bool(args[0].B || args[1].B), nil
}

func biNot(args []Value) (Value, error) {
	if err := arity(args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind != KindBool {
		return Value{}, TypeError{}
	}
	return Bool(!args[0].B), nil
}
