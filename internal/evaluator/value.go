// Package evaluator implements the deterministic, checked-arithmetic
// evaluator over the expression IR. It performs no I/O, no reflection,
// and no floating point.
package evaluator

import (
	"fmt"

	"github.com/Emmyhack/invar/internal/typesystem"
)

// Kind tags which alternative of Value is populated.
type Kind int

const (
	KindBool Kind = iota
	KindU64
	KindU128
	KindI64
	KindAddress
)

// Value is a runtime-tagged value. Only the field matching Kind is valid.
type Value struct {
	Kind Kind
	B    bool
	U64  uint64
	U128 U128
	I64  int64
	Addr string
}

func Bool(b bool) Value       { return Value{Kind: KindBool, B: b} }
func U64Val(n uint64) Value   { return Value{Kind: KindU64, U64: n} }
func U128Val(n U128) Value    { return Value{Kind: KindU128, U128: n} }
func I64Val(n int64) Value    { return Value{Kind: KindI64, I64: n} }
func AddressVal(a string) Value { return Value{Kind: KindAddress, Addr: a} }

// Type returns the typesystem.Type tag for v.
func (v Value) Type() typesystem.Type {
	switch v.Kind {
	case KindBool:
		return typesystem.Bool
	case KindU64:
		return typesystem.U64
	case KindU128:
		return typesystem.U128
	case KindI64:
		return typesystem.I64
	default:
		return typesystem.Address
	}
}

// ToBool coerces v to a boolean: Bool passes through, any integer is
// non-zero, any address is non-empty.
func (v Value) ToBool() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.B, nil
	case KindU64:
		return v.U64 != 0, nil
	case KindU128:
		return !v.U128.IsZero(), nil
	case KindI64:
		return v.I64 != 0, nil
	case KindAddress:
		return v.Addr != "", nil
	}
	return false, TypeError{}
}

// Equal reports whether two values of the same Kind carry the same
// payload. Values of different Kind are never equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.B == o.B
	case KindU64:
		return v.U64 == o.U64
	case KindU128:
		return v.U128.Equal(o.U128)
	case KindI64:
		return v.I64 == o.I64
	case KindAddress:
		return v.Addr == o.Addr
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindU64:
		return fmt.Sprintf("%d", v.U64)
	case KindU128:
		return v.U128.String()
	case KindI64:
		return fmt.Sprintf("%d", v.I64)
	case KindAddress:
		return v.Addr
	}
	return "?"
}
