package evaluator

import "math/big"

// U128 is an unsigned 128-bit integer backed by math/big, clamped to
// [0, 2^128). Go has no native 128-bit integer type; math/big is the
// standard-library facility for arbitrary-precision arithmetic, used
// here only to stand in for that missing width — all operations are
// checked against the 128-bit bound exactly as the evaluator's other
// integer widths are checked against their own bounds.
type U128 struct {
	v *big.Int
}

var u128Bound = new(big.Int).Lsh(big.NewInt(1), 128) // 2^128

// NewU128FromString parses a decimal string into a U128.
func NewU128FromString(s string) (U128, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.Cmp(u128Bound) >= 0 {
		return U128{}, false
	}
	return U128{v: n}, true
}

// NewU128FromUint64 widens a uint64 into a U128.
func NewU128FromUint64(n uint64) U128 {
	return U128{v: new(big.Int).SetUint64(n)}
}

func (u U128) big() *big.Int {
	if u.v == nil {
		return big.NewInt(0)
	}
	return u.v
}

func (u U128) IsZero() bool { return u.big().Sign() == 0 }

func (u U128) String() string { return u.big().String() }

func (u U128) Cmp(o U128) int { return u.big().Cmp(o.big()) }

func (u U128) Equal(o U128) bool { return u.Cmp(o) == 0 }

// CheckedAdd returns u+o, or (zero, false) if the result would exceed
// the 128-bit bound (overflow).
func (u U128) CheckedAdd(o U128) (U128, bool) {
	r := new(big.Int).Add(u.big(), o.big())
	if r.Cmp(u128Bound) >= 0 {
		return U128{}, false
	}
	return U128{v: r}, true
}

// CheckedSub returns u-o, or (zero, false) if the result would be
// negative (underflow).
func (u U128) CheckedSub(o U128) (U128, bool) {
	r := new(big.Int).Sub(u.big(), o.big())
	if r.Sign() < 0 {
		return U128{}, false
	}
	return U128{v: r}, true
}

// CheckedMul returns u*o, or (zero, false) on overflow.
func (u U128) CheckedMul(o U128) (U128, bool) {
	r := new(big.Int).Mul(u.big(), o.big())
	if r.Cmp(u128Bound) >= 0 {
		return U128{}, false
	}
	return U128{v: r}, true
}

// CheckedDiv returns u/o, or (zero, false) if o is zero.
func (u U128) CheckedDiv(o U128) (U128, bool) {
	if o.IsZero() {
		return U128{}, false
	}
	return U128{v: new(big.Int).Quo(u.big(), o.big())}, true
}

// CheckedMod returns u%o, or (zero, false) if o is zero.
func (u U128) CheckedMod(o U128) (U128, bool) {
	if o.IsZero() {
		return U128{}, false
	}
	return U128{v: new(big.Int).Rem(u.big(), o.big())}, true
}
