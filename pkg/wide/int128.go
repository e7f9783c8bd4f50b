// Package wide provides the 128-bit signed integer container used by the
// codec packages, and conversions between math/big values and little endian
// byte sequences.
package wide

import (
	"errors"
	"math"
	"math/big"
	"math/bits"

	"lukechampine.com/uint128"
)

// Int128 is a signed 128-bit integer stored as its two's complement bit
// pattern. Lo holds bits 0-63 and Hi bits 64-127.
type Int128 uint128.Uint128

var (
	// MinInt128 is the smallest value representable by an Int128.
	MinInt128 = Int128{Lo: 0, Hi: 1 << 63}
	// MaxInt128 is the largest value representable by an Int128.
	MaxInt128 = Int128{Lo: math.MaxUint64, Hi: math.MaxUint64 >> 1}
)

var errInt128Range = errors.New("value out of range for int128")

// Int128From64 sign extends v to 128 bits.
func Int128From64(v int64) Int128 {
	x := Int128{Lo: uint64(v)}
	if v < 0 {
		x.Hi = math.MaxUint64
	}
	return x
}

// Int128FromBytes interprets the first 16 bytes of b as a little endian
// two's complement integer.
func Int128FromBytes(b []byte) Int128 {
	return Int128(uint128.FromBytes(b))
}

// Int128FromBig converts x, failing if it does not fit in 128 bits.
func Int128FromBig(x *big.Int) (Int128, error) {
	b, err := LittleEndian(x, true)
	if err != nil {
		return Int128{}, err
	}
	if len(b) > 16 {
		return Int128{}, errInt128Range
	}
	return Int128FromBytes(SignExtend(b, 16)), nil
}

// Uint128 returns the bit pattern of x.
func (x Int128) Uint128() uint128.Uint128 {
	return uint128.Uint128(x)
}

// PutBytes stores x into the first 16 bytes of b in little endian order.
func (x Int128) PutBytes(b []byte) {
	uint128.Uint128(x).PutBytes(b)
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x Int128) Sign() int {
	switch {
	case x.Hi>>63 != 0:
		return -1
	case x.Hi == 0 && x.Lo == 0:
		return 0
	default:
		return 1
	}
}

// IsZero reports whether x is zero.
func (x Int128) IsZero() bool {
	return x.Lo == 0 && x.Hi == 0
}

// Neg returns -x. Negating MinInt128 wraps around to MinInt128.
func (x Int128) Neg() Int128 {
	lo, carry := bits.Add64(^x.Lo, 1, 0)
	hi, _ := bits.Add64(^x.Hi, 0, carry)
	return Int128{Lo: lo, Hi: hi}
}

// Big returns x as a big.Int.
func (x Int128) Big() *big.Int {
	if x.Sign() < 0 {
		return new(big.Int).Neg(uint128.Uint128(x.Neg()).Big())
	}
	return uint128.Uint128(x).Big()
}

func (x Int128) String() string {
	return x.Big().String()
}
