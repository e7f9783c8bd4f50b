package leb128

import (
	"lukechampine.com/uint128"

	"github.com/go-delve/leb128/pkg/wide"
)

const (
	payloadMask     = 0x7f
	continuationBit = 0x80
	signBit         = 0x40
)

// Unsigned is the set of unsigned integer types with a fixed width encoding.
type Unsigned interface {
	uint16 | uint32 | uint64 | uint128.Uint128
}

// Signed is the set of signed integer types with a fixed width encoding.
type Signed interface {
	int16 | int32 | int64 | wide.Int128
}

// Integer is any fixed width integer type the codec supports.
type Integer interface {
	Unsigned | Signed
}

// Width returns the declared bit width of T.
func Width[T Integer]() uint {
	var v T
	switch any(v).(type) {
	case uint16, int16:
		return 16
	case uint32, int32:
		return 32
	case uint64, int64:
		return 64
	default:
		return 128
	}
}

// TypeName returns the short name of T used in error messages, e.g. "u32".
func TypeName[T Integer]() string {
	var v T
	switch any(v).(type) {
	case uint16:
		return "u16"
	case uint32:
		return "u32"
	case uint64:
		return "u64"
	case uint128.Uint128:
		return "u128"
	case int16:
		return "i16"
	case int32:
		return "i32"
	case int64:
		return "i64"
	default:
		return "i128"
	}
}

// toBits returns the two's complement bit pattern of v, zero extended to
// 128 bits.
func toBits[T Integer](v T) uint128.Uint128 {
	switch x := any(v).(type) {
	case uint16:
		return uint128.From64(uint64(x))
	case uint32:
		return uint128.From64(uint64(x))
	case uint64:
		return uint128.From64(x)
	case uint128.Uint128:
		return x
	case int16:
		return uint128.From64(uint64(uint16(x)))
	case int32:
		return uint128.From64(uint64(uint32(x)))
	case int64:
		return uint128.From64(uint64(x))
	case wide.Int128:
		return x.Uint128()
	}
	panic("unreachable")
}

// fromBits truncates u to the width of T.
func fromBits[T Integer](u uint128.Uint128) T {
	var v T
	switch p := any(&v).(type) {
	case *uint16:
		*p = uint16(u.Lo)
	case *uint32:
		*p = uint32(u.Lo)
	case *uint64:
		*p = u.Lo
	case *uint128.Uint128:
		*p = u
	case *int16:
		*p = int16(uint16(u.Lo))
	case *int32:
		*p = int32(uint32(u.Lo))
	case *int64:
		*p = int64(u.Lo)
	case *wide.Int128:
		*p = wide.Int128(u)
	}
	return v
}

// widthMask has the low width bits set.
func widthMask(width uint) uint128.Uint128 {
	return uint128.Max.Rsh(128 - width)
}

func subBudget(budget uint) uint {
	if budget < 7 {
		return 0
	}
	return budget - 7
}

// decodeFixed reads one value of the given width. The result is the value's
// bit pattern truncated to width bits.
func decodeFixed(src ByteSource, width uint, signed bool) (uint128.Uint128, error) {
	var (
		acc   uint128.Uint128
		shift uint
	)
	for {
		b, err := readGroup(src, shift == 0)
		if err != nil {
			return uint128.Zero, err
		}
		if shift >= width {
			return uint128.Zero, ErrOverflow
		}
		payload := uint64(b & payloadMask)
		if room := width - shift; room < 7 && !excessFits(payload, room, signed) {
			return uint128.Zero, ErrOverflow
		}
		acc = acc.Or(uint128.From64(payload).Lsh(shift))
		shift += 7

		if b&continuationBit == 0 {
			if signed && b&signBit != 0 && shift < width {
				acc = acc.Or(uint128.Max.Lsh(shift))
			}
			return acc.And(widthMask(width)), nil
		}
	}
}

// excessFits reports whether the payload bits that do not fit in the
// remaining room are acceptable. For unsigned values they must be zero. For
// signed values they may also be a sign extension of the top bit that fits.
func excessFits(payload uint64, room uint, signed bool) bool {
	excess := payload >> room
	if excess == 0 {
		return true
	}
	return signed && excess == payloadMask>>room && payload&(1<<(room-1)) != 0
}

func encodeFixedUnsigned(dst ByteSink, v uint128.Uint128, width uint) error {
	if v.IsZero() {
		return writeGroup(dst, 0)
	}
	budget := width
	for {
		budget = subBudget(budget)
		next := byte(v.Lo & payloadMask)
		v = v.Rsh(7)
		if v.IsZero() || budget == 0 {
			return writeGroup(dst, next)
		}
		if err := writeGroup(dst, next|continuationBit); err != nil {
			return err
		}
	}
}

func encodeFixedSigned(dst ByteSink, v uint128.Uint128, width uint) error {
	if v.IsZero() {
		return writeGroup(dst, 0)
	}
	ones := widthMask(width)
	v = v.And(ones)
	budget := width
	for {
		budget = subBudget(budget)
		next := byte(v.Lo & payloadMask)
		if budget == 0 {
			return writeGroup(dst, next)
		}
		v = v.Rsh(7)
		ones = ones.Rsh(7)

		// Stop once everything left is sign extension of this group.
		if next&signBit != 0 && v.Equals(ones) || next&signBit == 0 && v.IsZero() {
			return writeGroup(dst, next)
		}
		if err := writeGroup(dst, next|continuationBit); err != nil {
			return err
		}
	}
}
