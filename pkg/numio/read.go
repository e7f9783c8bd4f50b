// Package numio reads and writes fixed size numbers in a given byte order.
//
// It is the non varint counterpart of package leb128: every value occupies
// exactly Size[T]() bytes on the wire.
package numio

import (
	"encoding/binary"
	"io"
	"math"

	"lukechampine.com/uint128"

	"github.com/go-delve/leb128/pkg/wide"
)

// Fixed is the set of types with a fixed size wire representation.
type Fixed interface {
	uint8 | int8 | uint16 | int16 | uint32 | int32 | uint64 | int64 |
		float32 | float64 | uint128.Uint128 | wide.Int128
}

// Size returns the number of bytes a T occupies.
func Size[T Fixed]() int {
	var v T
	switch any(v).(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	case uint64, int64, float64:
		return 8
	default:
		return 16
	}
}

// Read reads one T from r.
func Read[T Fixed](r io.Reader, order binary.ByteOrder) (T, error) {
	var buf [16]byte
	b := buf[:Size[T]()]
	if _, err := io.ReadFull(r, b); err != nil {
		var zero T
		return zero, err
	}
	return get[T](b, order), nil
}

// ReadN reads n consecutive values of type T from r.
func ReadN[T Fixed](r io.Reader, order binary.ByteOrder, n int) ([]T, error) {
	out := make([]T, n)
	if err := ReadSlice(r, order, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadSlice fills dst with values read from r. Running out of input after
// the first byte is io.ErrUnexpectedEOF.
func ReadSlice[T Fixed](r io.Reader, order binary.ByteOrder, dst []T) error {
	if len(dst) == 0 {
		return nil
	}
	sz := Size[T]()
	b := make([]byte, sz*len(dst))
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = get[T](b[i*sz:], order)
	}
	return nil
}

// ReadBool reads one byte, any non zero value is true.
func ReadBool(r io.Reader) (bool, error) {
	v, err := Read[uint8](r, binary.LittleEndian)
	return v != 0, err
}

func get[T Fixed](b []byte, order binary.ByteOrder) T {
	var v T
	switch p := any(&v).(type) {
	case *uint8:
		*p = b[0]
	case *int8:
		*p = int8(b[0])
	case *uint16:
		*p = order.Uint16(b)
	case *int16:
		*p = int16(order.Uint16(b))
	case *uint32:
		*p = order.Uint32(b)
	case *int32:
		*p = int32(order.Uint32(b))
	case *uint64:
		*p = order.Uint64(b)
	case *int64:
		*p = int64(order.Uint64(b))
	case *float32:
		*p = math.Float32frombits(order.Uint32(b))
	case *float64:
		*p = math.Float64frombits(order.Uint64(b))
	case *uint128.Uint128:
		*p = get128(b, order)
	case *wide.Int128:
		*p = wide.Int128(get128(b, order))
	}
	return v
}

func get128(b []byte, order binary.ByteOrder) uint128.Uint128 {
	if bigEndian(order) {
		return uint128.New(order.Uint64(b[8:]), order.Uint64(b))
	}
	return uint128.New(order.Uint64(b), order.Uint64(b[8:]))
}

// bigEndian reports whether order puts the most significant byte first.
func bigEndian(order binary.ByteOrder) bool {
	return order.Uint16([]byte{0, 1}) == 1
}
