package numio

import (
	"encoding/binary"
	"io"
	"math"

	"lukechampine.com/uint128"

	"github.com/go-delve/leb128/pkg/wide"
)

// Write writes v to w.
func Write[T Fixed](w io.Writer, order binary.ByteOrder, v T) error {
	var buf [16]byte
	b := buf[:Size[T]()]
	put(b, order, v)
	_, err := w.Write(b)
	return err
}

// WriteSlice writes every value of src to w with a single Write call.
func WriteSlice[T Fixed](w io.Writer, order binary.ByteOrder, src []T) error {
	if len(src) == 0 {
		return nil
	}
	sz := Size[T]()
	b := make([]byte, sz*len(src))
	for i, v := range src {
		put(b[i*sz:], order, v)
	}
	_, err := w.Write(b)
	return err
}

// WriteBool writes 1 for true and 0 for false.
func WriteBool(w io.Writer, v bool) error {
	var x uint8
	if v {
		x = 1
	}
	return Write(w, binary.LittleEndian, x)
}

func put[T Fixed](b []byte, order binary.ByteOrder, v T) {
	switch x := any(v).(type) {
	case uint8:
		b[0] = x
	case int8:
		b[0] = uint8(x)
	case uint16:
		order.PutUint16(b, x)
	case int16:
		order.PutUint16(b, uint16(x))
	case uint32:
		order.PutUint32(b, x)
	case int32:
		order.PutUint32(b, uint32(x))
	case uint64:
		order.PutUint64(b, x)
	case int64:
		order.PutUint64(b, uint64(x))
	case float32:
		order.PutUint32(b, math.Float32bits(x))
	case float64:
		order.PutUint64(b, math.Float64bits(x))
	case uint128.Uint128:
		put128(b, order, x)
	case wide.Int128:
		put128(b, order, x.Uint128())
	}
}

func put128(b []byte, order binary.ByteOrder, x uint128.Uint128) {
	if bigEndian(order) {
		order.PutUint64(b, x.Hi)
		order.PutUint64(b[8:], x.Lo)
		return
	}
	order.PutUint64(b, x.Lo)
	order.PutUint64(b[8:], x.Hi)
}
