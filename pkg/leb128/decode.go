package leb128

import (
	"bytes"
)

// DecodeUnsigned decodes an unsigned Little Endian Base 128
// represented number of type T.
func DecodeUnsigned[T Unsigned](src ByteSource) (T, error) {
	u, err := decodeFixed(src, Width[T](), false)
	if err != nil {
		var zero T
		return zero, wrapErr("decode", TypeName[T](), 0, err)
	}
	return fromBits[T](u), nil
}

// DecodeSigned decodes a signed Little Endian Base 128
// represented number of type T.
func DecodeSigned[T Signed](src ByteSource) (T, error) {
	u, err := decodeFixed(src, Width[T](), true)
	if err != nil {
		var zero T
		return zero, wrapErr("decode", TypeName[T](), 0, err)
	}
	return fromBits[T](u), nil
}

// UnsignedFromBytes decodes an unsigned value from the start of buf and
// returns it together with the number of bytes it occupied.
func UnsignedFromBytes[T Unsigned](buf []byte) (T, int, error) {
	r := bytes.NewReader(buf)
	v, err := DecodeUnsigned[T](NewSource(r))
	return v, len(buf) - r.Len(), err
}

// SignedFromBytes decodes a signed value from the start of buf and returns
// it together with the number of bytes it occupied.
func SignedFromBytes[T Signed](buf []byte) (T, int, error) {
	r := bytes.NewReader(buf)
	v, err := DecodeSigned[T](NewSource(r))
	return v, len(buf) - r.Len(), err
}
