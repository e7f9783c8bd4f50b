package numio

import (
	"bytes"
	"io"
)

// FromReader is implemented by types that fill themselves from a stream,
// usually with a sequence of Read and leb128 decode calls.
type FromReader interface {
	CopyFromReader(r io.Reader) error
}

// ToWriter is implemented by types that serialize themselves to a stream.
type ToWriter interface {
	CopyToWriter(w io.Writer) error
}

// Decode returns a T filled from r.
func Decode[T any, P interface {
	*T
	FromReader
}](r io.Reader) (T, error) {
	var v T
	err := P(&v).CopyFromReader(r)
	return v, err
}

// FromBytes returns a T filled from b. Trailing bytes are ignored.
func FromBytes[T any, P interface {
	*T
	FromReader
}](b []byte) (T, error) {
	return Decode[T, P](bytes.NewReader(b))
}

// AppendTo appends the serialization of v to buf.
func AppendTo(buf []byte, v ToWriter) ([]byte, error) {
	w := bytes.NewBuffer(buf)
	err := v.CopyToWriter(w)
	return w.Bytes(), err
}
