package leb128

// EncodeUnsigned encodes x to the unsigned Little Endian Base 128 format.
// The encoding is minimal and never longer than the width of T allows.
func EncodeUnsigned[T Unsigned](dst ByteSink, x T) error {
	return encodeFixedUnsigned(dst, toBits(x), Width[T]())
}

// EncodeSigned encodes x to the signed Little Endian Base 128 format.
//
// The encoding never uses more than ceil(W/7) groups for a W bit type. Values
// whose standard SLEB128 form would need one more group end on a group that
// only fits the remaining bits of the width instead, so they differ from what
// other encoders produce: int16 values below -8192 (-32768 is 80 80 02, not
// 80 80 7e) and int128 values close to the minimum. DecodeSigned accepts both
// forms, other decoders may read them as positive values.
func EncodeSigned[T Signed](dst ByteSink, x T) error {
	return encodeFixedSigned(dst, toBits(x), Width[T]())
}

// The in-memory sinks used below never fail, the encode errors are always nil.

// AppendUnsigned appends the encoding of x to buf.
func AppendUnsigned[T Unsigned](buf []byte, x T) []byte {
	s := appendSink{buf: buf}
	encodeFixedUnsigned(&s, toBits(x), Width[T]())
	return s.buf
}

// AppendSigned appends the encoding of x to buf.
func AppendSigned[T Signed](buf []byte, x T) []byte {
	s := appendSink{buf: buf}
	encodeFixedSigned(&s, toBits(x), Width[T]())
	return s.buf
}

// UnsignedSize returns the number of bytes EncodeUnsigned writes for x.
func UnsignedSize[T Unsigned](x T) int {
	var s countSink
	encodeFixedUnsigned(&s, toBits(x), Width[T]())
	return s.n
}

// SignedSize returns the number of bytes EncodeSigned writes for x.
func SignedSize[T Signed](x T) int {
	var s countSink
	encodeFixedSigned(&s, toBits(x), Width[T]())
	return s.n
}
