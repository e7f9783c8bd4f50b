package leb128

const (
	// Arbitrary width values are moved through a 64-bit accumulator in
	// windows of 7 bytes, which is 8 groups of 7 bits.
	windowBytes = 7
	windowBits  = 8 * windowBytes
	// A decode accumulator at or past this many bits holds a full window.
	flushShift = 54

	initialLargeCap = 16
)

// DecodeLargeUnsigned decodes an unsigned Little Endian Base 128 number of
// arbitrary length. The value is returned in little endian byte order.
// maxSize caps the length of the returned slice, not the number of bytes
// read from src. A leading zero byte that does not fit is dropped, any
// other excess byte is an ErrTooLarge error.
func DecodeLargeUnsigned(src ByteSource, maxSize int) ([]byte, error) {
	b, err := decodeLarge(src, maxSize, false)
	return b, wrapErr("decode", "unsigned", maxSize, err)
}

// DecodeLargeSigned decodes a signed Little Endian Base 128 number of
// arbitrary length. The value is returned in little endian two's complement.
// maxSize caps the length of the returned slice. Sign extension bytes that
// do not fit are dropped, any other excess byte is an ErrTooLarge error.
func DecodeLargeSigned(src ByteSource, maxSize int) ([]byte, error) {
	b, err := decodeLarge(src, maxSize, true)
	return b, wrapErr("decode", "signed", maxSize, err)
}

// EncodeLargeUnsigned encodes the little endian value to the unsigned Little
// Endian Base 128 format. value need not be minimal but must not be empty.
func EncodeLargeUnsigned(dst ByteSink, value []byte) error {
	return wrapErr("encode", "unsigned", 0, encodeLarge(dst, value, false))
}

// EncodeLargeSigned encodes the little endian two's complement value to the
// signed Little Endian Base 128 format. value must not be empty.
func EncodeLargeSigned(dst ByteSink, value []byte) error {
	return wrapErr("encode", "signed", 0, encodeLarge(dst, value, true))
}

// AppendLargeUnsigned appends the encoding of value to buf.
func AppendLargeUnsigned(buf []byte, value []byte) ([]byte, error) {
	s := appendSink{buf: buf}
	if err := EncodeLargeUnsigned(&s, value); err != nil {
		return buf, err
	}
	return s.buf, nil
}

// AppendLargeSigned appends the encoding of value to buf.
func AppendLargeSigned(buf []byte, value []byte) ([]byte, error) {
	s := appendSink{buf: buf}
	if err := EncodeLargeSigned(&s, value); err != nil {
		return buf, err
	}
	return s.buf, nil
}

func decodeLarge(src ByteSource, maxSize int, signed bool) ([]byte, error) {
	if maxSize < 0 {
		return nil, ErrInvalidInput
	}
	var (
		acc   uint64
		shift uint
		first = true
	)
	out := make([]byte, 0, min(maxSize, initialLargeCap))
	for {
		if shift >= flushShift {
			if len(out)+windowBytes > maxSize {
				return nil, ErrTooLarge
			}
			out = appendWindow(out, acc)
			acc, shift = 0, 0
		}

		b, err := readGroup(src, first)
		if err != nil {
			return nil, err
		}
		first = false
		acc |= uint64(b&payloadMask) << shift
		shift += 7

		if b&continuationBit == 0 {
			neg := signed && b&signBit != 0
			if neg {
				acc |= ^uint64(0) << shift
			}
			return finishLarge(out, acc, shift, maxSize, signed, neg)
		}
	}
}

func appendWindow(out []byte, acc uint64) []byte {
	for i := 0; i < windowBytes; i++ {
		out = append(out, byte(acc>>(8*i)))
	}
	return out
}

// finishLarge moves the bytes left in the accumulator to out.
func finishLarge(out []byte, acc uint64, shift uint, maxSize int, signed, neg bool) ([]byte, error) {
	for shift > 0 {
		if shift > 8 {
			shift -= 8
		} else {
			shift = 0
		}
		next := byte(acc)
		if len(out) >= maxSize {
			if shift == 0 && redundantByte(out, next, signed, neg) {
				return out, nil
			}
			return nil, ErrTooLarge
		}
		out = append(out, next)
		acc >>= 8
	}
	return out, nil
}

// redundantByte reports whether next, the most significant byte of a value,
// can be dropped without changing it. For signed values the byte below must
// already carry the sign.
func redundantByte(out []byte, next byte, signed, neg bool) bool {
	if !signed {
		return next == 0
	}
	fill := byte(0)
	if neg {
		fill = 0xff
	}
	if next != fill {
		return false
	}
	if len(out) == 0 {
		return !neg
	}
	return (out[len(out)-1]&0x80 != 0) == neg
}

func encodeLarge(dst ByteSink, value []byte, signed bool) error {
	if len(value) == 0 {
		return ErrInvalidInput
	}
	neg := signed && value[len(value)-1]&0x80 != 0
	fill := byte(0)
	if neg {
		fill = 0xff
	}
	last := len(value)
	for last > 0 && value[last-1] == fill {
		last--
	}
	if last == 0 {
		if neg {
			return writeGroup(dst, payloadMask)
		}
		return writeGroup(dst, 0)
	}

	acc, size, err := pumpLarge(dst, value[:last])
	if err != nil {
		return err
	}
	if !signed {
		return flushUnsigned(dst, acc, size)
	}
	if neg {
		acc |= ^uint64(0) << size
	}
	return flushSigned(dst, acc)
}

// pumpLarge writes every full window of value as 8 continuation groups and
// returns what is left in the accumulator together with its size in bits.
func pumpLarge(dst ByteSink, value []byte) (acc uint64, size uint, err error) {
	for _, x := range value {
		if size >= windowBits {
			for size > 0 {
				size -= 7
				if err := writeGroup(dst, byte(acc&payloadMask)|continuationBit); err != nil {
					return 0, 0, err
				}
				acc >>= 7
			}
		}
		acc |= uint64(x) << size
		size += 8
	}
	return acc, size, nil
}

func flushUnsigned(dst ByteSink, acc uint64, size uint) error {
	for {
		size = subBudget(size)
		next := byte(acc & payloadMask)
		acc >>= 7
		if size == 0 || acc == 0 {
			return writeGroup(dst, next)
		}
		if err := writeGroup(dst, next|continuationBit); err != nil {
			return err
		}
	}
}

// flushSigned writes the sign extended accumulator, stopping at the first
// group after which only sign extension would follow.
func flushSigned(dst ByteSink, acc uint64) error {
	ones := ^uint64(0)
	for {
		next := byte(acc & payloadMask)
		acc >>= 7
		ones >>= 7
		if next&signBit != 0 && acc == ones || next&signBit == 0 && acc == 0 {
			return writeGroup(dst, next)
		}
		if err := writeGroup(dst, next|continuationBit); err != nil {
			return err
		}
	}
}
