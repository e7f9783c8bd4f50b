// Package strio reads and writes strings in the encodings found in binary
// formats: UTF-8 with a fixed size length prefix, zero terminated UTF-8,
// UTF-16 and UTF-32 in either byte order, and the modified UTF-8 used by
// Java's DataInput and DataOutput.
//
// Lengths of UTF-16 and UTF-32 strings are counted in code units, the
// caller stores them separately.
package strio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-delve/leb128/pkg/numio"
)

var (
	// ErrInvalidData is returned for bytes that are not valid in the
	// requested encoding.
	ErrInvalidData = errors.New("invalid string data")
	// ErrWrongByteOrder is returned when a UTF-16 or UTF-32 string starts
	// with a byte swapped byte order mark.
	ErrWrongByteOrder = errors.New("byte order mark 0xFFFE found, wrong byte order")
	// ErrTooLong is returned when a string does not fit its length prefix.
	ErrTooLong = errors.New("string too long")
	// ErrNulByte is returned when a zero terminated string contains a NUL
	// before its end.
	ErrNulByte = errors.New("NUL byte found in string")
)

// LengthPrefix is the set of types usable as a length prefix.
type LengthPrefix interface {
	uint8 | uint16 | uint32
}

// ReadLenUTF8 reads a length prefix of type L followed by that many bytes
// of UTF-8.
func ReadLenUTF8[L LengthPrefix](r io.Reader, order binary.ByteOrder) (string, error) {
	n, err := numio.Read[L](r, order)
	if err != nil {
		return "", err
	}
	return ReadUTF8(r, int(n))
}

// ReadUTF8 reads size bytes of UTF-8.
func ReadUTF8(r io.Reader, size int) (string, error) {
	if size < 0 {
		return "", errNegativeLength(size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrInvalidData)
	}
	return string(buf), nil
}

// ReadZeroTerminated reads UTF-8 up to and excluding a NUL byte.
func ReadZeroTerminated(r io.Reader) (string, error) {
	var buf []byte
	for {
		c, err := numio.Read[uint8](r, binary.LittleEndian)
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return "", err
		}
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrInvalidData)
	}
	return string(buf), nil
}

// ReadUTF16 reads n UTF-16 code units.
func ReadUTF16(r io.Reader, order binary.ByteOrder, n int) (string, error) {
	if n < 0 {
		return "", errNegativeLength(n)
	}
	units, err := numio.ReadN[uint16](r, order, n)
	if err != nil {
		return "", err
	}
	if len(units) > 0 && units[0] == 0xFFFE {
		return "", ErrWrongByteOrder
	}
	return decodeUTF16(units)
}

// ReadUTF32 reads n UTF-32 code units.
func ReadUTF32(r io.Reader, order binary.ByteOrder, n int) (string, error) {
	if n < 0 {
		return "", errNegativeLength(n)
	}
	units, err := numio.ReadN[uint32](r, order, n)
	if err != nil {
		return "", err
	}
	if len(units) > 0 && units[0] == 0xFFFE0000 {
		return "", ErrWrongByteOrder
	}
	buf := make([]byte, 0, n)
	for _, u := range units {
		if u > utf8.MaxRune || !utf8.ValidRune(rune(u)) {
			return "", fmt.Errorf("%w: %#x is not a valid code point", ErrInvalidData, u)
		}
		buf = utf8.AppendRune(buf, rune(u))
	}
	return string(buf), nil
}

// ReadJavaUTF reads a string written by Java's DataOutput.writeUTF: a big
// endian uint16 byte count followed by modified UTF-8.
func ReadJavaUTF(r io.Reader) (string, error) {
	n, err := numio.Read[uint16](r, binary.BigEndian)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	units := make([]uint16, 0, len(buf))
	for i := 0; i < len(buf); {
		c := uint16(buf[i])
		switch c >> 4 {
		case 0, 1, 2, 3, 4, 5, 6, 7:
			units = append(units, c)
			i++
		case 12, 13:
			if i+2 > len(buf) || buf[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: malformed modified utf-8 at byte %d", ErrInvalidData, i)
			}
			units = append(units, (c&0x1F)<<6|uint16(buf[i+1]&0x3F))
			i += 2
		case 14:
			if i+3 > len(buf) || buf[i+1]&0xC0 != 0x80 || buf[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: malformed modified utf-8 at byte %d", ErrInvalidData, i)
			}
			units = append(units, (c&0x0F)<<12|uint16(buf[i+1]&0x3F)<<6|uint16(buf[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("%w: malformed modified utf-8 at byte %d", ErrInvalidData, i)
		}
	}
	return decodeUTF16(units)
}

func errNegativeLength(n int) error {
	return fmt.Errorf("%w: negative length %d", ErrInvalidData, n)
}

// decodeUTF16 is utf16.Decode without the silent replacement of unpaired
// surrogates.
func decodeUTF16(units []uint16) (string, error) {
	buf := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if utf16.IsSurrogate(r) {
			if i+1 >= len(units) {
				return "", fmt.Errorf("%w: unpaired surrogate %#x", ErrInvalidData, r)
			}
			r = utf16.DecodeRune(r, rune(units[i+1]))
			if r == utf8.RuneError {
				return "", fmt.Errorf("%w: unpaired surrogate %#x", ErrInvalidData, units[i])
			}
			i++
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf), nil
}
