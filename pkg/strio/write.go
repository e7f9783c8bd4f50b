package strio

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-delve/leb128/pkg/numio"
)

// All writers return the number of bytes written, length prefixes included.

// WriteLenUTF8 writes the length of s as an L followed by s.
func WriteLenUTF8[L LengthPrefix](w io.Writer, order binary.ByteOrder, s string) (int, error) {
	limit := ^L(0)
	if uint64(len(s)) > uint64(limit) {
		return 0, fmt.Errorf("%w: %d bytes, prefix holds at most %d", ErrTooLong, len(s), limit)
	}
	if err := numio.Write(w, order, L(len(s))); err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, s)
	return numio.Size[L]() + n, err
}

// WriteUTF8 writes s unchanged.
func WriteUTF8(w io.Writer, s string) (int, error) {
	return io.WriteString(w, s)
}

// WriteZeroTerminated writes s followed by a NUL byte. If s already ends
// with NUL no other one is added, a NUL anywhere else is an error.
func WriteZeroTerminated(w io.Writer, s string) (int, error) {
	body := strings.TrimSuffix(s, "\x00")
	if strings.IndexByte(body, 0) >= 0 {
		return 0, ErrNulByte
	}
	n, err := io.WriteString(w, body)
	if err != nil {
		return n, err
	}
	if err := numio.Write(w, binary.LittleEndian, uint8(0)); err != nil {
		return n, err
	}
	return n + 1, nil
}

// WriteUTF16 writes s as UTF-16 code units.
func WriteUTF16(w io.Writer, order binary.ByteOrder, s string) (int, error) {
	runes, err := toRunes(s)
	if err != nil {
		return 0, err
	}
	units := utf16.Encode(runes)
	if err := numio.WriteSlice(w, order, units); err != nil {
		return 0, err
	}
	return 2 * len(units), nil
}

// WriteUTF32 writes s as UTF-32 code units.
func WriteUTF32(w io.Writer, order binary.ByteOrder, s string) (int, error) {
	runes, err := toRunes(s)
	if err != nil {
		return 0, err
	}
	units := make([]uint32, len(runes))
	for i, r := range runes {
		units[i] = uint32(r)
	}
	if err := numio.WriteSlice(w, order, units); err != nil {
		return 0, err
	}
	return 4 * len(units), nil
}

// WriteJavaUTF writes s so that Java's DataInput.readUTF can read it back.
// NUL is written as the two bytes C0 80 and supplementary characters as two
// three byte surrogates.
func WriteJavaUTF(w io.Writer, s string) (int, error) {
	runes, err := toRunes(s)
	if err != nil {
		return 0, err
	}
	units := utf16.Encode(runes)

	buf := make([]byte, 2, 2+len(units))
	for _, c := range units {
		switch {
		case c != 0 && c < 0x80:
			buf = append(buf, byte(c))
		case c < 0x800:
			buf = append(buf, byte(0xC0|c>>6&0x1F), byte(0x80|c&0x3F))
		default:
			buf = append(buf, byte(0xE0|c>>12&0x0F), byte(0x80|c>>6&0x3F), byte(0x80|c&0x3F))
		}
	}
	count := len(buf) - 2
	if count > 0xFFFF {
		return 0, fmt.Errorf("%w: %d bytes of modified utf-8", ErrTooLong, count)
	}
	binary.BigEndian.PutUint16(buf, uint16(count))
	return w.Write(buf)
}

func toRunes(s string) ([]rune, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: invalid utf-8", ErrInvalidData)
	}
	return []rune(s), nil
}
