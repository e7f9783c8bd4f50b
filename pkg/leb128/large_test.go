package leb128

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-delve/leb128/pkg/wide"
)

func TestDecodeLargeDropsLeadingZero(t *testing.T) {
	out, err := DecodeLargeUnsigned(source(0x80, 0x80, 0x01), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x40}, out)
}

func TestDecodeLargeUnsigned(t *testing.T) {
	out, err := DecodeLargeUnsigned(source(128, 244, 222, 12), 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xBA, 0x97, 0x01}, out)

	enc, err := AppendLargeUnsigned(nil, out)
	require.NoError(t, err)
	assert.Equal(t, []byte{128, 244, 222, 12}, enc)
}

func TestDecodeLargeUint64Max(t *testing.T) {
	in := AppendUnsigned(nil, uint64(math.MaxUint64))
	out, err := DecodeLargeUnsigned(source(in...), 8)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 8), out)

	_, err = DecodeLargeUnsigned(source(in...), 7)
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = DecodeLargeUnsigned(source(in...), 4)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDecodeLargeTooLarge(t *testing.T) {
	_, err := DecodeLargeUnsigned(source(0x80, 0x80, 0x80, 0x01), 2)
	require.ErrorIs(t, err, ErrTooLarge)
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 2, lerr.MaxSize)
	assert.Equal(t, "leb128: decode unsigned: value larger than maximum size (2 bytes)", err.Error())

	// +32768 needs a third byte to stay positive.
	_, err = DecodeLargeSigned(source(0x80, 0x80, 0x02), 2)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDecodeLargeZeroSize(t *testing.T) {
	out, err := DecodeLargeUnsigned(source(0x00), 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = DecodeLargeSigned(source(0x00), 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = DecodeLargeSigned(source(0x7f), 0)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLargeInvalidInput(t *testing.T) {
	_, err := AppendLargeUnsigned(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = AppendLargeSigned(nil, []byte{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = DecodeLargeUnsigned(source(0x01), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEncodeLargeTrimsHighZeros(t *testing.T) {
	enc, err := AppendLargeUnsigned(nil, []byte{0x80, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x01}, enc)

	enc, err = AppendLargeUnsigned(nil, []byte{0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, enc)

	enc, err = AppendLargeSigned(nil, []byte{0xff, 0xff})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7f}, enc)
}

func TestEncodeLargeSigned(t *testing.T) {
	tc := []struct {
		value []byte
		want  []byte
	}{
		{[]byte{0x00, 0xc0}, []byte{0x80, 0x80, 0x7f}}, // -16384
		{[]byte{0x00, 0xe0}, []byte{0x80, 0x40}},       // -8192
		{[]byte{0x40, 0x00}, []byte{0xc0, 0x00}},       // 64
		{[]byte{0xc0, 0xff}, []byte{0x40}},             // -64
	}
	for _, c := range tc {
		enc, err := AppendLargeSigned(nil, c.value)
		require.NoError(t, err)
		assert.Equal(t, c.want, enc, "value %x", c.value)

		out, err := DecodeLargeSigned(source(enc...), len(c.value))
		require.NoError(t, err)
		assert.Equal(t, c.value, wide.SignExtend(out, len(c.value)), "value %x", c.value)
	}
}

func TestLargeMatchesFixed16(t *testing.T) {
	for i := 0; i <= math.MaxUint16; i++ {
		le := []byte{byte(i), byte(i >> 8)}

		u, err := AppendLargeUnsigned(nil, le)
		require.NoError(t, err)
		if !bytes.Equal(u, AppendUnsigned(nil, uint16(i))) {
			t.Fatalf("%#x: unsigned %x != %x", i, u, AppendUnsigned(nil, uint16(i)))
		}
		out, err := DecodeLargeUnsigned(source(u...), 2)
		require.NoError(t, err)
		if !bytes.Equal(wide.ZeroExtend(out, 2), le) {
			t.Fatalf("%#x: unsigned round trip %x", i, out)
		}

		s, err := AppendLargeSigned(nil, le)
		require.NoError(t, err)
		// Below -8192 the fixed encoder ends on its width budget instead of
		// a sign extended group.
		if v := int16(uint16(i)); v >= -8192 && !bytes.Equal(s, AppendSigned(nil, v)) {
			t.Fatalf("%d: signed %x != %x", v, s, AppendSigned(nil, v))
		}
		out, err = DecodeLargeSigned(source(s...), 2)
		require.NoError(t, err)
		if !bytes.Equal(wide.SignExtend(out, 2), le) {
			t.Fatalf("%#x: signed round trip %x", i, out)
		}
	}
}

func TestLargeWindows(t *testing.T) {
	for n := 1; n <= 40; n++ {
		value := make([]byte, n)
		for i := range value {
			value[i] = byte(0x9d * (i + 1))
		}
		value[n-1] |= 0x01

		enc, err := AppendLargeUnsigned(nil, value)
		require.NoError(t, err)
		out, err := DecodeLargeUnsigned(source(enc...), n)
		require.NoError(t, err)
		require.Equal(t, value, out, "unsigned %d bytes", n)

		enc, err = AppendLargeSigned(nil, value)
		require.NoError(t, err)
		out, err = DecodeLargeSigned(source(enc...), n)
		require.NoError(t, err)
		require.Equal(t, value, wide.SignExtend(out, n), "signed %d bytes", n)
	}
}

func TestLargeMatchesWide(t *testing.T) {
	x := wide.MinInt128
	le := make([]byte, 16)
	x.PutBytes(le)

	enc, err := AppendLargeSigned(nil, le)
	require.NoError(t, err)
	out, err := DecodeLargeSigned(source(enc...), 16)
	require.NoError(t, err)
	assert.Equal(t, x, wide.Int128FromBytes(wide.SignExtend(out, 16)))

	v, err := DecodeSigned[wide.Int128](source(enc...))
	require.NoError(t, err)
	assert.Equal(t, x, v)
}
