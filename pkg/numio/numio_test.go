package numio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/go-delve/leb128/pkg/wide"
)

var orders = []binary.ByteOrder{binary.LittleEndian, binary.BigEndian, binary.NativeEndian}

func roundTrip[T Fixed](t *testing.T, values ...T) {
	t.Helper()
	for _, order := range orders {
		var buf bytes.Buffer
		for _, v := range values {
			require.NoError(t, Write(&buf, order, v))
		}
		require.Equal(t, len(values)*Size[T](), buf.Len())
		for _, v := range values {
			got, err := Read[T](&buf, order)
			require.NoError(t, err)
			assert.Equal(t, v, got, "%v", order)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	roundTrip(t, uint8(0), uint8(0xff))
	roundTrip(t, int8(-128), int8(127))
	roundTrip(t, uint16(0x1234), uint16(0))
	roundTrip(t, int16(-2), int16(math.MaxInt16))
	roundTrip(t, uint32(0xdeadbeef))
	roundTrip(t, int32(math.MinInt32))
	roundTrip(t, uint64(math.MaxUint64), uint64(1))
	roundTrip(t, int64(math.MinInt64), int64(-1))
	roundTrip(t, float32(3.5), float32(math.Inf(-1)))
	roundTrip(t, float64(math.Pi), math.SmallestNonzeroFloat64)
	roundTrip(t, uint128.New(1, 2), uint128.Max)
	roundTrip(t, wide.MinInt128, wide.MaxInt128, wide.Int128From64(-3))
}

func TestByteOrder(t *testing.T) {
	x := uint128.New(0x0807060504030201, 0x100f0e0d0c0b0a09)

	var le, be bytes.Buffer
	require.NoError(t, Write(&le, binary.LittleEndian, x))
	require.NoError(t, Write(&be, binary.BigEndian, x))

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	assert.Equal(t, want, le.Bytes())
	for i := range want {
		assert.Equal(t, want[i], be.Bytes()[15-i])
	}

	var b bytes.Buffer
	require.NoError(t, Write(&b, binary.BigEndian, int32(-2)))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xfe}, b.Bytes())
}

func TestSlices(t *testing.T) {
	src := []int16{-1, 2, -300, math.MinInt16}
	var buf bytes.Buffer
	require.NoError(t, WriteSlice(&buf, binary.BigEndian, src))
	assert.Equal(t, 8, buf.Len())

	got, err := ReadN[int16](&buf, binary.BigEndian, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, got)

	require.NoError(t, WriteSlice[int16](&buf, binary.BigEndian, nil))
	assert.Equal(t, 0, buf.Len())
}

func TestBool(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBool(&buf, true))
	require.NoError(t, WriteBool(&buf, false))
	buf.WriteByte(0x7f)
	assert.Equal(t, []byte{1, 0, 0x7f}, buf.Bytes())

	for _, want := range []bool{true, false, true} {
		v, err := ReadBool(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestShortRead(t *testing.T) {
	_, err := Read[uint32](bytes.NewReader(nil), binary.LittleEndian)
	assert.Equal(t, io.EOF, err)

	_, err = Read[uint32](bytes.NewReader([]byte{1, 2}), binary.LittleEndian)
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = ReadN[uint128.Uint128](bytes.NewReader(make([]byte, 20)), binary.LittleEndian, 2)
	assert.Equal(t, io.ErrUnexpectedEOF, err)
}
