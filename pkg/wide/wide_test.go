package wide

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigFromString(t *testing.T, s string) *big.Int {
	t.Helper()
	x, ok := new(big.Int).SetString(s, 0)
	require.True(t, ok, "bad literal %q", s)
	return x
}

func TestLittleEndianSigned(t *testing.T) {
	tc := []struct {
		in   string
		want []byte
	}{
		{"0", []byte{0x00}},
		{"1", []byte{0x01}},
		{"127", []byte{0x7f}},
		{"128", []byte{0x80, 0x00}},
		{"-1", []byte{0xff}},
		{"-128", []byte{0x80}},
		{"-129", []byte{0x7f, 0xff}},
		{"-32768", []byte{0x00, 0x80}},
		{"65535", []byte{0xff, 0xff, 0x00}},
	}
	for _, c := range tc {
		got, err := LittleEndian(bigFromString(t, c.in), true)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "input %s", c.in)
		assert.Equal(t, c.in, FromLittleEndian(got, true).String())
	}
}

func TestLittleEndianUnsigned(t *testing.T) {
	got, err := LittleEndian(big.NewInt(0x1234), false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x34, 0x12}, got)

	got, err = LittleEndian(big.NewInt(0xff), false)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, got)
	assert.Equal(t, "255", FromLittleEndian(got, false).String())

	_, err = LittleEndian(big.NewInt(-1), false)
	assert.Error(t, err)
}

func TestInt128(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -123456, 1 << 62, -1 << 63} {
		x := Int128From64(v)
		assert.Equal(t, big.NewInt(v).String(), x.String())
		y, err := Int128FromBig(big.NewInt(v))
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}

	minStr := "-170141183460469231731687303715884105728"
	maxStr := "170141183460469231731687303715884105727"
	assert.Equal(t, minStr, MinInt128.String())
	assert.Equal(t, maxStr, MaxInt128.String())
	assert.Equal(t, MinInt128, MinInt128.Neg())
	assert.Equal(t, -1, MinInt128.Sign())
	assert.Equal(t, 1, MaxInt128.Sign())
	assert.Equal(t, 0, Int128{}.Sign())

	_, err := Int128FromBig(new(big.Int).Add(bigFromString(t, maxStr), big.NewInt(1)))
	assert.Error(t, err)
	_, err = Int128FromBig(new(big.Int).Sub(bigFromString(t, minStr), big.NewInt(1)))
	assert.Error(t, err)

	// -(1 << 76)
	x, err := Int128FromBig(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 76)))
	require.NoError(t, err)
	assert.Equal(t, Int128{Lo: 0, Hi: 0xFFFFFFFFFFFFF000}, x)
}

func TestExtend(t *testing.T) {
	assert.Equal(t, []byte{0x80, 0xff, 0xff}, SignExtend([]byte{0x80}, 3))
	assert.Equal(t, []byte{0x7f, 0x00, 0x00}, SignExtend([]byte{0x7f}, 3))
	assert.Equal(t, []byte{0x80, 0x00}, ZeroExtend([]byte{0x80}, 2))
	assert.Equal(t, []byte{1, 2, 3}, SignExtend([]byte{1, 2, 3}, 2))
}
