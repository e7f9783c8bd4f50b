package wide

import (
	"errors"
	"math/big"
)

var errNegativeUnsigned = errors.New("negative value has no unsigned representation")

// LittleEndian returns the shortest little endian representation of x.
// When signed is true the result is two's complement and its top bit carries
// the sign of x; otherwise x must not be negative and the magnitude is
// returned. Zero is returned as a single 0x00 byte.
func LittleEndian(x *big.Int, signed bool) ([]byte, error) {
	if x.Sign() < 0 {
		if !signed {
			return nil, errNegativeUnsigned
		}
		// -x-1 has the same bit length as the payload of x.
		m := new(big.Int).Neg(x)
		m.Sub(m, big.NewInt(1))
		n := m.BitLen()/8 + 1
		y := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
		y.Add(y, x)
		return reverse(y.FillBytes(make([]byte, n))), nil
	}

	b := x.Bytes()
	if len(b) == 0 {
		return []byte{0}, nil
	}
	if signed && b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return reverse(b), nil
}

// FromLittleEndian is the inverse of LittleEndian. An empty slice is zero.
func FromLittleEndian(b []byte, signed bool) *big.Int {
	be := reverse(append([]byte(nil), b...))
	x := new(big.Int).SetBytes(be)
	if signed && len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}

// SignExtend returns a copy of the little endian two's complement value b
// widened to n bytes. If b is already n bytes or longer it is copied as is.
func SignExtend(b []byte, n int) []byte {
	fill := byte(0)
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		fill = 0xff
	}
	return extend(b, n, fill)
}

// ZeroExtend is like SignExtend but always pads with zero bytes.
func ZeroExtend(b []byte, n int) []byte {
	return extend(b, n, 0)
}

func extend(b []byte, n int, fill byte) []byte {
	if len(b) >= n {
		return append([]byte(nil), b...)
	}
	out := make([]byte, n)
	copy(out, b)
	for i := len(b); i < n; i++ {
		out[i] = fill
	}
	return out
}

func reverse(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
