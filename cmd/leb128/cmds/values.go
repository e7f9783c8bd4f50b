package cmds

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"lukechampine.com/uint128"

	"github.com/go-delve/leb128/pkg/leb128"
	"github.com/go-delve/leb128/pkg/wide"
)

// intTypes lists every value accepted by --type. uint and int select the
// arbitrary width codec.
var intTypes = []string{"u16", "u32", "u64", "u128", "i16", "i32", "i64", "i128", "uint", "int"}

// intType is the integer type a value is encoded as or decoded to.
type intType string

func (t *intType) String() string { return string(*t) }
func (t *intType) Type() string   { return "type" }

func (t *intType) Set(s string) error {
	for _, name := range intTypes {
		if s == name {
			*t = intType(s)
			return nil
		}
	}
	return fmt.Errorf("unknown type %q, must be one of %s", s, strings.Join(intTypes, ", "))
}

func (t intType) signed() bool {
	return t == "int" || strings.HasPrefix(string(t), "i")
}

// width returns the bit width of t, 0 for the arbitrary width types.
func (t intType) width() uint {
	switch t {
	case "u16", "i16":
		return 16
	case "u32", "i32":
		return 32
	case "u64", "i64":
		return 64
	case "u128", "i128":
		return 128
	}
	return 0
}

// outputMode selects how encoded values are printed.
type outputMode string

const (
	outputAuto outputMode = "auto"
	outputHex  outputMode = "hex"
	outputRaw  outputMode = "raw"
)

func (o *outputMode) String() string { return string(*o) }
func (o *outputMode) Type() string   { return "output" }

func (o *outputMode) Set(s string) error {
	switch outputMode(s) {
	case outputAuto, outputHex, outputRaw:
		*o = outputMode(s)
		return nil
	}
	return fmt.Errorf("unknown output %q, must be one of auto, hex, raw", s)
}

// parseValue parses a decimal, 0x, 0o or 0b prefixed integer.
func parseValue(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("malformed integer %q", s)
	}
	return x, nil
}

func checkRange(typ intType, x *big.Int) error {
	w := typ.width()
	if w == 0 {
		return nil
	}
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), w)
	if typ.signed() {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	hi.Sub(hi, big.NewInt(1))
	if x.Cmp(lo) < 0 || x.Cmp(hi) > 0 {
		return fmt.Errorf("%s out of range for %s", x, typ)
	}
	return nil
}

// appendEncoded appends the encoding of x as typ to buf.
func appendEncoded(buf []byte, typ intType, x *big.Int) ([]byte, error) {
	if err := checkRange(typ, x); err != nil {
		return buf, err
	}
	switch typ {
	case "u16":
		return leb128.AppendUnsigned(buf, uint16(x.Uint64())), nil
	case "u32":
		return leb128.AppendUnsigned(buf, uint32(x.Uint64())), nil
	case "u64":
		return leb128.AppendUnsigned(buf, x.Uint64()), nil
	case "u128":
		return leb128.AppendUnsigned(buf, uint128.FromBig(x)), nil
	case "i16":
		return leb128.AppendSigned(buf, int16(x.Int64())), nil
	case "i32":
		return leb128.AppendSigned(buf, int32(x.Int64())), nil
	case "i64":
		return leb128.AppendSigned(buf, x.Int64()), nil
	case "i128":
		v, err := wide.Int128FromBig(x)
		if err != nil {
			return buf, err
		}
		return leb128.AppendSigned(buf, v), nil
	}
	le, err := wide.LittleEndian(x, typ.signed())
	if err != nil {
		return buf, err
	}
	if typ.signed() {
		return leb128.AppendLargeSigned(buf, le)
	}
	return leb128.AppendLargeUnsigned(buf, le)
}

// decodeValue reads one value of type typ from src.
func decodeValue(src leb128.ByteSource, typ intType, maxSize int) (*big.Int, error) {
	switch typ {
	case "u16":
		v, err := leb128.DecodeUnsigned[uint16](src)
		return new(big.Int).SetUint64(uint64(v)), err
	case "u32":
		v, err := leb128.DecodeUnsigned[uint32](src)
		return new(big.Int).SetUint64(uint64(v)), err
	case "u64":
		v, err := leb128.DecodeUnsigned[uint64](src)
		return new(big.Int).SetUint64(v), err
	case "u128":
		v, err := leb128.DecodeUnsigned[uint128.Uint128](src)
		return v.Big(), err
	case "i16":
		v, err := leb128.DecodeSigned[int16](src)
		return big.NewInt(int64(v)), err
	case "i32":
		v, err := leb128.DecodeSigned[int32](src)
		return big.NewInt(int64(v)), err
	case "i64":
		v, err := leb128.DecodeSigned[int64](src)
		return big.NewInt(v), err
	case "i128":
		v, err := leb128.DecodeSigned[wide.Int128](src)
		return v.Big(), err
	case "int":
		b, err := leb128.DecodeLargeSigned(src, maxSize)
		return wide.FromLittleEndian(b, true), err
	default:
		b, err := leb128.DecodeLargeUnsigned(src, maxSize)
		return wide.FromLittleEndian(b, false), err
	}
}

// parseHex decodes a hex argument. Spaces, colons and a leading 0x are
// ignored so that "c0 bb 78", "c0:bb:78" and "0xc0bb78" are all accepted.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed hex %q: %v", s, err)
	}
	return b, nil
}
