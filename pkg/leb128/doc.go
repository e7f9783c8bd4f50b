// Package leb128 provides encoders and decoders for the Little Endian Base 128
// format. The Little Endian Base 128 format is defined in the DWARF v4 standard,
// section 7.6, page 161 and following.
//
// Fixed width integers (16, 32, 64 and 128 bits, signed and unsigned) are
// handled by DecodeUnsigned, DecodeSigned, EncodeUnsigned and EncodeSigned.
// Integers of arbitrary width, represented as little endian byte slices, are
// handled by the Large variants, which take a cap on the size of the decoded
// value.
//
// Decoding is strict: encodings that need more bits than the declared width,
// or that carry redundant trailing groups past the width, are rejected with
// ErrOverflow.
package leb128
