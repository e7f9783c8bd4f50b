package leb128

import (
	"errors"
	"fmt"
)

var (
	// ErrOverflow is returned when a fixed width decode meets more
	// significant groups than the integer type can hold.
	ErrOverflow = errors.New("value overflows integer width")
	// ErrTooLarge is returned when an arbitrary width decode would produce
	// more bytes than the caller allowed.
	ErrTooLarge = errors.New("value larger than maximum size")
	// ErrInvalidInput is returned when an arbitrary width encode is given an
	// empty value, or a decode is given a negative maximum size.
	ErrInvalidInput = errors.New("invalid input")
)

// Error is the error returned for values the codec refuses. Failures of the
// underlying ByteSource or ByteSink are returned unchanged instead.
type Error struct {
	Op      string // "decode" or "encode"
	Type    string // u16 ... i128, "unsigned" or "signed" for arbitrary width
	MaxSize int    // only meaningful for ErrTooLarge
	Err     error
}

func (e *Error) Error() string {
	if e.Err == ErrTooLarge {
		return fmt.Sprintf("leb128: %s %s: %v (%d bytes)", e.Op, e.Type, e.Err, e.MaxSize)
	}
	return fmt.Sprintf("leb128: %s %s: %v", e.Op, e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapErr attaches context to the codec's own errors and passes I/O errors
// through untouched.
func wrapErr(op, typ string, maxSize int, err error) error {
	switch err {
	case nil:
		return nil
	case ErrOverflow, ErrTooLarge, ErrInvalidInput:
		return &Error{Op: op, Type: typ, MaxSize: maxSize, Err: err}
	}
	return err
}
