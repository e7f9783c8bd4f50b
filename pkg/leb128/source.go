package leb128

import (
	"io"
)

// ByteSource is something the decoders can drain bytes from.
type ByteSource interface {
	// ReadExact fills p completely or returns an error.
	ReadExact(p []byte) error
}

// ByteSink is something the encoders can write bytes to.
type ByteSink interface {
	// WriteExact writes all of p or returns an error.
	WriteExact(p []byte) error
}

// NewSource adapts r to a ByteSource. If r also implements io.ByteReader,
// as bytes.Reader and bufio.Reader do, single groups are read through it.
func NewSource(r io.Reader) ByteSource {
	if s, ok := r.(ByteSource); ok {
		return s
	}
	br, _ := r.(io.ByteReader)
	return &readerSource{r: r, br: br}
}

// NewSink adapts w to a ByteSink. If w also implements io.ByteWriter single
// groups are written through it.
func NewSink(w io.Writer) ByteSink {
	if s, ok := w.(ByteSink); ok {
		return s
	}
	bw, _ := w.(io.ByteWriter)
	return &writerSink{w: w, bw: bw}
}

type readerSource struct {
	r   io.Reader
	br  io.ByteReader
	one [1]byte
}

func (s *readerSource) ReadExact(p []byte) error {
	_, err := io.ReadFull(s.r, p)
	return err
}

func (s *readerSource) ReadByte() (byte, error) {
	if s.br != nil {
		return s.br.ReadByte()
	}
	if err := s.ReadExact(s.one[:]); err != nil {
		return 0, err
	}
	return s.one[0], nil
}

type writerSink struct {
	w   io.Writer
	bw  io.ByteWriter
	one [1]byte
}

func (s *writerSink) WriteExact(p []byte) error {
	for len(p) > 0 {
		n, err := s.w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

func (s *writerSink) WriteByte(c byte) error {
	if s.bw != nil {
		return s.bw.WriteByte(c)
	}
	s.one[0] = c
	return s.WriteExact(s.one[:])
}

// appendSink collects encoded groups in memory. It never fails.
type appendSink struct {
	buf []byte
}

func (s *appendSink) WriteExact(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

func (s *appendSink) WriteByte(c byte) error {
	s.buf = append(s.buf, c)
	return nil
}

// countSink only counts the groups written to it. It never fails.
type countSink struct {
	n int
}

func (s *countSink) WriteExact(p []byte) error {
	s.n += len(p)
	return nil
}

func (s *countSink) WriteByte(c byte) error {
	s.n++
	return nil
}

// readGroup reads a single LEB128 group. Running out of input after the
// first group of a value is reported as io.ErrUnexpectedEOF.
func readGroup(src ByteSource, first bool) (byte, error) {
	var (
		b   byte
		err error
	)
	if br, ok := src.(io.ByteReader); ok {
		b, err = br.ReadByte()
	} else {
		var p [1]byte
		err = src.ReadExact(p[:])
		b = p[0]
	}
	if err == io.EOF && !first {
		err = io.ErrUnexpectedEOF
	}
	return b, err
}

func writeGroup(dst ByteSink, b byte) error {
	if bw, ok := dst.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	return dst.WriteExact([]byte{b})
}
