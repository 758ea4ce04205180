package tiff

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Sink is the write-only stream abstraction of spec.md §4.1: it writes
// primitive values in a configured endianness and tracks the current
// byte offset. Its shape follows the teacher's idf.go io.ReaderAt-based
// position tracking, mirrored for writing, generalized from the
// golang-image writer's bare io.Writer plus a side-channel byte count.
type Sink interface {
	io.Writer

	WriteU8(v uint8) error
	WriteU16(v uint16) error
	WriteU32(v uint32) error
	WriteI32(v int32) error
	WriteF32(v float32) error
	WriteF64(v float64) error
	WriteRational(num, den uint32) error
	WriteBytes(p []byte) error

	// Position returns the current byte offset. It is authoritative even
	// for non-seekable sinks backed by a spill cache.
	Position() int64

	// Seekable reports whether Seek can succeed.
	Seekable() bool

	// Seek repositions the sink. It returns ErrUnseekable-wrapped error if
	// the sink does not support random access.
	Seek(pos int64) error
}

// baseSink implements the endian-aware primitive encoders shared by every
// Sink implementation; concrete sinks embed it and provide Write/Seek.
type baseSink struct {
	enc binary.ByteOrder
	pos int64
	w   io.Writer
}

func (s *baseSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	if err != nil {
		return n, errors.Wrap(err, "tiff: sink write failed")
	}
	return n, nil
}

func (s *baseSink) WriteBytes(p []byte) error {
	_, err := s.Write(p)
	return err
}

func (s *baseSink) WriteU8(v uint8) error {
	_, err := s.Write([]byte{v})
	return err
}

func (s *baseSink) WriteU16(v uint16) error {
	var buf [2]byte
	s.enc.PutUint16(buf[:], v)
	_, err := s.Write(buf[:])
	return err
}

func (s *baseSink) WriteU32(v uint32) error {
	var buf [4]byte
	s.enc.PutUint32(buf[:], v)
	_, err := s.Write(buf[:])
	return err
}

func (s *baseSink) WriteI32(v int32) error {
	return s.WriteU32(uint32(v))
}

func (s *baseSink) WriteF32(v float32) error {
	return s.WriteU32(math.Float32bits(v))
}

func (s *baseSink) WriteF64(v float64) error {
	var buf [8]byte
	s.enc.PutUint64(buf[:], math.Float64bits(v))
	_, err := s.Write(buf[:])
	return err
}

func (s *baseSink) WriteRational(num, den uint32) error {
	if err := s.WriteU32(num); err != nil {
		return err
	}
	return s.WriteU32(den)
}

func (s *baseSink) Position() int64 { return s.pos }

// directSink wraps a plain io.Writer. It cannot seek.
type directSink struct {
	baseSink
}

// NewSink wraps w as a non-seekable Sink using byte order enc.
func NewSink(w io.Writer, enc binary.ByteOrder) Sink {
	return &directSink{baseSink{enc: enc, w: w}}
}

func (s *directSink) Seekable() bool { return false }

func (s *directSink) Seek(pos int64) error {
	return validationError(ErrUnseekable, "sink does not support random access")
}

// seekableSink wraps an io.WriteSeeker, allowing the page writer to patch
// IFD offsets in place once compressed payload sizes are known.
type seekableSink struct {
	baseSink
	ws io.WriteSeeker
}

// NewSeekableSink wraps ws as a seekable Sink.
func NewSeekableSink(ws io.WriteSeeker, enc binary.ByteOrder) Sink {
	return &seekableSink{baseSink{enc: enc, w: ws}, ws}
}

func (s *seekableSink) Seekable() bool { return true }

func (s *seekableSink) Seek(pos int64) error {
	n, err := s.ws.Seek(pos, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "tiff: seek failed")
	}
	s.pos = n
	return nil
}

// spillSink is an append-only, in-memory scratch sink used while the real
// sink is not seekable and compression makes payload sizes unknown ahead
// of time (spec.md §4.7, §9). Its contents are later copied into the real
// sink.
type spillSink struct {
	baseSink
}

// memorySpill returns a spillSink backed by an in-memory buffer.
func memorySpill(enc binary.ByteOrder) (*spillSink, func() []byte) {
	buf := new(bytes.Buffer)
	s := &spillSink{baseSink{enc: enc, w: buf}}
	return s, buf.Bytes
}

func (s *spillSink) Seekable() bool { return false }

func (s *spillSink) Seek(pos int64) error {
	// In-memory spill buffers in this encoder are only ever appended to
	// (never patched in place) — offsets inside them are already known
	// before they're written. Random-access patching happens on the real
	// sink instead, once the spill is flushed.
	return validationError(ErrUnseekable, "spill sink does not support seek")
}

// fileSpill opens a temporary file and returns it wrapped as a seekable
// Sink, plus the *os.File itself, which the caller rewinds to stream the
// contents into the real sink and passes to closeAndRemove when done.
// fileSpill does not delete the file itself; the caller's closeAndRemove
// does (spec.md §4.9).
func fileSpill(enc binary.ByteOrder) (Sink, *os.File, error) {
	f, err := os.CreateTemp("", "tiff-spill-*")
	if err != nil {
		return nil, nil, errors.Wrap(err, ErrTempFileUnavailable)
	}
	return &seekableSink{baseSink{enc: enc, w: f}, f}, f, nil
}

func closeAndRemove(f *os.File) {
	name := f.Name()
	f.Close()
	os.Remove(name)
}
