package tiff

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Field is a TIFF tag entry: {tag, type, count, value}. count is the number
// of elements of the declared type, except for Ascii, where the on-disk
// byte count (including NUL terminators) is written in place of element
// count. A Field is inline when its encoded value fits in 4 bytes, else it
// is written at an overflow offset (spec.md §3).
//
// This generalizes the teacher's read-direction idf.ifdUint (one case per
// numeric type) and golang-image's write-direction ifdEntry (one []uint32
// slice per entry) into a single tagged variant covering every FieldType
// spec.md §3 lists.
type Field struct {
	Tag        uint16
	Type       FieldType
	Longs      []uint32    // dtByte, dtShort, dtLong, dtUndefined
	SLongs     []int32     // dtSByte, dtSShort, dtSLong
	Rationals  []Rational  // dtRational
	SRationals []SRational // dtSRational
	Floats     []float32   // dtFloat
	Doubles    []float64   // dtDouble
	ASCII      []string    // dtASCII, one or more NUL-terminated strings
}

// ByteField builds a Field of type Byte from small integers.
func ByteField(tag uint16, vals ...uint32) Field {
	return Field{Tag: tag, Type: dtByte, Longs: vals}
}

// ShortField builds a Field of type Short.
func ShortField(tag uint16, vals ...uint32) Field {
	return Field{Tag: tag, Type: dtShort, Longs: vals}
}

// LongField builds a Field of type Long.
func LongField(tag uint16, vals ...uint32) Field {
	return Field{Tag: tag, Type: dtLong, Longs: vals}
}

// RationalField builds a Field of type Rational.
func RationalField(tag uint16, vals ...Rational) Field {
	return Field{Tag: tag, Type: dtRational, Rationals: vals}
}

// ASCIIField builds a Field of type Ascii from a single string.
func ASCIIField(tag uint16, s string) Field {
	return Field{Tag: tag, Type: dtASCII, ASCII: []string{s}}
}

// UndefinedField builds a Field of type Undefined (opaque bytes), used for
// e.g. JPEGTables.
func UndefinedField(tag uint16, raw []byte) Field {
	vals := make([]uint32, len(raw))
	for i, b := range raw {
		vals[i] = uint32(b)
	}
	return Field{Tag: tag, Type: dtUndefined, Longs: vals}
}

// count returns the on-disk element count for the field, per spec.md §3.
func (f Field) count() uint32 {
	if f.Type == dtASCII {
		n := uint32(0)
		for _, s := range f.ASCII {
			n += uint32(len(s)) + 1 // + NUL terminator
		}
		return n
	}
	return uint32(f.numElements())
}

func (f Field) numElements() int {
	switch f.Type {
	case dtByte, dtShort, dtLong, dtUndefined:
		return len(f.Longs)
	case dtSByte, dtSShort, dtSLong:
		return len(f.SLongs)
	case dtRational:
		return len(f.Rationals)
	case dtSRational:
		return len(f.SRationals)
	case dtFloat:
		return len(f.Floats)
	case dtDouble:
		return len(f.Doubles)
	default:
		return 0
	}
}

// encodedBytes returns the number of bytes the value occupies on disk,
// spec.md §4.2.
func (f Field) encodedBytes() uint32 {
	if f.Type == dtASCII {
		return f.count()
	}
	return f.count() * lengths[f.Type]
}

// overflowSize returns encodedBytes() if the value does not fit inline
// (> 4 bytes), else 0.
func (f Field) overflowSize() uint32 {
	n := f.encodedBytes()
	if n > 4 {
		return n
	}
	return 0
}

// writeInline writes the field's value (or, for overflow fields, the
// 4-byte offset to it) into the 4-byte value slot of a 12-byte IFD entry,
// using enc — the file's configured endianness — for both the inline
// value and the offset pointer.
func (f Field) writeInline(buf []byte, enc binary.ByteOrder, overflowOffset uint32) error {
	if f.overflowSize() > 0 {
		enc.PutUint32(buf, overflowOffset)
		return nil
	}
	return f.encodeValue(buf, enc)
}

// encodeValue writes the field's raw value bytes (used both for the
// inline 4-byte slot and for the overflow blob) in byte order enc — the
// same order the file header and every other tag primitive use. (Only the
// pixel-sample packer in pack.go departs from the file's configured
// endianness; see spec.md §9.)
func (f Field) encodeValue(buf []byte, enc binary.ByteOrder) error {
	switch f.Type {
	case dtByte, dtUndefined:
		for i, v := range f.Longs {
			buf[i] = byte(v)
		}
	case dtASCII:
		off := 0
		for _, s := range f.ASCII {
			copy(buf[off:], s)
			off += len(s)
			buf[off] = 0
			off++
		}
	case dtShort:
		for i, v := range f.Longs {
			enc.PutUint16(buf[2*i:], uint16(v))
		}
	case dtLong:
		for i, v := range f.Longs {
			enc.PutUint32(buf[4*i:], v)
		}
	case dtSByte:
		for i, v := range f.SLongs {
			buf[i] = byte(v)
		}
	case dtSShort:
		for i, v := range f.SLongs {
			enc.PutUint16(buf[2*i:], uint16(v))
		}
	case dtSLong:
		for i, v := range f.SLongs {
			enc.PutUint32(buf[4*i:], uint32(v))
		}
	case dtRational:
		for i, r := range f.Rationals {
			enc.PutUint32(buf[8*i:], r.Num)
			enc.PutUint32(buf[8*i+4:], r.Denom)
		}
	case dtSRational:
		for i, r := range f.SRationals {
			enc.PutUint32(buf[8*i:], uint32(r.Num))
			enc.PutUint32(buf[8*i+4:], uint32(r.Denom))
		}
	case dtFloat:
		for i, v := range f.Floats {
			enc.PutUint32(buf[4*i:], math.Float32bits(v))
		}
	case dtDouble:
		for i, v := range f.Doubles {
			enc.PutUint64(buf[8*i:], math.Float64bits(v))
		}
	default:
		return errors.Errorf("tiff: unknown field type %d", f.Type)
	}
	return nil
}
