package tiff

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

// FieldTable is an ordered set of IFD fields keyed by tag, kept in
// ascending-tag order (spec.md §3, §4.2). It generalizes the teacher's
// idf.go map[uint16][]uint plus golang-image/hongping1224's byTag sort of a
// flat []ifdEntry: fields are kept in a map keyed by tag, so
// insert-if-absent merges (extraFields, spec.md §6) are cheap, and are
// sorted into ascending tag order each time Iter is called (WriteIFD and
// String both go through Iter).
type FieldTable struct {
	byTag map[uint16]Field
}

// NewFieldTable returns an empty FieldTable.
func NewFieldTable() *FieldTable {
	return &FieldTable{byTag: make(map[uint16]Field)}
}

// Insert replaces any existing field with the same tag.
func (t *FieldTable) Insert(f Field) {
	t.byTag[f.Tag] = f
}

// InsertIfAbsent inserts f only if its tag is not already present. This is
// the merge semantics spec.md §4.2 specifies for caller-supplied
// extraFields: the core's own required tags always win.
func (t *FieldTable) InsertIfAbsent(f Field) {
	if _, ok := t.byTag[f.Tag]; ok {
		return
	}
	t.byTag[f.Tag] = f
}

// Has reports whether tag is present.
func (t *FieldTable) Has(tag uint16) bool {
	_, ok := t.byTag[tag]
	return ok
}

// Iter returns the table's fields in ascending tag order.
func (t *FieldTable) Iter() []Field {
	tags := make([]uint16, 0, len(t.byTag))
	for tag := range t.byTag {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	out := make([]Field, len(tags))
	for i, tag := range tags {
		out[i] = t.byTag[tag]
	}
	return out
}

// SizeOnDisk returns the IFD byte size as written: the 2-byte entry count,
// ifdLen bytes per entry, the 4-byte next-IFD offset, and the overflow
// blob for every field whose value does not fit in the inline 4-byte slot
// (spec.md §4.2).
func (t *FieldTable) SizeOnDisk() uint32 {
	n := uint32(2 + 4) // entry count + next-IFD offset
	for _, f := range t.byTag {
		n += ifdLen
		n += f.overflowSize()
	}
	return n
}

// WriteIFD writes the directory at the sink's current position: entry
// count, the ifdLen-byte entries in ascending tag order, the next-IFD
// offset, then the overflow blob, in that order (spec.md §3). ifdOffset is
// the position this IFD starts at (the sink's position must equal it when
// WriteIFD is called), used to compute overflow-value offsets.
func (t *FieldTable) WriteIFD(s Sink, ifdOffset uint32, nextIFDOffset uint32) error {
	fields := t.Iter()

	if err := s.WriteU16(uint16(len(fields))); err != nil {
		return err
	}

	enc := sinkByteOrder(s)
	pstart := ifdOffset + uint32(ifdLen)*uint32(len(fields)) + 6
	overflow := make([]byte, 0, 64)

	for _, f := range fields {
		var buf [ifdLen]byte
		enc.PutUint16(buf[0:2], f.Tag)
		enc.PutUint16(buf[2:4], uint16(f.Type))
		enc.PutUint32(buf[4:8], f.count())

		if n := f.overflowSize(); n > 0 {
			valueOffset := pstart + uint32(len(overflow))
			enc.PutUint32(buf[8:12], valueOffset)
			valBuf := make([]byte, n)
			if err := f.encodeValue(valBuf, enc); err != nil {
				return err
			}
			overflow = append(overflow, valBuf...)
		} else {
			if err := f.encodeValue(buf[8:12], enc); err != nil {
				return err
			}
		}

		if err := s.WriteBytes(buf[:]); err != nil {
			return err
		}
	}

	if err := s.WriteU32(nextIFDOffset); err != nil {
		return err
	}
	return s.WriteBytes(overflow)
}

// String renders the table as "TagName: value" lines in ascending tag
// order, generalizing the teacher's idf.String() debug dump to the write
// side.
func (t *FieldTable) String() string {
	var b strings.Builder
	for _, f := range t.Iter() {
		fmt.Fprintf(&b, "%s: %s\n", tagname(f.Tag), fieldValueString(f))
	}
	return b.String()
}

func fieldValueString(f Field) string {
	switch f.Type {
	case dtASCII:
		return strings.Join(f.ASCII, ",")
	case dtRational:
		parts := make([]string, len(f.Rationals))
		for i, r := range f.Rationals {
			parts[i] = fmt.Sprintf("%d/%d", r.Num, r.Denom)
		}
		return strings.Join(parts, ",")
	case dtSRational:
		parts := make([]string, len(f.SRationals))
		for i, r := range f.SRationals {
			parts[i] = fmt.Sprintf("%d/%d", r.Num, r.Denom)
		}
		return strings.Join(parts, ",")
	case dtFloat:
		return fmt.Sprintf("%v", f.Floats)
	case dtDouble:
		return fmt.Sprintf("%v", f.Doubles)
	case dtSByte, dtSShort, dtSLong:
		return fmt.Sprintf("%v", f.SLongs)
	default:
		return fmt.Sprintf("%v", f.Longs)
	}
}

// sinkByteOrder recovers the byte order a Sink was constructed with. Every
// concrete Sink in this package embeds baseSink, which stores it.
func sinkByteOrder(s Sink) binary.ByteOrder {
	switch v := s.(type) {
	case *directSink:
		return v.enc
	case *seekableSink:
		return v.enc
	case *spillSink:
		return v.enc
	default:
		return binary.LittleEndian
	}
}
