package tiff

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Encode writes src as a TIFF to w, using opt (nil means the zero-value
// Options: little-endian, uncompressed, striped). The file has one page
// unless opt.ExtraImages adds more after it.
func Encode(w io.Writer, src Source, opt *Options) error {
	if opt == nil {
		opt = &Options{}
	}
	return EncodeAll(w, []PageSource{{Image: src, Options: opt}})
}

// EncodeAll writes pages as a multi-page TIFF to w, chaining each IFD's
// next-IFD offset to the one that follows (spec.md §4.7 "Multi-page",
// §4.8). All pages share one file-wide byte order, taken from the first
// page's Options.
//
// Grounded on golang-image's single-pass Encode, generalized to the
// page-writer state machine of spec.md §4.8/§4.9 (Planning -> WritingIFD ->
// WritingPayload -> PatchingOffsets? -> Done), and on the teacher's
// e2e_test.go round-trip harness for what "a correctly terminated chain"
// looks like.
func EncodeAll(w io.Writer, pages []PageSource) error {
	if len(pages) == 0 {
		return validationError(ErrUnsupportedImageKind, "no pages to encode")
	}

	first := pages[0].Options
	if first == nil {
		first = &Options{}
	}
	if len(first.ExtraImages) > 0 {
		all := make([]PageSource, 0, len(pages)+len(first.ExtraImages))
		all = append(all, pages[0])
		all = append(all, first.ExtraImages...)
		all = append(all, pages[1:]...)
		pages = all
	}
	enc := byteOrderFor(first.endianness())

	var sink Sink
	if ws, ok := w.(io.WriteSeeker); ok {
		sink = NewSeekableSink(ws, enc)
	} else {
		sink = NewSink(w, enc)
	}

	if err := sink.WriteBytes([]byte(first.endianness().header())); err != nil {
		return err
	}
	firstIFDOffset := uint32(8)
	if err := sink.WriteU32(firstIFDOffset); err != nil {
		return err
	}

	ifdOffset := firstIFDOffset
	for i, page := range pages {
		opt := page.Options
		if opt == nil {
			opt = &Options{}
		}
		isLast := i == len(pages)-1
		next, err := writePage(sink, ifdOffset, page.Image, opt, isLast)
		if err != nil {
			return errors.Wrapf(err, "tiff: encode page %d", i)
		}
		ifdOffset = next
	}
	return nil
}

func byteOrderFor(e Endianness) binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func alignOffset(off uint32) uint32 {
	if off%2 != 0 {
		return off + 1
	}
	return off
}

// sampleAlignUnit returns the byte alignment spec.md §4.7 step 6 and §8
// require of tileOffsets[0] for uncompressed data of the given sample
// depth: 4 bytes for 32-bit samples, 2 bytes otherwise (2 subsumes the
// general "offsets are word-aligned" invariant for 1/4/8/16-bit data).
func sampleAlignUnit(bitsPerSample int) uint32 {
	if bitsPerSample >= 32 {
		return 4
	}
	return 2
}

// alignOffsetTo rounds off up to the next multiple of unit.
func alignOffsetTo(off, unit uint32) uint32 {
	if rem := off % unit; rem != 0 {
		return off + (unit - rem)
	}
	return off
}

// writePage runs one page through the planner and the page-writer state
// machine, at sink position ifdOffset (the sink must already be positioned
// there), and returns the offset the next page's IFD should start at (0 if
// isLast). It implements spec.md §4.7 steps 1-8 and §4.9's write-strategy
// split.
func writePage(sink Sink, ifdOffset uint32, src Source, opt *Options, isLast bool) (uint32, error) {
	bounds := src.Bounds()
	sm := src.SampleModel()
	cm, hasCM := src.ColorModel()

	classification, err := Classify(sm, cm, hasCM)
	if err != nil {
		return 0, err
	}
	if opt.Compression == CompressionJPEG && opt.JPEGCompressRGBToYCbCr {
		classification = classification.WithJPEGRGBToYCbCr()
	}
	if err := CheckCompressionCompatibility(classification, opt.compression()); err != nil {
		return 0, err
	}

	geom := planLayout(bounds, classification, opt)
	fields := buildFieldTable(bounds, classification, geom, opt)

	if opt.Compression == CompressionJPEG && opt.JPEGParams.WriteImageOnly {
		var tables bytes.Buffer
		if _, err := opt.jpegEncoder().TablesOnly(&tables, opt.JPEGParams); err != nil {
			return 0, errors.Wrap(err, "tiff: write JPEG tables-only stream")
		}
		fields.Insert(UndefinedField(tJPEGTables, tables.Bytes()))
	}

	dirSize := fields.SizeOnDisk()
	payloadStart := alignOffsetTo(ifdOffset+dirSize, sampleAlignUnit(classification.BitsPerSample))

	if opt.compression() == CompressionNone {
		return writePageDeterministic(sink, ifdOffset, payloadStart, bounds, classification, geom, fields, src, opt, isLast)
	}
	if sink.Seekable() {
		return writePageSeekPatch(sink, ifdOffset, payloadStart, bounds, classification, geom, fields, src, opt, isLast)
	}
	return writePageSpilled(sink, ifdOffset, payloadStart, bounds, classification, geom, fields, src, opt, isLast)
}

// writePageDeterministic handles CompressionNone: every tile's byte count
// is known from the layout planner alone, so offsets can be computed
// up-front and the whole page streamed in one pass, on any Sink (spec.md
// §4.7 step 8, "uncompressed offset propagation").
func writePageDeterministic(sink Sink, ifdOffset, payloadStart uint32, bounds Rect, c Classification, geom *TileGeometry, fields *FieldTable, src Source, opt *Options, isLast bool) (uint32, error) {
	off := payloadStart
	for i, n := range geom.TileByteCounts {
		geom.TileOffsets[i] = off
		off += n
	}
	totalEnd := off
	nextIFDOffset := uint32(0)
	if !isLast {
		nextIFDOffset = alignOffset(totalEnd)
	}

	installTileFields(fields, geom)
	if err := fields.WriteIFD(sink, ifdOffset, nextIFDOffset); err != nil {
		return 0, err
	}
	if err := writePad(sink, int(payloadStart-uint32(sink.Position()))); err != nil {
		return 0, err
	}

	if err := writeTiles(sink, bounds, c, geom, src, opt, nil); err != nil {
		return 0, err
	}
	if err := writePad(sink, int(nextIFDOffset)-int(totalEnd)); err != nil {
		return 0, err
	}
	return nextIFDOffset, nil
}

// writePageSeekPatch handles a compressed page on a seekable sink: write a
// placeholder IFD, stream the compressed payload while recording real
// offsets and byte counts, then seek back and rewrite the IFD with the
// now-known values (spec.md §4.9, seek-and-patch strategy).
func writePageSeekPatch(sink Sink, ifdOffset, payloadStart uint32, bounds Rect, c Classification, geom *TileGeometry, fields *FieldTable, src Source, opt *Options, isLast bool) (uint32, error) {
	installTileFields(fields, geom)
	if err := fields.WriteIFD(sink, ifdOffset, 0); err != nil {
		return 0, err
	}
	if err := writePad(sink, int(payloadStart-uint32(sink.Position()))); err != nil {
		return 0, err
	}

	if err := writeTiles(sink, bounds, c, geom, src, opt, nil); err != nil {
		return 0, err
	}
	totalEnd := uint32(sink.Position())
	nextIFDOffset := uint32(0)
	if !isLast {
		nextIFDOffset = alignOffset(totalEnd)
	}

	if err := sink.Seek(int64(ifdOffset)); err != nil {
		return 0, err
	}
	installTileFields(fields, geom)
	if err := fields.WriteIFD(sink, ifdOffset, nextIFDOffset); err != nil {
		return 0, err
	}
	if err := sink.Seek(int64(totalEnd)); err != nil {
		return 0, err
	}
	if err := writePad(sink, int(nextIFDOffset)-int(totalEnd)); err != nil {
		return 0, err
	}
	return nextIFDOffset, nil
}

// writePageSpilled handles a compressed page on a non-seekable sink: the
// payload is written to a scratch cache first (a temp file, falling back
// to an in-memory buffer if none can be created), so that by the time the
// real IFD is written, every offset and byte count is already known and
// the real sink never needs to seek (spec.md §4.9, file-spill /
// memory-spill strategies).
func writePageSpilled(sink Sink, ifdOffset, payloadStart uint32, bounds Rect, c Classification, geom *TileGeometry, fields *FieldTable, src Source, opt *Options, isLast bool) (uint32, error) {
	enc := sinkByteOrder(sink)

	spill, spillFile, ferr := fileSpill(enc)
	var openSpillReader func() (io.Reader, error)
	var cleanup func()
	if ferr != nil {
		memSpill, getBytes := memorySpill(enc)
		spill = memSpill
		openSpillReader = func() (io.Reader, error) { return bytes.NewReader(getBytes()), nil }
		cleanup = func() {}
	} else {
		openSpillReader = func() (io.Reader, error) {
			if _, err := spillFile.Seek(0, io.SeekStart); err != nil {
				return nil, errors.Wrap(err, "tiff: rewind spill file")
			}
			return spillFile, nil
		}
		cleanup = func() { closeAndRemove(spillFile) }
	}
	defer cleanup()

	relOffsets := make([]uint32, geom.numTiles())
	if err := writeTiles(spill, bounds, c, geom, src, opt, relOffsets); err != nil {
		return 0, err
	}
	totalPayloadBytes := uint32(spill.Position())

	for i := range geom.TileOffsets {
		geom.TileOffsets[i] = payloadStart + relOffsets[i]
	}
	totalEnd := payloadStart + totalPayloadBytes
	nextIFDOffset := uint32(0)
	if !isLast {
		nextIFDOffset = alignOffset(totalEnd)
	}

	installTileFields(fields, geom)
	if err := fields.WriteIFD(sink, ifdOffset, nextIFDOffset); err != nil {
		return 0, err
	}
	if err := writePad(sink, int(payloadStart-uint32(sink.Position()))); err != nil {
		return 0, err
	}

	r, err := openSpillReader()
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(sink, r); err != nil {
		return 0, errors.Wrap(err, "tiff: flush spilled payload")
	}
	if err := writePad(sink, int(nextIFDOffset)-int(totalEnd)); err != nil {
		return 0, err
	}
	return nextIFDOffset, nil
}

// installTileFields (re-)inserts the strip or tile offset/byte-count
// fields, overwriting whatever placeholder values buildFieldTable left in
// place.
func installTileFields(fields *FieldTable, geom *TileGeometry) {
	if geom.Tiled {
		fields.Insert(LongField(tTileOffsets, geom.TileOffsets...))
		fields.Insert(LongField(tTileByteCounts, geom.TileByteCounts...))
	} else {
		fields.Insert(LongField(tStripOffsets, geom.TileOffsets...))
		fields.Insert(LongField(tStripByteCounts, geom.TileByteCounts...))
	}
}

func writePad(sink Sink, n int) error {
	if n <= 0 {
		return nil
	}
	return sink.WriteBytes(make([]byte, n))
}

// writeTiles walks the tile grid in row-major order, packing (or, for
// JPEG, handing the raw raster straight to the collaborator) and
// compressing each one, and records what was actually written. When
// relOffsets is non-nil (the spill strategies), the offset relative to
// the sink's position at entry is recorded there instead of into
// geom.TileOffsets, since the spill's own position is not the file's
// final offset.
func writeTiles(sink Sink, bounds Rect, c Classification, geom *TileGeometry, src Source, opt *Options, relOffsets []uint32) error {
	base := uint32(sink.Position())
	comp := opt.compression()

	for ty := 0; ty < geom.NumTilesY; ty++ {
		for tx := 0; tx < geom.NumTilesX; tx++ {
			idx := ty*geom.NumTilesX + tx
			tileRect := clampedTileRect(bounds, geom, tx, ty)

			before := uint32(sink.Position())
			var n uint32
			var err error
			if comp == CompressionJPEG {
				n, err = dispatchCompression(sink, nil, 0, 0, comp, opt, src, tileRect)
			} else {
				packed, rows, perr := readAndPackTile(src, geom, c, tileRect)
				if perr != nil {
					return perr
				}
				n, err = dispatchCompression(sink, packed, geom.BytesPerRow, rows, comp, opt, src, tileRect)
			}
			if err != nil {
				return errors.Wrapf(err, "tiff: write tile %d", idx)
			}

			geom.TileByteCounts[idx] = n
			if relOffsets != nil {
				relOffsets[idx] = before - base
			} else {
				geom.TileOffsets[idx] = before
			}
		}
	}
	return nil
}

// clampedTileRect returns the portion of bounds tile (tx,ty) actually
// covers, which may be smaller than the full tile at the right/bottom
// edge of the image.
func clampedTileRect(bounds Rect, geom *TileGeometry, tx, ty int) Rect {
	x := bounds.MinX + tx*geom.TileW
	y := bounds.MinY + ty*geom.TileH
	w := minInt(geom.TileW, bounds.MinX+bounds.Width-x)
	h := minInt(geom.TileH, bounds.MinY+bounds.Height-y)
	return Rect{MinX: x, MinY: y, Width: w, Height: h}
}

// readAndPackTile fetches and packs one tile's samples. Tiled images pad a
// short edge tile up to the full TileW x TileH (TIFF tiles are always
// full-size on disk); striped images never pad — a short last strip is
// written at its true (shorter) length, which is exactly what the layout
// planner already accounted for in TileByteCounts.
func readAndPackTile(src Source, geom *TileGeometry, c Classification, tileRect Rect) ([]byte, int, error) {
	view, err := src.GetTile(tileRect)
	if err != nil {
		return nil, 0, errors.Wrap(err, "tiff: read tile")
	}
	bands := c.Bands + c.NumExtraSamples
	packed, err := pack(view, c.BitsPerSample, bands, c.DataType)
	if err != nil {
		return nil, 0, err
	}

	if !geom.Tiled || (tileRect.Width == geom.TileW && tileRect.Height == geom.TileH) {
		return packed, tileRect.Height, nil
	}

	full := make([]byte, geom.BytesPerRow*geom.TileH)
	rowBytesActual := bytesPerRowForDepth(tileRect.Width, c.BitsPerSample, bands)
	for r := 0; r < tileRect.Height; r++ {
		copy(full[r*geom.BytesPerRow:], packed[r*rowBytesActual:(r+1)*rowBytesActual])
	}
	return full, geom.TileH, nil
}
