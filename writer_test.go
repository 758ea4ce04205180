package tiff

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a minimal in-memory Source for golden-byte tests: pixels
// are supplied pre-flattened, row-major, band-interleaved.
type fakeSource struct {
	bounds Rect
	sm     SampleModel
	cm     ColorModel
	hasCM  bool
	pixels []int
	floats []float32
}

func (s *fakeSource) Bounds() Rect { return s.bounds }
func (s *fakeSource) SampleModel() SampleModel { return s.sm }
func (s *fakeSource) ColorModel() (ColorModel, bool) { return s.cm, s.hasCM }

func (s *fakeSource) GetTile(r Rect) (RasterView, error) {
	bands := s.sm.Bands
	view := RasterView{Width: r.Width, Height: r.Height, Bands: bands}
	if s.floats != nil {
		view.FloatPixels = extractWindow32(s.floats, s.bounds, r, bands)
		return view, nil
	}
	view.Pixels = extractWindow(s.pixels, s.bounds, r, bands)
	return view, nil
}

func extractWindow(src []int, full, r Rect, bands int) []int {
	out := make([]int, 0, r.Width*r.Height*bands)
	for y := r.MinY; y < r.MinY+r.Height; y++ {
		rowStart := (y-full.MinY)*full.Width*bands + (r.MinX-full.MinX)*bands
		out = append(out, src[rowStart:rowStart+r.Width*bands]...)
	}
	return out
}

func extractWindow32(src []float32, full, r Rect, bands int) []float32 {
	out := make([]float32, 0, r.Width*r.Height*bands)
	for y := r.MinY; y < r.MinY+r.Height; y++ {
		rowStart := (y-full.MinY)*full.Width*bands + (r.MinX-full.MinX)*bands
		out = append(out, src[rowStart:rowStart+r.Width*bands]...)
	}
	return out
}

// Scenario 1: 2x2 bilevel black-and-white, no compression, big-endian.
func TestEncodeScenario1BilevelBigEndian(t *testing.T) {
	src := &fakeSource{
		bounds: Rect{Width: 2, Height: 2},
		sm:     SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 1},
		pixels: []int{0, 1, 1, 0},
	}
	var buf bytes.Buffer
	opt := &Options{Endianness: BigEndian}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	assert.Equal(t, []byte{0x4D, 0x4D, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08}, b[0:8])

	entryCount := binary.BigEndian.Uint16(b[8:10])
	assert.EqualValues(t, 10, entryCount)

	// Payload follows the IFD, padded to an even offset; a 2x2 1-bit image
	// packs to one byte per row: row0 [0,1]->0x40, row1 [1,0]->0x80.
	assert.Contains(t, string(b), string([]byte{0x40, 0x80}))
}

// Scenario 2: 1x1 RGB 8-bit, no compression, little-endian.
func TestEncodeScenario2RGBLittleEndian(t *testing.T) {
	src := &fakeSource{
		bounds: Rect{Width: 1, Height: 1},
		sm:     SampleModel{DataType: SampleByte, Bands: 3, BitsPerSample: 8},
		cm:     ColorModel{Space: RGBColorSpace},
		hasCM:  true,
		pixels: []int{0x12, 0x34, 0x56},
	}
	var buf bytes.Buffer
	opt := &Options{Endianness: LittleEndian}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	assert.Equal(t, []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}, b[0:8])
	assert.Contains(t, string(b), string([]byte{0x12, 0x34, 0x56}))
}

// Scenario 3: 4x1 8-bit grayscale, PackBits compression.
func TestEncodeScenario3PackBits(t *testing.T) {
	src := &fakeSource{
		bounds: Rect{Width: 4, Height: 1},
		sm:     SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 8},
		cm:     ColorModel{Space: GrayColorSpace},
		hasCM:  true,
		pixels: []int{0xAA, 0xAA, 0xAA, 0xBB},
	}
	var buf bytes.Buffer
	opt := &Options{Compression: CompressionPackBits}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	assert.Contains(t, string(b), string([]byte{0xFE, 0xAA, 0x00, 0xBB}))
}

// Scenario 4: two-page, 1x1 gray, uncompressed; IFD chain terminates
// correctly.
func TestEncodeScenario4MultiPageChaining(t *testing.T) {
	page := func(v int) PageSource {
		return PageSource{
			Image: &fakeSource{
				bounds: Rect{Width: 1, Height: 1},
				sm:     SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 8},
				cm:     ColorModel{Space: GrayColorSpace},
				hasCM:  true,
				pixels: []int{v},
			},
			Options: &Options{},
		}
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeAll(&buf, []PageSource{page(1), page(2)}))

	b := buf.Bytes()
	firstIFDOffset := binary.LittleEndian.Uint32(b[4:8])
	assert.EqualValues(t, 8, firstIFDOffset)

	firstCount := binary.LittleEndian.Uint16(b[firstIFDOffset : firstIFDOffset+2])
	nextIFDOffsetPos := firstIFDOffset + 2 + uint32(firstCount)*ifdLen
	nextIFDOffset := binary.LittleEndian.Uint32(b[nextIFDOffsetPos : nextIFDOffsetPos+4])
	assert.NotZero(t, nextIFDOffset)

	secondCount := binary.LittleEndian.Uint16(b[nextIFDOffset : nextIFDOffset+2])
	secondNextPos := nextIFDOffset + 2 + uint32(secondCount)*ifdLen
	secondNext := binary.LittleEndian.Uint32(b[secondNextPos : secondNextPos+4])
	assert.Zero(t, secondNext)
}

// Scenario 6: 3x3 16-bit grayscale, little-endian, uncompressed; samples
// are written high-byte-first regardless of the file's own endianness, and
// SampleFormat is present at this bit depth.
func TestEncodeScenario6Gray16LittleEndian(t *testing.T) {
	pixels := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	src := &fakeSource{
		bounds: Rect{Width: 3, Height: 3},
		sm:     SampleModel{DataType: SampleUShort, Bands: 1, BitsPerSample: 16},
		cm:     ColorModel{Space: GrayColorSpace},
		hasCM:  true,
		pixels: pixels,
	}
	var buf bytes.Buffer
	opt := &Options{Endianness: LittleEndian}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	// First pixel, value 1, packed as a 16-bit sample: high byte first.
	assert.Contains(t, string(b), string([]byte{0x00, 0x01, 0x00, 0x02}))
}

// A single-strip, uncompressed, single-band 32-bit image must have its
// StripOffsets[0] aligned to 4 bytes (spec.md §4.7 step 6, §8), not merely
// to an even offset.
func TestEncodeStripOffsetAlignedTo4BytesFor32Bit(t *testing.T) {
	src := &fakeSource{
		bounds: Rect{Width: 1, Height: 1},
		sm:     SampleModel{DataType: SampleFloat, Bands: 1, BitsPerSample: 32},
		cm:     ColorModel{Space: GrayColorSpace},
		hasCM:  true,
		floats: []float32{1.5},
	}
	var buf bytes.Buffer
	opt := &Options{Endianness: LittleEndian}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	entryCount := binary.LittleEndian.Uint16(b[8:10])
	stripOffsetsPos := uint32(0)
	for i := uint16(0); i < entryCount; i++ {
		entryOff := 10 + uint32(i)*ifdLen
		if binary.LittleEndian.Uint16(b[entryOff:entryOff+2]) == tStripOffsets {
			stripOffsetsPos = entryOff
			break
		}
	}
	require.NotZero(t, stripOffsetsPos)
	stripOffset := binary.LittleEndian.Uint32(b[stripOffsetsPos+8 : stripOffsetsPos+12])
	assert.Zero(t, stripOffset%4)
}

// fakeJPEGEncoder is a minimal JpegEncoder collaborator for exercising the
// WriteImageOnly / JPEGTables wiring without a real JPEG bytestream.
type fakeJPEGEncoder struct{ tables []byte }

func (f fakeJPEGEncoder) EncodeTile(sink io.Writer, raster Source, tile Rect, params JPEGParams) (uint32, error) {
	n, err := sink.Write([]byte{0xFF, 0xD8, 0xFF, 0xD9})
	return uint32(n), err
}

func (f fakeJPEGEncoder) TablesOnly(sink io.Writer, params JPEGParams) (uint32, error) {
	n, err := sink.Write(f.tables)
	return uint32(n), err
}

// When JPEGParams.WriteImageOnly is set, a tables-only stream is written
// once into the JPEGTables field before any tile payload (spec.md §4.5).
func TestEncodeJPEGWriteImageOnlyWritesJPEGTablesField(t *testing.T) {
	tables := []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43}
	src := &fakeSource{
		bounds: Rect{Width: 8, Height: 8},
		sm:     SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 8},
		cm:     ColorModel{Space: GrayColorSpace},
		hasCM:  true,
		pixels: make([]int, 64),
	}
	var buf bytes.Buffer
	opt := &Options{
		Compression: CompressionJPEG,
		JPEGParams:  JPEGParams{WriteImageOnly: true},
		JpegEncoder: fakeJPEGEncoder{tables: tables},
	}
	require.NoError(t, Encode(&buf, src, opt))

	b := buf.Bytes()
	entryCount := binary.LittleEndian.Uint16(b[8:10])
	var tag uint16
	var typ uint16
	var count uint32
	var valueOrOffset uint32
	found := false
	for i := uint16(0); i < entryCount; i++ {
		entryOff := 10 + uint32(i)*ifdLen
		tag = binary.LittleEndian.Uint16(b[entryOff : entryOff+2])
		if tag == tJPEGTables {
			typ = binary.LittleEndian.Uint16(b[entryOff+2 : entryOff+4])
			count = binary.LittleEndian.Uint32(b[entryOff+4 : entryOff+8])
			valueOrOffset = binary.LittleEndian.Uint32(b[entryOff+8 : entryOff+12])
			found = true
			break
		}
	}
	require.True(t, found, "JPEGTables field must be present")
	assert.EqualValues(t, dtUndefined, typ)
	assert.EqualValues(t, len(tables), count)
	assert.Equal(t, tables, b[valueOrOffset:valueOrOffset+uint32(len(tables))])
}

func TestEncodeIdempotentForSameInputAndSink(t *testing.T) {
	src := &fakeSource{
		bounds: Rect{Width: 2, Height: 2},
		sm:     SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 1},
		pixels: []int{0, 1, 1, 0},
	}
	var buf1, buf2 bytes.Buffer
	opt := &Options{Endianness: BigEndian}
	require.NoError(t, Encode(&buf1, src, opt))
	require.NoError(t, Encode(&buf2, src, opt))
	assert.Equal(t, buf1.Bytes(), buf2.Bytes())
}
