package tiff

import "math"

// pack converts a rows × width × bands region of a Source's RasterView into
// a contiguous byte buffer in TIFF row-major order, for sample depths
// {1,4,8,16,32} (spec.md §4.4). It is pure: given a view and the pixel
// facts Classify derived, it returns bytes and never touches a Sink.
//
// Grounded on golang-image's writePix (byte-identical-layout fast path)
// versus writeImgData (generic per-pixel path) split, and on
// hongping1224-go-tiff32's encodeGray32/encodeGrayFloat32 (32-bit
// high-byte-first emission), generalized from their single fixed band
// count to spec.md's {1,4,8,16,32} × arbitrary-bands matrix.
func pack(view RasterView, depth, bands int, dataType SampleDataType) ([]byte, error) {
	switch depth {
	case 1:
		return pack1Bit(view)
	case 4:
		return pack4Bit(view)
	case 8:
		return pack8Bit(view, bands)
	case 16:
		return pack16Bit(view, bands)
	case 32:
		return pack32Bit(view, bands, dataType)
	default:
		return nil, validationError(ErrUnsupportedDataType, "unsupported bit depth")
	}
}

func bytesPerRowForDepth(width, depth, bands int) int {
	switch depth {
	case 1:
		return (width + 7) / 8
	case 4:
		return (width + 1) / 2
	case 8:
		return width * bands
	case 16:
		return width * bands * 2
	case 32:
		return width * bands * 4
	default:
		return 0
	}
}

// pack1Bit packs a single-band tile, MSB-first within each byte. Row length
// is ceil(width/8) bytes.
func pack1Bit(view RasterView) ([]byte, error) {
	rowBytes := bytesPerRowForDepth(view.Width, 1, 1)
	out := make([]byte, rowBytes*view.Height)

	// Fast path: the source is already a byte-aligned, tightly-strided
	// bit-packed single-band buffer — copy rows verbatim.
	if view.Bytes != nil && view.Stride == rowBytes {
		copy(out, view.Bytes[:rowBytes*view.Height])
		return out, nil
	}

	for y := 0; y < view.Height; y++ {
		rowOff := y * rowBytes
		var cur byte
		var nbits uint
		col := 0
		for x := 0; x < view.Width; x++ {
			v := pixelAt(view, x, y, 0)
			cur = (cur << 1) | byte(v&1)
			nbits++
			if nbits == 8 {
				out[rowOff+col] = cur
				col++
				cur, nbits = 0, 0
			}
		}
		if nbits > 0 {
			cur <<= (8 - nbits)
			out[rowOff+col] = cur
		}
	}
	return out, nil
}

// pack4Bit packs a single-band tile, two samples per byte, high nibble
// first. The last byte on odd widths has its low nibble zeroed.
func pack4Bit(view RasterView) ([]byte, error) {
	rowBytes := bytesPerRowForDepth(view.Width, 4, 1)
	out := make([]byte, rowBytes*view.Height)

	if view.Bytes != nil && view.Stride == rowBytes {
		copy(out, view.Bytes[:rowBytes*view.Height])
		return out, nil
	}

	for y := 0; y < view.Height; y++ {
		rowOff := y * rowBytes
		for x := 0; x < view.Width; x += 2 {
			hi := byte(pixelAt(view, x, y, 0) & 0xF)
			var lo byte
			if x+1 < view.Width {
				lo = byte(pixelAt(view, x+1, y, 0) & 0xF)
			}
			out[rowOff+x/2] = hi<<4 | lo
		}
	}
	return out, nil
}

// pack8Bit packs a multi-band tile in band-interleaved-by-pixel order
// (P0B0 P0B1 ... P0B{k-1} P1B0 ...).
func pack8Bit(view RasterView, bands int) ([]byte, error) {
	bytesPerRow := bytesPerRowForDepth(view.Width, 8, bands)
	out := make([]byte, bytesPerRow*view.Height)

	// Fast path: contiguous component layout, pixelStride == bands,
	// lineStride == bytesPerRow.
	if view.Bytes != nil && view.PixelStride == bands && view.Stride == bytesPerRow {
		copy(out, view.Bytes[:bytesPerRow*view.Height])
		return out, nil
	}
	if view.Bytes != nil && view.PixelStride == bands {
		for y := 0; y < view.Height; y++ {
			src := view.Bytes[y*view.Stride : y*view.Stride+bytesPerRow]
			copy(out[y*bytesPerRow:], src)
		}
		return out, nil
	}

	for y := 0; y < view.Height; y++ {
		rowOff := y * bytesPerRow
		for x := 0; x < view.Width; x++ {
			for b := 0; b < bands; b++ {
				out[rowOff+x*bands+b] = byte(pixelAt(view, x, y, b))
			}
		}
	}
	return out, nil
}

// pack16Bit packs samples high-byte-first within each 16-bit sample,
// regardless of the file's declared endianness (spec.md §9, §4.4).
func pack16Bit(view RasterView, bands int) ([]byte, error) {
	bytesPerRow := bytesPerRowForDepth(view.Width, 16, bands)
	out := make([]byte, bytesPerRow*view.Height)

	if view.Bytes != nil && view.PixelStride == 2*bands && view.Stride == bytesPerRow {
		copy(out, view.Bytes[:bytesPerRow*view.Height])
		return out, nil
	}

	for y := 0; y < view.Height; y++ {
		rowOff := y * bytesPerRow
		for x := 0; x < view.Width; x++ {
			for b := 0; b < bands; b++ {
				v := uint16(pixelAt(view, x, y, b))
				off := rowOff + (x*bands+b)*2
				out[off+0] = byte(v >> 8)
				out[off+1] = byte(v)
			}
		}
	}
	return out, nil
}

// pack32Bit packs samples four bytes per sample, high-byte-first; floats
// serialize their IEEE-754 bits the same way.
func pack32Bit(view RasterView, bands int, dataType SampleDataType) ([]byte, error) {
	bytesPerRow := bytesPerRowForDepth(view.Width, 32, bands)
	out := make([]byte, bytesPerRow*view.Height)

	if view.Bytes != nil && view.PixelStride == 4*bands && view.Stride == bytesPerRow {
		copy(out, view.Bytes[:bytesPerRow*view.Height])
		return out, nil
	}

	for y := 0; y < view.Height; y++ {
		rowOff := y * bytesPerRow
		for x := 0; x < view.Width; x++ {
			for b := 0; b < bands; b++ {
				var v uint32
				if dataType == SampleFloat {
					v = math.Float32bits(floatPixelAt(view, x, y, b))
				} else {
					v = uint32(pixelAt(view, x, y, b))
				}
				off := rowOff + (x*bands+b)*4
				out[off+0] = byte(v >> 24)
				out[off+1] = byte(v >> 16)
				out[off+2] = byte(v >> 8)
				out[off+3] = byte(v)
			}
		}
	}
	return out, nil
}

func pixelAt(view RasterView, x, y, band int) int {
	if view.FloatPixels != nil {
		return int(view.FloatPixels[(y*view.Width+x)*view.Bands+band])
	}
	return view.Pixels[(y*view.Width+x)*view.Bands+band]
}

func floatPixelAt(view RasterView, x, y, band int) float32 {
	if view.FloatPixels != nil {
		return view.FloatPixels[(y*view.Width+x)*view.Bands+band]
	}
	return float32(view.Pixels[(y*view.Width+x)*view.Bands+band])
}
