package tiff

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// dispatchCompression implements spec.md §4.5: given a packed tile buffer,
// apply the configured Compression and write the result to sink, returning
// the number of bytes written for that tile. raster is only consulted for
// the JPEG-TTN2 path, which (per spec.md §4.5) bypasses the packer entirely
// and hands the source raster straight to the JPEG collaborator; tileRect
// is the tile handed to the JPEG collaborator and also supplies the pixel
// width passed to the fax encoders.
//
// Grounded on golang-image's write-into-buffer-then-copy dispatch (for
// Deflate) and the teacher's decoder.go decompress switch, whose
// compression-constant mapping this mirrors in the write direction.
func dispatchCompression(sink io.Writer, packed []byte, bytesPerRow, rows int, comp Compression, opt *Options, raster Source, tileRect Rect) (uint32, error) {
	switch comp {
	case CompressionNone:
		n, err := sink.Write(packed)
		return uint32(n), errors.Wrap(err, "tiff: write uncompressed tile")

	case CompressionPackBits:
		out := packBitsEncode(packed, rows, bytesPerRow)
		n, err := sink.Write(out)
		return uint32(n), errors.Wrap(err, "tiff: write packbits tile")

	case CompressionDeflate:
		deflater := opt.deflater()
		var buf bytes.Buffer
		if _, err := deflater.Deflate(packed, &buf, opt.DeflateLevel); err != nil {
			return 0, errors.Wrap(err, "tiff: deflate tile")
		}
		n, err := sink.Write(buf.Bytes())
		return uint32(n), errors.Wrap(err, "tiff: write deflate tile")

	case CompressionT4_1D:
		fax := opt.FaxEncoder
		if fax == nil {
			return 0, validationError(ErrIncompatibleCompression, "no FaxEncoder configured")
		}
		var buf bytes.Buffer
		for r := 0; r < rows; r++ {
			if _, err := fax.EncodeRLE(packed[r*bytesPerRow:(r+1)*bytesPerRow], r, 0, tileRect.Width, &buf); err != nil {
				return 0, errors.Wrap(err, "tiff: encode T.4 1-D row")
			}
		}
		n, err := sink.Write(buf.Bytes())
		return uint32(n), errors.Wrap(err, "tiff: write T.4 1-D tile")

	case CompressionT4_2D:
		fax := opt.FaxEncoder
		if fax == nil {
			return 0, validationError(ErrIncompatibleCompression, "no FaxEncoder configured")
		}
		var buf bytes.Buffer
		if _, err := fax.EncodeT4(false, opt.T4PadEOLs, packed, bytesPerRow, 0, tileRect.Width, rows, &buf); err != nil {
			return 0, errors.Wrap(err, "tiff: encode T.4 2-D tile")
		}
		n, err := sink.Write(buf.Bytes())
		return uint32(n), errors.Wrap(err, "tiff: write T.4 2-D tile")

	case CompressionT6:
		fax := opt.FaxEncoder
		if fax == nil {
			return 0, validationError(ErrIncompatibleCompression, "no FaxEncoder configured")
		}
		var buf bytes.Buffer
		if _, err := fax.EncodeT6(packed, bytesPerRow, 0, tileRect.Width, rows, &buf); err != nil {
			return 0, errors.Wrap(err, "tiff: encode T.6 tile")
		}
		n, err := sink.Write(buf.Bytes())
		return uint32(n), errors.Wrap(err, "tiff: write T.6 tile")

	case CompressionJPEG:
		jp := opt.jpegEncoder()
		jpegMu.Lock()
		defer jpegMu.Unlock()
		n, err := jp.EncodeTile(sink, raster, tileRect, opt.JPEGParams)
		return n, errors.Wrap(err, "tiff: encode JPEG tile")

	default:
		return 0, validationError(ErrIncompatibleCompression, "unknown compression")
	}
}

// jpegMu serializes access to the (possibly non-reentrant) JPEG collaborator
// across concurrent encoders in the same process, per spec.md §5.
var jpegMu sync.Mutex

// klauspostDeflater is the default Deflater, backed by
// github.com/klauspost/compress/zlib (see SPEC_FULL.md's DOMAIN STACK table
// for why this replaces compress/zlib).
type klauspostDeflater struct{}

func (klauspostDeflater) Deflate(input []byte, output io.Writer, level int) (uint32, error) {
	cw := &countingWriter{w: output}
	zw, err := zlib.NewWriterLevel(cw, level)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(input); err != nil {
		zw.Close()
		return cw.n, err
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// stdlibJPEGEncoder is the default JpegEncoder, backed by the standard
// library's image/jpeg (see SPEC_FULL.md's DOMAIN STACK table for why no
// pack dependency can serve this concern instead).
type stdlibJPEGEncoder struct{}

func (stdlibJPEGEncoder) EncodeTile(sink io.Writer, raster Source, tile Rect, params JPEGParams) (uint32, error) {
	img, err := tileToImage(raster, tile)
	if err != nil {
		return 0, err
	}
	cw := &countingWriter{w: sink}
	quality := params.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	if err := jpeg.Encode(cw, img, &jpeg.Options{Quality: quality}); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func (stdlibJPEGEncoder) TablesOnly(sink io.Writer, params JPEGParams) (uint32, error) {
	// The standard library's image/jpeg does not expose an
	// abbreviated/tables-only encode mode; callers that need
	// WriteImageOnly semantics must supply their own JpegEncoder.
	return 0, UnsupportedError("image/jpeg cannot emit a tables-only stream")
}

// tileToImage materializes the portion of raster covered by tile as a
// standard image.Image, for handoff to image/jpeg.
func tileToImage(raster Source, tile Rect) (image.Image, error) {
	view, err := raster.GetTile(tile)
	if err != nil {
		return nil, errors.Wrap(err, "tiff: read tile for JPEG encode")
	}
	sm := raster.SampleModel()
	switch sm.Bands {
	case 1:
		img := image.NewGray(image.Rect(0, 0, tile.Width, tile.Height))
		for y := 0; y < tile.Height; y++ {
			for x := 0; x < tile.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(pixelAt(view, x, y, 0))})
			}
		}
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, tile.Width, tile.Height))
		for y := 0; y < tile.Height; y++ {
			for x := 0; x < tile.Width; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: uint8(pixelAt(view, x, y, 0)),
					G: uint8(pixelAt(view, x, y, 1)),
					B: uint8(pixelAt(view, x, y, 2)),
					A: 255,
				})
			}
		}
		return img, nil
	default:
		return nil, validationError(ErrJpegUnsupportedKind, "jpeg tile handoff supports 1 or 3 bands")
	}
}

// countingWriter wraps an io.Writer to count bytes written, the same
// position-tracking need sink.go's baseSink fills, kept separate here
// because the JPEG collaborator writes to a plain io.Writer, not a Sink.
type countingWriter struct {
	w io.Writer
	n uint32
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += uint32(n)
	return n, err
}
