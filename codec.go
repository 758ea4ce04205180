package tiff

import "io"

// The external codec contracts of spec.md §6. The core treats every one of
// these as a collaborator it calls into, never implements the bitstream of
// itself (fax and JPEG bodies are explicitly out of scope — spec.md §1).

// FaxEncoder is the CCITT T.4/T.6 collaborator contract. A conformant
// implementation is required only when Options.Compression selects one of
// the fax schemes; none is bundled, since producing a correct T.4/T.6
// bitstream is external-collaborator territory per spec.md §1.
type FaxEncoder interface {
	// EncodeRLE encodes a single row's Modified Huffman RLE (T.4 1-D) and
	// writes it to out, returning the number of bytes written.
	EncodeRLE(row []byte, rowOffset, bitOffset, width int, out io.Writer) (uint32, error)

	// EncodeT4 encodes an entire tile as T.4 (1-D or 2-D, with optional
	// EOL padding) and writes it to out.
	EncodeT4(is1D, padEOLs bool, tile []byte, rowBytes, bitOffset, width, height int, out io.Writer) (uint32, error)

	// EncodeT6 encodes an entire tile as T.6 (Group 4) and writes it to
	// out.
	EncodeT6(tile []byte, rowBytes, bitOffset, width, height int, out io.Writer) (uint32, error)
}

// JpegEncoder is the baseline JPEG (TTN2) collaborator contract. It must
// write directly to sink and report the number of bytes written, so the
// page writer can record the compressed tile's byte count without a
// buffering round-trip for this one dispatch entry (spec.md §4.5).
type JpegEncoder interface {
	// EncodeTile encodes one tile of raster, translated to origin (0,0),
	// and writes the JPEG bytestream to sink.
	EncodeTile(sink io.Writer, raster Source, tile Rect, params JPEGParams) (uint32, error)

	// TablesOnly writes an abbreviated "tables only" stream (used once,
	// into the JPEGTables field, when params.WriteImageOnly is set) and
	// returns the bytes written.
	TablesOnly(sink io.Writer, params JPEGParams) (uint32, error)
}

// Deflater is the zlib/Deflate collaborator contract (spec.md §6). Each
// call is finish+reset: it fully drains input into a brand-new compressed
// stream in output and returns the compressed length.
type Deflater interface {
	Deflate(input []byte, output io.Writer, level int) (uint32, error)
}
