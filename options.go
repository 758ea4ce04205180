package tiff

// JPEGParams configures the JPEG-TTN2 compression dispatch entry (spec.md
// §6).
type JPEGParams struct {
	// Quality is passed through to the JPEG collaborator (1-100). Zero
	// means "use the collaborator's default".
	Quality int

	// SubsamplingX, SubsamplingY give the per-band chroma subsampling
	// factors the JPEG collaborator should apply (e.g. 2,2 for 4:2:0).
	SubsamplingX, SubsamplingY int

	// WriteImageOnly requests an abbreviated JPEG stream (tables written
	// once into the JPEGTables field instead of per-tile).
	WriteImageOnly bool
}

// maxSubsampleFactor returns the largest subsampling factor across axes,
// used by the layout planner to round JPEG tile dimensions up to
// 8*maxSubsampleFactor (spec.md §4.7).
func (p JPEGParams) maxSubsampleFactor() int {
	f := maxInt(p.SubsamplingX, p.SubsamplingY)
	if f < 1 {
		return 1
	}
	return f
}

// Options are the encoding parameters of spec.md §6.
type Options struct {
	Endianness Endianness

	Compression Compression

	// TileWidth, TileHeight set the tile size when WriteTiled is true.
	// <= 0 selects 256; the Source's own tile layout is not consulted.
	// Either way the size is rounded up to a multiple of 16 (or, for JPEG,
	// of 8*maxSubsampleFactor).
	WriteTiled            bool
	TileWidth, TileHeight int

	// RowsPerStrip sets the strip height when not tiled. <= 0 means the
	// default of 8 rows (spec.md §4.7).
	RowsPerStrip int

	ReverseFillOrder bool

	// T4PadEOLs sets the EOL-padding bit of T4Options; 1D vs. 2D encoding
	// is selected by Compression (CompressionT4_1D vs. CompressionT4_2D),
	// not by a separate flag here.
	T4PadEOLs bool

	DeflateLevel int // 0..9

	JPEGParams             JPEGParams
	JPEGCompressRGBToYCbCr bool

	// ExtraFields are merged into the field table if-absent (spec.md
	// §4.2, §4.7 step 4).
	ExtraFields []Field

	// ExtraImages, when non-nil on the first page's Options, is consulted
	// by EncodeAll (and so by Encode) for the pages written directly after
	// the first (spec.md §4.7 "Multi-page"). ExtraImages set on any later
	// page's Options is ignored.
	ExtraImages []PageSource

	// Collaborators. Nil means "use the bundled default" for Deflater and
	// JpegEncoder; FaxEncoder has no default (spec.md §1 places its body
	// out of scope) and must be supplied by the caller to use T.4/T.6.
	Deflater    Deflater
	JpegEncoder JpegEncoder
	FaxEncoder  FaxEncoder
}

// PageSource pairs a Source with the per-page Options that should be used
// to encode it, for EncodeAll's multi-page chaining (spec.md §4.7).
type PageSource struct {
	Image   Source
	Options *Options
}

func (o *Options) deflater() Deflater {
	if o.Deflater != nil {
		return o.Deflater
	}
	return klauspostDeflater{}
}

func (o *Options) jpegEncoder() JpegEncoder {
	if o.JpegEncoder != nil {
		return o.JpegEncoder
	}
	return stdlibJPEGEncoder{}
}

func (o *Options) endianness() Endianness {
	if o == nil {
		return LittleEndian
	}
	return o.Endianness
}

func (o *Options) compression() Compression {
	if o == nil {
		return CompressionNone
	}
	return o.Compression
}
