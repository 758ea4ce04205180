package tiff

// This file defines the external raster-source collaborator contract of
// spec.md §6: the interface the encoder core consumes, never implements
// in full itself (concrete adapters live in stdsource.go and hdrsource.go).
// Shaped after stdlib image.Image/image.ColorModel plus the richer
// SampleModel/tile-access surface spec.md names explicitly, and after the
// Echoflaresat-tiff and hongping1224-go-tiff32 custom raster types for the
// "a raster need not be an image.Image" half of the contract.

// SampleDataType identifies the in-memory representation of one sample.
type SampleDataType int

const (
	SampleByte SampleDataType = iota
	SampleShort
	SampleUShort
	SampleInt
	SampleFloat
)

// SampleModel describes a Source's per-pixel sample layout.
type SampleModel struct {
	DataType      SampleDataType
	Bands         int
	BitsPerSample int // bit depth, uniform across bands (spec.md §4.3 step 1)
}

// ColorSpaceType classifies a ColorModel for the purposes of Classify
// (spec.md §4.3 step 5).
type ColorSpaceType int

const (
	ColorSpaceGray ColorSpaceType = iota
	ColorSpaceRGB
	ColorSpaceYCbCr
	ColorSpaceCMYK
	ColorSpaceLab
	ColorSpaceOther
)

// ColorSpace reports the colorspace a ColorModel lives in.
type ColorSpace interface {
	Type() ColorSpaceType
}

type simpleColorSpace ColorSpaceType

func (c simpleColorSpace) Type() ColorSpaceType { return ColorSpaceType(c) }

// GrayColorSpace, RGBColorSpace, YCbCrColorSpace, CMYKColorSpace, and
// LabColorSpace are the stock ColorSpace values for the non-indexed cases
// of spec.md §4.3 step 5.
var (
	GrayColorSpace  ColorSpace = simpleColorSpace(ColorSpaceGray)
	RGBColorSpace   ColorSpace = simpleColorSpace(ColorSpaceRGB)
	YCbCrColorSpace ColorSpace = simpleColorSpace(ColorSpaceYCbCr)
	CMYKColorSpace  ColorSpace = simpleColorSpace(ColorSpaceCMYK)
	LabColorSpace   ColorSpace = simpleColorSpace(ColorSpaceLab)
)

// Palette is an indexed ColorModel's lookup table: one RGB byte-triple per
// index.
type Palette [][3]byte

// ColorModel describes the (optional) photometric meaning of a Source's
// samples.
type ColorModel struct {
	Indexed bool
	Palette Palette // only meaningful when Indexed
	Space   ColorSpace

	// HasAlpha and AlphaAssociated describe the single extra sample case
	// of spec.md §4.3 step 6.
	HasAlpha        bool
	AlphaAssociated bool
}

// Rect is an axis-aligned pixel rectangle, (MinX,MinY) inclusive,
// (MinX+Width, MinY+Height) exclusive.
type Rect struct {
	MinX, MinY, Width, Height int
}

// RasterView is a tile of decoded samples, returned by Source.GetTile. A
// Source should prefer the Bytes fast path when its storage is already a
// contiguous byte buffer in the packer's expected layout (spec.md §4.4);
// otherwise it provides per-pixel integer or float samples.
type RasterView struct {
	// Bytes, Stride, and PixelStride describe a contiguous byte buffer the
	// packer may copy verbatim when they match its fast-path layout.
	// Stride is the number of bytes between the start of successive rows;
	// PixelStride is the number of bytes between successive pixels within
	// a row (0 means "not contiguous / no fast path available").
	Bytes       []byte
	Stride      int
	PixelStride int

	// Pixels is the generic fallback: row-major, band-interleaved integer
	// samples, Width*Height*Bands long. Used when Bytes is nil.
	Pixels []int
	// FloatPixels is the float32 counterpart, used when SampleModel's
	// DataType is SampleFloat.
	FloatPixels []float32

	Width, Height, Bands int
}

// Source is the raster abstraction the encoder consumes (spec.md §6). It
// is deliberately minimal: bounds, the two descriptive models, and tiled
// pixel access.
type Source interface {
	Bounds() Rect
	SampleModel() SampleModel
	ColorModel() (ColorModel, bool) // ok is false when there is no color model
	GetTile(r Rect) (RasterView, error)
}
