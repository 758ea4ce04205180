package tiff

// A tiff image file contains one or more images. The metadata
// of each image is contained in an Image File Directory (IFD),
// which contains entries of 12 bytes each and is described
// on page 14-16 of the specification. An IFD entry consists of
//
//  - a tag, which describes the signification of the entry,
//  - the data type and length of the entry,
//  - the data itself or a pointer to it if it is more than 4 bytes.
//
// The presence of a length means that each IFD is effectively an array.

const (
	leHeader = "II\x2A\x00" // Header for little-endian files.
	beHeader = "MM\x00\x2A" // Header for big-endian files.

	ifdLen = 12 // Length of an IFD entry in bytes.
)

// FieldType identifies the on-disk representation of a Field's value
// (p. 14-16 of the spec).
type FieldType uint16

// Data types (p. 14-16 of the spec).
const (
	dtByte      FieldType = 1
	dtASCII     FieldType = 2
	dtShort     FieldType = 3
	dtLong      FieldType = 4
	dtRational  FieldType = 5
	dtSByte     FieldType = 6
	dtUndefined FieldType = 7
	dtSShort    FieldType = 8
	dtSLong     FieldType = 9
	dtSRational FieldType = 10
	dtFloat     FieldType = 11
	dtDouble    FieldType = 12
)

// The length of one instance of each data type in bytes, indexed by
// FieldType. Entry 0 is unused.
var lengths = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Tags (see p. 28-41 of the spec).
const (
	tNewSubFileType = 254
	tImageWidth     = 256
	tImageLength    = 257
	tBitsPerSample  = 258
	tCompression    = 259

	tPhotometricInterpretation = 262
	tFillOrder                 = 266

	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279

	tXResolution         = 282
	tYResolution         = 283
	tPlanarConfiguration = 284
	tResolutionUnit      = 296

	tT4Options = 292
	tT6Options = 293

	tPredictor      = 317
	tColorMap       = 320
	tTileWidth      = 322
	tTileLength     = 323
	tTileOffsets    = 324
	tTileByteCounts = 325

	tExtraSamples = 338
	tSampleFormat = 339

	tJPEGTables = 347

	tYCbCrSubSampling    = 530
	tYCbCrPositioning    = 531
	tReferenceBlackWhite = 532

	tStonits = 37439
)

// Compression types (defined in various places in the spec and supplements).
const (
	cNone       = 1
	cCCITT      = 2 // Modified Huffman, T.4 1-D.
	cG3         = 3 // Group 3 Fax, T.4.
	cG4         = 4 // Group 4 Fax, T.6.
	cLZW        = 5
	cJPEGOld    = 6 // Superseded by cJPEG.
	cJPEG       = 7 // Technical Note 2 (TTN2).
	cDeflate    = 8 // Adobe zlib/Deflate.
	cPackBits   = 32773
	cDeflateOld = 32946 // Superseded by cDeflate.

	cSGILogRLE      = 34676 // Logluv
	cSGILog24Packed = 34677 // Logluv
	cLossyJPEG      = 34892 // Lossy JPEG is allowed for IFDs that use PhotometricInterpretation = 34892 (LinearRaw) and 8-bit integer data.
)

// Photometric interpretation values (see p. 37 of the spec).
const (
	pWhiteIsZero = 0
	pBlackIsZero = 1
	pRGB         = 2
	pPaletted    = 3
	pTransMask   = 4 // transparency mask
	pCMYK        = 5
	pYCbCr       = 6
	pCIELab      = 8

	pLogL   = 32844 // GrayScale - CIE Log2(L)
	pLogLuv = 32845 // Color - CIE Log2(L) (u',v')
)

// Values for the tPredictor tag (page 64-65 of the spec).
const (
	prNone          = 1
	prHorizontal    = 2
	prFloatingPoint = 3 // Floating point horizontal differencing, a third specification supplement from Adobe
)

// Values for the tResolutionUnit tag (page 18).
const (
	resNone    = 1
	resPerInch = 2 // Dots per inch.
	resPerCM   = 3 // Dots per centimeter.
)

// Values for the tSampleFormat tag (page 80).
const (
	sfUint   = 1
	sfInt    = 2
	sfIEEEFP = 3
	sfVoid   = 4
)

// Values for the tFillOrder tag (page 27).
const (
	foMSB2LSB = 1
	foLSB2MSB = 2
)

// Values for the tExtraSamples tag (page 31).
const (
	esUnspecified  = 0
	esAssocAlpha   = 1
	esUnassocAlpha = 2
)

// ImageKind is the internal classification a Source is mapped to by
// Classify; see classify.go and spec.md §4.3.
type ImageKind int

const (
	KindBilevelWhiteZero ImageKind = iota
	KindBilevelBlackZero
	KindGray
	KindPalette
	KindRGB
	KindCMYK
	KindYCbCr
	KindCIELab
	KindGeneric
)

func (k ImageKind) String() string {
	switch k {
	case KindBilevelWhiteZero:
		return "BilevelWhiteZero"
	case KindBilevelBlackZero:
		return "BilevelBlackZero"
	case KindGray:
		return "Gray"
	case KindPalette:
		return "Palette"
	case KindRGB:
		return "RGB"
	case KindCMYK:
		return "CMYK"
	case KindYCbCr:
		return "YCbCr"
	case KindCIELab:
		return "CIELab"
	default:
		return "Generic"
	}
}

// photometricFor maps an ImageKind to its PhotometricInterpretation tag
// value, per spec.md §3.
var photometricFor = map[ImageKind]uint32{
	KindBilevelWhiteZero: pWhiteIsZero,
	KindBilevelBlackZero: pBlackIsZero,
	KindGray:             pBlackIsZero,
	KindPalette:          pPaletted,
	KindRGB:              pRGB,
	KindCMYK:             pCMYK,
	KindYCbCr:            pYCbCr,
	KindCIELab:           pCIELab,
	KindGeneric:          pBlackIsZero,
}

// Compression identifies one of the dispatchable compression schemes of
// spec.md §4.5.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionPackBits
	CompressionDeflate
	CompressionT4_1D
	CompressionT4_2D
	CompressionT6
	CompressionJPEG
)

// tiffValue returns the TIFF Compression tag value for c.
func (c Compression) tiffValue() uint32 {
	switch c {
	case CompressionNone:
		return cNone
	case CompressionPackBits:
		return cPackBits
	case CompressionDeflate:
		return cDeflate
	case CompressionT4_1D, CompressionT4_2D:
		return cG3
	case CompressionT6:
		return cG4
	case CompressionJPEG:
		return cJPEG
	default:
		return cNone
	}
}

func (c Compression) isBilevelOnly() bool {
	switch c {
	case CompressionT4_1D, CompressionT4_2D, CompressionT6:
		return true
	default:
		return false
	}
}

// Endianness selects the byte order used for the TIFF header and for all
// tag primitives written through the Sink. It does not affect the
// high-byte-first convention the pixel packer uses for 16- and 32-bit
// samples; see pack.go and spec.md §9.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) header() string {
	if e == BigEndian {
		return beHeader
	}
	return leHeader
}
