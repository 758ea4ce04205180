package tiff

import "fmt"

// tagname returns the common name of a TIFF tag, for the debug dump in
// FieldTable.String(). Generalizes the teacher's idf.go tagname (read
// direction) to the tag set this encoder writes.
func tagname(t uint16) string {
	switch t {
	case tNewSubFileType:
		return "NewSubFileType"
	case tImageWidth:
		return "ImageWidth"
	case tImageLength:
		return "ImageLength"
	case tBitsPerSample:
		return "BitsPerSample"
	case tCompression:
		return "Compression"
	case tPhotometricInterpretation:
		return "PhotometricInterpretation"
	case tFillOrder:
		return "FillOrder"
	case tStripOffsets:
		return "StripOffsets"
	case tSamplesPerPixel:
		return "SamplesPerPixel"
	case tRowsPerStrip:
		return "RowsPerStrip"
	case tStripByteCounts:
		return "StripByteCounts"
	case tXResolution:
		return "XResolution"
	case tYResolution:
		return "YResolution"
	case tPlanarConfiguration:
		return "PlanarConfiguration"
	case tResolutionUnit:
		return "ResolutionUnit"
	case tT4Options:
		return "T4Options"
	case tT6Options:
		return "T6Options"
	case tPredictor:
		return "Predictor"
	case tColorMap:
		return "ColorMap"
	case tTileWidth:
		return "TileWidth"
	case tTileLength:
		return "TileLength"
	case tTileOffsets:
		return "TileOffsets"
	case tTileByteCounts:
		return "TileByteCounts"
	case tExtraSamples:
		return "ExtraSamples"
	case tSampleFormat:
		return "SampleFormat"
	case tJPEGTables:
		return "JPEGTables"
	case tYCbCrSubSampling:
		return "YCbCrSubSampling"
	case tYCbCrPositioning:
		return "YCbCrPositioning"
	case tReferenceBlackWhite:
		return "ReferenceBlackWhite"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}
