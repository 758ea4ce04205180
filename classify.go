package tiff

// Classification is the output of Classify: the ImageKind plus the
// per-pixel facts the rest of the pipeline (layout planner, field table,
// pixel packer) needs in order to proceed.
type Classification struct {
	Kind            ImageKind
	Bands           int // color bands only; samples per pixel is Bands + NumExtraSamples
	BitsPerSample   int
	DataType        SampleDataType
	Palette         Palette
	NumExtraSamples int
	ExtraSampleCode uint32 // esAssocAlpha or esUnassocAlpha, only when NumExtraSamples == 1 and alpha present
}

// Classify implements spec.md §4.3: derive an ImageKind (and the
// accompanying per-pixel facts) from a Source's SampleModel and optional
// ColorModel. It is the write-side mirror of the teacher's decoder.go
// photometric-tag-to-mode switch, run in the opposite direction and
// extended with the validation steps a decoder (which trusts the file)
// never needs to perform.
func Classify(sm SampleModel, cm ColorModel, hasColorModel bool) (Classification, error) {
	bands := sm.Bands
	depth := sm.BitsPerSample

	// Step 1: bit depth is uniform across bands by construction (SampleModel
	// carries a single BitsPerSample), so step 1's "heterogeneous bands"
	// check only needs to guard against a caller mis-zeroing it.
	if depth <= 0 {
		return Classification{}, validationError(ErrHeterogeneousBitDepth, "bits per sample must be positive")
	}

	// Step 2: sub-byte depths are single-band only.
	if (depth == 1 || depth == 4) && bands != 1 {
		return Classification{}, validationError(ErrSubByteMultiband, "1- and 4-bit samples must be single-band")
	}

	// Step 3: (dataType, bitDepth) consistency.
	switch sm.DataType {
	case SampleByte:
		if depth != 1 && depth != 4 && depth != 8 {
			return Classification{}, validationError(ErrDataTypeDepthMismatch, "byte samples must be 1, 4, or 8 bits")
		}
	case SampleShort, SampleUShort:
		if depth != 16 {
			return Classification{}, validationError(ErrDataTypeDepthMismatch, "short samples must be 16 bits")
		}
	case SampleInt, SampleFloat:
		if depth != 32 {
			return Classification{}, validationError(ErrDataTypeDepthMismatch, "int/float samples must be 32 bits")
		}
	default:
		return Classification{}, validationError(ErrUnsupportedDataType, "")
	}

	// Step 4: palette requires byte samples.
	if hasColorModel && cm.Indexed && sm.DataType != SampleByte {
		return Classification{}, validationError(ErrPaletteOnlyByte, "")
	}

	c := Classification{Bands: bands, BitsPerSample: depth, DataType: sm.DataType}

	// Step 5: classification.
	switch {
	case hasColorModel && cm.Indexed:
		c.Palette = cm.Palette
		if depth == 1 && bands == 1 && len(cm.Palette) == 2 && isBilevelPalette(cm.Palette) {
			if cm.Palette[0] == ([3]byte{0, 0, 0}) {
				c.Kind = KindBilevelBlackZero
			} else {
				c.Kind = KindBilevelWhiteZero
			}
		} else {
			c.Kind = KindPalette
		}
	case !hasColorModel:
		if depth == 1 && bands == 1 {
			c.Kind = KindBilevelBlackZero
		} else {
			c.Kind = KindGeneric
		}
	default:
		switch cm.Space.Type() {
		case ColorSpaceCMYK:
			c.Kind = KindCMYK
		case ColorSpaceGray:
			c.Kind = KindGray
		case ColorSpaceLab:
			c.Kind = KindCIELab
		case ColorSpaceRGB:
			c.Kind = KindRGB
		case ColorSpaceYCbCr:
			c.Kind = KindYCbCr
		default:
			c.Kind = KindGeneric
		}
	}

	// Step 6: extra samples.
	components := colorComponents(c.Kind, bands)
	if bands > components {
		c.NumExtraSamples = bands - components
		c.Bands = components
		if c.NumExtraSamples == 1 && hasColorModel && cm.HasAlpha {
			if cm.AlphaAssociated {
				c.ExtraSampleCode = esAssocAlpha
			} else {
				c.ExtraSampleCode = esUnassocAlpha
			}
		}
	}

	return c, nil
}

// WithJPEGRGBToYCbCr reclassifies an RGB Classification as YCbCr, for the
// jpegCompressRGBToYCbCr option of spec.md §4.5/§6: the raster stays RGB in
// memory (and is handed to the JPEG encoder as RGB), but the written
// PhotometricInterpretation is YCbCr because that is what the JPEG
// bytestream itself encodes.
func (c Classification) WithJPEGRGBToYCbCr() Classification {
	if c.Kind == KindRGB {
		c.Kind = KindYCbCr
	}
	return c
}

func colorComponents(k ImageKind, bands int) int {
	switch k {
	case KindCMYK:
		return 4
	case KindRGB, KindYCbCr, KindCIELab:
		return 3
	case KindGray, KindBilevelBlackZero, KindBilevelWhiteZero, KindPalette:
		return 1
	default: // Generic
		return maxInt(bands-1, 0)
	}
}

func isBilevelPalette(p Palette) bool {
	black := [3]byte{0, 0, 0}
	white := [3]byte{255, 255, 255}
	return (p[0] == black && p[1] == white) || (p[0] == white && p[1] == black)
}

// CheckCompressionCompatibility validates a (Classification, Compression)
// pair against spec.md §4.5's kind constraints, returning one of
// IncompatibleCompression / JpegUnsupportedKind / JpegPalette.
func CheckCompressionCompatibility(c Classification, comp Compression) error {
	if comp.isBilevelOnly() {
		if c.Kind != KindBilevelBlackZero && c.Kind != KindBilevelWhiteZero {
			return validationError(ErrIncompatibleCompression, "fax compression requires a bilevel image")
		}
		return nil
	}
	if comp == CompressionJPEG {
		if c.Kind == KindPalette {
			return validationError(ErrJpegPalette, "")
		}
		if c.BitsPerSample != 8 || (c.Kind != KindGray && c.Kind != KindRGB && c.Kind != KindYCbCr) {
			return validationError(ErrJpegUnsupportedKind, "")
		}
	}
	return nil
}
