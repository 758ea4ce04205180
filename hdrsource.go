package tiff

import (
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
)

// HDRSource adapts an github.com/mdouchement/hdr floating-point image (the
// teacher's decoder.go produces hdr.RGB/hdr.XYZ as its *decode* targets) to
// the Source contract, in the opposite direction: it feeds the 32-bit
// float packer path (spec.md §4.4, §9) instead of being written into.
//
// Grounded on the teacher's decode_rgb.go/decode_logluv.go SetRGB/SetXYZ
// call sites, read in reverse via hdr.Image.At.
type HDRSource struct {
	Img hdr.Image
}

func (s HDRSource) Bounds() Rect {
	b := s.Img.Bounds()
	return Rect{MinX: b.Min.X, MinY: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

func (s HDRSource) SampleModel() SampleModel {
	return SampleModel{DataType: SampleFloat, Bands: 3, BitsPerSample: 32}
}

func (s HDRSource) ColorModel() (ColorModel, bool) {
	switch s.Img.(type) {
	case *hdr.XYZ:
		// CIE XYZ has no dedicated ColorSpaceType; spec.md §4.3 step 5
		// falls through to Generic for colorspaces it does not name.
		return ColorModel{Space: simpleColorSpace(ColorSpaceOther)}, true
	default:
		return ColorModel{Space: RGBColorSpace}, true
	}
}

func (s HDRSource) GetTile(r Rect) (RasterView, error) {
	out := make([]float32, r.Width*r.Height*3)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			px := s.Img.At(r.MinX+x, r.MinY+y)
			r32, g32, b32 := hdrPixelComponents(px)
			off := (y*r.Width + x) * 3
			out[off+0] = r32
			out[off+1] = g32
			out[off+2] = b32
		}
	}
	return RasterView{FloatPixels: out, Width: r.Width, Height: r.Height, Bands: 3}, nil
}

func hdrPixelComponents(px color.Color) (float32, float32, float32) {
	switch c := px.(type) {
	case hdrcolor.RGB:
		return float32(c.R), float32(c.G), float32(c.B)
	case hdrcolor.XYZ:
		return float32(c.X), float32(c.Y), float32(c.Z)
	default:
		r, g, b, _ := c.RGBA()
		return float32(r) / 65535, float32(g) / 65535, float32(b) / 65535
	}
}
