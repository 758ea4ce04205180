package tiff

import (
	"image"
	"image/color"
)

// StdSource adapts a standard library image.Image to the Source contract.
// It recognizes the common concrete types stdlib's own image/draw and
// image/png/jpeg decoders produce and exposes the native sample layout of
// Gray, Paletted, CMYK, NRGBA and RGBA as a Bytes fast path (spec.md §4.4);
// Gray16 is read per pixel through Gray16At into Pixels, and anything else
// falls back to the generic per-pixel path through image.Image's
// color.Color interface.
//
// Grounded on golang-image/tiff's Encode type switch over
// *image.Paletted/*image.Gray/*image.Gray16/*image.NRGBA/*image.CMYK, with
// the fast-path detection generalized into RasterView.Bytes instead of a
// bespoke writer branch per type.
type StdSource struct {
	Img image.Image
}

func (s StdSource) Bounds() Rect {
	b := s.Img.Bounds()
	return Rect{MinX: b.Min.X, MinY: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

func (s StdSource) SampleModel() SampleModel {
	switch s.Img.(type) {
	case *image.Gray, *image.Paletted:
		return SampleModel{DataType: SampleByte, Bands: 1, BitsPerSample: 8}
	case *image.Gray16:
		return SampleModel{DataType: SampleUShort, Bands: 1, BitsPerSample: 16}
	case *image.CMYK:
		return SampleModel{DataType: SampleByte, Bands: 4, BitsPerSample: 8}
	case *image.NRGBA, *image.RGBA:
		return SampleModel{DataType: SampleByte, Bands: 4, BitsPerSample: 8}
	default:
		return SampleModel{DataType: SampleByte, Bands: 4, BitsPerSample: 8}
	}
}

func (s StdSource) ColorModel() (ColorModel, bool) {
	switch img := s.Img.(type) {
	case *image.Paletted:
		pal := make(Palette, len(img.Palette))
		for i, c := range img.Palette {
			r, g, b, _ := c.RGBA()
			pal[i] = [3]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
		}
		return ColorModel{Indexed: true, Palette: pal}, true
	case *image.Gray, *image.Gray16:
		return ColorModel{Space: GrayColorSpace}, true
	case *image.CMYK:
		return ColorModel{Space: CMYKColorSpace}, true
	default:
		return ColorModel{Space: RGBColorSpace, HasAlpha: true, AlphaAssociated: imageHasPremultipliedAlpha(s.Img)}, true
	}
}

func imageHasPremultipliedAlpha(img image.Image) bool {
	_, ok := img.(*image.RGBA)
	return ok
}

func (s StdSource) GetTile(r Rect) (RasterView, error) {
	bounds := image.Rect(r.MinX, r.MinY, r.MinX+r.Width, r.MinY+r.Height)

	switch img := s.Img.(type) {
	case *image.Gray:
		sub := img.SubImage(bounds).(*image.Gray)
		return RasterView{Bytes: sub.Pix, Stride: sub.Stride, PixelStride: 1, Width: r.Width, Height: r.Height, Bands: 1}, nil
	case *image.Gray16:
		return rasterFromGray16(img, r), nil
	case *image.Paletted:
		sub := img.SubImage(bounds).(*image.Paletted)
		return RasterView{Bytes: sub.Pix, Stride: sub.Stride, PixelStride: 1, Width: r.Width, Height: r.Height, Bands: 1}, nil
	case *image.CMYK:
		sub := img.SubImage(bounds).(*image.CMYK)
		return RasterView{Bytes: sub.Pix, Stride: sub.Stride, PixelStride: 4, Width: r.Width, Height: r.Height, Bands: 4}, nil
	case *image.NRGBA:
		sub := img.SubImage(bounds).(*image.NRGBA)
		return RasterView{Bytes: sub.Pix, Stride: sub.Stride, PixelStride: 4, Width: r.Width, Height: r.Height, Bands: 4}, nil
	case *image.RGBA:
		sub := img.SubImage(bounds).(*image.RGBA)
		return RasterView{Bytes: sub.Pix, Stride: sub.Stride, PixelStride: 4, Width: r.Width, Height: r.Height, Bands: 4}, nil
	default:
		return rasterFromGenericImage(s.Img, r), nil
	}
}

func rasterFromGray16(img *image.Gray16, r Rect) RasterView {
	pixels := make([]int, r.Width*r.Height)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			pixels[y*r.Width+x] = int(img.Gray16At(r.MinX+x, r.MinY+y).Y)
		}
	}
	return RasterView{Pixels: pixels, Width: r.Width, Height: r.Height, Bands: 1}
}

// rasterFromGenericImage handles any image.Image via its color.Color
// interface, always producing NRGBA-ordered (unassociated alpha) samples —
// the generic fallback the fast-path type switch above exists to avoid.
func rasterFromGenericImage(img image.Image, r Rect) RasterView {
	pixels := make([]int, r.Width*r.Height*4)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			nc := color.NRGBAModel.Convert(img.At(r.MinX+x, r.MinY+y)).(color.NRGBA)
			off := (y*r.Width + x) * 4
			pixels[off+0] = int(nc.R)
			pixels[off+1] = int(nc.G)
			pixels[off+2] = int(nc.B)
			pixels[off+3] = int(nc.A)
		}
	}
	return RasterView{Pixels: pixels, Width: r.Width, Height: r.Height, Bands: 4}
}
