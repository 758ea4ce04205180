package tiff

import (
	"image"
	"testing"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHDRSourceRGBSampleModelAndTile(t *testing.T) {
	img := hdr.NewRGB(image.Rect(0, 0, 1, 1))
	img.SetRGB(0, 0, hdrcolor.RGB{R: 0.5, G: 1.5, B: 2.5})

	src := HDRSource{Img: img}
	assert.Equal(t, SampleModel{DataType: SampleFloat, Bands: 3, BitsPerSample: 32}, src.SampleModel())

	cm, ok := src.ColorModel()
	require.True(t, ok)
	assert.Equal(t, RGBColorSpace, cm.Space)

	view, err := src.GetTile(Rect{Width: 1, Height: 1})
	require.NoError(t, err)
	require.Len(t, view.FloatPixels, 3)
	assert.InDelta(t, 0.5, view.FloatPixels[0], 1e-6)
	assert.InDelta(t, 1.5, view.FloatPixels[1], 1e-6)
	assert.InDelta(t, 2.5, view.FloatPixels[2], 1e-6)
}

func TestHDRSourceXYZReportsOtherColorSpace(t *testing.T) {
	img := hdr.NewXYZ(image.Rect(0, 0, 1, 1))
	img.SetXYZ(0, 0, hdrcolor.XYZ{X: 0.1, Y: 0.2, Z: 0.3})

	src := HDRSource{Img: img}
	cm, ok := src.ColorModel()
	require.True(t, ok)
	assert.Equal(t, ColorSpaceOther, cm.Space.Type())

	view, err := src.GetTile(Rect{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, view.FloatPixels[0], 1e-6)
}
