package tiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack1BitMSBFirst(t *testing.T) {
	// Row [0,1,1,0,1,0,0,1] -> 0b01101001 = 0x69.
	view := RasterView{Pixels: []int{0, 1, 1, 0, 1, 0, 0, 1}, Width: 8, Height: 1, Bands: 1}
	out, err := pack(view, 1, 1, SampleByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x69}, out)
}

func TestPack1BitTailPadding(t *testing.T) {
	// Width 3, not a multiple of 8: [1,0,1] -> 0b10100000 = 0xA0.
	view := RasterView{Pixels: []int{1, 0, 1}, Width: 3, Height: 1, Bands: 1}
	out, err := pack(view, 1, 1, SampleByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA0}, out)
}

func TestPack4BitOddWidth(t *testing.T) {
	// Width 3: pixels [1,2,3] -> bytes [0x12, 0x30] (low nibble of last byte zeroed).
	view := RasterView{Pixels: []int{1, 2, 3}, Width: 3, Height: 1, Bands: 1}
	out, err := pack(view, 4, 1, SampleByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x30}, out)
}

func TestPack8BitBandInterleaved(t *testing.T) {
	view := RasterView{Pixels: []int{0x12, 0x34, 0x56}, Width: 1, Height: 1, Bands: 3}
	out, err := pack(view, 8, 3, SampleByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0x56}, out)
}

func TestPack16BitHighByteFirstRegardlessOfFileEndianness(t *testing.T) {
	view := RasterView{Pixels: []int{0x0102}, Width: 1, Height: 1, Bands: 1}
	out, err := pack(view, 16, 1, SampleUShort)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, out)
}

func TestPack32BitFloatHighByteFirst(t *testing.T) {
	view := RasterView{FloatPixels: []float32{1.5}, Width: 1, Height: 1, Bands: 1}
	out, err := pack(view, 32, 1, SampleFloat)
	require.NoError(t, err)
	// 1.5f = 0x3FC00000.
	assert.Equal(t, []byte{0x3F, 0xC0, 0x00, 0x00}, out)
}

func TestPack1BitFastPathCopiesVerbatim(t *testing.T) {
	view := RasterView{Bytes: []byte{0x69}, Stride: 1, Width: 8, Height: 1, Bands: 1}
	out, err := pack(view, 1, 1, SampleByte)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x69}, out)
}

func TestBytesPerRowForDepth(t *testing.T) {
	assert.Equal(t, 1, bytesPerRowForDepth(8, 1, 1))
	assert.Equal(t, 2, bytesPerRowForDepth(9, 1, 1))
	assert.Equal(t, 3, bytesPerRowForDepth(3, 8, 1))
	assert.Equal(t, 6, bytesPerRowForDepth(3, 8, 2))
}
