package tiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanLayoutStripedDefaultsToEightRows(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 8}
	g := planLayout(Rect{Width: 4, Height: 20}, c, &Options{})
	assert.False(t, g.Tiled)
	assert.Equal(t, 8, g.TileH)
	assert.Equal(t, 1, g.NumTilesX)
	assert.Equal(t, 3, g.NumTilesY)
	// Last strip is short: 20 rows / 8 per strip -> 8, 8, 4.
	assert.EqualValues(t, 4*8, g.TileByteCounts[0])
	assert.EqualValues(t, 4*4, g.TileByteCounts[2])
}

func TestPlanLayoutStripedRespectsRowsPerStrip(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 8}
	g := planLayout(Rect{Width: 4, Height: 20}, c, &Options{RowsPerStrip: 5})
	assert.Equal(t, 5, g.TileH)
	assert.Equal(t, 4, g.NumTilesY)
}

func TestPlanLayoutTiledDefaultsTo256RoundedTo16(t *testing.T) {
	c := Classification{Kind: KindRGB, Bands: 3, BitsPerSample: 8}
	g := planLayout(Rect{Width: 500, Height: 500}, c, &Options{WriteTiled: true})
	assert.True(t, g.Tiled)
	assert.Equal(t, 256, g.TileW)
	assert.Equal(t, 256, g.TileH)
	assert.Equal(t, 2, g.NumTilesX)
	assert.Equal(t, 2, g.NumTilesY)
}

func TestPlanLayoutTiledRoundsExplicitSizeUpToMultipleOf16(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 8}
	g := planLayout(Rect{Width: 100, Height: 100}, c, &Options{WriteTiled: true, TileWidth: 100, TileHeight: 100})
	assert.Equal(t, 112, g.TileW)
	assert.Equal(t, 112, g.TileH)
}

func TestPlanLayoutTiledJPEGRoundsToSubsampleFactor(t *testing.T) {
	c := Classification{Kind: KindYCbCr, Bands: 3, BitsPerSample: 8}
	opt := &Options{
		WriteTiled:  true,
		TileWidth:   10,
		TileHeight:  10,
		Compression: CompressionJPEG,
		JPEGParams:  JPEGParams{SubsamplingX: 2, SubsamplingY: 2},
	}
	g := planLayout(Rect{Width: 10, Height: 10}, c, opt)
	// unit = 8*2 = 16.
	assert.Equal(t, 16, g.TileW)
	assert.Equal(t, 16, g.TileH)
}

func TestPlanLayoutTiledNeverShortensLastTileByteCount(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 8}
	g := planLayout(Rect{Width: 20, Height: 20}, c, &Options{WriteTiled: true, TileWidth: 16, TileHeight: 16})
	for _, bc := range g.TileByteCounts {
		assert.EqualValues(t, g.BytesPerTile, bc)
	}
}

func TestBuildFieldTableAlwaysWritesNewSubFileTypeZero(t *testing.T) {
	c := Classification{Kind: KindBilevelBlackZero, Bands: 1, BitsPerSample: 1}
	g := planLayout(Rect{Width: 2, Height: 2}, c, &Options{})
	ft := buildFieldTable(Rect{Width: 2, Height: 2}, c, g, &Options{})
	f, ok := ft.byTag[tNewSubFileType]
	assert.True(t, ok)
	assert.Equal(t, []uint32{0}, f.Longs)
}

func TestBuildFieldTableOmitsSampleFormatBelow16Bits(t *testing.T) {
	c := Classification{Kind: KindBilevelBlackZero, Bands: 1, BitsPerSample: 1, DataType: SampleByte}
	g := planLayout(Rect{Width: 2, Height: 2}, c, &Options{})
	ft := buildFieldTable(Rect{Width: 2, Height: 2}, c, g, &Options{})
	_, ok := ft.byTag[tSampleFormat]
	assert.False(t, ok)
}

func TestBuildFieldTableWritesSampleFormatAt16Bits(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 16, DataType: SampleUShort}
	g := planLayout(Rect{Width: 3, Height: 3}, c, &Options{})
	ft := buildFieldTable(Rect{Width: 3, Height: 3}, c, g, &Options{})
	f, ok := ft.byTag[tSampleFormat]
	assert.True(t, ok)
	assert.Equal(t, []uint32{sfUint}, f.Longs)
}

func TestBuildFieldTableColorMapScalesToFullRange(t *testing.T) {
	c := Classification{
		Kind: KindPalette, Bands: 1, BitsPerSample: 8, DataType: SampleByte,
		Palette: Palette{{0, 0, 0}, {255, 128, 1}},
	}
	g := planLayout(Rect{Width: 2, Height: 1}, c, &Options{})
	ft := buildFieldTable(Rect{Width: 2, Height: 1}, c, g, &Options{})
	f, ok := ft.byTag[tColorMap]
	assert.True(t, ok)
	assert.Equal(t, []uint32{0, 255 * 257, 0, 128 * 257, 0, 1 * 257}, f.Longs)
}

func TestBuildFieldTableExtraFieldsMergeIfAbsent(t *testing.T) {
	c := Classification{Kind: KindGray, Bands: 1, BitsPerSample: 8}
	g := planLayout(Rect{Width: 1, Height: 1}, c, &Options{})
	opt := &Options{
		ExtraFields: []Field{
			ShortField(tResolutionUnit, resPerInch),
			ShortField(tCompression, 99), // already present, must not override
		},
	}
	ft := buildFieldTable(Rect{Width: 1, Height: 1}, c, g, opt)

	ru, ok := ft.byTag[tResolutionUnit]
	assert.True(t, ok)
	assert.Equal(t, []uint32{resPerInch}, ru.Longs)

	comp, ok := ft.byTag[tCompression]
	assert.True(t, ok)
	assert.Equal(t, []uint32{cNone}, comp.Longs)
}
