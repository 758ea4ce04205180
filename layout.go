package tiff

// TileGeometry captures the strip/tile grid a page is laid out on,
// computed before any pixel data is written (spec.md §3, §4.7). When
// striped (Tiled == false), TileW == the image width and the last strip
// may hold fewer rows, reflected by a shorter TileByteCounts entry.
type TileGeometry struct {
	Tiled                bool
	TileW, TileH         int
	NumTilesX, NumTilesY int
	BytesPerRow          int // bytes per packed row at full tile width
	BytesPerTile         int // bytes per full-size tile (TileW x TileH)

	TileByteCounts []uint32 // initial values; full except a possibly short last strip
	TileOffsets    []uint32 // zero-initialized, patched by the page writer
}

func (g *TileGeometry) numTiles() int { return g.NumTilesX * g.NumTilesY }

// planLayout implements spec.md §4.7 steps 1-3: decide strip vs. tile
// geometry and compute the initial byte-count table.
//
// Grounded on golang-image's single-strip-covers-the-whole-image geometry,
// generalized to an arbitrary strip/tile grid, and on the JPEG tile
// rounding rule spec.md §4.7 states explicitly (round up to
// 8*maxSubsampleFactor, clamp to at least that factor).
func planLayout(bounds Rect, c Classification, opt *Options) *TileGeometry {
	width, height := bounds.Width, bounds.Height
	g := &TileGeometry{Tiled: opt.WriteTiled}

	if g.Tiled {
		tileW, tileH := opt.TileWidth, opt.TileHeight
		if tileW <= 0 {
			tileW = 256
		}
		if tileH <= 0 {
			tileH = 256
		}
		if opt.Compression == CompressionJPEG {
			unit := 8 * opt.JPEGParams.maxSubsampleFactor()
			tileW = maxInt(roundUp(tileW, unit), unit)
			tileH = maxInt(roundUp(tileH, unit), unit)
		} else {
			// TIFF 6.0 requires TileWidth/TileLength to be multiples of 16.
			tileW = maxInt(roundUp(tileW, 16), 16)
			tileH = maxInt(roundUp(tileH, 16), 16)
		}
		g.TileW, g.TileH = tileW, tileH
	} else {
		g.TileW = width
		rowsPerStrip := opt.RowsPerStrip
		if rowsPerStrip <= 0 {
			rowsPerStrip = 8
		}
		g.TileH = rowsPerStrip
	}

	g.NumTilesX = ceilDiv(width, g.TileW)
	g.NumTilesY = ceilDiv(height, g.TileH)

	g.BytesPerRow = bytesPerRowForDepth(g.TileW, c.BitsPerSample, c.Bands+extraSampleBands(c))
	g.BytesPerTile = g.BytesPerRow * g.TileH

	n := g.numTiles()
	g.TileByteCounts = make([]uint32, n)
	g.TileOffsets = make([]uint32, n)

	for ty := 0; ty < g.NumTilesY; ty++ {
		rows := g.TileH
		if !g.Tiled && ty == g.NumTilesY-1 && height%g.TileH != 0 {
			rows = height % g.TileH
		}
		for tx := 0; tx < g.NumTilesX; tx++ {
			g.TileByteCounts[ty*g.NumTilesX+tx] = uint32(g.BytesPerRow * rows)
		}
	}

	return g
}

func extraSampleBands(c Classification) int { return c.NumExtraSamples }

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func roundUp(v, unit int) int {
	if unit <= 0 {
		return v
	}
	return ceilDiv(v, unit) * unit
}

// buildFieldTable implements spec.md §3, §4.7 step 4: the required
// baseline tags plus whichever of the strip/tile tag groups applies,
// plus the optional tags Classification and Options supply, then merges
// caller-supplied extraFields if-absent.
func buildFieldTable(bounds Rect, c Classification, g *TileGeometry, opt *Options) *FieldTable {
	t := NewFieldTable()

	t.Insert(LongField(tNewSubFileType, 0))

	bands := uint32(c.Bands + extraSampleBands(c))
	bps := make([]uint32, bands)
	for i := range bps {
		bps[i] = uint32(c.BitsPerSample)
	}

	t.Insert(ShortField(tImageWidth, uint32(bounds.Width)))
	t.Insert(ShortField(tImageLength, uint32(bounds.Height)))
	t.Insert(ShortField(tBitsPerSample, bps...))
	t.Insert(ShortField(tCompression, opt.Compression.tiffValue()))
	t.Insert(ShortField(tPhotometricInterpretation, photometricFor[c.Kind]))
	t.Insert(ShortField(tSamplesPerPixel, bands))

	if g.Tiled {
		t.Insert(ShortField(tTileWidth, uint32(g.TileW)))
		t.Insert(ShortField(tTileLength, uint32(g.TileH)))
		t.Insert(LongField(tTileOffsets, g.TileOffsets...))
		t.Insert(LongField(tTileByteCounts, g.TileByteCounts...))
	} else {
		t.Insert(LongField(tStripOffsets, g.TileOffsets...))
		t.Insert(ShortField(tRowsPerStrip, uint32(g.TileH)))
		t.Insert(LongField(tStripByteCounts, g.TileByteCounts...))
	}

	if len(c.Palette) > 0 {
		cm := make([]uint32, len(c.Palette)*3)
		// TIFF ColorMap layout is all-red, all-green, all-blue, each
		// entry scaled to the full 16-bit range.
		n := len(c.Palette)
		for i, rgb := range c.Palette {
			cm[i] = uint32(rgb[0]) * 257
			cm[n+i] = uint32(rgb[1]) * 257
			cm[2*n+i] = uint32(rgb[2]) * 257
		}
		t.Insert(ShortField(tColorMap, cm...))
	}

	if c.NumExtraSamples > 0 {
		vals := make([]uint32, c.NumExtraSamples)
		if c.NumExtraSamples == 1 && c.ExtraSampleCode != 0 {
			vals[0] = c.ExtraSampleCode
		}
		t.Insert(ShortField(tExtraSamples, vals...))
	}

	// SampleFormat defaults to unsigned-integer and is conventionally
	// omitted for 8-bit (and narrower) samples; written explicitly from
	// 16 bits up, where it actually disambiguates signed/float data.
	if c.BitsPerSample >= 16 {
		code := uint32(sfUint)
		switch c.DataType {
		case SampleFloat:
			code = sfIEEEFP
		case SampleInt:
			code = sfInt
		}
		t.Insert(ShortField(tSampleFormat, code))
	}

	if opt.ReverseFillOrder {
		t.Insert(ShortField(tFillOrder, foLSB2MSB))
	}

	if opt.Compression == CompressionT4_1D || opt.Compression == CompressionT4_2D {
		var bits uint32
		if opt.Compression == CompressionT4_2D {
			bits |= 1
		}
		if opt.T4PadEOLs {
			bits |= 4
		}
		t.Insert(LongField(tT4Options, bits))
	}
	if opt.Compression == CompressionT6 {
		t.Insert(LongField(tT6Options, 0))
	}

	for _, f := range opt.ExtraFields {
		t.InsertIfAbsent(f)
	}

	return t
}
