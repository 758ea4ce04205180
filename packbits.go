package tiff

// packBitsEncodeRow compresses a single row with TIFF 6.0 PackBits RLE
// (spec.md §4.6), grounded on the teacher's compress.go unpackBits run in
// reverse: a run of 2..128 identical bytes becomes a header byte
// -(run-1) followed by the byte; anything else accumulates into a literal
// segment of up to 128 bytes, emitted as header (len-1) followed by the
// bytes themselves. The trailing bytes of a row fall naturally into
// whichever segment the scan is in when it reaches end-of-row — no special
// case is needed to "absorb" or "emit" the last byte; the run-length
// lookahead already decides that.
func packBitsEncodeRow(row []byte) []byte {
	n := len(row)
	out := make([]byte, 0, n+n/128+2)
	i := 0
	for i < n {
		runLen := runLengthAt(row, i)
		if runLen >= 2 {
			out = append(out, byte(int8(-(runLen - 1))))
			out = append(out, row[i])
			i += runLen
			continue
		}

		litStart := i
		i++
		for i < n && i-litStart < 128 {
			if runLengthAt(row, i) >= 3 {
				break
			}
			i++
		}
		litLen := i - litStart
		out = append(out, byte(litLen-1))
		out = append(out, row[litStart:i]...)
	}
	return out
}

// runLengthAt returns the length (capped at 128) of the run of identical
// bytes starting at row[i].
func runLengthAt(row []byte, i int) int {
	n := len(row)
	j := i + 1
	for j < n && row[j] == row[i] && j-i < 128 {
		j++
	}
	return j - i
}

// packBitsEncode compresses a tile row-by-row, concatenating the result —
// the unit spec.md §4.5 dispatches PackBits over.
func packBitsEncode(tile []byte, rows, bytesPerRow int) []byte {
	out := make([]byte, 0, len(tile)+len(tile)/128+rows*2)
	for r := 0; r < rows; r++ {
		row := tile[r*bytesPerRow : (r+1)*bytesPerRow]
		out = append(out, packBitsEncodeRow(row)...)
	}
	return out
}
