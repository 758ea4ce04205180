// Package main is a small demo CLI: decode a PNG or JPEG with the
// standard library and re-encode it as a TIFF, for exercising the encoder
// end to end.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	tiff "github.com/ramonjsantiago/imagen"
)

var (
	compressionFlag = flag.String("compression", "none", "none|packbits|deflate|jpeg")
	tiledFlag       = flag.Bool("tiled", false, "write tiled instead of stripped")
	bigEndianFlag   = flag.Bool("big-endian", false, "write a big-endian (MM) file")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: tiffenc [options] <input.png|input.jpg> <output.tif>\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiffenc: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiffenc: decode: %v\n", err)
		os.Exit(1)
	}

	opt := &tiff.Options{WriteTiled: *tiledFlag}
	if *bigEndianFlag {
		opt.Endianness = tiff.BigEndian
	}
	switch *compressionFlag {
	case "none":
		opt.Compression = tiff.CompressionNone
	case "packbits":
		opt.Compression = tiff.CompressionPackBits
	case "deflate":
		opt.Compression = tiff.CompressionDeflate
		opt.DeflateLevel = 6
	case "jpeg":
		opt.Compression = tiff.CompressionJPEG
		opt.JPEGParams.Quality = 85
	default:
		fmt.Fprintf(os.Stderr, "tiffenc: unknown compression %q\n", *compressionFlag)
		os.Exit(2)
	}

	out, err := os.Create(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tiffenc: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	src := tiff.StdSource{Img: img}
	if err := tiff.Encode(out, src, opt); err != nil {
		fmt.Fprintf(os.Stderr, "tiffenc: encode: %v\n", err)
		os.Exit(1)
	}
}
