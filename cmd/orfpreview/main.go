// Command orfpreview decodes an Olympus ORF file and writes a quick
// grayscale PNG preview for manual inspection. It does not demosaic or
// color-correct -- that pipeline stage is out of scope for the core
// decoder this repository wraps.
package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/image/draw"

	"github.com/olympus-raw/orf"
	"github.com/olympus-raw/orf/tiff"
)

func main() {
	app := &cli.App{
		Name:  "orfpreview",
		Usage: "decode an Olympus ORF file and write a PNG preview",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "scale",
				Value: 0.5,
				Usage: "nearest-neighbor scale factor applied to the raw Bayer grid",
			},
			&cli.BoolFlag{
				Name:  "force-uncompressed",
				Usage: "set the force_uncompressed decode hint",
			},
		},
		ArgsUsage: "INPUT.orf OUTPUT.png",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("orfpreview: %s", err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: orfpreview [--scale F] INPUT.orf OUTPUT.png", 1)
	}
	inPath, outPath := c.Args().Get(0), c.Args().Get(1)

	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	tree, err := tiff.Parse(sliceReaderAt(data))
	if err != nil {
		return fmt.Errorf("parsing directory: %w", err)
	}

	hints := orf.Hints{}
	if c.Bool("force-uncompressed") {
		hints[orf.HintForceUncompressed] = ""
	}

	// Nearly every real deployment target is little-endian; this is
	// only a viewer, so that assumption is acceptable where decode.go's
	// core dispatch would need to do better.
	native := tree.ByteOrder == binary.LittleEndian
	src := orf.NewMemSource(data, native)
	img, err := orf.DecodeStrict(tree.Root, src, hints)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}
	if img.Err != "" {
		fmt.Fprintf(os.Stderr, "orfpreview: partial decode: %s\n", img.Err)
	}

	out := rescale(img, c.Float64("scale"))

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	return png.Encode(f, out)
}

// rescale nearest-neighbor-scales the raw Bayer grid without
// demosaicing -- a viewable preview, not a color-accurate render.
func rescale(img *orf.RawImage, scale float64) image.Image {
	if scale <= 0 || scale == 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) * scale)
	h := int(float64(b.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewGray16(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

type sliceReaderAt []byte

func (s sliceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s)) {
		return 0, fmt.Errorf("orfpreview: offset %d out of range", off)
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, fmt.Errorf("orfpreview: short read at offset %d", off)
	}
	return n, nil
}
