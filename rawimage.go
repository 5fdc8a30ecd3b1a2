package orf

import (
	"image"
	"image/color"

	"github.com/olympus-raw/orf/cfa"
)

// RawImage is the decoder's output: a dense row-major grid of 16-bit
// Bayer samples plus the white-balance and black-level metadata a
// camera raw file carries alongside the sensor data. Pitch is a
// sample count (Pix[y*Pitch+x]), not a byte delta -- idiomatic for a
// []uint16-backed Go image buffer, the same way image.Gray.Stride is
// a sample/byte count rather than a raw pointer delta. Pitch >= Width
// always holds, so the predictor's vertical neighbor lookup
// (dest[y-1][x]) always lines up with where the row above wrote it.
type RawImage struct {
	Width, Height int
	Pitch         int
	Pix           []uint16
	CFA           cfa.Pattern

	WhiteBalance [3]float32 // R, G, B multipliers; G is conventionally 256.
	BlackLevel   [4]uint16  // indexed via CFA.BlackLevelIndex.

	// Err carries a non-fatal in-decode failure message (a bitstream
	// overrun or a metadata-parse problem). Empty on full success.
	Err string

	// err is the structured form of Err, still distinguishable by
	// Kind via errors.Is -- DecodeStrict returns this directly rather
	// than re-deriving a kind from the rendered message.
	err error
}

// NewRawImage allocates a grid of the given dimensions with the
// Olympus RGGB CFA and a tight pitch.
func NewRawImage(width, height int) *RawImage {
	return &RawImage{
		Width:  width,
		Height: height,
		Pitch:  width,
		Pix:    make([]uint16, width*height),
		CFA:    cfa.RGGB,
	}
}

// Sample returns the raw sensor code at (x, y).
func (r *RawImage) Sample(x, y int) uint16 {
	return r.Pix[y*r.Pitch+x]
}

// SetSample writes the sample at (x, y). Callers holding a wider
// predictor value convert it to uint16 themselves; that conversion
// wraps mod 2^16.
func (r *RawImage) SetSample(x, y int, v uint16) {
	r.Pix[y*r.Pitch+x] = v
}

// Row returns the sample slice for row y, respecting Pitch.
func (r *RawImage) Row(y int) []uint16 {
	start := y * r.Pitch
	return r.Pix[start : start+r.Width]
}

// The remaining methods make RawImage satisfy image.Image, wiring in
// golang.org/x/image-style color model composition (grounded on
// fumiama-imgsz's Size/Decode shape, which always hands back a stdlib
// image.Image) so a RawImage composes with the rest of the Go image
// ecosystem without a conversion pass. This is metadata-preserving:
// it does not demosaic or gamma-correct -- those stages belong to a
// higher-level raw-processing pipeline, not the sensor-data decoder.
var _ image.Image = (*RawImage)(nil)

// ColorModel implements image.Image.
func (r *RawImage) ColorModel() color.Model { return color.Gray16Model }

// Bounds implements image.Image.
func (r *RawImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// At implements image.Image, returning the raw sensor code as a
// Gray16 value with no black-level subtraction or white-balance
// scaling applied -- those belong to a higher-level raw-processing
// pipeline, not this decoder.
func (r *RawImage) At(x, y int) color.Color {
	return color.Gray16{Y: r.Sample(x, y)}
}
