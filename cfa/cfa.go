// Package cfa describes the 2x2 color filter array tiling used by
// Olympus ORF sensors and the black-level index mapping that goes with
// it. It is grounded directly on RawSpeed's CFA/getColorAt handling in
// OrfDecoder::decodeMetaDataInternal.
package cfa

// Color identifies a CFA filter color.
type Color uint8

const (
	Red Color = iota
	Green
	Blue
)

// Pattern is a 2x2 Bayer tile. ORF's sensor layout is fixed to
// {R, G; G, B}.
type Pattern [2][2]Color

// RGGB is the Olympus ORF color filter array: red top-left, blue
// bottom-right, green on the anti-diagonal.
var RGGB = Pattern{
	{Red, Green},
	{Green, Blue},
}

// At returns the filter color at column x, row y (both taken mod 2).
func (p Pattern) At(x, y int) Color {
	return p[y&1][x&1]
}

// BlackLevelIndex maps a CFA cell (x, y) to the index into the
// 4-entry Olympus 0x0600 black-level tag: red -> 0, the green at
// (x&1, y&1) == (1,0) -> 1, the other green -> 2, blue -> 3. This
// mirrors the RGGB-order assumption RawSpeed documents inline at the
// black-level read.
func (p Pattern) BlackLevelIndex(x, y int) int {
	switch p.At(x, y) {
	case Red:
		return 0
	case Blue:
		return 3
	default: // Green
		if y&1 == 0 {
			return 1
		}
		return 2
	}
}
