package orf

// TIFF/Olympus tag numbers the driver and metadata waterfall read off
// a Directory. Kept independent of package tiff's own tag constants:
// this package only depends on the Directory interface, never on
// package tiff's concrete types, so it cannot share tiff's tags.go
// without an import cycle (tiff already depends on orf for the
// Directory type).
const (
	tagImageWidth      = 0x0100
	tagImageLength     = 0x0101
	tagCompression     = 0x0103
	tagStripOffsets    = 0x0111
	tagStripByteCounts = 0x0117

	tagOlympusRedMultiplier   = 0x1017
	tagOlympusBlueMultiplier  = 0x1018
	tagOlympusImageProcessing = 0x2040
	tagOlympusWhiteBalance    = 0x0100
	tagOlympusBlackLevel      = 0x0600
)
