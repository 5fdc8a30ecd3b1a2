package tiff

// Baseline TIFF tags the driver reads directly.
const (
	TagImageWidth      = 0x0100
	TagImageLength     = 0x0101
	TagCompression     = 0x0103
	TagMake            = 0x010F
	TagModel           = 0x0110
	TagStripOffsets    = 0x0111
	TagStripByteCounts = 0x0117
	TagISOSpeedRatings = 0x8827
)

// Olympus maker-note tags (OrfDecoder.cpp's OLYMPUSREDMULTIPLIER /
// OLYMPUSBLUEMULTIPLIER / OLYMPUSIMAGEPROCESSING), and the two tags
// read inside the OlympusImageProcessing sub-IFD.
const (
	TagOlympusRedMultiplier    = 0x1017
	TagOlympusBlueMultiplier   = 0x1018
	TagOlympusImageProcessing  = 0x2040
	TagOlympusWhiteBalance     = 0x0100
	TagOlympusBlackLevel       = 0x0600
)
