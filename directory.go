package orf

// Directory is the read-only contract the decoder needs from a parsed
// container directory tree: locate sub-directories carrying a tag,
// read tag values by type, test presence, and report a tag's backing
// byte region. The TIFF/IFD parser behind it is treated as an external
// collaborator -- package tiff supplies the concrete implementation
// this decoder is built and tested against.
type Directory interface {
	// IFDsWithTag returns every directory in this tree (including
	// itself) that directly carries tag.
	IFDsWithTag(tag uint16) []Directory
	// Int reads the i-th component of tag as an integer.
	Int(tag uint16, i int) (int64, bool)
	// Short reads the i-th component of tag as a 16-bit value.
	Short(tag uint16, i int) (uint16, bool)
	// Str reads tag as a string.
	Str(tag uint16) (string, bool)
	// Float reads the i-th component of tag as a float64.
	Float(tag uint16, i int) (float64, bool)
	// Has reports whether tag is present, optionally searching
	// sub-directories too.
	Has(tag uint16, recursive bool) bool
	// ByteRange reports the absolute byte region backing tag's value.
	ByteRange(tag uint16) (offset, length int64, ok bool)
	// SubIFD returns the named sub-directory if it has already been
	// resolved (e.g. OlympusImageProcessing), for metadata lookups
	// that need a specific maker-note branch rather than a tag search.
	SubIFD(tag uint16) (Directory, bool)
}
