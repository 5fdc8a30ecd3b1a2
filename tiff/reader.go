package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned for structurally invalid TIFF data: a bad
// byte-order marker, a truncated IFD, or an out-of-range offset.
var ErrMalformed = errors.New("tiff: malformed directory")

const ifdEntrySize = 12

// Tree is a parsed TIFF/ORF directory: the file's first IFD (plus any
// sub-IFDs resolved from it), and the byte source they were read from.
// Root satisfies orf.Directory, so a Tree's root IFD can be handed
// straight to the decoder.
type Tree struct {
	Root      *IFD
	ByteOrder binary.ByteOrder
	r         io.ReaderAt
}

// Parse reads a TIFF header (the two-byte order marker, magic number,
// and first-IFD offset) from r and reads that first IFD as Root. The
// next-IFD link after it is not followed; the only sub-IFD resolved
// here is OlympusImageProcessing.
// Grounded on x/image/tiff's newDecoder header check and
// gen2brain/jpegn's parseExif byte-order detection.
func Parse(r io.ReaderAt) (*Tree, error) {
	var hdr [8]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("tiff: reading header: %w", err)
	}

	var byteOrder binary.ByteOrder
	switch {
	case hdr[0] == 'I' && hdr[1] == 'I':
		byteOrder = binary.LittleEndian
	case hdr[0] == 'M' && hdr[1] == 'M':
		byteOrder = binary.BigEndian
	default:
		return nil, ErrMalformed
	}

	if byteOrder.Uint16(hdr[2:4]) != 42 {
		return nil, ErrMalformed
	}

	t := &Tree{ByteOrder: byteOrder, r: r}
	root, err := t.readIFD(int64(byteOrder.Uint32(hdr[4:8])))
	if err != nil {
		return nil, err
	}
	t.Root = root

	// Olympus's image-processing maker-note sub-IFD is optional; a
	// missing or malformed one is not a parse failure, it just leaves
	// metadata.go's white-balance/black-level waterfall to fall back to
	// the legacy tags. Resolve it eagerly here so Directory.SubIFD can
	// stay a plain map lookup instead of needing a *Tree to lazy-parse.
	for _, d := range root.ifdsWithTag(TagOlympusImageProcessing) {
		_, _ = t.MakerNoteIFD(d, TagOlympusImageProcessing)
	}

	return t, nil
}

// readIFD reads one IFD (entry count, entries, resolved values) at
// the given absolute offset.
func (t *Tree) readIFD(offset int64) (*IFD, error) {
	var countBuf [2]byte
	if _, err := t.r.ReadAt(countBuf[:], offset); err != nil {
		return nil, fmt.Errorf("tiff: reading entry count: %w", err)
	}
	n := int(t.ByteOrder.Uint16(countBuf[:]))

	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entryOff := offset + 2 + int64(i*ifdEntrySize)
		var raw [ifdEntrySize]byte
		if _, err := t.r.ReadAt(raw[:], entryOff); err != nil {
			return nil, fmt.Errorf("tiff: reading entry %d: %w", i, err)
		}

		tag := t.ByteOrder.Uint16(raw[0:2])
		typ := t.ByteOrder.Uint16(raw[2:4])
		count := t.ByteOrder.Uint32(raw[4:8])

		size, known := typeSize[typ]
		if !known {
			continue // Unknown type: skip, matching x/image/tiff's tolerant walk.
		}
		dataLen := size * int(count)

		var valueOffset int64
		if dataLen > 4 {
			valueOffset = int64(t.ByteOrder.Uint32(raw[8:12]))
		} else {
			valueOffset = entryOff + 8
		}

		value := make([]byte, dataLen)
		if dataLen > 0 {
			if _, err := t.r.ReadAt(value, valueOffset); err != nil {
				return nil, fmt.Errorf("tiff: reading value for tag %#04x: %w", tag, err)
			}
		}

		entries = append(entries, Entry{
			Tag: tag, Type: typ, Count: count, Raw: value, Offset: valueOffset,
		})
	}

	return &IFD{Entries: entries, SubIFDs: map[uint16]*IFD{}, byteOrder: t.ByteOrder}, nil
}

// SubIFD parses and caches the sub-IFD reachable through tag's value
// (interpreted as an absolute offset), the way gen2brain/jpegn's
// parseExifSubIFD/parseGPSSubIFD follow the EXIF/GPS pointer tags.
func (t *Tree) SubIFD(parent *IFD, tag uint16) (*IFD, error) {
	if sub, ok := parent.SubIFDs[tag]; ok {
		return sub, nil
	}
	e, ok := parent.entry(tag)
	if !ok {
		return nil, fmt.Errorf("tiff: no tag %#04x", tag)
	}
	v, ok := e.uint32At(t.ByteOrder, 0)
	if !ok {
		return nil, ErrMalformed
	}
	sub, err := t.readIFD(int64(v))
	if err != nil {
		return nil, err
	}
	parent.SubIFDs[tag] = sub
	return sub, nil
}

// MakerNoteIFD parses a maker-note sub-IFD whose value is itself a
// nested IFD offset relative to the start of the source (as opposed
// to relative to the enclosing entry) -- Olympus's
// OlympusImageProcessing tag uses this shape, mirrored here on
// OrfDecoder.cpp's "TiffRootIFD image_processing(..., img_entry->getInt())"
// construction.
func (t *Tree) MakerNoteIFD(parent *IFD, tag uint16) (*IFD, error) {
	if sub, ok := parent.SubIFDs[tag]; ok {
		return sub, nil
	}
	off, ok := parent.Int(tag, 0)
	if !ok {
		return nil, fmt.Errorf("tiff: no tag %#04x", tag)
	}
	sub, err := t.readIFD(off)
	if err != nil {
		return nil, err
	}
	parent.SubIFDs[tag] = sub
	return sub, nil
}

// IFDsWithTag walks the root IFD (and any already-parsed sub-IFDs)
// and returns every IFD directly carrying tag -- the tiff-package-level
// counterpart of orf.Directory.IFDsWithTag, returning concrete *IFD
// values instead of the interface type.
func (t *Tree) IFDsWithTag(tag uint16) []*IFD {
	return t.Root.ifdsWithTag(tag)
}

// HasRecursive reports whether tag is present anywhere in the already
// parsed IFD tree rooted at Root.
func (t *Tree) HasRecursive(tag uint16) bool {
	return t.Root.Has(tag, true)
}
