// Package tiff implements the minimal TIFF/IFD reader needed to drive
// an ORF decode: tag lookup across a root IFD and its maker-note
// sub-IFDs. It deliberately does not implement strip/tile pixel
// decompression or general TIFF photometric interpretation — pixel
// decoding for the ORF compressed/uncompressed layouts lives in the
// parent package, not here.
package tiff

import (
	"encoding/binary"
	"math"

	"github.com/olympus-raw/orf"
)

// Tag types, per the TIFF 6.0 spec (the same set x/image/tiff and
// gen2brain/jpegn's EXIF reader both recognize).
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeSByte     = 6
	TypeUndefined = 7
	TypeSShort    = 8
	TypeSLong     = 9
	TypeSRational = 10
	TypeFloat     = 11
	TypeDouble    = 12
)

// typeSize is the byte size of one component of the given type.
var typeSize = map[uint16]int{
	TypeByte: 1, TypeASCII: 1, TypeShort: 2, TypeLong: 4, TypeRational: 8,
	TypeSByte: 1, TypeUndefined: 1, TypeSShort: 2, TypeSLong: 4,
	TypeSRational: 8, TypeFloat: 4, TypeDouble: 8,
}

// Entry is a single IFD tag record, holding its raw value bytes
// resolved from either the inline 4-byte slot or the pointed-to
// offset, plus where those bytes live in the source.
type Entry struct {
	Tag    uint16
	Type   uint16
	Count  uint32
	Raw    []byte
	Offset int64 // absolute offset of Raw within the source
}

// IFD is an ordered list of entries plus any maker-note sub-IFDs
// reachable from it (keyed by the tag whose value pointed at them). It
// carries its own byte order so a *IFD is self-sufficient and can be
// handed to decode.go as an orf.Directory without also threading a
// *Tree through every call.
type IFD struct {
	Entries   []Entry
	SubIFDs   map[uint16]*IFD
	byteOrder binary.ByteOrder
}

func (d *IFD) entry(tag uint16) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Has reports whether tag is present in this IFD, or (if recursive)
// in any of its sub-IFDs.
func (d *IFD) Has(tag uint16, recursive bool) bool {
	if _, ok := d.entry(tag); ok {
		return true
	}
	if recursive {
		for _, sub := range d.SubIFDs {
			if sub.Has(tag, true) {
				return true
			}
		}
	}
	return false
}

// ifdsWithTag returns every IFD in the subtree rooted at d (d itself
// plus any already-parsed sub-IFDs) that directly carries tag -- the
// orf.Directory.IFDsWithTag contract, and the Go mirror of
// TiffIFD::getIFDsWithTag. It returns []*IFD for callers within this
// package; *IFD satisfies orf.Directory via the wrapping method
// below.
func (d *IFD) ifdsWithTag(tag uint16) []*IFD {
	var found []*IFD
	var walk func(n *IFD)
	walk = func(n *IFD) {
		if n == nil {
			return
		}
		if _, ok := n.entry(tag); ok {
			found = append(found, n)
		}
		for _, sub := range n.SubIFDs {
			walk(sub)
		}
	}
	walk(d)
	return found
}

// IFDsWithTag implements orf.Directory.
func (d *IFD) IFDsWithTag(tag uint16) []orf.Directory {
	found := d.ifdsWithTag(tag)
	out := make([]orf.Directory, len(found))
	for i, f := range found {
		out[i] = f
	}
	return out
}

// SubIFD implements orf.Directory, returning an already-resolved
// sub-directory by the tag that pointed to it (Tree.MakerNoteIFD/
// Tree.SubIFD populate this map; Parse resolves OlympusImageProcessing
// through MakerNoteIFD).
func (d *IFD) SubIFD(tag uint16) (orf.Directory, bool) {
	sub, ok := d.SubIFDs[tag]
	if !ok {
		return nil, false
	}
	return sub, true
}

var _ orf.Directory = (*IFD)(nil)

func (e Entry) uint32At(byteOrder binary.ByteOrder, i int) (uint32, bool) {
	sz := typeSize[e.Type]
	off := i * sz
	if off+sz > len(e.Raw) {
		return 0, false
	}
	switch e.Type {
	case TypeByte, TypeUndefined, TypeSByte:
		return uint32(e.Raw[off]), true
	case TypeShort, TypeSShort:
		return uint32(byteOrder.Uint16(e.Raw[off : off+2])), true
	case TypeLong, TypeSLong:
		return byteOrder.Uint32(e.Raw[off : off+4]), true
	}
	return 0, false
}

// Int reads the i-th component of tag as an integer (Byte/Short/Long).
func (d *IFD) Int(tag uint16, i int) (int64, bool) {
	e, ok := d.entry(tag)
	if !ok {
		return 0, false
	}
	v, ok := e.uint32At(d.byteOrder, i)
	return int64(v), ok
}

// Short reads the i-th component of tag as a 16-bit value.
func (d *IFD) Short(tag uint16, i int) (uint16, bool) {
	v, ok := d.Int(tag, i)
	return uint16(v), ok
}

// Str reads tag as an ASCII string, trimmed at the first NUL.
func (d *IFD) Str(tag uint16) (string, bool) {
	e, ok := d.entry(tag)
	if !ok || e.Type != TypeASCII {
		return "", false
	}
	end := len(e.Raw)
	for i, b := range e.Raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(e.Raw[:end]), true
}

// Float reads the i-th component of tag as a float64, supporting
// 32-bit IEEE floats (the Olympus 0x0100 white-balance tag) and
// unsigned rationals (numerator/denominator pairs).
func (d *IFD) Float(tag uint16, i int) (float64, bool) {
	e, ok := d.entry(tag)
	if !ok {
		return 0, false
	}
	switch e.Type {
	case TypeFloat:
		off := i * 4
		if off+4 > len(e.Raw) {
			return 0, false
		}
		bits := d.byteOrder.Uint32(e.Raw[off : off+4])
		return float64(math.Float32frombits(bits)), true
	case TypeRational, TypeSRational:
		off := i * 8
		if off+8 > len(e.Raw) {
			return 0, false
		}
		num := d.byteOrder.Uint32(e.Raw[off : off+4])
		den := d.byteOrder.Uint32(e.Raw[off+4 : off+8])
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	case TypeShort, TypeLong, TypeByte:
		v, ok := e.uint32At(d.byteOrder, i)
		return float64(v), ok
	}
	return 0, false
}

// ByteRange reports the absolute byte region backing tag's value.
func (d *IFD) ByteRange(tag uint16) (offset, length int64, ok bool) {
	e, found := d.entry(tag)
	if !found {
		return 0, 0, false
	}
	return e.Offset, int64(len(e.Raw)), true
}
