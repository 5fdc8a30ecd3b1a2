package tiff

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildMiniTIFF hand-assembles a little-endian TIFF with one IFD
// holding a SHORT tag (0x0100, value 7) and an ASCII tag (0x010F,
// "ACME"), in the same spirit as gen2brain-jpegn/decoder_test.go's
// hand-built baselineGray2x2 JPEG literal.
func buildMiniTIFF(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	buf.WriteString("II")
	binary.Write(buf, binary.LittleEndian, uint16(42))
	binary.Write(buf, binary.LittleEndian, uint32(8)) // first IFD at offset 8

	// IFD at offset 8: 2 entries.
	binary.Write(buf, binary.LittleEndian, uint16(2))

	// Entry 1: tag 0x0100, SHORT, count 1, value 7 (fits inline).
	binary.Write(buf, binary.LittleEndian, uint16(0x0100))
	binary.Write(buf, binary.LittleEndian, uint16(TypeShort))
	binary.Write(buf, binary.LittleEndian, uint32(1))
	binary.Write(buf, binary.LittleEndian, uint16(7))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // padding to fill 4-byte value slot

	// Entry 2: tag 0x010F, ASCII "ACME\0" (5 bytes, doesn't fit inline -> offset).
	valueOffset := uint32(8 + 2 + 2*ifdEntrySize)
	binary.Write(buf, binary.LittleEndian, uint16(0x010F))
	binary.Write(buf, binary.LittleEndian, uint16(TypeASCII))
	binary.Write(buf, binary.LittleEndian, uint32(5))
	binary.Write(buf, binary.LittleEndian, valueOffset)

	buf.WriteString("ACME\x00")

	return buf.Bytes()
}

func TestParseReadsEntries(t *testing.T) {
	data := buildMiniTIFF(t)
	tree, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)

	v, ok := tree.Root.Short(0x0100, 0)
	require.True(t, ok)
	require.Equal(t, uint16(7), v)

	s, ok := tree.Root.Str(0x010F)
	require.True(t, ok)
	require.Equal(t, "ACME", s)
}

func TestParseRejectsBadByteOrder(t *testing.T) {
	data := buildMiniTIFF(t)
	data[0] = 'X'
	_, err := Parse(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestIFDsWithTag(t *testing.T) {
	data := buildMiniTIFF(t)
	tree, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)

	found := tree.IFDsWithTag(0x0100)
	require.Len(t, found, 1)
	require.Same(t, tree.Root, found[0])

	require.Empty(t, tree.IFDsWithTag(0x9999))
}
