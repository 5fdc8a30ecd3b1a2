package orf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDispatchUncompressed12BitUnpackedNative covers a 2x1 image,
// bytes [0x0A,0x00,0x0B,0x00] native-order, size = 4 = W*H*2 ->
// samples {10, 11}.
func TestDispatchUncompressed12BitUnpackedNative(t *testing.T) {
	buf := []byte{0x0A, 0x00, 0x0B, 0x00}
	src := NewMemSource(buf, true)
	dst := NewRawImage(2, 1)

	err := dispatchUncompressed(dst, src, 0, len(buf), 2, 1, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(10), dst.Sample(0, 0))
	require.Equal(t, uint16(11), dst.Sample(1, 0))
}

func TestDispatchUncompressedBEleftAligned(t *testing.T) {
	// 10 and 11, big-endian, left-aligned in the high 12 bits of each word.
	buf := []byte{0x00, 0xA0, 0x00, 0xB0}
	src := NewMemSource(buf, false)
	dst := NewRawImage(2, 1)

	err := dispatchUncompressed(dst, src, 0, len(buf), 2, 1, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(10), dst.Sample(0, 0))
	require.Equal(t, uint16(11), dst.Sample(1, 0))
}

func TestDispatchUncompressedInterlacedBE(t *testing.T) {
	// Two 12-bit samples (10, 11) packed into 3 BE bytes: 0x00A,0x00B ->
	// b0=0x00, b1=0xA0|0x00=0xA0, b2=0x0B.
	buf := []byte{0x00, 0xA0, 0x0B}
	src := NewMemSource(buf, true)
	dst := NewRawImage(2, 1)

	err := dispatchUncompressed(dst, src, 0, len(buf), 2, 1, nil)
	require.NoError(t, err)
	require.Equal(t, uint16(10), dst.Sample(0, 0))
	require.Equal(t, uint16(11), dst.Sample(1, 0))
}

func TestDispatchUncompressedUnsupportedLayout(t *testing.T) {
	buf := []byte{0x00}
	src := NewMemSource(buf, true)
	dst := NewRawImage(4, 4)

	err := dispatchUncompressed(dst, src, 0, len(buf), 4, 4, nil)
	require.ErrorIs(t, err, UnsupportedLayout)
}

func TestDecode12BitPackedWithControlGroupFraming(t *testing.T) {
	// One group: 10 samples, all 0xFFF, MSB-first packed into 15 bytes,
	// followed by one (ignored) control byte.
	group := make([]byte, 15)
	for i := range group {
		group[i] = 0xFF
	}
	buf := append(group, 0x00) // control byte
	dst := NewRawImage(10, 1)

	err := decode12BitPackedWithControl(dst, buf, 10, 1)
	require.NoError(t, err)
	for x := 0; x < 10; x++ {
		require.Equal(t, uint16(0xFFF), dst.Sample(x, 0))
	}
}
