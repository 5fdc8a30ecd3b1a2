package orf

import (
	"testing"

	"github.com/olympus-raw/orf/internal/testencoder"
	"github.com/stretchr/testify/require"
)

// buildTargetGrid fills a RawImage with a small, decode-friendly
// pattern: gentle gradients keep every lane's residual well inside the
// adaptive predictor's normal (non-overflow) bit-length path, the same
// way gen2brain-jpegn/decoder_test.go's baselineGray2x2 picks values
// that avoid its decoder's edge cases.
func buildTargetGrid(w, h int) *RawImage {
	img := NewRawImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 128 + (x*3+y*5)%64
			img.SetSample(x, y, uint16(v))
		}
	}
	return img
}

func TestDecodeCompressedRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"4x4", 4, 4},
		{"8x6", 8, 6},
		{"odd-width", 5, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := buildTargetGrid(tc.w, tc.h)
			strip := testencoder.Encode(target.Pix, tc.w, tc.h, target.Pitch)

			src := NewMemSource(strip, true)
			got := NewRawImage(tc.w, tc.h)
			err := decodeCompressed(got, src, 0, len(strip), tc.w, tc.h)
			require.NoError(t, err)
			require.Equal(t, target.Pix, got.Pix)
		})
	}
}

func TestDecodeCompressedTruncatedStripOverruns(t *testing.T) {
	target := buildTargetGrid(8, 8)
	strip := testencoder.Encode(target.Pix, 8, 8, target.Pitch)

	truncated := strip[:len(strip)/2]
	src := NewMemSource(truncated, true)
	got := NewRawImage(8, 8)

	err := decodeCompressed(got, src, 0, len(truncated), 8, 8)
	require.ErrorIs(t, err, BitStreamOverrun)
}

func TestDecodeCompressedAllZeroStripDecodesToBlack(t *testing.T) {
	w, h := 4, 4
	// Every zero sample takes the bittable's overflow path (15 + (16 -
	// nbits) + nbits = 31 consumed bits each); size the buffer generously
	// so the pump never has to synthesize padding bits.
	strip := make([]byte, compressedHeaderSize+128)
	src := NewMemSource(strip, true)
	got := NewRawImage(w, h)

	err := decodeCompressed(got, src, 0, len(strip), w, h)
	require.NoError(t, err)
	for _, v := range got.Pix {
		require.Equal(t, uint16(0), v)
	}
}
