package orf

import (
	"errors"
	"testing"
)

// buildStripDirectory wires a fakeDirectory up as its own sole
// StripOffsets candidate, the shape decode()'s IFDsWithTag(tagStripOffsets)
// lookup expects.
func buildStripDirectory() *fakeDirectory {
	dir := newFakeDirectory()
	dir.withTag[tagStripOffsets] = []Directory{dir}
	dir.ints[tagImageWidth] = []int64{4}
	dir.ints[tagImageLength] = []int64{4}
	return dir
}

func TestDecodeNoImageWhenNoStripOffsetsCandidate(t *testing.T) {
	dir := newFakeDirectory() // withTag stays empty -> zero candidates

	img, err := decode(dir, NewMemSource(nil, true), Hints{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if img != nil {
		t.Fatal("expected a nil image on a pre-decode failure")
	}
	if !errors.Is(err, NoImage) {
		t.Fatalf("got %v, want NoImage", err)
	}
}

func TestDecodeUnsupportedCompression(t *testing.T) {
	dir := buildStripDirectory()
	dir.ints[tagCompression] = []int64{7} // JPEG, not baseline
	dir.ints[tagStripOffsets] = []int64{0}
	dir.ints[tagStripByteCounts] = []int64{64}

	_, err := decode(dir, NewMemSource(make([]byte, 64), true), Hints{})
	if !errors.Is(err, UnsupportedCompression) {
		t.Fatalf("got %v, want UnsupportedCompression", err)
	}
}

func TestDecodeMalformedStripsOnCountMismatch(t *testing.T) {
	dir := buildStripDirectory()
	dir.ints[tagStripOffsets] = []int64{0, 32}
	dir.ints[tagStripByteCounts] = []int64{32} // one count short of two offsets

	_, err := decode(dir, NewMemSource(make([]byte, 64), true), Hints{})
	if !errors.Is(err, MalformedStrips) {
		t.Fatalf("got %v, want MalformedStrips", err)
	}
}

func TestDecodeTruncatedWhenStripExceedsSource(t *testing.T) {
	dir := buildStripDirectory()
	dir.ints[tagStripOffsets] = []int64{0}
	dir.ints[tagStripByteCounts] = []int64{1000}

	_, err := decode(dir, NewMemSource(make([]byte, 16), true), Hints{})
	if !errors.Is(err, Truncated) {
		t.Fatalf("got %v, want Truncated", err)
	}
}

func TestDecodeSwallowsInDecodeFailureIntoErr(t *testing.T) {
	dir := buildStripDirectory()
	dir.ints[tagStripOffsets] = []int64{0}
	dir.ints[tagStripByteCounts] = []int64{4} // far too short for a 4x4 compressed strip

	img := Decode(dir, NewMemSource(make([]byte, 64), true), Hints{})
	if img == nil {
		t.Fatal("Decode should still return a grid on a soft in-decode failure")
	}
	if img.Err == "" {
		t.Fatal("expected img.Err to record the bitstream overrun")
	}

	if _, err := DecodeStrict(dir, NewMemSource(make([]byte, 64), true), Hints{}); err == nil {
		t.Fatal("DecodeStrict should propagate the same failure as an error")
	}
}

// TestDecodeForceUncompressedHintRoutesAroundSingleStripCompressedPath
// builds a single-strip directory whose bytes decode cleanly as the
// native 12-bit-unpacked uncompressed layout but are nowhere near a
// valid compressed strip (no 7-byte preamble, no adaptive bitstream).
// Without HintForceUncompressed, decode()'s "len(offsets) == 1"
// branch would route this at decodeCompressed and it would either
// misdecode or report a bitstream overrun; with the hint set it must
// land on dispatchUncompressed instead and read back the exact
// samples the bytes encode.
func TestDecodeForceUncompressedHintRoutesAroundSingleStripCompressedPath(t *testing.T) {
	buf := []byte{0x0A, 0x00, 0x0B, 0x00} // native uint16 samples {10, 11}, masked to 12 bits

	dir := newFakeDirectory()
	dir.withTag[tagStripOffsets] = []Directory{dir}
	dir.ints[tagImageWidth] = []int64{2}
	dir.ints[tagImageLength] = []int64{1}
	dir.ints[tagStripOffsets] = []int64{0}
	dir.ints[tagStripByteCounts] = []int64{int64(len(buf))}

	img, err := decode(dir, NewMemSource(buf, true), Hints{HintForceUncompressed: ""})
	if err != nil {
		t.Fatalf("unexpected pre-decode error: %v", err)
	}
	if img.Err != "" {
		t.Fatalf("expected a clean uncompressed decode, got img.Err = %q", img.Err)
	}
	if got := img.Sample(0, 0); got != 10 {
		t.Fatalf("sample(0,0) = %d, want 10", got)
	}
	if got := img.Sample(1, 0); got != 11 {
		t.Fatalf("sample(1,0) = %d, want 11", got)
	}
}
