package orf

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

// Decode runs the full driver and never returns an error for
// in-decode failures: a bitstream overrun or a metadata-parse problem
// is caught and recorded as RawImage.Err, with whatever was decoded so
// far still returned. Pre-decode validation failures (no strip table,
// unsupported compression, a malformed strip table, a truncated
// source, or no matching uncompressed layout) are fatal; on one of
// those Decode returns a nil grid. This
// mirrors gen2brain/jpegn's own two-tier Decode (loose, degrades to
// best-effort) vs. the stricter decodeScan/decode innards it wraps.
func Decode(dir Directory, src Source, hints Hints) *RawImage {
	img, err := decode(dir, src, hints)
	if err != nil {
		return nil
	}
	return img
}

// DecodeStrict runs the same driver but propagates every failure,
// including the ones Decode would normally swallow into RawImage.Err.
// The returned error stays the original kindError(s) -- via
// go-multierror's chained Unwrap -- rather than a re-derived kind, so
// errors.Is(err, MetadataError) or errors.Is(err, BitStreamOverrun)
// resolves correctly regardless of which one (or both) fired. Callers
// that want fail-fast semantics, and this package's own test suite,
// use this entry point instead.
func DecodeStrict(dir Directory, src Source, hints Hints) (*RawImage, error) {
	img, err := decode(dir, src, hints)
	if err != nil {
		return nil, err
	}
	if img.err != nil {
		return img, img.err
	}
	return img, nil
}

func decode(dir Directory, src Source, hints Hints) (*RawImage, error) {
	candidates := dir.IFDsWithTag(tagStripOffsets)
	if len(candidates) != 1 {
		return nil, NoImage.WithMessage("expected exactly one IFD with StripOffsets")
	}
	raw := candidates[0]

	compression, ok := raw.Int(tagCompression, 0)
	if !ok {
		compression = 1 // TIFF default when the tag is absent.
	}
	if compression != 1 {
		return nil, UnsupportedCompression
	}

	offsets, counts, err := readStripTable(raw)
	if err != nil {
		return nil, err
	}

	offset := offsets[0]
	var size int64
	for _, c := range counts {
		size += c
	}

	if !src.Valid(offset, size) {
		return nil, Truncated
	}

	width, ok := raw.Int(tagImageWidth, 0)
	if !ok {
		return nil, NoImage.WithMessage("missing ImageWidth")
	}
	height, ok := raw.Int(tagImageLength, 0)
	if !ok {
		return nil, NoImage.WithMessage("missing ImageLength")
	}

	img := NewRawImage(int(width), int(height))

	wb, black, metaErr := readMetadata(raw)
	img.WhiteBalance = wb
	img.BlackLevel = black

	var merr *multierror.Error
	if metaErr != nil {
		merr = multierror.Append(merr, MetadataError.Wrap(metaErr))
	}

	var decodeErr error
	if len(offsets) == 1 && !hints.has(HintForceUncompressed) {
		decodeErr = decodeCompressed(img, src, offset, int(size), img.Width, img.Height)
	} else {
		decodeErr = dispatchUncompressed(img, src, offset, int(size), img.Width, img.Height, hints)
		if errors.Is(decodeErr, UnsupportedLayout) {
			return nil, decodeErr
		}
	}
	if decodeErr != nil {
		merr = multierror.Append(merr, decodeErr)
	}

	if merr != nil {
		img.err = merr
		img.Err = merr.Error()
	}

	return img, nil
}

// readStripTable reads StripOffsets/StripByteCounts and validates
// their counts agree -- a camera that writes an inconsistent strip
// table is treated as malformed rather than guessed at.
func readStripTable(dir Directory) (offsets, counts []int64, err error) {
	var off []int64
	for i := 0; ; i++ {
		v, ok := dir.Int(tagStripOffsets, i)
		if !ok {
			break
		}
		off = append(off, v)
	}
	if len(off) == 0 {
		return nil, nil, NoImage.WithMessage("missing StripOffsets")
	}

	var cnt []int64
	for i := 0; ; i++ {
		v, ok := dir.Int(tagStripByteCounts, i)
		if !ok {
			break
		}
		cnt = append(cnt, v)
	}

	if len(off) != len(cnt) {
		return nil, nil, MalformedStrips
	}

	return off, cnt, nil
}
