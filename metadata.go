package orf

import (
	"github.com/hashicorp/go-multierror"
	"github.com/olympus-raw/orf/cfa"
)

// readMetadata implements the white-balance/black-level waterfall from
// OrfDecoder::decodeMetaDataInternal: try the legacy
// OlympusRedMultiplier/OlympusBlueMultiplier shorts first, and only
// fall back to the OlympusImageProcessing sub-IFD's 0x0100/0x0600
// entries when those are absent. G is fixed at 256 either way.
//
// Missing optional tags are not failures -- this mirrors the
// original's hasEntry guards, which simply skip absent entries.
// Genuinely malformed entries (present but short/inconsistent) are
// collected into errs rather than discarded, via go-multierror, since
// the white-balance and black-level reads are independent steps and a
// caller should see all of them, not just the first.
func readMetadata(dir Directory) (wb [3]float32, black [4]uint16, errs error) {
	wb[1] = 256

	if r, rok := dir.Short(tagOlympusRedMultiplier, 0); rok {
		if b, bok := dir.Short(tagOlympusBlueMultiplier, 0); bok {
			wb[0] = float32(r)
			wb[2] = float32(b)
			return wb, black, nil
		}
	}

	sub, ok := dir.SubIFD(tagOlympusImageProcessing)
	if !ok {
		return wb, black, nil
	}

	var merr *multierror.Error

	if f0, ok0 := sub.Float(tagOlympusWhiteBalance, 0); ok0 {
		if f1, ok1 := sub.Float(tagOlympusWhiteBalance, 1); ok1 {
			wb[0] = float32(f0)
			wb[2] = float32(f1)
		} else {
			merr = multierror.Append(merr, MetadataError.WithMessage("incomplete white balance entry"))
		}
	}

	pattern := cfa.RGGB
	if v0, ok0 := sub.Short(tagOlympusBlackLevel, pattern.BlackLevelIndex(0, 0)); ok0 {
		black[0] = v0
		complete := true
		for i := 1; i < 4; i++ {
			x, y := i&1, i>>1
			v, ok := sub.Short(tagOlympusBlackLevel, pattern.BlackLevelIndex(x, y))
			if !ok {
				complete = false
				break
			}
			black[i] = v
		}
		if !complete {
			merr = multierror.Append(merr, MetadataError.WithMessage("incomplete black level entry"))
		}
	}

	if merr != nil {
		return wb, black, merr
	}
	return wb, black, nil
}
