package orf

import "encoding/binary"

// dispatchUncompressed picks among the uncompressed raw-sample
// layouts Olympus bodies have shipped, mirroring
// OrfDecoder::decodeUncompressed's if/else chain one-to-one. Only one
// branch runs per image; there is no shared state between them.
func dispatchUncompressed(dst *RawImage, src Source, offset int64, size int, w, h int, hints Hints) error {
	buf := make([]byte, size)
	n, _ := src.ReadAt(buf, offset)
	buf = buf[:n]

	switch {
	case hints.has(HintPackedWithControl):
		return decode12BitPackedWithControl(dst, buf, w, h)
	case hints.has(HintJPEG32BitOrder):
		return decode12BitPackedJPEG32(dst, buf, w, h)
	case size >= w*h*2:
		if src.NativeByteOrder() {
			return decode12BitUnpacked(dst, buf, w, h)
		}
		return decode12BitUnpackedBEleftAligned(dst, buf, w, h)
	case size >= w*h*3/2:
		return decode12BitInterlacedBE(dst, buf, w, h)
	default:
		return UnsupportedLayout
	}
}

// decode12BitPackedWithControl unpacks groups of 10 samples from 15
// bytes (10*12 bits) followed by one control byte whose content is
// unused here, grounded on the same "count N samples, then one
// control/flag byte" block framing
// other_examples/bep-imagemeta__imagedecoder_tif.go and
// mdouchement-tiff__reader.go use for strip padding bookkeeping.
func decode12BitPackedWithControl(dst *RawImage, buf []byte, w, h int) error {
	const groupSamples = 10
	const groupBytes = 15 // 10 * 12 bits

	pos := 0
	pending := 0 // samples already unpacked from the current group, not yet consumed by the caller
	var group [groupSamples]uint16

	nextSample := func() (uint16, error) {
		if pending == 0 {
			if pos+groupBytes > len(buf) {
				return 0, Truncated
			}
			unpack12BitGroupMSB(buf[pos:pos+groupBytes], group[:])
			pos += groupBytes
			pos++ // control byte
			pending = groupSamples
		}
		v := group[groupSamples-pending]
		pending--
		return v, nil
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, err := nextSample()
			if err != nil {
				return err
			}
			dst.SetSample(x, y, v)
		}
	}
	return nil
}

// unpack12BitGroupMSB splits 15 MSB-first-packed bytes into 10 12-bit
// samples.
func unpack12BitGroupMSB(b []byte, out []uint16) {
	bitpos := 0
	for i := range out {
		out[i] = uint16(readBitsMSB(b, bitpos, 12))
		bitpos += 12
	}
}

// readBitsMSB reads nbits starting at bit offset bitpos from b, most
// significant bit first -- a plain, allocation-free bit extraction
// used where the packed layouts don't line up on byte boundaries.
func readBitsMSB(b []byte, bitpos, nbits int) uint32 {
	var v uint32
	for i := 0; i < nbits; i++ {
		byteIdx := (bitpos + i) / 8
		bitIdx := 7 - (bitpos+i)%8
		bit := (b[byteIdx] >> uint(bitIdx)) & 1
		v = v<<1 | uint32(bit)
	}
	return v
}

// decode12BitPackedJPEG32 unpacks 12-bit samples at a fixed row stride
// of W*12/8 bytes using the "jpeg32" nibble order: each sample pair's
// middle byte is split high-nibble-first instead of low-nibble-first,
// the arrangement RawSpeed's BitOrder_Jpeg32 documents for this
// layout.
func decode12BitPackedJPEG32(dst *RawImage, buf []byte, w, h int) error {
	stride := w * 12 / 8
	for y := 0; y < h; y++ {
		row := y * stride
		if row+stride > len(buf) {
			return Truncated
		}
		line := buf[row : row+stride]
		for pair := 0; pair*2 < w; pair++ {
			bo := pair * 3
			if bo+3 > len(line) {
				return Truncated
			}
			b0, b1, b2 := line[bo], line[bo+1], line[bo+2]
			s0 := uint16(b0)<<4 | uint16(b1>>4)
			s1 := uint16(b1&0x0F)<<8 | uint16(b2)
			x := pair * 2
			dst.SetSample(x, y, s0&0xFFF)
			if x+1 < w {
				dst.SetSample(x+1, y, s1&0xFFF)
			}
		}
	}
	return nil
}

// decode12BitUnpacked reads one 16-bit sample per pixel in the host's
// native byte order (size >= W*H*2, source byte order matches host).
func decode12BitUnpacked(dst *RawImage, buf []byte, w, h int) error {
	need := w * h * 2
	if len(buf) < need {
		return Truncated
	}
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := binary.NativeEndian.Uint16(buf[i:])
			dst.SetSample(x, y, v&0xFFF)
			i += 2
		}
	}
	return nil
}

// decode12BitUnpackedBEleftAligned reads one 16-bit big-endian sample
// per pixel, left-aligned in the word (value in the high 12 bits).
func decode12BitUnpackedBEleftAligned(dst *RawImage, buf []byte, w, h int) error {
	need := w * h * 2
	if len(buf) < need {
		return Truncated
	}
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint16(buf[i])<<8 | uint16(buf[i+1])
			dst.SetSample(x, y, v>>4)
			i += 2
		}
	}
	return nil
}

// decode12BitInterlacedBE unpacks two big-endian 12-bit samples from
// every 3 bytes (size >= W*H*3/2): b0 carries sample0's high 8 bits,
// b1 carries sample0's low 4 bits and sample1's high 4 bits, b2 carries
// sample1's low 8 bits.
func decode12BitInterlacedBE(dst *RawImage, buf []byte, w, h int) error {
	total := w * h
	need := (total*3 + 1) / 2
	if len(buf) < need {
		return Truncated
	}

	samples := make([]uint16, 0, total)
	for i := 0; i+3 <= len(buf) && len(samples) < total; i += 3 {
		b0, b1, b2 := buf[i], buf[i+1], buf[i+2]
		s0 := uint16(b0)<<4 | uint16(b1>>4)
		s1 := uint16(b1&0x0F)<<8 | uint16(b2)
		samples = append(samples, s0&0xFFF)
		if len(samples) < total {
			samples = append(samples, s1&0xFFF)
		}
	}
	if len(samples) < total {
		return Truncated
	}

	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetSample(x, y, samples[i])
			i++
		}
	}
	return nil
}
