// Package testencoder builds synthetic ORF compressed strips for the
// decoder's property test. It runs the predictor and adaptive-bit-length
// state machine from OrfDecoder::decodeCompressed forward instead of
// backward: given a target sample grid, it works out which (sign, low,
// high, tail) fields would make the decoder land on exactly those
// samples, and writes them out MSB-first the same way the decoder reads
// them. There is no independent encoder in the original -- this package
// runs decodeCompressed's own math in reverse, the way
// gen2brain-jpegn/decoder_test.go hand-assembles wire bytes a decoder is
// then pointed at.
package testencoder

// grid is a minimal row-major sample buffer mirroring the fields of
// orf.RawImage that Encode needs. It exists so this package doesn't
// import github.com/olympus-raw/orf -- compressed_test.go (package orf)
// imports this package, and importing orf from here would create an
// import cycle in that test.
type grid struct {
	width, height, pitch int
	pix                  []uint16
}

func (g *grid) sample(x, y int) uint16 {
	return g.pix[y*g.pitch+x]
}

// bitWriter appends bits MSB-first into a byte buffer, the write-side
// mirror of internal/bitpump.Pump.
type bitWriter struct {
	out  []byte
	cur  uint32
	bits int
}

func (w *bitWriter) writeBits(v uint32, n int) {
	if n == 0 {
		return
	}
	w.cur = (w.cur << uint(n)) | (v & (1<<uint(n) - 1))
	w.bits += n
	for w.bits >= 8 {
		w.bits -= 8
		w.out = append(w.out, byte(w.cur>>uint(w.bits)))
	}
}

func (w *bitWriter) bytes() []byte {
	if w.bits > 0 {
		w.out = append(w.out, byte(w.cur<<uint(8-w.bits)))
		w.bits = 0
	}
	return w.out
}

type laneState struct {
	acarry0, acarry1, acarry2 int32
	left, nw                  int32
}

func (l *laneState) resetRow() {
	l.acarry0, l.acarry1, l.acarry2 = 0, 0, 0
}

// Encode produces a compressed ORF strip (7-byte preamble plus bitstream)
// that orf's decodeCompressed will turn back into exactly the samples in
// pix. pix must already hold the desired output grid (row-major, stride
// pitch) -- Encode only derives the residuals a matching decode pass
// would need to reproduce it.
func Encode(pix []uint16, width, height, pitch int) []byte {
	img := &grid{width: width, height: height, pitch: pitch, pix: pix}

	w := &bitWriter{}
	w.out = append(w.out, make([]byte, 7)...)

	var lane [2]laneState

	for y := 0; y < height; y++ {
		lane[0].resetRow()
		lane[1].resetRow()

		yBorder := y < 2
		border := true

		for x := 0; x < width; x++ {
			encodeSample(w, img, &lane[0], x, y, border, yBorder)

			x++
			if x < width {
				encodeSample(w, img, &lane[1], x, y, border, yBorder)
			}

			border = yBorder
		}
	}

	return w.bytes()
}

func encodeSample(w *bitWriter, img *grid, l *laneState, x, y int, border, yBorder bool) {
	var pred int32
	if border {
		pred = borderPredict(img, l, x, y, yBorder)
	} else {
		pred = interiorPredict(img, l, x, y)
	}

	target := int32(img.sample(x, y))
	combined := target - pred
	diff := combined >> 2
	low := uint32(combined) & 3

	magnitudePre := diff - l.acarry1
	var sign int32
	magnitude := magnitudePre
	if magnitudePre < 0 {
		sign = -1
		magnitude = -magnitudePre - 1
	}

	i := int32(0)
	if l.acarry2 < 3 {
		i = 2
	}
	nbits := 2 + int(i)
	for uint16(l.acarry0)>>uint(nbits+int(i)) != 0 {
		nbits++
	}

	high := magnitude >> uint(nbits)
	tail := uint32(magnitude) & (1<<uint(nbits) - 1)

	signBit := uint32(0)
	if sign != 0 {
		signBit = 1
	}

	if high <= 11 {
		w.writeBits(signBit, 1)
		w.writeBits(low, 2)
		w.writeBits(0, int(high))
		w.writeBits(1, 1)
	} else {
		w.writeBits(signBit, 1)
		w.writeBits(low, 2)
		w.writeBits(0, 12)
		w.writeBits(uint32(high)<<1, 16-nbits)
	}
	w.writeBits(tail, nbits)

	l.acarry0 = (high << uint(nbits)) | int32(tail)
	l.acarry1 = (diff*3 + l.acarry1) >> 5
	if l.acarry0 > 16 {
		l.acarry2 = 0
	} else {
		l.acarry2++
	}

	l.left = target
}

func borderPredict(img *grid, l *laneState, x, y int, yBorder bool) int32 {
	if yBorder && x < 2 {
		return 0
	}
	if yBorder {
		return l.left
	}
	up := int32(img.sample(x, y-1))
	l.nw = up
	return up
}

func interiorPredict(img *grid, l *laneState, x, y int) int32 {
	up := int32(img.sample(x, y-1))
	leftMinusNw := l.left - l.nw
	upMinusNw := up - l.nw

	var pred int32
	if leftMinusNw*upMinusNw < 0 {
		if abs32(leftMinusNw) > 32 || abs32(upMinusNw) > 32 {
			pred = l.left + upMinusNw
		} else {
			pred = (l.left + up) >> 1
		}
	} else if abs32(leftMinusNw) > abs32(upMinusNw) {
		pred = l.left
	} else {
		pred = up
	}

	l.nw = up
	return pred
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
