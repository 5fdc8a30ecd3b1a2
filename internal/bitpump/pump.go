// Package bitpump implements an MSB-first bit cursor over a fixed byte
// window. It is the ORF decoder's equivalent of a JPEG-style bit
// buffer, minus byte-stuffing: ORF's compressed strip has no marker
// bytes to watch for, so refill is a plain big-endian byte append.
package bitpump

import "errors"

// ErrTruncated is returned by CheckPosition once the cursor has
// consumed more bytes than the strip declared.
var ErrTruncated = errors.New("bitpump: truncated strip")

// Pump reads bits most-significant-bit first from data[start:start+length].
// Fill guarantees at least 25 valid bits are buffered afterwards; Peek
// and Skip never look beyond what the last Fill buffered.
type Pump struct {
	data    []byte
	pos     int // next unread byte, absolute index into data
	end     int // exclusive end of the window, absolute index into data
	buf     uint64
	bufBits int
	overrun bool
}

// New returns a Pump scanning data[start : start+length]. Callers that
// need to skip a fixed header (e.g. ORF's 7-byte compressed-strip
// preamble) should add it to start before calling New.
func New(data []byte, start, length int) *Pump {
	end := start + length
	if end > len(data) {
		end = len(data)
	}
	return &Pump{data: data, pos: start, end: end}
}

// Fill tops up the internal register to at least 25 bits, more if
// cheaply available. When the window is exhausted it just stops; a
// later Get or Skip that consumes bits past the window reads them as
// zeros and latches Overrun.
func (p *Pump) Fill() {
	for p.bufBits <= 56 {
		if p.pos >= p.end {
			return
		}
		b := p.data[p.pos]
		p.pos++
		p.buf = (p.buf << 8) | uint64(b)
		p.bufBits += 8
	}
}

// Peek returns the next k bits (k <= 25) without consuming them. Bits
// past the end of the window read as zero; peeking at them does not
// latch Overrun, since the decoder may look ahead further than the
// final codeword actually extends.
func (p *Pump) Peek(k int) uint32 {
	if k == 0 {
		return 0
	}
	mask := uint64(1)<<uint(k) - 1
	if p.bufBits < k {
		return uint32((p.buf << uint(k-p.bufBits)) & mask)
	}
	shift := p.bufBits - k
	return uint32((p.buf >> uint(shift)) & mask)
}

// Skip consumes k bits without refilling. It is only valid when at
// least k bits are currently buffered (i.e. right after Fill).
func (p *Pump) Skip(k int) {
	if p.bufBits < k {
		p.padded(k)
	}
	p.bufBits -= k
	p.buf &= uint64(1)<<uint(p.bufBits) - 1
}

// Get reads and consumes the next k bits.
func (p *Pump) Get(k int) uint32 {
	v := p.Peek(k)
	p.Skip(k)
	return v
}

// padded handles the soft end-of-stream case: pad the register with
// zero bits so Skip never reads uninitialized state, and remember
// that we had to do so.
func (p *Pump) padded(k int) {
	p.overrun = true
	need := k - p.bufBits
	p.buf <<= uint(need)
	p.bufBits += need
}

// CheckPosition fails once the cursor has consumed past the strip's
// declared byte window. Because Fill never reads beyond the window,
// "past the window" is equivalent to having had to synthesize padding
// bits for a Get/Skip.
func (p *Pump) CheckPosition() error {
	if p.overrun {
		return ErrTruncated
	}
	return nil
}

// Overrun reports whether any Get/Skip has had to consume bits
// synthesized past the end of the strip window.
func (p *Pump) Overrun() bool {
	return p.overrun
}
