package bitpump

import "testing"

func TestGetMSBFirst(t *testing.T) {
	// 0xA5 = 1010_0101, bit 7 (MSB) emitted first.
	data := []byte{0xA5, 0x3C}
	p := New(data, 0, len(data))
	p.Fill()

	want := []uint32{1, 0, 1, 0, 0, 1, 0, 1}
	for i, w := range want {
		if got := p.Get(1); got != w {
			t.Fatalf("bit %d: got %d, want %d", i, got, w)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	p := New([]byte{0xFF, 0x00}, 0, 2)
	p.Fill()

	if got := p.Peek(8); got != 0xFF {
		t.Fatalf("Peek(8) = %#x, want 0xff", got)
	}
	if got := p.Peek(8); got != 0xFF {
		t.Fatalf("second Peek(8) = %#x, want 0xff (peek must not consume)", got)
	}
	if got := p.Get(8); got != 0xFF {
		t.Fatalf("Get(8) = %#x, want 0xff", got)
	}
	if got := p.Get(8); got != 0x00 {
		t.Fatalf("Get(8) = %#x, want 0x00", got)
	}
}

func TestFillGuaranteesAtLeast25Bits(t *testing.T) {
	data := make([]byte, 16)
	for i := range data {
		data[i] = 0xFF
	}
	p := New(data, 0, len(data))
	p.Fill()
	if p.bufBits < 25 {
		t.Fatalf("after Fill, bufBits = %d, want >= 25", p.bufBits)
	}
}

func TestOverrunPadsWithZerosAndLatches(t *testing.T) {
	p := New([]byte{0xFF}, 0, 1)
	p.Fill()

	if p.Overrun() {
		t.Fatalf("Overrun should be false before reading past the window")
	}

	// Only 8 bits exist; reading 16 forces padding.
	got := p.Get(16)
	if got != 0xFF00 {
		t.Fatalf("Get(16) past end = %#x, want 0xff00 (zero padded low bits)", got)
	}
	if !p.Overrun() {
		t.Fatalf("Overrun should latch true after reading past the window")
	}
	if err := p.CheckPosition(); err != ErrTruncated {
		t.Fatalf("CheckPosition() = %v, want ErrTruncated", err)
	}
}

func TestSkipThenGet(t *testing.T) {
	data := []byte{0b10110100, 0b11001010}
	p := New(data, 0, len(data))
	p.Fill()

	p.Skip(4)
	if got := p.Get(4); got != 0b0100 {
		t.Fatalf("Get(4) after Skip(4) = %#b, want 0b0100", got)
	}
	if got := p.Get(8); got != 0b11001010 {
		t.Fatalf("Get(8) = %#b, want 0b11001010", got)
	}
}
