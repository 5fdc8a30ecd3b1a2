package orf

// Source is the byte-addressable region the decoder reads strips
// from. It satisfies io.ReaderAt so it composes directly with
// tiff.Parse, grounded on the same in-memory io.ReaderAt-adapter shape
// dargueta-disko uses for its byte-addressable block devices
// (xaionaro-go/bytesextra), applied here to a flat file instead of a
// block device.
type Source interface {
	// Valid reports whether [offset, offset+length) lies entirely
	// within the source.
	Valid(offset, length int64) bool
	// ReadAt reads len(p) bytes starting at offset.
	ReadAt(p []byte, offset int64) (int, error)
	// NativeByteOrder reports whether the source's byte order matches
	// the host's native order (used by the uncompressed 12-bit
	// unpacked dispatch branch).
	NativeByteOrder() bool
}

// MemSource is a Source backed by a fully-buffered byte slice -- the
// common case for an ORF file read (or mmap'd) wholesale.
type MemSource struct {
	Data   []byte
	Native bool
}

// NewMemSource wraps data as a Source reporting the given native byte
// order flag.
func NewMemSource(data []byte, native bool) *MemSource {
	return &MemSource{Data: data, Native: native}
}

// Valid implements Source.
func (s *MemSource) Valid(offset, length int64) bool {
	if offset < 0 || length < 0 {
		return false
	}
	end := offset + length
	return end >= offset && end <= int64(len(s.Data))
}

// ReadAt implements Source (and io.ReaderAt).
func (s *MemSource) ReadAt(p []byte, offset int64) (int, error) {
	if offset < 0 || offset > int64(len(s.Data)) {
		return 0, Truncated
	}
	n := copy(p, s.Data[offset:])
	if n < len(p) {
		return n, Truncated
	}
	return n, nil
}

// NativeByteOrder implements Source.
func (s *MemSource) NativeByteOrder() bool {
	return s.Native
}
