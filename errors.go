package orf

import "fmt"

// Kind identifies one of this decoder's error categories. It is
// modeled on dargueta-disko's root-error / WithMessage pattern: a
// stable, errors.Is-able identity that callers can still attach a
// formatted message to.
type Kind string

const (
	// NoImage: no IFD carries StripOffsets.
	NoImage Kind = "orf: no image data found"
	// UnsupportedCompression: Compression tag is not 1 (uncompressed TIFF baseline).
	UnsupportedCompression Kind = "orf: unsupported compression"
	// MalformedStrips: StripOffsets and StripByteCounts counts disagree.
	MalformedStrips Kind = "orf: strip offset/count mismatch"
	// Truncated: the declared strip range falls outside the source.
	Truncated Kind = "orf: truncated file"
	// UnsupportedLayout: the uncompressed dispatcher exhausted its cases.
	UnsupportedLayout Kind = "orf: unrecognized uncompressed layout"
	// BitStreamOverrun: a bit pump read ran past the strip end (soft).
	BitStreamOverrun Kind = "orf: bitstream overrun"
	// MetadataError: maker-note sub-IFD parsing failed (soft).
	MetadataError Kind = "orf: metadata error"
)

// Error satisfies the error interface so a Kind can be returned and
// compared directly with errors.Is.
func (k Kind) Error() string { return string(k) }

// WithMessage returns an error that reports as "<kind>: <message>"
// while still satisfying errors.Is(err, kind).
func (k Kind) WithMessage(message string) error {
	return &kindError{kind: k, msg: message}
}

// Wrap returns an error that reports as "<kind>: <cause>" while still
// satisfying both errors.Is(err, kind) and errors.Is(err, cause) (via
// Unwrap).
func (k Kind) Wrap(cause error) error {
	return &kindError{kind: k, msg: cause.Error(), cause: cause}
}

type kindError struct {
	kind  Kind
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.msg == "" {
		return string(e.kind)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *kindError) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.kind == k
	}
	return false
}

func (e *kindError) Unwrap() error { return e.cause }
