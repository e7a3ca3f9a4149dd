package gif

import "errors"

// Sentinel errors for the container codec, matching spec.md §7's error
// taxonomy. Wrap these with fmt.Errorf("%w: ...") when more context is
// useful; callers can still compare with errors.Is.
var (
	// ErrNotGIF is returned when the first six bytes are not a recognized
	// GIF87a/GIF89a signature. Fatal: the stream cannot be resynchronized.
	ErrNotGIF = errors.New("gif: not a GIF stream")

	// ErrTruncated means Feed ran out of bytes mid-structure. Not fatal;
	// more data may still arrive.
	ErrTruncated = errors.New("gif: truncated stream")

	// ErrInvalidColorTableSize is returned by the encoder when a color
	// table's length is not a power of two in [2,256].
	ErrInvalidColorTableSize = errors.New("gif: invalid color table size")

	// ErrInvalidExtension marks a malformed fixed-size extension block (bad
	// fixed-size sub-block length or missing terminator). The decoder keeps
	// such a block as an UnknownExtension rather than failing.
	ErrInvalidExtension = errors.New("gif: invalid extension block")

	// ErrUnexpectedLZWCode is diagnostic only; decoding continues per
	// spec.md §4.2 but a caller asking for strict mode can treat it as
	// fatal.
	ErrUnexpectedLZWCode = errors.New("gif: unexpected LZW code")

	// ErrMissingEOI is diagnostic: the LZW payload ended without an EOI
	// code. Whatever pixels were decoded are still usable.
	ErrMissingEOI = errors.New("gif: LZW stream ended without EOI")

	// ErrAlreadyFailed is returned by Feed once a prior call has returned
	// a fatal error; the decoder does not attempt to resynchronize.
	ErrAlreadyFailed = errors.New("gif: decoder already failed")
)
