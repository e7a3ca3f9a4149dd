package lzw

import "github.com/palettestream/gifcodec/bitstream"

// Options configures LZW stream framing. The zero value is not valid;
// use DefaultOptions as a starting point.
type Options struct {
	// MinCodeSize sets the starting code width (MinCodeSize+1) and the
	// number of reserved singleton entries (2^MinCodeSize). Must be in
	// [2, 8].
	MinCodeSize int

	// MaxCodeSize caps dictionary growth in bits. Must be in [3, 12].
	// Zero defaults to MaxCodeWidth (12).
	MaxCodeSize int

	// StartWithClear emits a CLEAR code before any data code. True is
	// the interoperable default.
	StartWithClear bool

	// EndWithEOI appends an EOI code after the final data code.
	EndWithEOI bool

	// ClearOnMaxWidth controls saturation behavior: true clears and
	// restarts the table once it reaches 2^MaxCodeSize entries; false
	// freezes it (no further additions) for the rest of the stream, at
	// MaxTableSize entries at most, the same point the decoder freezes.
	ClearOnMaxWidth bool

	// ExtraTrailingData is appended, verbatim, after EOI's final flushed
	// byte. It exists to probe decoders that are expected to tolerate
	// trailing junk in a truncated or padded stream, not to carry any
	// meaningful payload.
	ExtraTrailingData []byte
}

// DefaultOptions returns the interoperable default framing: start with
// CLEAR, end with EOI, clear the table on saturation.
func DefaultOptions(minCodeSize int) Options {
	return Options{
		MinCodeSize:     minCodeSize,
		MaxCodeSize:     MaxCodeWidth,
		StartWithClear:  true,
		EndWithEOI:      true,
		ClearOnMaxWidth: true,
	}
}

type dictKey struct {
	prefix int
	b      byte
}

// Encoder performs GIF-dialect LZW compression, writing codes to an
// internal BitStream writer. Symbols are fed one at a time so callers can
// drive it incrementally, mirroring the container codec's streaming
// decode side.
type Encoder struct {
	opts      Options
	clear     int
	eoi       int
	dict      map[dictKey]int
	nextCode  int
	codeWidth int
	prefix    int // -1 = no buffered prefix yet
	started   bool
	w         *bitstream.Writer
}

// NewEncoder creates an Encoder. opts.MinCodeSize must be in [2,8].
func NewEncoder(opts Options) *Encoder {
	if opts.MaxCodeSize == 0 {
		opts.MaxCodeSize = MaxCodeWidth
	}
	e := &Encoder{
		opts:   opts,
		clear:  clearCode(opts.MinCodeSize),
		eoi:    eoiCode(opts.MinCodeSize),
		w:      bitstream.NewWriter(),
		prefix: -1,
	}
	e.resetDict()
	if opts.StartWithClear {
		e.w.WriteCode(e.clear, e.codeWidth)
	}
	return e
}

func (e *Encoder) resetDict() {
	e.dict = make(map[dictKey]int, 1<<uint(e.opts.MinCodeSize))
	e.nextCode = e.eoi + 1
	e.codeWidth = e.opts.MinCodeSize + 1
}

// Feed compresses one input symbol. Symbols must be in
// [0, 2^MinCodeSize).
func (e *Encoder) Feed(sym byte) {
	if e.prefix == -1 {
		e.prefix = int(sym)
		return
	}

	key := dictKey{e.prefix, sym}
	if code, ok := e.dict[key]; ok {
		e.prefix = code
		return
	}

	e.w.WriteCode(e.prefix, e.codeWidth)

	limit := 1 << uint(e.opts.MaxCodeSize)
	if !e.opts.ClearOnMaxWidth && limit > MaxTableSize {
		limit = MaxTableSize
	}
	if e.nextCode < limit {
		e.dict[key] = e.nextCode
		e.nextCode++
		if e.nextCode == (1<<uint(e.codeWidth))+1 && e.codeWidth < e.opts.MaxCodeSize {
			e.codeWidth++
		}
	}

	if e.nextCode == (1<<uint(e.opts.MaxCodeSize)) && e.opts.ClearOnMaxWidth {
		e.w.WriteCode(e.clear, e.codeWidth)
		e.resetDict()
	}

	e.prefix = int(sym)
}

// FeedAll compresses a whole symbol sequence.
func (e *Encoder) FeedAll(symbols []byte) {
	for _, s := range symbols {
		e.Feed(s)
	}
}

// Finish flushes the pending prefix code, optionally an EOI code, and
// returns the packed code bitstream (no sub-block framing, no leading
// min-code-size octet — those belong to the container codec).
func (e *Encoder) Finish() []byte {
	if e.prefix != -1 {
		e.w.WriteCode(e.prefix, e.codeWidth)
		e.prefix = -1
	}
	if e.opts.EndWithEOI {
		e.w.WriteCode(e.eoi, e.codeWidth)
	}
	e.w.Flush()
	out := e.w.Bytes()
	if len(e.opts.ExtraTrailingData) > 0 {
		out = append(out, e.opts.ExtraTrailingData...)
	}
	return out
}

// Encode is a convenience wrapper around NewEncoder/FeedAll/Finish for
// callers that already have the whole pixel sequence in memory.
func Encode(symbols []byte, opts Options) []byte {
	e := NewEncoder(opts)
	e.FeedAll(symbols)
	return e.Finish()
}
