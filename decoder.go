package gif

import (
	"fmt"

	"github.com/palettestream/gifcodec/lzw"
	"github.com/palettestream/gifcodec/subblock"
)

// Decoder incrementally parses a GIF container. Feed data as it arrives;
// the decoder re-scans from the last confirmed position each call and
// simply waits for more bytes when a structure is incomplete, rather than
// buffering partial state of its own (spec.md §4.6's streaming model).
type Decoder struct {
	buf []byte
	pos int

	is89a        bool
	headerParsed bool
	screen       LogicalScreen
	screenParsed bool

	blocks      []Block
	pendingGC   *GraphicControl
	complete    bool
	unknownSeen bool
	err         error
}

// NewDecoder creates an empty Decoder ready to receive Feed calls.
func NewDecoder() *Decoder { return &Decoder{} }

// Feed appends data and parses as far as it can. It returns a non-nil
// error only for fatal conditions (not a GIF, and every call after such a
// failure); a truncated structure simply means Feed will parse further
// once more bytes arrive in a later call.
func (d *Decoder) Feed(data []byte) error {
	if d.err != nil {
		return fmt.Errorf("%w: %w", ErrAlreadyFailed, d.err)
	}
	d.buf = append(d.buf, data...)
	d.parse()
	return d.err
}

// HasHeader reports whether the 6-byte signature has been validated.
func (d *Decoder) HasHeader() bool { return d.headerParsed }

// HasScreenDescriptor reports whether the logical screen descriptor (and
// any global color table) has been parsed.
func (d *Decoder) HasScreenDescriptor() bool { return d.screenParsed }

// Screen returns the logical screen descriptor. Valid only once
// HasScreenDescriptor is true.
func (d *Decoder) Screen() LogicalScreen { return d.screen }

// IsComplete reports whether the trailer byte has been reached.
func (d *Decoder) IsComplete() bool { return d.complete }

// HasUnknownBlock reports whether parsing stopped early because a
// top-level introducer byte was neither an image, an extension, nor the
// trailer.
func (d *Decoder) HasUnknownBlock() bool { return d.unknownSeen }

// Blocks returns every block parsed so far, in stream order.
func (d *Decoder) Blocks() []Block { return d.blocks }

func (d *Decoder) parse() {
	if !d.headerParsed {
		is89a, err := parseHeader(d.buf)
		if err == ErrTruncated {
			return
		}
		if err != nil {
			d.err = err
			return
		}
		d.is89a = is89a
		d.headerParsed = true
		d.pos = signatureLen
	}

	if !d.screenParsed {
		screen, consumed, err := parseScreenDescriptor(d.buf[d.pos:])
		if err == ErrTruncated {
			return
		}
		if err != nil {
			d.err = err
			return
		}
		d.screen = screen
		d.screenParsed = true
		d.pos += consumed
	}

	for !d.complete && !d.unknownSeen {
		if d.pos >= len(d.buf) {
			return
		}
		introducer := d.buf[d.pos]
		switch introducer {
		case imageSeparator:
			if !d.parseImage() {
				return
			}
		case extensionIntroducer:
			if !d.parseExtension() {
				return
			}
		case trailerByte:
			d.blocks = append(d.blocks, &Trailer{blockSpan{d.pos, 1}})
			d.pos++
			d.complete = true
		default:
			d.blocks = append(d.blocks, &UnknownBlock{blockSpan{d.pos, 0}, introducer})
			d.unknownSeen = true
		}
	}
}

// parseImage attempts to parse one image descriptor, local color table,
// leading min-code-size octet, and sub-block-framed LZW payload starting
// at d.pos. It returns false (without advancing d.pos) if the data is not
// yet complete.
func (d *Decoder) parseImage() bool {
	start := d.pos
	frame, consumed, err := parseImageDescriptor(d.buf[start+1:])
	if err == ErrTruncated {
		return false
	}
	if err != nil {
		d.err = err
		return false
	}

	minCodeSizeOffset := start + 1 + consumed
	if minCodeSizeOffset >= len(d.buf) {
		return false
	}
	frame.LZWMinCodeSize = d.buf[minCodeSizeOffset]

	dataOffset := minCodeSizeOffset + 1
	_, end, ok := subblock.ReadAll(d.buf, dataOffset)
	if !ok {
		return false
	}

	frame.dataOffset = dataOffset
	frame.dataLength = end - dataOffset
	frame.GraphicControl = d.pendingGC
	d.pendingGC = nil
	frame.blockSpan = blockSpan{offset: start, length: end - start}

	d.blocks = append(d.blocks, &frame)
	d.pos = end
	return true
}

// parseExtension attempts to parse one extension block starting at
// d.pos (which holds the 0x21 introducer). It returns false (without
// advancing d.pos) if the data is not yet complete.
func (d *Decoder) parseExtension() bool {
	start := d.pos
	if start+1 >= len(d.buf) {
		return false
	}
	label := d.buf[start+1]
	body := d.buf[start+2:]

	switch label {
	case labelGraphicControl:
		gc, consumed, err := parseGraphicControl(body)
		if err == ErrTruncated {
			return false
		}
		if err == ErrInvalidExtension {
			return d.parseAsGenericExtension(start, label, body)
		}
		if err != nil {
			d.err = fmt.Errorf("%w: graphic control extension", err)
			return false
		}
		gc.blockSpan = blockSpan{start, 2 + consumed}
		d.pendingGC = &gc
		d.blocks = append(d.blocks, &gc)
		d.pos = start + 2 + consumed

	case labelComment:
		c, consumed, err := parseComment(body)
		if err == ErrTruncated {
			return false
		}
		if err != nil {
			d.err = fmt.Errorf("%w: comment extension", err)
			return false
		}
		c.blockSpan = blockSpan{start, 2 + consumed}
		d.blocks = append(d.blocks, &c)
		d.pos = start + 2 + consumed

	case labelPlainText:
		pt, consumed, err := parsePlainText(body)
		if err == ErrTruncated {
			return false
		}
		if err == ErrInvalidExtension {
			return d.parseAsGenericExtension(start, label, body)
		}
		if err != nil {
			d.err = fmt.Errorf("%w: plain text extension", err)
			return false
		}
		pt.blockSpan = blockSpan{start, 2 + consumed}
		pt.GraphicControl = d.pendingGC
		d.pendingGC = nil
		d.blocks = append(d.blocks, &pt)
		d.pos = start + 2 + consumed

	case labelApplication:
		block, consumed, err := parseApplication(body)
		if err == ErrTruncated {
			return false
		}
		if err == ErrInvalidExtension {
			return d.parseAsGenericExtension(start, label, body)
		}
		if err != nil {
			d.err = fmt.Errorf("%w: application extension", err)
			return false
		}
		setBlockSpan(block, start, 2+consumed)
		d.blocks = append(d.blocks, block)
		d.pos = start + 2 + consumed

	default:
		ext, consumed, err := parseUnknownExtension(label, body)
		if err == ErrTruncated {
			return false
		}
		if err != nil {
			d.err = fmt.Errorf("%w: label 0x%02x", err, label)
			return false
		}
		ext.blockSpan = blockSpan{start, 2 + consumed}
		d.blocks = append(d.blocks, &ext)
		d.pos = start + 2 + consumed
	}
	return true
}

// parseAsGenericExtension handles spec.md §7's "InvalidExtension" soft
// recovery: a recognized label whose fixed-size leading sub-block didn't
// match the expected length is not fatal, it is retained as a generic
// UnknownExtension over the same sub-block run a fully unrecognized label
// would get, so a round-trip re-encode can still reproduce its bytes.
func (d *Decoder) parseAsGenericExtension(start int, label byte, body []byte) bool {
	ext, consumed, err := parseUnknownExtension(label, body)
	if err == ErrTruncated {
		return false
	}
	if err != nil {
		d.err = fmt.Errorf("%w: label 0x%02x", err, label)
		return false
	}
	ext.blockSpan = blockSpan{start, 2 + consumed}
	d.blocks = append(d.blocks, &ext)
	d.pos = start + 2 + consumed
	return true
}

// setBlockSpan assigns span to whichever concrete application-extension
// specialization block actually is.
func setBlockSpan(block Block, offset, length int) {
	span := blockSpan{offset, length}
	switch b := block.(type) {
	case *Application:
		b.blockSpan = span
	case *NetscapeLoop:
		b.blockSpan = span
	case *AnimextsLoop:
		b.blockSpan = span
	case *XMPMetadata:
		b.blockSpan = span
	case *ICCProfile:
		b.blockSpan = span
	}
}

// ImageResult is the materialized pixel output of decoding one frame's
// LZW payload, per spec.md §4.2/§4.5.
type ImageResult struct {
	Pixels            []byte
	EOISeen           bool
	FirstCodeWasClear bool
	InvalidCodes      int
}

// DecodeImage concatenates frame's sub-block payloads and runs the LZW
// decoder over them. It is safe to call repeatedly and does no caching:
// callers that need the pixels once should keep the result themselves.
func (d *Decoder) DecodeImage(frame *ImageFrame) (ImageResult, error) {
	payloads, _, ok := subblock.ReadAll(d.buf, frame.dataOffset)
	if !ok {
		return ImageResult{}, ErrTruncated
	}
	var packed []byte
	for _, p := range payloads {
		packed = append(packed, p...)
	}
	r := lzw.Decode(int(frame.LZWMinCodeSize), packed)
	return ImageResult{
		Pixels:            r.Pixels,
		EOISeen:           r.EOISeen,
		FirstCodeWasClear: r.FirstCodeWasClear,
		InvalidCodes:      r.InvalidCodes,
	}, nil
}
