package gif

import (
	"github.com/palettestream/gifcodec/lzw"
	"github.com/palettestream/gifcodec/subblock"
)

// Encoder writes a GIF container one call at a time: header, screen
// descriptor, then any mix of image descriptors and extensions in
// whatever order the caller wants (spec.md §6's write_* operations are
// exposed as methods instead of free functions so the output buffer
// never has to be threaded through every call).
type Encoder struct {
	out *outputBuffer
}

// NewEncoder creates an Encoder with an empty output buffer.
func NewEncoder() *Encoder {
	return &Encoder{out: newOutputBuffer()}
}

// Bytes returns everything written so far.
func (e *Encoder) Bytes() []byte { return e.out.Bytes() }

// WriteHeader writes the 6-byte signature. is89a selects GIF89a (needed
// for any extension block, transparency, or animation) over GIF87a.
func (e *Encoder) WriteHeader(is89a bool) {
	if is89a {
		e.out.WriteString(signature89a)
	} else {
		e.out.WriteString(signature87a)
	}
}

// WriteScreenDescriptor writes the logical screen descriptor and, if
// screen.GlobalColorTable is non-nil, the global color table that follows
// it.
func (e *Encoder) WriteScreenDescriptor(screen LogicalScreen) error {
	e.out.WriteUint16LE(screen.Width)
	e.out.WriteUint16LE(screen.Height)

	packed := byte(0)
	sizeField := byte(0)
	if screen.GlobalColorTable != nil {
		if !validTableLength(len(screen.GlobalColorTable)) {
			return ErrInvalidColorTableSize
		}
		packed |= 0x80
		sizeField = lengthToSizeField(len(screen.GlobalColorTable))
	}
	depth := screen.OriginalDepth
	if depth == 0 {
		depth = 1
	}
	packed |= ((depth - 1) & 0x07) << 4
	if screen.ColorTableSorted {
		packed |= 0x08
	}
	packed |= sizeField

	e.out.WriteByte(packed)
	e.out.WriteByte(screen.BackgroundIndex)
	e.out.WriteByte(screen.PixelAspectRatio)

	if screen.GlobalColorTable != nil {
		e.writeColorTableBytes(screen.GlobalColorTable)
	}
	return nil
}

func (e *Encoder) writeColorTableBytes(table ColorTable) {
	for _, c := range table {
		e.out.WriteByte(c.R)
		e.out.WriteByte(c.G)
		e.out.WriteByte(c.B)
	}
}

// WriteGraphicControl writes a graphic control extension. It always
// refers to whichever image or plain text block follows it.
func (e *Encoder) WriteGraphicControl(gc GraphicControl) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelGraphicControl)
	e.out.WriteByte(4)

	packed := byte(gc.Disposal&0x07) << 2
	if gc.UserInput {
		packed |= 0x02
	}
	if gc.HasTransparent {
		packed |= 0x01
	}
	e.out.WriteByte(packed)
	e.out.WriteUint16LE(gc.DelayCentiseconds)
	e.out.WriteByte(gc.TransparentIndex)
	e.out.WriteByte(0)
}

// ImageOptions configures WriteImage. MinCodeSize of 0 picks
// max(depth, 2) as the reference implementation does (resolved from
// original_source), where depth is the bit depth of LocalColorTable.
// Without a local color table, 0 picks 2; the global color table is not
// consulted.
type ImageOptions struct {
	Left, Top, Width, Height uint16
	Interlace                bool
	LocalColorTable          ColorTable
	LocalColorTableSorted    bool
	MinCodeSize              int
	Pixels                   []byte
	LZWOptions               *lzw.Options // nil uses lzw.DefaultOptions(MinCodeSize)
}

// WriteImage writes an image descriptor, optional local color table, and
// the LZW-compressed, sub-block-framed pixel data.
func (e *Encoder) WriteImage(opts ImageOptions) error {
	e.out.WriteByte(imageSeparator)
	e.out.WriteUint16LE(opts.Left)
	e.out.WriteUint16LE(opts.Top)
	e.out.WriteUint16LE(opts.Width)
	e.out.WriteUint16LE(opts.Height)

	packed := byte(0)
	sizeField := byte(0)
	if opts.LocalColorTable != nil {
		if !validTableLength(len(opts.LocalColorTable)) {
			return ErrInvalidColorTableSize
		}
		packed |= 0x80
		sizeField = lengthToSizeField(len(opts.LocalColorTable))
	}
	if opts.Interlace {
		packed |= 0x40
	}
	if opts.LocalColorTableSorted {
		packed |= 0x20
	}
	packed |= sizeField
	e.out.WriteByte(packed)

	if opts.LocalColorTable != nil {
		e.writeColorTableBytes(opts.LocalColorTable)
	}

	minCodeSize := opts.MinCodeSize
	if minCodeSize == 0 {
		minCodeSize = 2
		if opts.LocalColorTable != nil && int(sizeField)+1 > minCodeSize {
			minCodeSize = int(sizeField) + 1
		}
	}
	e.out.WriteByte(byte(minCodeSize))

	lzwOpts := opts.LZWOptions
	if lzwOpts == nil {
		d := lzw.DefaultOptions(minCodeSize)
		lzwOpts = &d
	}
	packedCodes := lzw.Encode(opts.Pixels, *lzwOpts)

	sb := subblock.NewWriter()
	sb.WriteBytes(packedCodes)
	sb.Finish()
	e.out.WriteBytes(sb.Bytes())

	return nil
}

// WriteComment writes a comment extension.
func (e *Encoder) WriteComment(text []byte) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelComment)
	e.writeSubBlocks(text)
}

// WritePlainText writes a plain text extension.
func (e *Encoder) WritePlainText(pt PlainText) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelPlainText)
	e.out.WriteByte(12)
	e.out.WriteUint16LE(pt.Left)
	e.out.WriteUint16LE(pt.Top)
	e.out.WriteUint16LE(pt.Width)
	e.out.WriteUint16LE(pt.Height)
	e.out.WriteByte(pt.CellWidth)
	e.out.WriteByte(pt.CellHeight)
	e.out.WriteByte(pt.ForegroundIndex)
	e.out.WriteByte(pt.BackgroundIndex)
	e.writeSubBlocks(pt.Text)
}

// WriteApplication writes a generic application extension. identifier
// must be 8 bytes and authCode 3 bytes.
func (e *Encoder) WriteApplication(identifier, authCode string, subBlocks [][]byte) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelApplication)
	e.out.WriteByte(11)
	e.out.WriteString(identifier)
	e.out.WriteString(authCode)
	for _, b := range subBlocks {
		e.out.WriteByte(byte(len(b)))
		e.out.WriteBytes(b)
	}
	e.out.WriteByte(0)
}

// loopSubBlocks builds the loop-count sub-block, and the buffer-size
// sub-block when bufferSize is non-nil, shared by WriteNetscapeLoop and
// WriteAnimextsLoop (spec.md §3: both identifiers carry the same
// {loop_count, buffer_size} sub-block shapes).
func loopSubBlocks(loopCount uint16, bufferSize *uint32) [][]byte {
	loop := []byte{1, byte(loopCount), byte(loopCount >> 8)}
	blocks := [][]byte{loop}
	if bufferSize != nil {
		n := *bufferSize
		blocks = append(blocks, []byte{2, byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)})
	}
	return blocks
}

// WriteNetscapeLoop writes a NETSCAPE2.0 application extension with the
// given animation loop count (0 means loop forever) and, if bufferSize is
// non-nil, a buffering-size sub-block.
func (e *Encoder) WriteNetscapeLoop(loopCount uint16, bufferSize *uint32) {
	e.WriteApplication("NETSCAPE", "2.0", loopSubBlocks(loopCount, bufferSize))
}

// WriteAnimextsLoop writes an ANIMEXTS1.0 application extension with the
// given loop count and, if bufferSize is non-nil, a buffering-size
// sub-block.
func (e *Encoder) WriteAnimextsLoop(loopCount uint16, bufferSize *uint32) {
	e.WriteApplication("ANIMEXTS", "1.0", loopSubBlocks(loopCount, bufferSize))
}

// WriteXMPMetadata writes an XMP Data application extension. The packet is
// emitted raw, not sub-block framed (spec.md §4.5): the fixed 258-byte
// magic trailer that follows it is constructed so that a generic sub-block
// reader, which knows nothing about XMP, still lands on the correct total
// length when it walks the packet's own bytes as if they were sub-block
// lengths (it works as long as payload contains no zero byte, since a
// zero byte would misread as the generic terminator early).
func (e *Encoder) WriteXMPMetadata(payload []byte) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelApplication)
	e.out.WriteByte(11)
	e.out.WriteString("XMP DataXMP")
	e.out.WriteBytes(payload)
	e.out.WriteBytes(xmpTrailer())
}

func xmpTrailer() []byte {
	trailer := make([]byte, xmpTrailerLen)
	trailer[0] = 0x01
	for i := 0; i < 256; i++ {
		trailer[1+i] = byte(255 - i)
	}
	trailer[xmpTrailerLen-1] = 0x00
	return trailer
}

// WriteICCProfile writes an ICCRGBG1012 application extension.
func (e *Encoder) WriteICCProfile(payload []byte) {
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelApplication)
	e.out.WriteByte(11)
	e.out.WriteString("ICCRGBG1012")

	sb := subblock.NewWriter()
	sb.WriteBytes(payload)
	sb.Finish()
	e.out.WriteBytes(sb.Bytes())
}

func (e *Encoder) writeSubBlocks(data []byte) {
	sb := subblock.NewWriter()
	sb.WriteBytes(data)
	sb.Finish()
	e.out.WriteBytes(sb.Bytes())
}

// WriteTrailer writes the terminating 0x3B byte.
func (e *Encoder) WriteTrailer() {
	e.out.WriteByte(trailerByte)
}
