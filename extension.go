package gif

const (
	extensionIntroducer = 0x21
	imageSeparator      = 0x2C
	trailerByte         = 0x3B

	labelGraphicControl = 0xF9
	labelComment        = 0xFE
	labelPlainText      = 0x01
	labelApplication    = 0xFF
)

// readSubBlocks reads a run of length-prefixed sub-blocks terminated by a
// zero-length block, returning the payloads, the number of bytes consumed
// (including the terminator), and whether the whole run was present.
func readSubBlocks(buf []byte) (payloads [][]byte, consumed int, ok bool) {
	pos := 0
	for {
		if pos >= len(buf) {
			return nil, 0, false
		}
		n := int(buf[pos])
		pos++
		if n == 0 {
			return payloads, pos, true
		}
		if pos+n > len(buf) {
			return nil, 0, false
		}
		payloads = append(payloads, buf[pos:pos+n])
		pos += n
	}
}

// parseGraphicControl reads a graphic control extension's fixed-size
// (4-byte) sub-block. label has already been consumed by the caller.
func parseGraphicControl(buf []byte) (gc GraphicControl, consumed int, err error) {
	if len(buf) < 1 {
		return GraphicControl{}, 0, ErrTruncated
	}
	if buf[0] != 4 {
		return GraphicControl{}, 0, ErrInvalidExtension
	}
	if len(buf) < 1+4+1 { // size byte + 4 data bytes + terminator
		return GraphicControl{}, 0, ErrTruncated
	}
	data := buf[1:5]
	packed := data[0]
	gc.Disposal = Disposal((packed >> 2) & 0x07)
	gc.UserInput = packed&0x02 != 0
	gc.HasTransparent = packed&0x01 != 0
	gc.DelayCentiseconds = le16(data[1], data[2])
	gc.TransparentIndex = data[3]
	if buf[5] != 0 {
		return GraphicControl{}, 0, ErrInvalidExtension
	}
	return gc, 6, nil
}

// parsePlainText reads a plain text extension's fixed-size (12-byte)
// sub-block followed by the text's variable sub-block run.
func parsePlainText(buf []byte) (pt PlainText, consumed int, err error) {
	if len(buf) < 1 {
		return PlainText{}, 0, ErrTruncated
	}
	if buf[0] != 12 {
		return PlainText{}, 0, ErrInvalidExtension
	}
	if len(buf) < 1+12 {
		return PlainText{}, 0, ErrTruncated
	}
	data := buf[1:13]
	pt.Left = le16(data[0], data[1])
	pt.Top = le16(data[2], data[3])
	pt.Width = le16(data[4], data[5])
	pt.Height = le16(data[6], data[7])
	pt.CellWidth = data[8]
	pt.CellHeight = data[9]
	pt.ForegroundIndex = data[10]
	pt.BackgroundIndex = data[11]

	blocks, n, ok := readSubBlocks(buf[13:])
	if !ok {
		return PlainText{}, 0, ErrTruncated
	}
	for _, b := range blocks {
		pt.Text = append(pt.Text, b...)
	}
	return pt, 13 + n, nil
}

// parseComment reads a comment extension: nothing but a sub-block run.
func parseComment(buf []byte) (c Comment, consumed int, err error) {
	blocks, n, ok := readSubBlocks(buf)
	if !ok {
		return Comment{}, 0, ErrTruncated
	}
	for _, b := range blocks {
		c.Text = append(c.Text, b...)
	}
	return c, n, nil
}

// parseApplication reads an application extension's fixed 11-byte
// identifier/auth-code header, then dispatches on the identifier to the
// NETSCAPE2.0, ANIMEXTS1.0, XMP Data, and ICCRGBG1012 specializations,
// falling back to a generic Application block for anything else.
func parseApplication(buf []byte) (block Block, consumed int, err error) {
	if len(buf) < 1 {
		return nil, 0, ErrTruncated
	}
	if buf[0] != 11 {
		return nil, 0, ErrInvalidExtension
	}
	if len(buf) < 12 {
		return nil, 0, ErrTruncated
	}
	identifier := string(buf[1:9])
	authCode := string(buf[9:12])

	// XMP Data's body is written raw, relying on its trailing ramp to make
	// arbitrary packet bytes self-synchronize back to valid sub-block
	// lengths (spec.md §4.5); the generic walk below still lands on the
	// correct total length for it, it just doesn't recover the packet
	// bytes via its chunk boundaries, so XMP is special-cased below to use
	// the raw span instead of the chunked payloads.
	blocks, n, ok := readSubBlocks(buf[12:])
	if !ok {
		return nil, 0, ErrTruncated
	}
	consumed = 12 + n

	switch identifier + authCode {
	case "NETSCAPE2.0":
		return parseNetscapeLoop(blocks), consumed, nil
	case "ANIMEXTS1.0":
		return parseAnimextsLoop(blocks), consumed, nil
	case "XMP DataXMP":
		return parseXMPMetadata(buf[12 : 12+n]), consumed, nil
	case "ICCRGBG1012":
		return parseICCProfile(blocks), consumed, nil
	default:
		return &Application{Identifier: identifier, AuthCode: authCode, SubBlocks: blocks}, consumed, nil
	}
}

func parseNetscapeLoop(blocks [][]byte) *NetscapeLoop {
	loop := &NetscapeLoop{}
	for _, b := range blocks {
		switch {
		case len(b) == 3 && b[0] == 1:
			n := le16(b[1], b[2])
			loop.LoopCount = &n
		case len(b) == 5 && b[0] == 2:
			n := uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24
			loop.BufferSize = &n
		default:
			loop.Unknown = append(loop.Unknown, b)
		}
	}
	return loop
}

func parseAnimextsLoop(blocks [][]byte) *AnimextsLoop {
	loop := &AnimextsLoop{}
	for _, b := range blocks {
		switch {
		case len(b) == 3 && b[0] == 1:
			n := le16(b[1], b[2])
			loop.LoopCount = &n
		case len(b) == 5 && b[0] == 2:
			n := uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24
			loop.BufferSize = &n
		default:
			loop.Unknown = append(loop.Unknown, b)
		}
	}
	return loop
}

// xmpTrailerLen is the fixed 258-byte magic trailer (1 marker byte, 256
// descending bytes 0xFF..0x00, 1 terminator byte) that every XMP Data
// application extension appends so GIF-unaware readers' sub-block
// skipping still lands past the packet (resolved from original_source).
const xmpTrailerLen = 258

// parseXMPMetadata recovers the original packet from the raw byte span
// between the application identifier and the end of the extension (as
// located by the generic sub-block walk in parseApplication): the packet
// is written unframed, so its bytes are not split on sub-block boundaries,
// just trimmed of the fixed 258-byte ramp trailer.
func parseXMPMetadata(raw []byte) *XMPMetadata {
	all := append([]byte(nil), raw...)
	if len(all) > xmpTrailerLen {
		all = all[:len(all)-xmpTrailerLen]
	} else {
		all = nil
	}
	return &XMPMetadata{Payload: all}
}

func parseICCProfile(blocks [][]byte) *ICCProfile {
	var all []byte
	for _, b := range blocks {
		all = append(all, b...)
	}
	return &ICCProfile{Payload: all}
}

// parseUnknownExtension reads an extension whose label this codec does
// not recognize, preserving its sub-blocks verbatim.
func parseUnknownExtension(label byte, buf []byte) (ext UnknownExtension, consumed int, err error) {
	blocks, n, ok := readSubBlocks(buf)
	if !ok {
		return UnknownExtension{}, 0, ErrTruncated
	}
	ext.Label = label
	ext.SubBlocks = blocks
	return ext, n, nil
}
