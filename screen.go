package gif

const (
	signatureLen   = 6
	screenDescLen  = 7
	headerTotalLen = signatureLen + screenDescLen

	signature87a = "GIF87a"
	signature89a = "GIF89a"
)

// LogicalScreen is the logical screen descriptor: the canvas every frame
// is composited onto, plus the optional global palette every frame without
// its own local color table falls back to.
type LogicalScreen struct {
	Width, Height uint16

	// OriginalDepth is the color resolution the packed byte advertises
	// (1..8), independent of the global color table's actual size.
	OriginalDepth uint8

	BackgroundIndex  uint8
	PixelAspectRatio uint8

	// GlobalColorTable is nil when the global color table flag is unset.
	GlobalColorTable ColorTable
	ColorTableSorted bool
}

// parseHeader validates the 6-byte signature and reports whether it is
// the newer 89a dialect (extensions, graphic control, animation) versus
// the plain 87a dialect. It does not currently reject 87a streams that use
// 89a-only extensions, matching the permissive behavior of the reference
// implementation.
func parseHeader(buf []byte) (is89a bool, err error) {
	if len(buf) < signatureLen {
		return false, ErrTruncated
	}
	switch string(buf[:signatureLen]) {
	case signature87a:
		return false, nil
	case signature89a:
		return true, nil
	default:
		return false, ErrNotGIF
	}
}

// parseScreenDescriptor reads the logical screen descriptor and, if the
// global color table flag is set, the color table that immediately
// follows it. It returns the total number of header bytes consumed
// (descriptor plus color table) so the caller can advance its cursor.
func parseScreenDescriptor(buf []byte) (screen LogicalScreen, consumed int, err error) {
	if len(buf) < screenDescLen {
		return LogicalScreen{}, 0, ErrTruncated
	}

	screen.Width = le16(buf[0], buf[1])
	screen.Height = le16(buf[2], buf[3])

	packed := buf[4]
	hasGlobalTable := packed&0x80 != 0
	screen.OriginalDepth = ((packed >> 4) & 0x07) + 1
	screen.ColorTableSorted = packed&0x08 != 0
	sizeField := packed & 0x07

	screen.BackgroundIndex = buf[5]
	screen.PixelAspectRatio = buf[6]

	consumed = screenDescLen
	if !hasGlobalTable {
		return screen, consumed, nil
	}

	tableLen := sizeFieldToLength(sizeField)
	tableBytes := tableLen * 3
	if len(buf) < consumed+tableBytes {
		return LogicalScreen{}, 0, ErrTruncated
	}
	screen.GlobalColorTable = readColorTable(buf[consumed:consumed+tableBytes], tableLen)
	consumed += tableBytes
	return screen, consumed, nil
}

func readColorTable(buf []byte, n int) ColorTable {
	table := make(ColorTable, n)
	for i := 0; i < n; i++ {
		table[i] = Color{R: buf[i*3], G: buf[i*3+1], B: buf[i*3+2]}
	}
	return table
}

func le16(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

func putLE16(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}
