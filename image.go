package gif

const imageDescLen = 9 // after the 0x2C separator: left,top,width,height,packed

// parseImageDescriptor reads the 9-byte image descriptor (the separator
// byte has already been consumed by the caller) and, if the local color
// table flag is set, the table that follows it.
func parseImageDescriptor(buf []byte) (frame ImageFrame, consumed int, err error) {
	if len(buf) < imageDescLen {
		return ImageFrame{}, 0, ErrTruncated
	}
	frame.Left = le16(buf[0], buf[1])
	frame.Top = le16(buf[2], buf[3])
	frame.Width = le16(buf[4], buf[5])
	frame.Height = le16(buf[6], buf[7])

	packed := buf[8]
	hasLocalTable := packed&0x80 != 0
	frame.Interlace = packed&0x40 != 0
	frame.LocalColorTableSorted = packed&0x20 != 0
	sizeField := packed & 0x07

	consumed = imageDescLen
	if !hasLocalTable {
		return frame, consumed, nil
	}

	tableLen := sizeFieldToLength(sizeField)
	tableBytes := tableLen * 3
	if len(buf) < consumed+tableBytes {
		return ImageFrame{}, 0, ErrTruncated
	}
	frame.LocalColorTable = readColorTable(buf[consumed:consumed+tableBytes], tableLen)
	consumed += tableBytes
	return frame, consumed, nil
}

// InterlaceRows returns, for an image of the given height, the row
// indices in the order GIF's four-pass interlace scheme writes them:
// every 8th row starting at 0, then every 8th starting at 4, then every
// 4th starting at 2, then every 2nd starting at 1.
func InterlaceRows(height int) []int {
	rows := make([]int, 0, height)
	starts := []int{0, 4, 2, 1}
	steps := []int{8, 8, 4, 2}
	for pass := 0; pass < 4; pass++ {
		for row := starts[pass]; row < height; row += steps[pass] {
			rows = append(rows, row)
		}
	}
	return rows
}

// DeinterlaceRows returns the inverse mapping of InterlaceRows: position i
// in the returned slice is the position, within the interlaced pixel
// stream, at which display row i is stored.
func DeinterlaceRows(height int) []int {
	order := InterlaceRows(height)
	inverse := make([]int, height)
	for streamPos, displayRow := range order {
		inverse[displayRow] = streamPos
	}
	return inverse
}
