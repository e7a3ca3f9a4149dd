package lzw

import "github.com/palettestream/gifcodec/bitstream"

// Result is the outcome of decoding one LZW-compressed image payload.
type Result struct {
	Pixels []byte

	// EOISeen is false when the bitstream ran out before an EOI code was
	// read; the pixels produced so far are still returned (spec.md §4.2
	// "a stream ending without EOI is recoverable").
	EOISeen bool

	// FirstCodeWasClear records whether the very first code read was
	// CLEAR (both a leading CLEAR and a leading data code are accepted).
	FirstCodeWasClear bool

	// InvalidCodes counts codes seen that were greater than the table
	// size at the time (skipped rather than treated as fatal).
	InvalidCodes int

	// TrailingBytes holds whatever bytes of payload were never consumed
	// because decoding stopped at EOI (used to probe tolerant decoders
	// against deliberately appended extra data).
	TrailingBytes []byte
}

type decoder struct {
	minCodeSize int
	clear       int
	eoi         int
	table       []entry
	nextCode    int
	codeWidth   int
	prevCode    int // -1 = undefined (just cleared, or not yet started)
	scratch     []byte
}

func newDecoder(minCodeSize int) *decoder {
	d := &decoder{
		minCodeSize: minCodeSize,
		clear:       clearCode(minCodeSize),
		eoi:         eoiCode(minCodeSize),
		table:       newTable(minCodeSize),
	}
	d.reset()
	return d
}

func (d *decoder) reset() {
	d.nextCode = d.eoi + 1
	d.codeWidth = d.minCodeSize + 1
	d.prevCode = -1
}

// Decode decompresses a single image's LZW payload (the bytes following
// the lead min-code-size octet, already de-sub-blocked into one
// contiguous buffer by the container codec).
func Decode(minCodeSize int, payload []byte) Result {
	d := newDecoder(minCodeSize)
	r := bitstream.NewReader(payload)

	var out []byte
	first := true
	var result Result

	for {
		code, err := r.ReadCode(d.codeWidth)
		if err != nil {
			// Insufficient bits for the next code: a truncated stream,
			// tolerated per spec.md §4.2.
			break
		}

		if first {
			result.FirstCodeWasClear = code == d.clear
			first = false
		}

		if code == d.clear {
			d.reset()
			continue
		}
		if code == d.eoi {
			result.EOISeen = true
			break
		}

		switch {
		case code < d.nextCode:
			d.scratch = emit(d.table, code, d.scratch)
			out = append(out, d.scratch...)
			if d.prevCode != -1 && d.nextCode < MaxTableSize {
				d.table[d.nextCode] = entry{
					prefix: d.prevCode,
					suffix: firstByte(d.table, code),
					length: d.table[d.prevCode].length + 1,
				}
				d.growAfterInsert()
			}
		case code == d.nextCode:
			if d.prevCode == -1 {
				// No previous entry to extend from: spec.md §4.2 treats
				// this as the "no append occurs" edge case, so there is
				// nothing valid to emit either.
				result.InvalidCodes++
				continue
			}
			fb := firstByte(d.table, d.prevCode)
			d.scratch = emit(d.table, d.prevCode, d.scratch)
			out = append(out, d.scratch...)
			out = append(out, fb)
			if d.nextCode < MaxTableSize {
				d.table[d.nextCode] = entry{
					prefix: d.prevCode,
					suffix: fb,
					length: d.table[d.prevCode].length + 1,
				}
				d.growAfterInsert()
			}
		default:
			// code > nextCode: not decodable from anything written so
			// far. Permissive per spec.md §4.2/§7: diagnostic, skip.
			result.InvalidCodes++
			continue
		}

		d.prevCode = code
	}

	result.Pixels = out
	result.TrailingBytes = append([]byte(nil), payload[r.Pos():]...)
	return result
}

func (d *decoder) growAfterInsert() {
	d.nextCode++
	if d.nextCode == (1<<uint(d.codeWidth)) && d.codeWidth < MaxCodeWidth {
		d.codeWidth++
	}
}

func firstByte(table []entry, code int) byte {
	for table[code].prefix != -1 {
		code = table[code].prefix
	}
	return table[code].suffix
}
