package gif

import "bytes"

// outputBuffer is the append-only sink Encoder writes a container into.
// Nothing here ever seeks or rewrites an earlier byte, so a single
// bytes.Buffer is sufficient — there is no streaming-page requirement
// the way a page-rotating buffer would justify (cf. bytes.Buffer's own
// use as a one-shot output sink in pspoerri-geotiff2pmtiles's
// compressGzip and deepteams-webp's animation assembly).
type outputBuffer struct {
	buf bytes.Buffer
}

func newOutputBuffer() *outputBuffer {
	return &outputBuffer{}
}

// WriteByte writes a single byte to the buffer.
func (b *outputBuffer) WriteByte(v byte) {
	b.buf.WriteByte(v)
}

// WriteBytes appends a byte slice to the buffer.
func (b *outputBuffer) WriteBytes(data []byte) {
	b.buf.Write(data)
}

// WriteString writes a string's bytes verbatim, used for the signature
// and application identifier/auth code fields.
func (b *outputBuffer) WriteString(s string) {
	b.buf.WriteString(s)
}

// WriteUint16LE writes a 16-bit value in little-endian order.
func (b *outputBuffer) WriteUint16LE(v uint16) {
	b.buf.WriteByte(byte(v))
	b.buf.WriteByte(byte(v >> 8))
}

// Bytes returns all written data as a single contiguous slice.
func (b *outputBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (b *outputBuffer) Len() int {
	return b.buf.Len()
}
