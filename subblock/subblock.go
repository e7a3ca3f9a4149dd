// Package subblock implements the GIF "data sub-block" framing: a
// concatenation of <length byte><payload> records terminated by a single
// zero-length record. It carries no opinion about what the payload means.
package subblock

// MaxPayload is the largest payload a single sub-block record may carry.
const MaxPayload = 255

// Reader walks a sub-block stream embedded in a byte buffer starting at a
// given offset, returning one payload slice per call.
type Reader struct {
	src []byte
	pos int
}

// NewReader creates a Reader over src starting at offset.
func NewReader(src []byte, offset int) *Reader {
	return &Reader{src: src, pos: offset}
}

// Pos returns the offset of the next unread length byte.
func (r *Reader) Pos() int { return r.pos }

// Next returns the next sub-block. done is true once the zero-length
// terminator has been consumed (payload is nil in that case). ok is false
// when the buffer does not yet hold the declared length — the caller
// should wait for more data and retry from the same Reader state.
func (r *Reader) Next() (payload []byte, done bool, ok bool) {
	if r.pos >= len(r.src) {
		return nil, false, false
	}
	n := int(r.src[r.pos])
	if n == 0 {
		r.pos++
		return nil, true, true
	}
	if r.pos+1+n > len(r.src) {
		return nil, false, false
	}
	payload = r.src[r.pos+1 : r.pos+1+n]
	r.pos += 1 + n
	return payload, false, true
}

// ReadAll consumes sub-blocks until the terminator, returning the payloads
// in order and the offset just past the terminator. ok is false if the
// stream runs out of data before the terminator.
func ReadAll(src []byte, offset int) (payloads [][]byte, end int, ok bool) {
	r := NewReader(src, offset)
	for {
		payload, done, readOK := r.Next()
		if !readOK {
			return nil, 0, false
		}
		if done {
			return payloads, r.Pos(), true
		}
		payloads = append(payloads, payload)
	}
}

// Writer packs a sequence of bytes into sub-block records of at most
// MaxPayload bytes each, and appends the terminator on Finish.
type Writer struct {
	out []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// WriteBytes appends buf as one or more sub-block records, splitting on
// MaxPayload boundaries. It never emits a zero-length record.
func (w *Writer) WriteBytes(buf []byte) {
	for len(buf) > 0 {
		n := len(buf)
		if n > MaxPayload {
			n = MaxPayload
		}
		w.out = append(w.out, byte(n))
		w.out = append(w.out, buf[:n]...)
		buf = buf[n:]
	}
}

// WriteBlock writes a single record verbatim; len(buf) must be in [1,255].
func (w *Writer) WriteBlock(buf []byte) {
	w.out = append(w.out, byte(len(buf)))
	w.out = append(w.out, buf...)
}

// Finish appends the zero-length terminator.
func (w *Writer) Finish() {
	w.out = append(w.out, 0)
}

// Bytes returns the bytes written so far (including the terminator, if
// Finish was called).
func (w *Writer) Bytes() []byte { return w.out }
