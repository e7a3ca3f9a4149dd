package lzw

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		minCodeSize int
		symbols     []byte
	}{
		{"single-pixel", 2, []byte{1}},
		{"four-colors", 3, []byte{2, 3, 4, 1}},
		{"empty", 2, nil},
		{"repeating", 3, bytes.Repeat([]byte{0, 1, 2}, 50)},
		{"max-depth", 8, []byte{0, 255, 128, 64, 0, 255}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded := Encode(c.symbols, DefaultOptions(c.minCodeSize))
			result := Decode(c.minCodeSize, encoded)

			if !result.EOISeen {
				t.Error("EOISeen = false, want true")
			}
			if !result.FirstCodeWasClear {
				t.Error("FirstCodeWasClear = false, want true (default starts with clear)")
			}
			if !bytes.Equal(result.Pixels, c.symbols) && !(len(result.Pixels) == 0 && len(c.symbols) == 0) {
				t.Errorf("pixels = %v, want %v", result.Pixels, c.symbols)
			}
		})
	}
}

func TestNoClearNoEOI(t *testing.T) {
	opts := Options{MinCodeSize: 2, MaxCodeSize: MaxCodeWidth, StartWithClear: false, EndWithEOI: false, ClearOnMaxWidth: true}
	encoded := Encode([]byte{1, 1}, opts)
	result := Decode(2, encoded)

	if result.FirstCodeWasClear {
		t.Error("FirstCodeWasClear = true, want false")
	}
	if result.EOISeen {
		t.Error("EOISeen = true, want false")
	}
	if !bytes.Equal(result.Pixels, []byte{1, 1}) {
		t.Errorf("pixels = %v, want [1 1]", result.Pixels)
	}
}

func TestEmptyImageEOIBeforeAnyData(t *testing.T) {
	opts := DefaultOptions(2)
	encoded := Encode(nil, opts)
	result := Decode(2, encoded)
	if !result.EOISeen {
		t.Error("EOISeen = false, want true")
	}
	if len(result.Pixels) != 0 {
		t.Errorf("pixels = %v, want empty", result.Pixels)
	}
}

func TestFirstPixelAfterClearIsSingleton(t *testing.T) {
	// After the leading CLEAR, the first emitted pixel must come from a
	// singleton entry (spec.md §8). This short stream has no mid-stream
	// CLEAR.
	opts := DefaultOptions(2)
	e := NewEncoder(opts)
	e.FeedAll([]byte{0, 1, 2, 3, 0, 1, 2, 3}) // forces repeats/new codes
	data := e.Finish()
	result := Decode(2, data)
	if !result.EOISeen {
		t.Fatal("EOISeen = false")
	}
	if !bytes.Equal(result.Pixels, []byte{0, 1, 2, 3, 0, 1, 2, 3}) {
		t.Fatalf("pixels = %v", result.Pixels)
	}
}

func Test4095CodeSaturation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	symbols := make([]byte, 100*100)
	for i := range symbols {
		symbols[i] = byte(r.Intn(16))
	}

	for _, clearOnMax := range []bool{true, false} {
		opts := Options{MinCodeSize: 4, MaxCodeSize: MaxCodeWidth, StartWithClear: true, EndWithEOI: true, ClearOnMaxWidth: clearOnMax}
		encoded := Encode(symbols, opts)
		result := Decode(4, encoded)
		if !result.EOISeen {
			t.Fatalf("clearOnMax=%v: EOISeen = false", clearOnMax)
		}
		if !bytes.Equal(result.Pixels, symbols) {
			t.Fatalf("clearOnMax=%v: round-trip mismatch", clearOnMax)
		}
	}
}

func TestReEncodeIsByteIdentical(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	symbols := make([]byte, 2000)
	for i := range symbols {
		symbols[i] = byte(r.Intn(8))
	}
	opts := DefaultOptions(3)
	first := Encode(symbols, opts)
	decoded := Decode(3, first).Pixels
	second := Encode(decoded, opts)
	if !bytes.Equal(first, second) {
		t.Fatal("re-encoding decoded pixels with the same options did not reproduce the original bytes")
	}
}

func TestTrailingBytesPreserved(t *testing.T) {
	opts := DefaultOptions(2)
	opts.ExtraTrailingData = []byte{0xAA, 0xBB, 0xCC}
	e := NewEncoder(opts)
	e.FeedAll([]byte{1, 0, 1})
	data := e.Finish()

	result := Decode(2, data)
	if !result.EOISeen {
		t.Fatal("EOISeen = false")
	}
	if len(result.TrailingBytes) == 0 {
		t.Error("expected non-empty TrailingBytes after EOI plus extra data")
	}
	if !bytes.Equal(result.Pixels, []byte{1, 0, 1}) {
		t.Errorf("pixels = %v, want [1 0 1]", result.Pixels)
	}
}

func TestTableNeverExceedsMaxSizeOrWidth(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	symbols := make([]byte, 5000)
	for i := range symbols {
		symbols[i] = byte(r.Intn(256))
	}
	opts := DefaultOptions(8)
	e := NewEncoder(opts)
	e.FeedAll(symbols)
	_ = e.Finish()
	if e.nextCode > MaxTableSize {
		t.Errorf("nextCode = %d, exceeds MaxTableSize %d", e.nextCode, MaxTableSize)
	}
	if e.codeWidth > MaxCodeWidth {
		t.Errorf("codeWidth = %d, exceeds MaxCodeWidth %d", e.codeWidth, MaxCodeWidth)
	}
}
