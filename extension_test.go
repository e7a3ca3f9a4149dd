package gif

import (
	"bytes"
	"testing"
)

func baseEncoder(w, h uint16) *Encoder {
	e := NewEncoder()
	e.WriteHeader(true)
	_ = e.WriteScreenDescriptor(LogicalScreen{Width: w, Height: h, GlobalColorTable: ColorTable{{0, 0, 0}, {255, 255, 255}}})
	return e
}

func lastBlockOfType(d *Decoder, kind string) Block {
	var found Block
	for _, b := range d.Blocks() {
		if b.Kind() == kind {
			found = b
		}
	}
	return found
}

func TestGraphicControlAttachesToFollowingImage(t *testing.T) {
	e := baseEncoder(1, 1)
	e.WriteGraphicControl(GraphicControl{
		Disposal:          DisposalRestoreBackground,
		HasTransparent:    true,
		TransparentIndex:  1,
		DelayCentiseconds: 25,
	})
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	frame, ok := lastBlockOfType(d, "Image").(*ImageFrame)
	if !ok {
		t.Fatal("no image block parsed")
	}
	if frame.GraphicControl == nil {
		t.Fatal("GraphicControl not attached to following image")
	}
	gc := frame.GraphicControl
	if gc.Disposal != DisposalRestoreBackground || !gc.HasTransparent || gc.TransparentIndex != 1 || gc.DelayCentiseconds != 25 {
		t.Fatalf("graphic control = %+v", gc)
	}
}

func TestCommentRoundTrip(t *testing.T) {
	e := baseEncoder(1, 1)
	e.WriteComment([]byte("hand-written test comment"))
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	c, ok := lastBlockOfType(d, "Comment").(*Comment)
	if !ok {
		t.Fatal("no comment block parsed")
	}
	if !bytes.Equal(c.Text, []byte("hand-written test comment")) {
		t.Fatalf("comment text = %q", c.Text)
	}
}

func TestPlainTextRoundTrip(t *testing.T) {
	e := baseEncoder(10, 10)
	e.WritePlainText(PlainText{
		Left: 1, Top: 2, Width: 3, Height: 4,
		CellWidth: 5, CellHeight: 6,
		ForegroundIndex: 0, BackgroundIndex: 1,
		Text: []byte("hi"),
	})
	_ = e.WriteImage(ImageOptions{Width: 10, Height: 10, MinCodeSize: 2, Pixels: make([]byte, 100)})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	pt, ok := lastBlockOfType(d, "PlainText").(*PlainText)
	if !ok {
		t.Fatal("no plain text block parsed")
	}
	if pt.Left != 1 || pt.Top != 2 || pt.Width != 3 || pt.Height != 4 {
		t.Fatalf("plain text geometry = %+v", pt)
	}
	if string(pt.Text) != "hi" {
		t.Fatalf("plain text = %q", pt.Text)
	}
}

func TestXMPMetadataTrailerStripped(t *testing.T) {
	e := baseEncoder(1, 1)
	payload := []byte(`<x:xmpmeta>test</x:xmpmeta>`)
	e.WriteXMPMetadata(payload)
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	xmp, ok := lastBlockOfType(d, "XMPMetadata").(*XMPMetadata)
	if !ok {
		t.Fatal("no XMP block parsed")
	}
	if !bytes.Equal(xmp.Payload, payload) {
		t.Fatalf("xmp payload = %q, want %q", xmp.Payload, payload)
	}
}

func TestICCProfileRoundTrip(t *testing.T) {
	e := baseEncoder(1, 1)
	payload := bytes.Repeat([]byte{0xAB}, 40)
	e.WriteICCProfile(payload)
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	icc, ok := lastBlockOfType(d, "ICCProfile").(*ICCProfile)
	if !ok {
		t.Fatal("no ICC block parsed")
	}
	if !bytes.Equal(icc.Payload, payload) {
		t.Fatal("ICC payload mismatch")
	}
}

func TestGenericApplicationExtension(t *testing.T) {
	e := baseEncoder(1, 1)
	e.WriteApplication("CUSTOMAP", "XYZ", [][]byte{[]byte("abc")})
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	app, ok := lastBlockOfType(d, "Application").(*Application)
	if !ok {
		t.Fatal("no application block parsed")
	}
	if app.Identifier != "CUSTOMAP" || app.AuthCode != "XYZ" {
		t.Fatalf("application = %+v", app)
	}
	if len(app.SubBlocks) != 1 || string(app.SubBlocks[0]) != "abc" {
		t.Fatalf("sub blocks = %v", app.SubBlocks)
	}
}

func TestUnknownExtensionPreservesSubBlocks(t *testing.T) {
	e := baseEncoder(1, 1)
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(0x77) // unrecognized label
	e.out.WriteByte(3)
	e.out.WriteBytes([]byte("xyz"))
	e.out.WriteByte(0)
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	ext, ok := lastBlockOfType(d, "UnknownExtension").(*UnknownExtension)
	if !ok {
		t.Fatal("no unknown extension block parsed")
	}
	if ext.Label != 0x77 {
		t.Fatalf("label = 0x%02x, want 0x77", ext.Label)
	}
	if len(ext.SubBlocks) != 1 || string(ext.SubBlocks[0]) != "xyz" {
		t.Fatalf("sub blocks = %v", ext.SubBlocks)
	}
}

func TestMalformedGraphicControlRecoversAsGenericExtension(t *testing.T) {
	// A graphic control extension whose leading sub-block length isn't
	// the expected 4 is an InvalidExtension (spec.md §7): soft recovery,
	// not a fatal parse error, so the stream still reaches the trailer.
	e := baseEncoder(1, 1)
	e.out.WriteByte(extensionIntroducer)
	e.out.WriteByte(labelGraphicControl)
	e.out.WriteByte(2) // wrong length; a real GCE always declares 4
	e.out.WriteBytes([]byte{0, 0})
	e.out.WriteByte(0)
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()

	d := NewDecoder()
	if err := d.Feed(e.Bytes()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !d.IsComplete() {
		t.Fatal("malformed graphic control extension should not abort parsing")
	}
	ext, ok := lastBlockOfType(d, "UnknownExtension").(*UnknownExtension)
	if !ok {
		t.Fatal("malformed graphic control extension was not retained as a generic extension")
	}
	if ext.Label != labelGraphicControl {
		t.Fatalf("label = 0x%02x, want 0x%02x", ext.Label, labelGraphicControl)
	}
	frame, ok := lastBlockOfType(d, "Image").(*ImageFrame)
	if !ok {
		t.Fatal("no image block parsed after the malformed extension")
	}
	if frame.GraphicControl != nil {
		t.Fatal("a malformed graphic control extension should not attach to the following image")
	}
}

func TestGraphicControlFeedIncrementallyDoesNotMisreadTruncation(t *testing.T) {
	// Before the size byte arrives, parseGraphicControl must report
	// ErrTruncated (wait for more data), not ErrInvalidExtension — there
	// is no data yet to judge as malformed.
	e := baseEncoder(1, 1)
	e.WriteGraphicControl(GraphicControl{Disposal: DisposalNone, DelayCentiseconds: 10})
	_ = e.WriteImage(ImageOptions{Width: 1, Height: 1, MinCodeSize: 2, Pixels: []byte{0}})
	e.WriteTrailer()
	data := e.Bytes()

	d := NewDecoder()
	for i := 0; i < len(data); i++ {
		if err := d.Feed(data[i : i+1]); err != nil {
			t.Fatalf("Feed byte %d: %v", i, err)
		}
	}
	if !d.IsComplete() {
		t.Fatal("decoder did not reach completion when fed one byte at a time")
	}
	frame, ok := lastBlockOfType(d, "Image").(*ImageFrame)
	if !ok || frame.GraphicControl == nil {
		t.Fatal("graphic control extension did not attach correctly after incremental feed")
	}
}
