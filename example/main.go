package main

import (
	"fmt"
	"os"

	gif "github.com/palettestream/gifcodec"
)

// main builds a small two-frame looping animation directly from indexed
// pixels and a palette, then decodes it back to confirm the round trip,
// demonstrating the encode/decode API without any image-library
// dependency (quantizing an arbitrary image down to a palette is outside
// this package's scope).
func main() {
	const width, height = 4, 4

	palette := gif.ColorTable{
		{R: 255, G: 255, B: 255},
		{R: 255, G: 0, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 0, G: 0, B: 0},
	}

	frameA := make([]byte, width*height)
	for i := range frameA {
		if i%2 == 0 {
			frameA[i] = 1
		}
	}
	frameB := make([]byte, width*height)
	for i := range frameB {
		if i%2 == 0 {
			frameB[i] = 2
		}
	}

	enc := gif.NewEncoder()
	enc.WriteHeader(true)
	if err := enc.WriteScreenDescriptor(gif.LogicalScreen{
		Width:            width,
		Height:           height,
		OriginalDepth:    8,
		GlobalColorTable: palette,
	}); err != nil {
		fatal(err)
	}
	enc.WriteNetscapeLoop(0, nil)

	for _, frame := range [][]byte{frameA, frameB} {
		enc.WriteGraphicControl(gif.GraphicControl{
			Disposal:          gif.DisposalNone,
			DelayCentiseconds: 50,
		})
		if err := enc.WriteImage(gif.ImageOptions{
			Width:       width,
			Height:      height,
			MinCodeSize: 2,
			Pixels:      frame,
		}); err != nil {
			fatal(err)
		}
	}
	enc.WriteTrailer()

	data := enc.Bytes()
	if err := os.WriteFile("animation.gif", data, 0644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %d bytes to animation.gif\n", len(data))

	dec := gif.NewDecoder()
	if err := dec.Feed(data); err != nil {
		fatal(err)
	}
	if !dec.IsComplete() {
		fatal(fmt.Errorf("decode did not reach the trailer"))
	}

	frames := 0
	for _, block := range dec.Blocks() {
		img, ok := block.(*gif.ImageFrame)
		if !ok {
			continue
		}
		frames++
		result, err := dec.DecodeImage(img)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("frame %d: %d pixels, eoi=%v\n", frames, len(result.Pixels), result.EOISeen)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
