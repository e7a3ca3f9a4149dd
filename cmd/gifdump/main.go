// Command gifdump prints a structural dump of a GIF container: one JSON
// record per top-level block, in stream order.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
	"github.com/tidwall/pretty"

	gif "github.com/palettestream/gifcodec"
)

func main() {
	pretty_ := flag.Bool("pretty", false, "pretty-print each block record")
	query := flag.String("query", "", "gjson path to extract from each block record instead of printing it whole")
	grep := flag.String("grep", "", "glob pattern; only print block records whose JSON line matches it")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gifdump [-pretty] [-query path] [-grep pattern] <file.gif>")
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "gifdump:", err)
		os.Exit(1)
	}

	dec := gif.NewDecoder()
	if err := dec.Feed(data); err != nil {
		fmt.Fprintln(os.Stderr, "gifdump:", err)
		os.Exit(1)
	}

	if dec.HasScreenDescriptor() {
		printRecord(dec.Screen(), *pretty_, *query, *grep)
	}

	for _, block := range dec.Blocks() {
		rec := describeBlock(dec, block)
		printRecord(rec, *pretty_, *query, *grep)
	}

	if dec.HasUnknownBlock() {
		fmt.Fprintln(os.Stderr, "gifdump: stopped at an unrecognized block, stream may be incomplete")
	}
	if !dec.IsComplete() && !dec.HasUnknownBlock() {
		fmt.Fprintln(os.Stderr, "gifdump: stream ended before the trailer")
	}
}

// blockRecord is the JSON shape written for each block. Only the fields
// relevant to the block's kind are populated; everything else is the
// zero value and omitted.
type blockRecord struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`

	Left      *uint16 `json:"left,omitempty"`
	Top       *uint16 `json:"top,omitempty"`
	Width     *uint16 `json:"width,omitempty"`
	Height    *uint16 `json:"height,omitempty"`
	Interlace *bool   `json:"interlace,omitempty"`

	Disposal          *string `json:"disposal,omitempty"`
	DelayCentiseconds *uint16 `json:"delay_cs,omitempty"`
	HasTransparent    *bool   `json:"has_transparent,omitempty"`
	TransparentIndex  *uint8  `json:"transparent_index,omitempty"`

	Text       string   `json:"text,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	LoopCount  *uint16  `json:"loop_count,omitempty"`
	BytesLen   *int     `json:"payload_bytes,omitempty"`
	Label      *uint8   `json:"label,omitempty"`
	Type       *uint8   `json:"type,omitempty"`
}

func describeBlock(dec *gif.Decoder, block gif.Block) blockRecord {
	rec := blockRecord{Kind: block.Kind(), Offset: block.Offset(), Length: block.Length()}

	switch b := block.(type) {
	case *gif.ImageFrame:
		rec.Left, rec.Top, rec.Width, rec.Height = &b.Left, &b.Top, &b.Width, &b.Height
		rec.Interlace = &b.Interlace
		if result, err := dec.DecodeImage(b); err == nil {
			n := len(result.Pixels)
			rec.BytesLen = &n
			if !result.EOISeen {
				fmt.Fprintln(os.Stderr, "gifdump:", fmt.Errorf("%w at offset %d", gif.ErrMissingEOI, b.Offset()))
			}
			if result.InvalidCodes > 0 {
				fmt.Fprintln(os.Stderr, "gifdump:", fmt.Errorf("%w: %d invalid codes at offset %d", gif.ErrUnexpectedLZWCode, result.InvalidCodes, b.Offset()))
			}
		}
	case *gif.GraphicControl:
		d := disposalName(b.Disposal)
		rec.Disposal = &d
		rec.DelayCentiseconds = &b.DelayCentiseconds
		rec.HasTransparent = &b.HasTransparent
		rec.TransparentIndex = &b.TransparentIndex
	case *gif.PlainText:
		rec.Left, rec.Top, rec.Width, rec.Height = &b.Left, &b.Top, &b.Width, &b.Height
		rec.Text = string(b.Text)
	case *gif.Comment:
		rec.Text = string(b.Text)
	case *gif.Application:
		rec.Identifier = b.Identifier + b.AuthCode
	case *gif.NetscapeLoop:
		rec.Identifier = "NETSCAPE2.0"
		rec.LoopCount = b.LoopCount
	case *gif.AnimextsLoop:
		rec.Identifier = "ANIMEXTS1.0"
		rec.LoopCount = b.LoopCount
	case *gif.XMPMetadata:
		rec.Identifier = "XMP Data"
		n := len(b.Payload)
		rec.BytesLen = &n
	case *gif.ICCProfile:
		rec.Identifier = "ICCRGBG1012"
		n := len(b.Payload)
		rec.BytesLen = &n
	case *gif.UnknownExtension:
		rec.Label = &b.Label
	case *gif.UnknownBlock:
		rec.Type = &b.Type
	}
	return rec
}

func disposalName(d gif.Disposal) string {
	switch d {
	case gif.DisposalNone:
		return "none"
	case gif.DisposalRestoreBackground:
		return "restore_background"
	case gif.DisposalRestorePrevious:
		return "restore_previous"
	default:
		return "unspecified"
	}
}

func printRecord(v interface{}, usePretty bool, query, grepPattern string) {
	raw, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gifdump:", err)
		return
	}

	if query != "" {
		raw = []byte(gjson.GetBytes(raw, query).Raw)
		if len(raw) == 0 {
			return
		}
	}

	line := string(raw)
	if grepPattern != "" && !match.Match(line, grepPattern) {
		return
	}

	if usePretty {
		fmt.Println(string(pretty.Pretty(raw)))
		return
	}
	fmt.Println(line)
}
