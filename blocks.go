package gif

// Disposal is the frame disposal method carried by a graphic control
// extension. The container codec only preserves the value; it has no
// opinion on how a renderer composites frames (compositing is out of
// scope, spec.md §5 Non-goals).
type Disposal uint8

const (
	DisposalUnspecified       Disposal = 0
	DisposalNone              Disposal = 1
	DisposalRestoreBackground Disposal = 2
	DisposalRestorePrevious   Disposal = 3
	// 4..7 are reserved by the format and preserved verbatim when seen.
)

// Block is the tagged union of every top-level record a parsed container
// yields. Concrete types are distinguished with a type switch, not
// reflection: the dynamic dispatch the original recursive-descent Block
// hierarchy used maps onto Go as an interface plus a closed set of
// implementations (spec.md §9 design notes).
type Block interface {
	// Offset is the byte position, within the decoder's accumulated
	// buffer, where this block begins.
	Offset() int
	// Length is the total number of bytes this block occupies, including
	// any sub-block terminator.
	Length() int
	// Kind names the block for diagnostic and dump purposes.
	Kind() string
}

type blockSpan struct {
	offset int
	length int
}

func (b blockSpan) Offset() int { return b.offset }
func (b blockSpan) Length() int { return b.length }

// ImageFrame is one image descriptor plus its (lazily decoded) LZW
// payload location. Decode its pixels with Decoder.DecodeImage.
type ImageFrame struct {
	blockSpan

	Left, Top, Width, Height uint16
	Interlace                bool

	LocalColorTable        ColorTable
	LocalColorTableSorted  bool

	LZWMinCodeSize uint8

	// GraphicControl is the most recent graphic control extension seen
	// before this image, or nil if none preceded it (spec.md §9 open
	// question: an unconsumed graphic control attaches to the very next
	// image or plain text block; one that is never followed by either is
	// simply dropped).
	GraphicControl *GraphicControl

	// dataOffset/dataLength bound the raw sub-block-framed LZW payload
	// (after the leading min-code-size octet, which is kept in
	// LZWMinCodeSize) within the decoder's buffer, so pixels are only
	// materialized on demand.
	dataOffset int
	dataLength int
}

func (*ImageFrame) Kind() string { return "Image" }

// GraphicControl is a graphic control extension. It always refers
// forward to the next image or plain text block.
type GraphicControl struct {
	blockSpan

	Disposal          Disposal
	UserInput         bool
	HasTransparent    bool
	TransparentIndex  uint8
	DelayCentiseconds uint16
}

func (*GraphicControl) Kind() string { return "GraphicControl" }

// PlainText is a plain text extension: a caption rendered directly from
// the color table rather than as an image.
type PlainText struct {
	blockSpan

	Left, Top, Width, Height         uint16
	CellWidth, CellHeight            uint8
	ForegroundIndex, BackgroundIndex uint8
	Text                             []byte

	GraphicControl *GraphicControl
}

func (*PlainText) Kind() string { return "PlainText" }

// Comment is a comment extension: free-form text with no display
// semantics.
type Comment struct {
	blockSpan
	Text []byte
}

func (*Comment) Kind() string { return "Comment" }

// Application is a generic (unrecognized identifier/auth code) application
// extension. NETSCAPE2.0, ANIMEXTS1.0, XMP Data, and ICCRGBG1012 are
// recognized and surfaced as their own block types instead.
type Application struct {
	blockSpan

	Identifier string // 8 bytes
	AuthCode   string // 3 bytes
	SubBlocks  [][]byte
}

func (*Application) Kind() string { return "Application" }

// NetscapeLoop is a NETSCAPE2.0 application extension carrying an
// animation loop count and, optionally, a buffering-size hint — the same
// sub-block shapes AnimextsLoop recognizes for ANIMEXTS1.0.
type NetscapeLoop struct {
	blockSpan

	LoopCount  *uint16
	BufferSize *uint32
	Unknown    [][]byte
}

func (*NetscapeLoop) Kind() string { return "NetscapeLoop" }

// AnimextsLoop mirrors NetscapeLoop for the ANIMEXTS1.0 identifier, with
// the same loop-count and buffering-size sub-blocks.
type AnimextsLoop struct {
	blockSpan

	LoopCount  *uint16
	BufferSize *uint32
	Unknown    [][]byte
}

func (*AnimextsLoop) Kind() string { return "AnimextsLoop" }

// XMPMetadata is an "XMP DataXMP" application extension. Payload is the
// packet with the 258-byte magic trailer already stripped off.
type XMPMetadata struct {
	blockSpan
	Payload []byte
}

func (*XMPMetadata) Kind() string { return "XMPMetadata" }

// ICCProfile is an "ICCRGBG1012" application extension carrying an
// embedded color profile.
type ICCProfile struct {
	blockSpan
	Payload []byte
}

func (*ICCProfile) Kind() string { return "ICCProfile" }

// UnknownExtension is any extension block whose label byte is not one
// this codec recognizes. Its sub-blocks are preserved verbatim so a
// round-trip re-encode can reproduce the original bytes.
type UnknownExtension struct {
	blockSpan

	Label     byte
	SubBlocks [][]byte
}

func (*UnknownExtension) Kind() string { return "UnknownExtension" }

// UnknownBlock marks an introducer byte that is neither an image (0x2C),
// an extension (0x21), nor the trailer (0x3B). It carries no payload: it
// is a structural marker recording that parsing could not continue past
// this point.
type UnknownBlock struct {
	blockSpan
	Type byte
}

func (*UnknownBlock) Kind() string { return "Unknown" }

// Trailer marks the terminating 0x3B byte.
type Trailer struct{ blockSpan }

func (*Trailer) Kind() string { return "Trailer" }
