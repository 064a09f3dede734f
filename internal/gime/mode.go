package gime

// GraphicsMode is the derived video-mode snapshot. It is recomputed
// whenever a contributing register changes and is never mutated directly.
type GraphicsMode struct {
	CoCo     bool // legacy compatibility mode; recognised as state only
	Graphics bool // bit-plane graphics when true, alphanumeric when false

	Columns      int // character columns in alphanumeric modes
	HPixels      int // horizontal resolution in graphics modes
	Colors       int // simultaneous colours (2, 4 or 16)
	BytesPerRow  int // VRAM bytes fetched per scanline
	RowStride    int // address step between scanlines; 256 on the virtual screen
	BorderPixels int // border width on each side, in output pixels
	VisibleLines int // active display scanlines per field
	BorderLines  int // border scanlines above and below the active area
	LinesPerRow  int // scanlines per character row (alphanumeric)
}

// maxWidth is the widest horizontal resolution; border widths are derived
// from it so every mode fills the same display window.
const maxWidth = 640

type gfxEntry struct {
	hpixels int
	colors  int
}

// graphicsTable is keyed on the VRES low five bits (HRES<<2 | CRES).
// Combinations absent from the table are chip-legal no-ops: the resolver
// keeps the previous snapshot.
var graphicsTable = map[byte]gfxEntry{
	// 2 colours, 8 pixels per byte
	0x04: {160, 2}, 0x08: {256, 2}, 0x0C: {320, 2}, 0x10: {512, 2}, 0x14: {640, 2},
	// 4 colours, 4 pixels per byte
	0x0D: {160, 4}, 0x11: {256, 4}, 0x15: {320, 4}, 0x19: {512, 4}, 0x1D: {640, 4},
	// 16 colours, 2 pixels per byte
	0x16: {160, 16}, 0x1A: {256, 16}, 0x1E: {320, 16},
}

// alphaTable maps the HRES field to character columns in alphanumeric
// modes; the colour resolution bits carry attribute info there instead.
var alphaTable = map[byte]int{
	0x00: 32,
	0x01: 40,
	0x05: 80,
}

type fieldEntry struct {
	visible int
	border  int
}

// fieldTable maps the VRES lines-per-field bits to visible/border line
// counts. Encoding 10 is reserved on the chip and keeps the prior state.
var fieldTable = map[byte]fieldEntry{
	0x00: {192, 16},
	0x01: {200, 12},
	0x03: {225, 0},
}

// PixelsPerByte returns how many pixels one VRAM byte unpacks to.
func (g GraphicsMode) PixelsPerByte() int {
	switch g.Colors {
	case 2:
		return 8
	case 4:
		return 4
	default:
		return 2
	}
}

// BitsPerPixel returns the width of one packed pixel index.
func (g GraphicsMode) BitsPerPixel() int { return 8 / g.PixelsPerByte() }

// hvenStride is the scanline address step while the horizontal virtual
// screen is enabled, independent of the mode's own row width.
const hvenStride = 256

// ResolveMode derives a GraphicsMode from the raw register state. It is a
// pure function; prev is returned unchanged for unrecognised bit patterns.
func ResolveMode(prev GraphicsMode, coco, graphics, hven bool, vres byte, linesPerRow int) GraphicsMode {
	field, ok := fieldTable[vres>>5&0x03]
	if !ok {
		return prev
	}

	if coco {
		// Legacy mode is carried as state; geometry stays whatever the
		// previous snapshot held so nothing downstream reconfigures.
		g := prev
		g.CoCo = true
		return g
	}

	if !graphics {
		cols, ok := alphaTable[vres>>2&0x07]
		if !ok {
			return prev
		}
		g := GraphicsMode{
			Columns:      cols,
			BytesPerRow:  cols * 2, // character + attribute byte
			VisibleLines: field.visible,
			BorderLines:  field.border,
			BorderPixels: (maxWidth - cols*8) / 2,
			LinesPerRow:  linesPerRow,
		}
		g.RowStride = g.BytesPerRow
		if hven {
			g.RowStride = hvenStride
		}
		return g
	}

	entry, ok := graphicsTable[vres&0x1F]
	if !ok {
		return prev
	}
	g := GraphicsMode{
		Graphics:     true,
		HPixels:      entry.hpixels,
		Colors:       entry.colors,
		VisibleLines: field.visible,
		BorderLines:  field.border,
		BorderPixels: (maxWidth - entry.hpixels) / 2,
		LinesPerRow:  1,
	}
	g.BytesPerRow = g.HPixels / g.PixelsPerByte()
	g.RowStride = g.BytesPerRow
	if hven {
		g.RowStride = hvenStride
	}
	return g
}
