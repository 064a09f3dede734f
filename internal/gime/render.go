package gime

import (
	"fmt"

	"github.com/nwiedmann/gime/internal/video"
)

// VRAMReader supplies scanline bytes from video memory. Implementations
// must return exactly n bytes; anything else is a collaborator programming
// error and the renderer panics.
type VRAMReader interface {
	ReadVRAM(addr uint32, n int) []byte
}

// FrameSink consumes one completed RGBA pixel buffer per field. The buffer
// is horizontal resolution wide and lines-per-field tall; borders are
// timing metadata, not pixels.
type FrameSink interface {
	Frame(pix []byte, w, h int)
}

// Renderer performs the per-scanline VRAM fetch and the generic pixel
// unpack + palette lookup into the output buffer. One loop parametrised by
// bits-per-pixel covers every colour depth.
type Renderer struct {
	vram VRAMReader
	pal  *video.Palette
	mon  *video.Monitor

	pix     []byte
	w, h    int
	row     int
	rowAddr uint32
}

func NewRenderer(vram VRAMReader, pal *video.Palette, mon *video.Monitor) *Renderer {
	return &Renderer{vram: vram, pal: pal, mon: mon}
}

// BeginField sizes the output buffer for the mode and latches the VRAM
// start address for the first scanline.
func (r *Renderer) BeginField(g GraphicsMode, start uint32) {
	w := g.HPixels
	if !g.Graphics {
		w = g.Columns * 8
	}
	h := g.VisibleLines
	if w != r.w || h != r.h {
		r.w, r.h = w, h
		r.pix = make([]byte, w*h*4)
	}
	r.row = 0
	r.rowAddr = start
}

// RenderScanline draws one active-display row. Bit-plane graphics rows are
// fetched and unpacked; alphanumeric and CoCo-compatibility rows are
// recognised as state only and filled with the border colour.
func (r *Renderer) RenderScanline(g GraphicsMode, borderCode byte) {
	if r.row >= r.h || r.w == 0 {
		return
	}
	if g.Graphics && !g.CoCo {
		r.renderBitPlaneRow(g)
	} else {
		r.fillRow(borderCode)
	}
	r.row++
	r.rowAddr += uint32(g.RowStride)
}

// FinishField hands the completed buffer to the sink and resets for the
// next field. Nothing is published while no displayable mode is set.
func (r *Renderer) FinishField(sink FrameSink) {
	if sink == nil || r.w == 0 || r.h == 0 {
		return
	}
	sink.Frame(r.pix, r.w, r.h)
}

// Width and Height report the current output buffer geometry.
func (r *Renderer) Width() int  { return r.w }
func (r *Renderer) Height() int { return r.h }

func (r *Renderer) renderBitPlaneRow(g GraphicsMode) {
	data := r.vram.ReadVRAM(r.rowAddr, g.BytesPerRow)
	if len(data) != g.BytesPerRow {
		panic(fmt.Sprintf("renderer: VRAM returned %d bytes, want %d", len(data), g.BytesPerRow))
	}
	bpp := g.BitsPerPixel()
	ppb := g.PixelsPerByte()
	mask := byte(1)<<bpp - 1

	out := r.pix[r.row*r.w*4:]
	x := 0
	for _, b := range data {
		// MSB-first: the leftmost pixel lives in the top bits.
		for p := 0; p < ppb && x < r.w; p++ {
			shift := uint(8 - bpp*(p+1))
			c := r.pal.RGBA(int(b >> shift & mask))
			o := x * 4
			out[o], out[o+1], out[o+2], out[o+3] = c.R, c.G, c.B, c.A
			x++
		}
	}
}

func (r *Renderer) fillRow(borderCode byte) {
	c := r.mon.Decode(borderCode)
	out := r.pix[r.row*r.w*4:]
	for x := 0; x < r.w; x++ {
		o := x * 4
		out[o], out[o+1], out[o+2], out[o+3] = c.R, c.G, c.B, c.A
	}
}
