package video

import (
	"fmt"
	"image/color"
)

// Slots is the number of palette entries the chip exposes on the bus.
const Slots = 16

// Palette is the 16-slot indirection between pixel indices and colour
// codes. Alongside the raw 6-bit codes it keeps a cached RGBA table, which
// is what the renderer consults; a slot write re-decodes only that slot.
type Palette struct {
	codes [Slots]byte
	cache [Slots]color.RGBA
	mon   *Monitor
}

func NewPalette(mon *Monitor) *Palette {
	p := &Palette{mon: mon}
	p.Redecode()
	return p
}

// Set stores a 6-bit colour code in a slot and refreshes its cached RGBA.
// Slot indices outside 0..15 violate the bus decode and panic.
func (p *Palette) Set(slot int, code byte) {
	if slot < 0 || slot >= Slots {
		panic(fmt.Sprintf("palette: slot %d out of range", slot))
	}
	p.codes[slot] = code & 0x3F
	p.cache[slot] = p.mon.Decode(p.codes[slot])
}

// Code returns the raw 6-bit code stored in a slot.
func (p *Palette) Code(slot int) byte {
	if slot < 0 || slot >= Slots {
		panic(fmt.Sprintf("palette: slot %d out of range", slot))
	}
	return p.codes[slot]
}

// RGBA returns the cached decoded colour for a slot.
func (p *Palette) RGBA(slot int) color.RGBA {
	if slot < 0 || slot >= Slots {
		panic(fmt.Sprintf("palette: slot %d out of range", slot))
	}
	return p.cache[slot]
}

// Redecode rebuilds the whole RGBA cache. Needed after the monitor type
// changes, since the codes themselves are monitor-independent.
func (p *Palette) Redecode() {
	for i, c := range p.codes {
		p.cache[i] = p.mon.Decode(c)
	}
}
