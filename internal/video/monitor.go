package video

import (
	"image/color"
	"math"
)

// MonitorType selects how 6-bit colour codes are decoded to RGBA.
type MonitorType int

const (
	// CompositeMonitor decodes codes through the NTSC hue-wheel table.
	CompositeMonitor MonitorType = iota
	// RGBMonitor decodes codes as three 2-bit channels.
	RGBMonitor
)

// Monitor is the stateless colour decoder sitting between palette codes and
// the RGBA values the renderer writes out. Two precomputed 64-entry tables
// cover the full code space for each monitor type.
type Monitor struct {
	typ MonitorType
}

func NewMonitor(t MonitorType) *Monitor { return &Monitor{typ: t} }

func (m *Monitor) Type() MonitorType     { return m.typ }
func (m *Monitor) SetType(t MonitorType) { m.typ = t }

// Decode maps a 6-bit colour code to RGBA for the selected monitor type.
func (m *Monitor) Decode(code byte) color.RGBA {
	code &= 0x3F
	if m.typ == RGBMonitor {
		return rgbTable[code]
	}
	return compositeTable[code]
}

var (
	rgbTable       [64]color.RGBA
	compositeTable [64]color.RGBA
)

// channelLevels scales a 2-bit channel value to 8 bits.
var channelLevels = [4]byte{0x00, 0x55, 0xAA, 0xFF}

func init() {
	for code := 0; code < 64; code++ {
		rgbTable[code] = decodeRGB(byte(code))
		compositeTable[code] = decodeComposite(byte(code))
	}
}

// decodeRGB treats the code as RGB with two bits per channel:
// bit5/bit2 red, bit4/bit1 green, bit3/bit0 blue.
func decodeRGB(code byte) color.RGBA {
	r := (code>>4)&0x02 | (code>>2)&0x01
	g := (code>>3)&0x02 | (code>>1)&0x01
	b := (code>>2)&0x02 | code&0x01
	return color.RGBA{channelLevels[r], channelLevels[g], channelLevels[b], 0xFF}
}

// Composite brightness/saturation tiers, indexed by code bits 4-5.
var (
	tierBrightness = [4]float64{0.50, 0.70, 0.87, 1.00}
	tierSaturation = [4]float64{1.00, 0.90, 0.72, 0.50}
)

// decodeComposite models the NTSC colour wheel: the low 4 bits pick a hue
// angle (hue 0 is the achromatic stop at the wheel boundary), bits 4-5 pick
// a brightness/saturation tier. Code 63 is pure white on real hardware,
// overriding what the hue formula would extrapolate.
func decodeComposite(code byte) color.RGBA {
	if code == 63 {
		return color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	}
	hue := code & 0x0F
	tier := (code >> 4) & 0x03
	if hue == 0 {
		grey := channelLevels[tier]
		return color.RGBA{grey, grey, grey, 0xFF}
	}
	// Hues 1..15 are 15 equal steps around the wheel.
	angle := float64(hue-1) * (360.0 / 15.0)
	return hsbToRGBA(angle, tierSaturation[tier], tierBrightness[tier])
}

// hsbToRGBA converts hue (degrees), saturation and brightness (0..1) to RGBA.
func hsbToRGBA(h, s, b float64) color.RGBA {
	h = math.Mod(h, 360) / 60
	sector := int(h)
	f := h - float64(sector)

	p := b * (1 - s)
	q := b * (1 - s*f)
	t := b * (1 - s*(1-f))

	var r, g, bl float64
	switch sector {
	case 0:
		r, g, bl = b, t, p
	case 1:
		r, g, bl = q, b, p
	case 2:
		r, g, bl = p, b, t
	case 3:
		r, g, bl = p, q, b
	case 4:
		r, g, bl = t, p, b
	default:
		r, g, bl = b, p, q
	}
	return color.RGBA{
		byte(math.Round(r * 255)),
		byte(math.Round(g * 255)),
		byte(math.Round(bl * 255)),
		0xFF,
	}
}
