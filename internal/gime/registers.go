package gime

import "github.com/nwiedmann/gime/internal/bitreg"

// Control-register offsets within the $FFxx window.
const (
	addrInit0    = 0x90
	addrInit1    = 0x91
	addrIRQENR   = 0x92
	addrFIRQENR  = 0x93
	addrTimerMSB = 0x94
	addrTimerLSB = 0x95
	addrVMode    = 0x98
	addrVRes     = 0x99
	addrBorder   = 0x9A
	addrVScroll  = 0x9C
	addrVOff1    = 0x9D
	addrVOff0    = 0x9E
	addrHOff     = 0x9F
	addrPARBase  = 0xA0 // $A0-$A7 executive set, $A8-$AF task set
	addrPalBase  = 0xB0 // $B0-$BF palette slots
	addrSAMBase  = 0xC0 // $C0-$DF set/clear pairs
	addrSAMEnd   = 0xDF
)

// INIT0 bits.
const (
	Init0CoCo   = 0x80 // CoCo compatibility mode
	Init0MMUEn  = 0x40 // MMU translation enable
	Init0IRQEn  = 0x20 // IRQ output enable
	Init0FIRQEn = 0x10 // FIRQ output enable
)

// Init0ROMMap is the 2-bit ROM map control field.
var Init0ROMMap = bitreg.Field{Mask: 0x03, Shift: 0}

// INIT1 bits.
const (
	Init1TimerFast = 0x20 // timer input select: set = fast 279ns clock
	Init1TaskSel   = 0x01 // task register select: set = task PAR set
)

// Interrupt source bits, shared layout between IRQENR and FIRQENR.
const (
	IntTimer     = 0x20
	IntHBorder   = 0x10
	IntVBorder   = 0x08
	IntSerial    = 0x04
	IntKeyboard  = 0x02
	IntCartridge = 0x01
)

// VMODE bits and fields.
const (
	VModeGraphics = 0x80 // bit-plane graphics when set, alphanumeric when clear
	VModeBurstInv = 0x20 // composite colour burst phase invert
	VModeMono     = 0x10 // monochrome on composite output
	VMode50Hz     = 0x08 // 50Hz field rate
)

var VModeLinesPerRow = bitreg.Field{Mask: 0x07, Shift: 0}

// VRES fields.
var (
	VResLinesPerField = bitreg.Field{Mask: 0x60, Shift: 5}
	VResHorizontal    = bitreg.Field{Mask: 0x1C, Shift: 2}
	VResColor         = bitreg.Field{Mask: 0x03, Shift: 0}
)

var (
	BorderColor   = bitreg.Field{Mask: 0x3F, Shift: 0}
	VScrollAmount = bitreg.Field{Mask: 0x0F, Shift: 0}
	HOffAmount    = bitreg.Field{Mask: 0x7F, Shift: 0}
)

// HOffVirtualEn enables the 256-byte horizontal virtual screen.
const HOffVirtualEn = 0x80

// Registers is the full chip control-register file. All registers are
// created zeroed at construction and live for the chip's lifetime.
type Registers struct {
	Init0   *bitreg.Register
	Init1   *bitreg.Register
	IRQENR  *bitreg.Register
	FIRQENR *bitreg.Register
	VMode   *bitreg.Register
	VRes    *bitreg.Register
	Border  *bitreg.Register
	VScroll *bitreg.Register
	VOff1   *bitreg.Register
	VOff0   *bitreg.Register
	HOff    *bitreg.Register
	Timer   *IntervalTimer
	SAM     *SAMRegister
}

func NewRegisters() *Registers {
	return &Registers{
		Init0:   bitreg.New(),
		Init1:   bitreg.New(),
		IRQENR:  bitreg.New(),
		FIRQENR: bitreg.New(),
		VMode:   bitreg.New(),
		VRes:    bitreg.New(),
		Border:  bitreg.New(),
		VScroll: bitreg.New(),
		VOff1:   bitreg.New(),
		VOff0:   bitreg.New(),
		HOff:    bitreg.New(),
		Timer:   NewIntervalTimer(),
		SAM:     NewSAMRegister(),
	}
}

// VerticalOffset assembles the 19-bit display start address from the two
// vertical offset registers.
func (r *Registers) VerticalOffset() uint32 {
	return uint32(r.VOff1.Value())<<11 | uint32(r.VOff0.Value())<<3
}

func (r *Registers) MMUEnabled() bool   { return r.Init0.Bit(Init0MMUEn) }
func (r *Registers) TaskSelected() bool { return r.Init1.Bit(Init1TaskSel) }
func (r *Registers) CoCoMode() bool     { return r.Init0.Bit(Init0CoCo) }

// LinesPerRow decodes the VMODE lines-per-row field into scanlines per
// character row (alphanumeric modes only; graphics modes use one).
func (r *Registers) LinesPerRow() int {
	switch r.VMode.Get(VModeLinesPerRow) {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 8
	case 3:
		return 9
	case 4:
		return 10
	case 5:
		return 11
	default:
		return 1 // unused encodings behave as "infinite"/one on hardware
	}
}
