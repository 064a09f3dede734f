package gime

// SAM logical bit indices. Pair i is programmed through bus offsets
// $C0+2i (clear) and $C0+2i+1 (set); the data byte is ignored.
const (
	SAMV0 = iota // legacy display mode, low bit
	SAMV1
	SAMV2
	SAMF0 // legacy display offset, low bit
	SAMF1
	SAMF2
	SAMF3
	SAMF4
	SAMF5
	SAMF6
	samSpare10
	samSpareR0
	SAMR1 // CPU clock rate: set = fast
	samSpare13
	samSpare14
	SAMTY // ROM/RAM map type
)

const samBits = 16

// SAMRegister holds the legacy SAM compatibility bits. Unlike the GIME
// registers proper these are not byte-addressed: each bit has a dedicated
// clear address (even offset) and set address (odd offset).
type SAMRegister struct {
	bits      uint16
	listeners []func(bit int, on bool)
}

func NewSAMRegister() *SAMRegister { return &SAMRegister{} }

// OnChange subscribes fn to individual bit flips.
func (s *SAMRegister) OnChange(fn func(bit int, on bool)) {
	s.listeners = append(s.listeners, fn)
}

// Poke applies a write to offset 0..31 relative to the $C0 decode base.
// Even offsets clear bit offset/2, odd offsets set it.
func (s *SAMRegister) Poke(offset byte) {
	bit := int(offset >> 1)
	s.set(bit, offset&1 != 0)
}

func (s *SAMRegister) set(bit int, on bool) {
	mask := uint16(1) << bit
	old := s.bits
	if on {
		s.bits |= mask
	} else {
		s.bits &^= mask
	}
	if s.bits == old {
		return
	}
	for _, fn := range s.listeners {
		fn(bit, on)
	}
}

// Bits returns the raw 16-bit state, mostly for host snapshots.
func (s *SAMRegister) Bits() uint16 { return s.bits }

// Bit reports one logical SAM bit.
func (s *SAMRegister) Bit(bit int) bool {
	if bit < 0 || bit >= samBits {
		return false
	}
	return s.bits&(1<<bit) != 0
}

// DisplayMode returns the legacy VDG display mode bits V2..V0.
func (s *SAMRegister) DisplayMode() byte { return byte(s.bits & 0x07) }

// DisplayOffset returns the legacy display offset bits F6..F0.
func (s *SAMRegister) DisplayOffset() byte { return byte(s.bits >> 3 & 0x7F) }

// FastCPU reports the R1 clock-rate bit: set selects the 1.79MHz rate.
func (s *SAMRegister) FastCPU() bool { return s.Bit(SAMR1) }
