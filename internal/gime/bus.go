package gime

import "github.com/nwiedmann/gime/internal/video"

// PhysicalMemory is the RAM sitting behind the MMU. The bus reaches it for
// every access outside the $FFxx control window.
type PhysicalMemory interface {
	ReadPhysical(addr uint32) byte
	WritePhysical(addr uint32, value byte)
}

// Bus routes processor accesses either through the MMU to physical memory
// or into the fixed control-register window at $FFxx, applying the
// documented read side effects along the way.
type Bus struct {
	regs *Registers
	mmu  *MMU
	pal  *video.Palette
	mem  PhysicalMemory

	// Unmapped $FFxx addresses fall through here: plain storage, no side
	// effects.
	scratch [256]byte
}

func NewBus(regs *Registers, mmu *MMU, pal *video.Palette, mem PhysicalMemory) *Bus {
	return &Bus{regs: regs, mmu: mmu, pal: pal, mem: mem}
}

// Read performs a processor read cycle.
func (b *Bus) Read(addr uint16) byte {
	addr &= 0xFFFF
	if addr>>8 != 0xFF {
		return b.mem.ReadPhysical(b.mmu.Map(addr, b.regs.TaskSelected(), b.regs.MMUEnabled()))
	}
	low := byte(addr)
	switch {
	case low == addrInit0:
		return b.regs.Init0.Value()
	case low == addrInit1:
		return b.regs.Init1.Value()
	case low == addrIRQENR:
		// Edge-triggered consumption: return the value, then clear.
		v := b.regs.IRQENR.Value()
		b.regs.IRQENR.Set(0)
		return v
	case low == addrFIRQENR:
		v := b.regs.FIRQENR.Value()
		b.regs.FIRQENR.Set(0)
		return v
	case low == addrTimerMSB:
		return b.regs.Timer.MSB()
	case low == addrTimerLSB:
		return b.regs.Timer.LSB()
	case low == addrVMode:
		return b.regs.VMode.Value()
	case low == addrVRes:
		return b.regs.VRes.Value()
	case low == addrBorder:
		return b.regs.Border.Value()
	case low == addrVScroll:
		return b.regs.VScroll.Value()
	case low == addrVOff1:
		return b.regs.VOff1.Value()
	case low == addrVOff0:
		return b.regs.VOff0.Value()
	case low == addrHOff:
		return b.regs.HOff.Value()
	case low >= addrPARBase && low < addrPalBase:
		return b.mmu.PAR(low >= addrPARBase+parsPerSet, int(low&0x07))
	case low >= addrPalBase && low < addrSAMBase:
		return b.pal.Code(int(low & 0x0F))
	default:
		return b.scratch[low]
	}
}

// Write performs a processor write cycle.
func (b *Bus) Write(addr uint16, value byte) {
	addr &= 0xFFFF
	if addr>>8 != 0xFF {
		b.mem.WritePhysical(b.mmu.Map(addr, b.regs.TaskSelected(), b.regs.MMUEnabled()), value)
		return
	}
	low := byte(addr)
	switch {
	case low == addrInit0:
		b.regs.Init0.Set(value)
	case low == addrInit1:
		b.regs.Init1.Set(value)
	case low == addrIRQENR:
		b.regs.IRQENR.Set(value)
	case low == addrFIRQENR:
		b.regs.FIRQENR.Set(value)
	case low == addrTimerMSB:
		b.regs.Timer.WriteMSB(value)
	case low == addrTimerLSB:
		b.regs.Timer.WriteLSB(value)
	case low == addrVMode:
		b.regs.VMode.Set(value)
	case low == addrVRes:
		b.regs.VRes.Set(value)
	case low == addrBorder:
		b.regs.Border.Set(value)
	case low == addrVScroll:
		b.regs.VScroll.Set(value)
	case low == addrVOff1:
		b.regs.VOff1.Set(value)
	case low == addrVOff0:
		b.regs.VOff0.Set(value)
	case low == addrHOff:
		b.regs.HOff.Set(value)
	case low >= addrPARBase && low < addrPalBase:
		b.mmu.SetPAR(low >= addrPARBase+parsPerSet, int(low&0x07), value)
	case low >= addrPalBase && low < addrSAMBase:
		b.pal.Set(int(low&0x0F), value)
	case low >= addrSAMBase && low <= addrSAMEnd:
		// Set/clear pair addressing; the data byte is ignored.
		b.regs.SAM.Poke(low - addrSAMBase)
	default:
		b.scratch[low] = value
	}
}
