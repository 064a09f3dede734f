package emu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"

	"github.com/nwiedmann/gime/internal/gime"
	"github.com/nwiedmann/gime/internal/video"
)

// Machine hosts one chip instance together with everything the chip core
// treats as an external collaborator: 512KiB physical RAM (which doubles
// as the renderer's VRAM source), a cycle ledger standing in for the CPU,
// an interrupt counter, and the completed-frame pixel buffer.
type Machine struct {
	cfg Config
	log *log.Logger

	ram  []byte
	chip *gime.Chip

	fb   []byte
	w, h int

	cycles float64
	irqs   uint64
	firqs  uint64
}

func New(cfg Config, logger *log.Logger) *Machine {
	m := &Machine{
		cfg: cfg,
		log: logger,
		ram: make([]byte, gime.PhysicalMemorySize),
	}
	m.chip = gime.NewChip(gime.Config{Monitor: cfg.Monitor}, m, m, m, m, m)
	return m
}

// Chip exposes the hosted chip instance for register-poking collaborators.
func (m *Machine) Chip() *gime.Chip { return m.chip }

// Read and Write issue bus cycles the way the processor would.
func (m *Machine) Read(addr uint16) byte         { return m.chip.Bus.Read(addr) }
func (m *Machine) Write(addr uint16, value byte) { m.chip.Bus.Write(addr, value) }

// StepFrame advances the chip by one complete field.
func (m *Machine) StepFrame() {
	m.chip.Engine.StepField()
	if m.log != nil && m.chip.Engine.Frame()%60 == 0 {
		m.log.Debug("field complete",
			log.String("frame", fmt.Sprint(m.chip.Engine.Frame())),
			log.String("cycles", fmt.Sprintf("%.0f", m.cycles)))
	}
}

// Framebuffer returns the most recently completed RGBA pixel buffer.
func (m *Machine) Framebuffer() []byte { return m.fb }

// FrameSize returns the dimensions of the completed buffer.
func (m *Machine) FrameSize() (w, h int) { return m.w, m.h }

// Cycles returns the cumulative CPU cycle budget announced by the chip.
func (m *Machine) Cycles() float64 { return m.cycles }

// InterruptCounts returns how many IRQ and FIRQ assertions were observed.
func (m *Machine) InterruptCounts() (irq, firq uint64) { return m.irqs, m.firqs }

// LoadImage copies raw bytes into physical RAM, typically a display image
// placed where the vertical offset registers point.
func (m *Machine) LoadImage(data []byte, phys uint32) error {
	if int(phys)+len(data) > len(m.ram) {
		return fmt.Errorf("image of %d bytes does not fit at %05x", len(data), phys)
	}
	copy(m.ram[phys:], data)
	return nil
}

// LoadImageFromFile reads a raw binary and places it in physical RAM.
func (m *Machine) LoadImageFromFile(path string, phys uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadImage(data, phys)
}

// defaultPalette mirrors the chip's customary power-up palette codes.
var defaultPalette = [16]byte{
	18, 36, 11, 7, 63, 31, 9, 38,
	0, 18, 0, 63, 0, 18, 0, 38,
}

// ApplyDefaultVideoState programs a displayable graphics mode through the
// bus, the way host firmware would: 320 pixels by 16 colours over the full
// 225-line field, display starting at physical 0, default palette, black
// border.
func (m *Machine) ApplyDefaultVideoState() {
	m.Write(0xFF98, gime.VModeGraphics)
	m.Write(0xFF99, 0x7E)
	m.Write(0xFF9A, 0x00)
	m.Write(0xFF9D, 0x00)
	m.Write(0xFF9E, 0x00)
	for i, code := range defaultPalette {
		m.Write(uint16(0xFFB0+i), code)
	}
}

// SetMonitor switches the colour decode between RGB and composite.
func (m *Machine) SetMonitor(t video.MonitorType) { m.chip.SetMonitorType(t) }

// Monitor returns the active monitor type.
func (m *Machine) Monitor() video.MonitorType { return m.chip.Monitor.Type() }

// --- chip collaborator interfaces ---

// ReadPhysical and WritePhysical give the bus its RAM behind the MMU.
func (m *Machine) ReadPhysical(addr uint32) byte         { return m.ram[addr] }
func (m *Machine) WritePhysical(addr uint32, value byte) { m.ram[addr] = value }

// ReadVRAM serves the renderer's scanline fetches from the same RAM. The
// fetch address wraps at the top of physical memory, the way the hardware
// address counter rolls over, so any register-programmed offset is safe.
func (m *Machine) ReadVRAM(addr uint32, n int) []byte {
	start := int(addr) % len(m.ram)
	if start+n <= len(m.ram) {
		return m.ram[start : start+n]
	}
	out := make([]byte, n)
	k := copy(out, m.ram[start:])
	copy(out[k:], m.ram)
	return out
}

// NotifyCyclesElapsed accumulates the CPU cycle budget. A real processor
// core would burn this many cycles before the next scanline.
func (m *Machine) NotifyCyclesElapsed(cycles float64) { m.cycles += cycles }

func (m *Machine) AssertIRQ()  { m.irqs++ }
func (m *Machine) AssertFIRQ() { m.firqs++ }

// Frame receives the completed field from the renderer.
func (m *Machine) Frame(pix []byte, w, h int) {
	if len(m.fb) != len(pix) {
		m.fb = make([]byte, len(pix))
	}
	copy(m.fb, pix)
	m.w, m.h = w, h
}

// --- save/load state ---

type machineState struct {
	RAM []byte

	Init0, Init1       byte
	IRQENR, FIRQENR    byte
	VMode, VRes        byte
	Border, VScroll    byte
	VOff1, VOff0, HOff byte
	TimerMSB, TimerLSB byte
	SAMBits            uint16
	ExecPAR, TaskPAR   [8]byte
	Palette            [16]byte
}

// SaveState serialises RAM and the register file. This is host
// convenience; the chip itself persists nothing.
func (m *Machine) SaveState() []byte {
	c := m.chip
	s := machineState{
		RAM:      m.ram,
		Init0:    c.Regs.Init0.Value(),
		Init1:    c.Regs.Init1.Value(),
		IRQENR:   c.Regs.IRQENR.Value(),
		FIRQENR:  c.Regs.FIRQENR.Value(),
		VMode:    c.Regs.VMode.Value(),
		VRes:     c.Regs.VRes.Value(),
		Border:   c.Regs.Border.Value(),
		VScroll:  c.Regs.VScroll.Value(),
		VOff1:    c.Regs.VOff1.Value(),
		VOff0:    c.Regs.VOff0.Value(),
		HOff:     c.Regs.HOff.Value(),
		TimerMSB: c.Regs.Timer.MSB(),
		TimerLSB: c.Regs.Timer.LSB(),
		SAMBits:  c.Regs.SAM.Bits(),
	}
	for i := 0; i < 8; i++ {
		s.ExecPAR[i] = c.MMU.PAR(false, i)
		s.TaskPAR[i] = c.MMU.PAR(true, i)
	}
	for i := 0; i < 16; i++ {
		s.Palette[i] = c.Palette.Code(i)
	}
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

// LoadState restores a SaveState snapshot. Register writes go through the
// register objects so derived state (graphics mode, palette cache)
// recomputes on the way in.
func (m *Machine) LoadState(data []byte) error {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	copy(m.ram, s.RAM)
	c := m.chip
	c.Regs.Init0.Set(s.Init0)
	c.Regs.Init1.Set(s.Init1)
	c.Regs.IRQENR.Set(s.IRQENR)
	c.Regs.FIRQENR.Set(s.FIRQENR)
	c.Regs.VMode.Set(s.VMode)
	c.Regs.VRes.Set(s.VRes)
	c.Regs.Border.Set(s.Border)
	c.Regs.VScroll.Set(s.VScroll)
	c.Regs.VOff1.Set(s.VOff1)
	c.Regs.VOff0.Set(s.VOff0)
	c.Regs.HOff.Set(s.HOff)
	c.Regs.Timer.WriteMSB(s.TimerMSB)
	c.Regs.Timer.WriteLSB(s.TimerLSB)
	for bit := 0; bit < 16; bit++ {
		offset := byte(bit << 1)
		if s.SAMBits&(1<<bit) != 0 {
			offset |= 1
		}
		c.Regs.SAM.Poke(offset)
	}
	for i := 0; i < 8; i++ {
		c.MMU.SetPAR(false, i, s.ExecPAR[i])
		c.MMU.SetPAR(true, i, s.TaskPAR[i])
	}
	for i := 0; i < 16; i++ {
		c.Palette.Set(i, s.Palette[i])
	}
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	return os.WriteFile(path, m.SaveState(), 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
