// Package gime models a 1980s graphics/memory-management coprocessor:
// control registers, MMU address translation, scanline/frame timing with
// prioritised interrupts, and a pixel-unpacking renderer. The CPU, RAM
// and display surface are external collaborators reached through small
// interfaces; the package never touches a windowing or texture API.
package gime

import "github.com/nwiedmann/gime/internal/video"

// Config carries chip construction options.
type Config struct {
	Monitor video.MonitorType
}

// Chip is the assembled coprocessor instance. All sub-components are
// created once here and live for the chip's lifetime.
type Chip struct {
	Regs     *Registers
	MMU      *MMU
	Palette  *video.Palette
	Monitor  *video.Monitor
	Bus      *Bus
	Renderer *Renderer
	Engine   *Engine

	mode GraphicsMode
}

// NewChip wires the register bank, MMU, palette, bus, renderer and timing
// engine together. Collaborators may be nil where a host does not care
// (headless tests routinely pass a nil interrupt line or sink).
func NewChip(cfg Config, mem PhysicalMemory, vram VRAMReader,
	cpu CycleConsumer, irq InterruptLine, sink FrameSink) *Chip {

	c := &Chip{
		Regs:    NewRegisters(),
		MMU:     NewMMU(),
		Monitor: video.NewMonitor(cfg.Monitor),
	}
	c.Palette = video.NewPalette(c.Monitor)
	c.Bus = NewBus(c.Regs, c.MMU, c.Palette, mem)
	c.Renderer = NewRenderer(vram, c.Palette, c.Monitor)
	c.Engine = NewEngine(c.Regs, c.Renderer, c.Mode, cpu, irq, sink)

	// Any write touching a mode-contributing register triggers a full
	// recompute; ResolveMode itself keeps the prior snapshot for
	// unrecognised bit patterns.
	recompute := func(_, _ byte) { c.recomputeMode() }
	c.Regs.Init0.OnChange(recompute)
	c.Regs.VMode.OnChange(recompute)
	c.Regs.VRes.OnChange(recompute)
	c.Regs.HOff.OnChange(recompute)
	c.recomputeMode()
	return c
}

// Mode returns the current derived graphics-mode snapshot.
func (c *Chip) Mode() GraphicsMode { return c.mode }

func (c *Chip) recomputeMode() {
	c.mode = ResolveMode(c.mode,
		c.Regs.CoCoMode(),
		c.Regs.VMode.Bit(VModeGraphics),
		c.Regs.HOff.Bit(HOffVirtualEn),
		c.Regs.VRes.Value(),
		c.Regs.LinesPerRow())
}

// SetMonitorType switches RGB/composite decoding and refreshes the
// palette's RGBA cache to match.
func (c *Chip) SetMonitorType(t video.MonitorType) {
	c.Monitor.SetType(t)
	c.Palette.Redecode()
}
