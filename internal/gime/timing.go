package gime

import "math"

// CycleConsumer is the CPU collaborator. The engine announces how many of
// its cycles elapsed during the last scanline; the consumer is expected to
// burn that many before the next tick.
type CycleConsumer interface {
	NotifyCyclesElapsed(cycles float64)
}

// InterruptLine receives the chip's prioritised interrupt assertions.
type InterruptLine interface {
	AssertIRQ()
	AssertFIRQ()
}

// Frame timing. NTSC-approximate: 262 scanlines per field at 60Hz. The
// vertical blank absorbs whatever the per-mode border counts leave over,
// so a field is always exactly 262 lines.
const (
	LinesPerFrame = 262
	retraceLines  = 6

	scanlineSeconds = 63.695e-6

	// CPU clock rates derived from the 14.31818MHz master clock. The SAM
	// R1 bit switches between them.
	slowClockHz = 14318180.0 / 16
	fastClockHz = 14318180.0 / 8
)

// Engine is the scanline/frame driver: it advances the field state
// machine, runs the interval timer, evaluates interrupt policy, triggers
// rendering and accounts CPU cycles with fractional drift carried forward.
type Engine struct {
	regs *Registers
	rend *Renderer
	mode func() GraphicsMode

	cpu  CycleConsumer
	irq  InterruptLine
	sink FrameSink

	line  int
	frame uint64
	drift float64
}

func NewEngine(regs *Registers, rend *Renderer, mode func() GraphicsMode,
	cpu CycleConsumer, irq InterruptLine, sink FrameSink) *Engine {
	e := &Engine{regs: regs, rend: rend, mode: mode, cpu: cpu, irq: irq, sink: sink}
	// Timer expiry runs the same interrupt policy as the border events.
	regs.Timer.OnZero(func() { e.RaiseInterrupt(IntTimer) })
	return e
}

// Line returns the current scanline within the field.
func (e *Engine) Line() int { return e.line }

// Frame returns the number of completed fields.
func (e *Engine) Frame() uint64 { return e.frame }

type frameLayout struct {
	activeStart int
	activeEnd   int
}

func layoutFor(g GraphicsMode) frameLayout {
	blank := LinesPerFrame - retraceLines - g.VisibleLines - 2*g.BorderLines
	start := blank + g.BorderLines
	return frameLayout{activeStart: start, activeEnd: start + g.VisibleLines}
}

// TickScanline advances the chip by one scanline: interval timer, border
// interrupts, rendering, and the CPU cycle budget.
func (e *Engine) TickScanline() {
	g := e.mode()
	l := layoutFor(g)

	if e.line == 0 {
		e.rend.BeginField(g, e.regs.VerticalOffset())
	}

	// The fast timer input is clocked from the pixel clock, not the
	// horizontal sync, so per-scanline decrement only applies in the
	// slow mode.
	if !e.regs.Init1.Bit(Init1TimerFast) {
		e.regs.Timer.Decrement()
	}

	e.RaiseInterrupt(IntHBorder)

	if e.line >= l.activeStart && e.line < l.activeEnd {
		e.rend.RenderScanline(g, e.regs.Border.Get(BorderColor))
	}
	if e.line == l.activeEnd {
		e.RaiseInterrupt(IntVBorder)
	}

	e.line++
	if e.line >= LinesPerFrame {
		e.line = 0
		e.frame++
		e.rend.FinishField(e.sink)
	}

	e.requestCycles()
}

// StepField runs one complete 262-line field.
func (e *Engine) StepField() {
	for i := 0; i < LinesPerFrame; i++ {
		e.TickScanline()
	}
}

// RaiseInterrupt evaluates the interrupt policy for one source. FIRQ has
// priority: when both outputs qualify for the same event, only FIRQ is
// asserted. The enable bits double as the readable status, so a
// qualifying event is already visible to a later clear-on-read.
func (e *Engine) RaiseInterrupt(source byte) {
	if e.regs.Init0.Bit(Init0FIRQEn) && e.regs.FIRQENR.Bit(source) {
		if e.irq != nil {
			e.irq.AssertFIRQ()
		}
		return
	}
	if e.regs.Init0.Bit(Init0IRQEn) && e.regs.IRQENR.Bit(source) {
		if e.irq != nil {
			e.irq.AssertIRQ()
		}
	}
}

// requestCycles pushes the scanline's cycle budget to the CPU, scaled by
// the active clock rate. Whole cycles are announced; the fractional
// remainder carries to the next scanline so cumulative timing stays exact.
func (e *Engine) requestCycles() {
	if e.cpu == nil {
		return
	}
	hz := slowClockHz
	if e.regs.SAM.FastCPU() {
		hz = fastClockHz
	}
	exact := scanlineSeconds*hz + e.drift
	whole := math.Floor(exact)
	e.drift = exact - whole
	e.cpu.NotifyCyclesElapsed(whole)
}
