package gime

import (
	"math"
	"testing"

	"github.com/nwiedmann/gime/internal/video"
)

func newTimingChip(cpu *testCPU, irq *testIRQ, sink *testSink) (*Chip, testRAM) {
	ram := newTestRAM()
	var cc CycleConsumer
	var il InterruptLine
	var fs FrameSink
	if cpu != nil {
		cc = cpu
	}
	if irq != nil {
		il = irq
	}
	if sink != nil {
		fs = sink
	}
	c := NewChip(Config{Monitor: video.RGBMonitor}, ram, ram, cc, il, fs)
	return c, ram
}

func TestFrameIsAlways262Lines(t *testing.T) {
	c, _ := newTimingChip(nil, nil, nil)
	c.Engine.StepField()
	if c.Engine.Frame() != 1 || c.Engine.Line() != 0 {
		t.Fatalf("after one field: frame=%d line=%d", c.Engine.Frame(), c.Engine.Line())
	}
	// Mode changes must not change the field length.
	c.Bus.Write(0xFF98, VModeGraphics)
	c.Bus.Write(0xFF99, 0x7E)
	c.Engine.StepField()
	if c.Engine.Frame() != 2 || c.Engine.Line() != 0 {
		t.Fatalf("after two fields: frame=%d line=%d", c.Engine.Frame(), c.Engine.Line())
	}
}

func TestFIRQPriorityOverIRQ(t *testing.T) {
	irq := &testIRQ{}
	c, _ := newTimingChip(nil, irq, nil)
	c.Bus.Write(0xFF90, Init0IRQEn|Init0FIRQEn)
	c.Bus.Write(0xFF92, IntHBorder)
	c.Bus.Write(0xFF93, IntHBorder)

	c.Engine.TickScanline()
	if irq.firq != 1 {
		t.Fatalf("expected one FIRQ, got %d", irq.firq)
	}
	if irq.irq != 0 {
		t.Fatalf("FIRQ has priority; IRQ fired %d times", irq.irq)
	}
}

func TestHorizontalBorderIRQPath(t *testing.T) {
	irq := &testIRQ{}
	c, _ := newTimingChip(nil, irq, nil)
	c.Bus.Write(0xFF90, Init0IRQEn)
	c.Bus.Write(0xFF92, IntHBorder)

	c.Engine.TickScanline()
	c.Engine.TickScanline()
	if irq.irq != 2 || irq.firq != 0 {
		t.Fatalf("expected one IRQ per scanline, got irq=%d firq=%d", irq.irq, irq.firq)
	}
}

func TestMaskedSourceRaisesNothing(t *testing.T) {
	irq := &testIRQ{}
	c, _ := newTimingChip(nil, irq, nil)
	// Source enabled but both chip outputs disabled.
	c.Bus.Write(0xFF92, IntHBorder)
	c.Bus.Write(0xFF93, IntHBorder)
	c.Engine.StepField()
	if irq.irq != 0 || irq.firq != 0 {
		t.Fatalf("masked outputs asserted irq=%d firq=%d", irq.irq, irq.firq)
	}
}

func TestTimerExpiryRaisesInterrupt(t *testing.T) {
	irq := &testIRQ{}
	c, _ := newTimingChip(nil, irq, nil)
	c.Bus.Write(0xFF90, Init0IRQEn)
	c.Bus.Write(0xFF92, IntTimer)
	c.Bus.Write(0xFF95, 5) // timer latch

	for i := 0; i < 5; i++ {
		c.Engine.TickScanline()
	}
	if irq.irq != 1 {
		t.Fatalf("expected one timer IRQ after 5 scanlines, got %d", irq.irq)
	}
}

func TestFastTimerInputSkipsScanlineDecrement(t *testing.T) {
	c, _ := newTimingChip(nil, nil, nil)
	c.Bus.Write(0xFF95, 5)
	c.Bus.Write(0xFF91, Init1TimerFast)
	for i := 0; i < 20; i++ {
		c.Engine.TickScanline()
	}
	if got := c.Regs.Timer.Counter(); got != 5 {
		t.Fatalf("fast-input timer should not tick per scanline, counter=%d", got)
	}
}

func TestCycleBudgetCarriesDrift(t *testing.T) {
	cpu := &testCPU{}
	c, _ := newTimingChip(cpu, nil, nil)

	const fields = 4
	for i := 0; i < fields; i++ {
		c.Engine.StepField()
	}
	exact := scanlineSeconds * slowClockHz * float64(fields*LinesPerFrame)
	if diff := math.Abs(exact - cpu.total); diff >= 1.0 {
		t.Fatalf("cumulative cycles drifted by %.4f (total=%.4f exact=%.4f)", diff, cpu.total, exact)
	}
	for i, n := range cpu.calls {
		if n != math.Trunc(n) {
			t.Fatalf("call %d announced fractional cycles %f", i, n)
		}
	}
}

func TestCycleBudgetDoublesAtFastClock(t *testing.T) {
	cpu := &testCPU{}
	c, _ := newTimingChip(cpu, nil, nil)
	c.Engine.TickScanline()
	slow := cpu.calls[0]

	c.Bus.Write(0xFFD9, 0) // SAM R1: fast CPU clock
	c.Engine.TickScanline()
	fast := cpu.calls[1]
	if fast < slow*1.9 {
		t.Fatalf("fast budget %.1f not about twice slow budget %.1f", fast, slow)
	}
}

func TestVerticalBorderInterruptOncePerField(t *testing.T) {
	irq := &testIRQ{}
	c, _ := newTimingChip(nil, irq, nil)
	c.Bus.Write(0xFF90, Init0FIRQEn)
	c.Bus.Write(0xFF93, IntVBorder)
	c.Engine.StepField()
	if irq.firq != 1 {
		t.Fatalf("expected one vertical-border FIRQ per field, got %d", irq.firq)
	}
}
