package gime

// IntervalTimer is the 12-bit countdown timer. Its reload latch is split
// across two bus addresses (bits 11-8 and 7-0); writing either half
// restarts the counter from the full latch. A zero latch disables the
// countdown entirely. Reaching zero fires the registered callbacks once
// and reloads the counter.
type IntervalTimer struct {
	latch   uint16
	counter uint16
	onZero  []func()
}

func NewIntervalTimer() *IntervalTimer { return &IntervalTimer{} }

// OnZero subscribes fn to timer expiry.
func (t *IntervalTimer) OnZero(fn func()) { t.onZero = append(t.onZero, fn) }

// WriteMSB stores bits 11-8 of the latch and restarts the counter.
func (t *IntervalTimer) WriteMSB(v byte) {
	t.latch = t.latch&0x00FF | uint16(v&0x0F)<<8
	t.counter = t.latch
}

// WriteLSB stores bits 7-0 of the latch and restarts the counter.
func (t *IntervalTimer) WriteLSB(v byte) {
	t.latch = t.latch&0x0F00 | uint16(v)
	t.counter = t.latch
}

// MSB returns bits 11-8 of the latch as last written.
func (t *IntervalTimer) MSB() byte { return byte(t.latch >> 8) }

// LSB returns bits 7-0 of the latch.
func (t *IntervalTimer) LSB() byte { return byte(t.latch) }

// Latch returns the full 12-bit reload value.
func (t *IntervalTimer) Latch() uint16 { return t.latch }

// Counter returns the live countdown value.
func (t *IntervalTimer) Counter() uint16 { return t.counter }

// Decrement counts down by one. On the transition to zero it fires the
// expiry callbacks and reloads from the latch. Does nothing while the
// latch is zero.
func (t *IntervalTimer) Decrement() {
	if t.latch == 0 {
		return
	}
	if t.counter > 0 {
		t.counter--
	}
	if t.counter == 0 {
		for _, fn := range t.onZero {
			fn()
		}
		t.counter = t.latch
	}
}
