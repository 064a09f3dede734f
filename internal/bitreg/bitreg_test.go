package bitreg

import "testing"

func TestRegisterBitsAndValue(t *testing.T) {
	r := New()
	r.SetBit(0x80, true)
	r.SetBit(0x01, true)
	if got := r.Value(); got != 0x81 {
		t.Fatalf("value got %02x, want 81", got)
	}
	if !r.Bit(0x80) || !r.Bit(0x01) || r.Bit(0x40) {
		t.Fatalf("bit accessors disagree with value %02x", r.Value())
	}
	r.SetBit(0x80, false)
	if got := r.Value(); got != 0x01 {
		t.Fatalf("value after clear got %02x, want 01", got)
	}
}

func TestRegisterNotifyOnlyOnChange(t *testing.T) {
	r := New()
	events := 0
	r.OnChange(func(old, new byte) { events++ })

	r.Set(0x2C)
	r.Set(0x2C) // same value, no event
	if events != 1 {
		t.Fatalf("expected 1 event after duplicate write, got %d", events)
	}
	r.SetBit(0x20, true) // already set, no event
	if events != 1 {
		t.Fatalf("expected no event for redundant bit set, got %d", events)
	}
}

func TestFieldWriteBatchesNotifications(t *testing.T) {
	f := Field{Mask: 0x1C, Shift: 2}
	r := New()
	events := 0
	r.OnChange(func(old, new byte) { events++ })

	// Writing 0b111 into bits 4..2 flips three bits but must fire once.
	r.SetField(f, 0x07)
	if events != 1 {
		t.Fatalf("field write fired %d events, want 1", events)
	}
	if got := r.Get(f); got != 0x07 {
		t.Fatalf("field readback got %d, want 7", got)
	}
	if got := r.Value(); got != 0x1C {
		t.Fatalf("value got %02x, want 1C", got)
	}
	// Field writes leave unrelated bits alone.
	r.SetBit(0x80, true)
	r.SetField(f, 0x02)
	if got := r.Value(); got != 0x88 {
		t.Fatalf("value got %02x, want 88", got)
	}
}

func TestChangedHelper(t *testing.T) {
	if !Changed(0x00, 0x10, 0x10) {
		t.Fatalf("expected bit 4 flip to be reported")
	}
	if Changed(0x10, 0x1F, 0x10) {
		t.Fatalf("bit 4 did not flip, should not be reported")
	}
}
