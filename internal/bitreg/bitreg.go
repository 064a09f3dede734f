package bitreg

// Register models one 8-bit hardware control register. Callers address it
// either as a whole byte, as named single bits (by mask), or as derived
// multi-bit fields. Listeners are notified at most once per mutating call,
// and only when the stored byte actually changes, so a field write that
// flips several underlying bits still produces a single event.
type Register struct {
	value     byte
	listeners []func(old, new byte)
}

// Field describes a multi-bit slice of a register. Mask selects the bits,
// Shift aligns the field's least significant bit to bit 0.
type Field struct {
	Mask  byte
	Shift uint
}

func New() *Register { return &Register{} }

// Value returns the whole register byte.
func (r *Register) Value() byte { return r.value }

// Set replaces the whole register byte. Listeners fire once if it changed.
func (r *Register) Set(v byte) {
	if v == r.value {
		return
	}
	old := r.value
	r.value = v
	for _, fn := range r.listeners {
		fn(old, v)
	}
}

// Bit reports whether any bit selected by mask is set.
func (r *Register) Bit(mask byte) bool { return r.value&mask != 0 }

// SetBit sets or clears the bits selected by mask.
func (r *Register) SetBit(mask byte, on bool) {
	v := r.value
	if on {
		v |= mask
	} else {
		v &^= mask
	}
	r.Set(v)
}

// Get extracts a derived multi-bit field, shifted down to bit 0.
func (r *Register) Get(f Field) byte { return (r.value & f.Mask) >> f.Shift }

// SetField writes a derived multi-bit field, leaving all other bits alone.
// The write lands in one listener notification regardless of how many
// underlying bits flip.
func (r *Register) SetField(f Field, v byte) {
	r.Set((r.value &^ f.Mask) | ((v << f.Shift) & f.Mask))
}

// OnChange subscribes fn to value changes. There is no unsubscription; the
// register set is built once at chip construction and lives for the chip's
// lifetime.
func (r *Register) OnChange(fn func(old, new byte)) {
	r.listeners = append(r.listeners, fn)
}

// Changed reports whether any bit selected by mask differs between two
// register snapshots. Useful inside OnChange listeners that only care
// about particular bits.
func Changed(old, new, mask byte) bool { return (old^new)&mask != 0 }
