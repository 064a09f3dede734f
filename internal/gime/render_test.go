package gime

import "testing"

// setupRenderChip programs a graphics mode, points the vertical offset at
// physical 0 and fills the default palette with distinct codes.
func setupRenderChip(t *testing.T, vres byte, sink *testSink) (*Chip, testRAM) {
	t.Helper()
	c, ram := newTimingChip(nil, nil, sink)
	c.Bus.Write(0xFF98, VModeGraphics)
	c.Bus.Write(0xFF99, vres)
	c.Bus.Write(0xFF9D, 0x00)
	c.Bus.Write(0xFF9E, 0x00)
	for i := 0; i < 16; i++ {
		c.Bus.Write(uint16(0xFFB0+i), byte(i*4))
	}
	return c, ram
}

func TestRender16ColourUnpack(t *testing.T) {
	sink := &testSink{}
	c, ram := setupRenderChip(t, 0x7E, sink) // 320x16 at 225 lines

	// First VRAM byte: pixel indices 9 then 3, MSB first.
	ram[0] = 0x93
	c.Engine.StepField()

	if sink.frames != 1 || sink.w != 320 || sink.h != 225 {
		t.Fatalf("sink got frames=%d %dx%d, want 1 320x225", sink.frames, sink.w, sink.h)
	}
	want0 := c.Palette.RGBA(9)
	want1 := c.Palette.RGBA(3)
	if sink.pix[0] != want0.R || sink.pix[1] != want0.G || sink.pix[2] != want0.B {
		t.Fatalf("pixel 0 got (%d,%d,%d)", sink.pix[0], sink.pix[1], sink.pix[2])
	}
	if sink.pix[4] != want1.R || sink.pix[5] != want1.G || sink.pix[6] != want1.B {
		t.Fatalf("pixel 1 got (%d,%d,%d)", sink.pix[4], sink.pix[5], sink.pix[6])
	}
}

func TestRender4ColourUnpack(t *testing.T) {
	sink := &testSink{}
	c, ram := setupRenderChip(t, 0x75, sink) // 320x4 at 225 lines

	ram[0] = 0b11_00_10_01 // pixels 3,0,2,1
	c.Engine.StepField()

	want := []int{3, 0, 2, 1}
	for i, idx := range want {
		col := c.Palette.RGBA(idx)
		o := i * 4
		if sink.pix[o] != col.R || sink.pix[o+1] != col.G || sink.pix[o+2] != col.B {
			t.Fatalf("pixel %d got (%d,%d,%d), want palette %d",
				i, sink.pix[o], sink.pix[o+1], sink.pix[o+2], idx)
		}
	}
}

func TestRender2ColourUnpack(t *testing.T) {
	sink := &testSink{}
	c, ram := setupRenderChip(t, 0x6C, sink) // 320x2 at 225 lines

	ram[0] = 0b10100001
	c.Engine.StepField()

	want := []int{1, 0, 1, 0, 0, 0, 0, 1}
	for i, idx := range want {
		col := c.Palette.RGBA(idx)
		o := i * 4
		if sink.pix[o] != col.R || sink.pix[o+1] != col.G || sink.pix[o+2] != col.B {
			t.Fatalf("pixel %d got (%d,%d,%d), want palette %d",
				i, sink.pix[o], sink.pix[o+1], sink.pix[o+2], idx)
		}
	}
}

func TestRenderRowAddressAdvancesByBytesPerRow(t *testing.T) {
	sink := &testSink{}
	c, ram := setupRenderChip(t, 0x7E, sink) // 160 bytes per row

	ram[160] = 0xF0 // first byte of the second scanline: index 15 then 0
	c.Engine.StepField()

	row1 := sink.pix[320*4:]
	want := c.Palette.RGBA(15)
	if row1[0] != want.R || row1[1] != want.G || row1[2] != want.B {
		t.Fatalf("second row pixel 0 got (%d,%d,%d)", row1[0], row1[1], row1[2])
	}
}

func TestRenderHonoursVerticalOffset(t *testing.T) {
	sink := &testSink{}
	c, ram := setupRenderChip(t, 0x7E, sink)
	c.Bus.Write(0xFF9D, 0x10) // start address 0x08000
	ram[0x08000] = 0xF0
	c.Engine.StepField()

	want := c.Palette.RGBA(15)
	if sink.pix[0] != want.R || sink.pix[1] != want.G || sink.pix[2] != want.B {
		t.Fatalf("offset fetch got (%d,%d,%d)", sink.pix[0], sink.pix[1], sink.pix[2])
	}
}

func TestAlphanumericRendersBorderOnly(t *testing.T) {
	sink := &testSink{}
	c, ram := newTimingChip(nil, nil, sink)
	ram[0] = 0xFF // would be visible if character rendering were attempted
	c.Bus.Write(0xFF9A, 0x3F) // white border
	c.Engine.StepField()

	if sink.frames != 1 {
		t.Fatalf("expected a frame for the reset alphanumeric mode")
	}
	// Reset mode: 32 columns -> 256 pixels wide, filled with border colour.
	if sink.w != 256 || sink.h != 192 {
		t.Fatalf("alpha buffer got %dx%d, want 256x192", sink.w, sink.h)
	}
	if sink.pix[0] != 0xFF || sink.pix[1] != 0xFF || sink.pix[2] != 0xFF {
		t.Fatalf("border fill got (%d,%d,%d), want white", sink.pix[0], sink.pix[1], sink.pix[2])
	}
}

func TestShortVRAMReadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for short VRAM read")
		}
	}()
	sink := &testSink{}
	c, _ := newTimingChip(nil, nil, sink)
	short := shortVRAM{}
	c.Renderer.vram = short
	c.Bus.Write(0xFF98, VModeGraphics)
	c.Bus.Write(0xFF99, 0x7E)
	c.Engine.StepField()
}

type shortVRAM struct{}

func (shortVRAM) ReadVRAM(addr uint32, n int) []byte { return make([]byte, n-1) }
