package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"

	"github.com/nwiedmann/gime/internal/emu"
	"github.com/nwiedmann/gime/internal/video"
)

// App is the ebiten front end: it steps the machine once per update and
// presents the completed frame buffer. All chip manipulation goes through
// the bus, the same way any register-poking control would.
type App struct {
	cfg    Config
	m      *emu.Machine
	log    *log.Logger
	tex    *ebiten.Image
	paused bool

	border byte
}

func NewApp(cfg Config, m *emu.Machine, logger *log.Logger) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(640*cfg.Scale, 225*cfg.Scale*2)
	return &App{cfg: cfg, m: m, log: logger}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	// Pause toggle (P), frame-step when paused (N)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}

	// Border colour cycle (B) writes the border register over the bus.
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		a.border = (a.border + 1) & 0x3F
		a.m.Write(0xFF9A, a.border)
	}

	// Monitor toggle (M)
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if a.m.Monitor() == video.RGBMonitor {
			a.m.SetMonitor(video.CompositeMonitor)
		} else {
			a.m.SetMonitor(video.RGBMonitor)
		}
	}

	// Save/load state (F5/F7)
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.m.SaveStateToFile("slot0.savestate"); err != nil && a.log != nil {
			a.log.Error("save state", log.Err(err))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) {
		if err := a.m.LoadStateFromFile("slot0.savestate"); err != nil && a.log != nil {
			a.log.Error("load state", log.Err(err))
		}
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := a.saveScreenshot(); err != nil && a.log != nil {
			a.log.Error("screenshot", log.Err(err))
		}
	}

	if !a.paused {
		a.m.StepFrame()
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	fb := a.m.Framebuffer()
	w, h := a.m.FrameSize()
	if len(fb) == 0 || w == 0 || h == 0 {
		ebitenutil.DebugPrintAt(screen, "no displayable mode set", 10, 10)
		return
	}
	if a.tex == nil || a.tex.Bounds().Dx() != w || a.tex.Bounds().Dy() != h {
		a.tex = ebiten.NewImage(w, h)
	}
	a.tex.WritePixels(fb)

	// Stretch whatever resolution the chip is producing over the window.
	var op ebiten.DrawImageOptions
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(w), float64(sh)/float64(h))
	screen.DrawImage(a.tex, &op)

	if a.paused {
		ebitenutil.DebugPrintAt(screen, "paused (N steps one frame)", 10, 10)
	}
}

func (a *App) Layout(outW, outH int) (int, int) {
	return 640 * a.cfg.Scale, 225 * a.cfg.Scale * 2
}

func (a *App) saveScreenshot() error {
	fb := a.m.Framebuffer()
	w, h := a.m.FrameSize()
	if len(fb) == 0 {
		return nil
	}
	img := &image.RGBA{
		Pix:    make([]byte, len(fb)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, fb)
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
