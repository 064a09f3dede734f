// Command gime hosts the graphics/MMU coprocessor core, either headless
// (run N fields, report a framebuffer checksum, optionally dump a PNG) or
// in an ebiten window.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/nwiedmann/gime/internal/emu"
	"github.com/nwiedmann/gime/internal/ui"
	"github.com/nwiedmann/gime/internal/video"
)

type cliFlags struct {
	Image   string
	Monitor string
	Scale   int
	Title   string
	Debug   bool
	Quiet   bool

	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.Image, "image", "", "raw binary to load into physical RAM at 0")
	flag.StringVar(&f.Monitor, "monitor", "rgb", "colour decode: rgb or composite")
	flag.IntVar(&f.Scale, "scale", 2, "window scale")
	flag.StringVar(&f.Title, "title", "gime", "window title")
	flag.BoolVar(&f.Debug, "debug", false, "debug logging")
	flag.BoolVar(&f.Quiet, "quiet", false, "errors only")

	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "fields to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func main() {
	flags := parseFlags()
	logger := createLogger(flags.Debug, flags.Quiet)

	if err := run(flags, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(flags cliFlags, logger *log.Logger) error {
	mon := video.RGBMonitor
	if strings.EqualFold(flags.Monitor, "composite") {
		mon = video.CompositeMonitor
	}

	m := emu.New(emu.Config{Monitor: mon}, logger)
	m.ApplyDefaultVideoState()

	if flags.Image != "" {
		if err := m.LoadImageFromFile(flags.Image, 0); err != nil {
			return fmt.Errorf("load image: %w", err)
		}
		logger.Info("image loaded", log.String("file", flags.Image))
	}

	if flags.Headless {
		return runHeadless(m, flags, logger)
	}

	app := ui.NewApp(ui.Config{Title: flags.Title, Scale: flags.Scale}, m, logger)
	return app.Run()
}

func runHeadless(m *emu.Machine, flags cliFlags, logger *log.Logger) error {
	frames := flags.Frames
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	w, h := m.FrameSize()
	crc := crc32.ChecksumIEEE(fb)
	irqs, firqs := m.InterruptCounts()

	logger.Info("headless run complete",
		log.String("frames", fmt.Sprint(frames)),
		log.String("elapsed", dur.Truncate(time.Millisecond).String()),
		log.String("fps", fmt.Sprintf("%.2f", float64(frames)/dur.Seconds())),
		log.String("resolution", fmt.Sprintf("%dx%d", w, h)),
		log.String("cycles", fmt.Sprintf("%.0f", m.Cycles())),
		log.String("irqs", fmt.Sprint(irqs)),
		log.String("firqs", fmt.Sprint(firqs)),
		log.String("fb_crc32", fmt.Sprintf("%08x", crc)))

	if flags.PNGOut != "" {
		if err := saveFramePNG(fb, w, h, flags.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		logger.Info("wrote framebuffer", log.String("file", flags.PNGOut))
	}

	if flags.Expect != "" {
		want := strings.TrimPrefix(strings.ToLower(flags.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("framebuffer CRC mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(fb []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(fb)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, fb)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
