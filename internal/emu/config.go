package emu

import "github.com/nwiedmann/gime/internal/video"

// Config contains settings that affect the hosted chip.
type Config struct {
	Monitor video.MonitorType // RGB or composite colour decode
}
