// Package audio plays short interaction cues. It receives only the
// semantic hover and select events; everything else about sound design
// is contained here.
package audio

import (
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"globed/pkg/config"
	"globed/pkg/geom"
)

const cueSampleRate = beep.SampleRate(44100)

// Cues plays generated tones for pin interactions through the speaker.
// A failed speaker init disables cues for the session; playback problems
// are logged and never surface to the interaction path.
type Cues struct {
	enabled bool
	volume  float64
}

// NewCues initializes the speaker if cues are enabled in config.
func NewCues(cfg *config.AudioConfig) *Cues {
	c := &Cues{volume: geom.Clamp(cfg.Volume, 0, 1)}
	if !cfg.Enabled {
		return c
	}
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(50*time.Millisecond)); err != nil {
		slog.Warn("Audio cues disabled", "error", err)
		return c
	}
	c.enabled = true
	return c
}

// Hover plays the soft tick used when the pointer enters a pin.
func (c *Cues) Hover() {
	c.play(660, 70*time.Millisecond)
}

// Select plays the confirmation tone for a pin click.
func (c *Cues) Select() {
	c.play(880, 140*time.Millisecond)
}

func (c *Cues) play(freq float64, d time.Duration) {
	if !c.enabled {
		return
	}
	speaker.Play(newTone(freq, d, c.volume))
}
