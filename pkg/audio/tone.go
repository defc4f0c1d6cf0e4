package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// tone is a fixed-length sine streamer with a linear attack/release
// envelope, so cues start and stop without clicks.
type tone struct {
	freq   float64
	gain   float64
	pos    int
	length int
	ramp   int
}

func newTone(freq float64, d time.Duration, gain float64) beep.Streamer {
	length := cueSampleRate.N(d)
	ramp := cueSampleRate.N(8 * time.Millisecond)
	if ramp*2 > length {
		ramp = length / 2
	}
	return &tone{freq: freq, gain: gain, length: length, ramp: ramp}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.length {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.length {
			break
		}
		env := 1.0
		switch {
		case t.pos < t.ramp:
			env = float64(t.pos) / float64(t.ramp)
		case t.length-t.pos < t.ramp:
			env = float64(t.length-t.pos) / float64(t.ramp)
		}
		v := math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(cueSampleRate)) * t.gain * env
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n = i + 1
	}
	return n, true
}

func (t *tone) Err() error { return nil }
