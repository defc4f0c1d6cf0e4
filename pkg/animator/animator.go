// Package animator computes the per-frame visual values for arcs and
// pins: scrolling dash offsets, comet trail markers and pin pulse
// scales. It outputs plain values; applying them to render objects is
// the adapter's job.
package animator

import (
	"math"

	"globed/pkg/geom"
	"globed/pkg/route"
)

// Params are the animation tunables. The wobble and pulse amplitudes are
// purely aesthetic; zero disables them without affecting anything else.
type Params struct {
	// DashRate is how fast dash offsets scroll, in dash-pattern units
	// per second.
	DashRate float64
	// CometSpeed is the comet's travel rate in arc traversals per second.
	CometSpeed float64
	// CometSpacing is the fraction of the arc between trailing markers.
	CometSpacing float64
	// TrailCount is the number of comet markers per arc, head included.
	TrailCount int
	// WobbleAmplitude scales the sine wobble on the head marker's size.
	WobbleAmplitude float64
	// PulseAmplitude and PulseRate shape the sinusoidal pin pulse.
	PulseAmplitude float64
	PulseRate      float64
}

// CometMarker is one marker of a comet trail. Size and Opacity are
// relative values in the renderer's own units.
type CometMarker struct {
	Position geom.Vec3 `json:"position"`
	Size     float64   `json:"size"`
	Opacity  float64   `json:"opacity"`
}

// ArcFrame holds one arc's animated values for the current frame.
type ArcFrame struct {
	ID         string        `json:"id"`
	DashOffset float64       `json:"dashOffset"`
	Comet      []CometMarker `json:"comet"`
}

// PinFrame holds one pin's animated values for the current frame.
type PinFrame struct {
	Name  string  `json:"name"`
	Scale float64 `json:"scale"`
}

// FrameSnapshot is the complete set of animated values for one frame.
type FrameSnapshot struct {
	Clock float64    `json:"clock"`
	Arcs  []ArcFrame `json:"arcs"`
	Pins  []PinFrame `json:"pins"`
}

// Animator advances the scene's animated values once per rendered frame.
// It keeps no history beyond the running dash offsets; everything else
// is recomputed from the clock.
type Animator struct {
	scene *route.Scene
	prm   Params
	dash  map[string]float64
}

// New creates an animator for the given scene.
func New(scene *route.Scene, prm Params) *Animator {
	if prm.TrailCount < 1 {
		prm.TrailCount = 1
	}
	return &Animator{
		scene: scene,
		prm:   prm,
		dash:  make(map[string]float64, len(scene.Arcs)),
	}
}

// SetScene swaps in a rebuilt scene (radius change). Dash offsets carry
// over for arcs whose id survives the rebuild.
func (a *Animator) SetScene(scene *route.Scene) {
	a.scene = scene
	kept := make(map[string]float64, len(scene.Arcs))
	for _, seg := range scene.Arcs {
		kept[seg.ID] = a.dash[seg.ID]
	}
	a.dash = kept
}

// Advance computes the frame values for the given monotonic clock and
// frame interval. Dash offsets decrease monotonically at a rate scaled
// by dt, so the traveling-dashes illusion is frame-rate independent.
func (a *Animator) Advance(clock, dt float64) FrameSnapshot {
	snap := FrameSnapshot{
		Clock: clock,
		Arcs:  make([]ArcFrame, 0, len(a.scene.Arcs)),
		Pins:  make([]PinFrame, 0, len(a.scene.Pins)),
	}

	for i, seg := range a.scene.Arcs {
		a.dash[seg.ID] -= a.prm.DashRate * dt
		snap.Arcs = append(snap.Arcs, ArcFrame{
			ID:         seg.ID,
			DashOffset: a.dash[seg.ID],
			Comet:      a.comet(seg, i, clock),
		})
	}

	for i, pin := range a.scene.Pins {
		// Phase-shift each pin by its index so the pulses are not
		// synchronized across the globe.
		scale := 1 + a.prm.PulseAmplitude*math.Sin(clock*a.prm.PulseRate+float64(i)*0.7)
		snap.Pins = append(snap.Pins, PinFrame{Name: pin.Name, Scale: scale})
	}

	return snap
}

// comet samples the trailing markers for one arc. The head marker leads
// at u0 and each trailing marker follows CometSpacing behind the one
// before it, wrapping around the arc ends.
func (a *Animator) comet(seg route.ArcSegment, index int, clock float64) []CometMarker {
	u0 := geom.Frac(clock*a.prm.CometSpeed + seg.Phase)

	markers := make([]CometMarker, a.prm.TrailCount)
	for k := range markers {
		u := geom.Frac(u0 - float64(k)*a.prm.CometSpacing)
		size := 1 - 0.3*float64(k)
		if size < 0.1 {
			size = 0.1
		}
		if k == 0 && a.prm.WobbleAmplitude > 0 {
			size += a.prm.WobbleAmplitude * math.Sin(clock*3+float64(index))
		}
		opacity := 1 - 0.35*float64(k)
		if opacity < 0.05 {
			opacity = 0.05
		}
		markers[k] = CometMarker{
			Position: seg.Curve.PointAt(u),
			Size:     size,
			Opacity:  opacity,
		}
	}
	return markers
}
