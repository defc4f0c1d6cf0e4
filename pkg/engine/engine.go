// Package engine runs the frame loop that owns all mutable animation
// state. Every mutation of the clock, the animator and the camera pose
// happens on the loop goroutine; pointer callbacks only enqueue logical
// state changes that the next tick consumes.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"globed/pkg/animator"
	"globed/pkg/camera"
	"globed/pkg/geom"
	"globed/pkg/picking"
	"globed/pkg/route"
	"globed/pkg/tracker"
)

// Sink receives the pure per-frame values the engine computes. Sinks
// must not block; they are called on the frame loop goroutine.
type Sink interface {
	PublishFrame(f *animator.FrameSnapshot)
	PublishCamera(p camera.Pose, converging bool)
}

// OrbitRig is the external manual camera widget whose target the engine
// drives during convergence. Recompute must be called after the target
// moves so manual and automatic control stay consistent.
type OrbitRig interface {
	SetTarget(p geom.Vec3)
	Recompute()
}

type focusRequest struct {
	position geom.Vec3
}

// Engine ties the route scene, animator, picking and focus controller
// into a single-threaded cooperative frame loop.
type Engine struct {
	model *route.Model
	anim  *animator.Animator
	picks *picking.Controller
	focus *camera.FocusController
	stats *tracker.Tracker
	log   *slog.Logger

	interval time.Duration
	requests chan focusRequest

	mu     sync.Mutex
	sinks  []Sink
	rig    OrbitRig
	radius float64
	clock  float64
}

// New wires an engine over its collaborators. interval is the frame
// tick period of the host loop.
func New(model *route.Model, anim *animator.Animator, picks *picking.Controller, focus *camera.FocusController, stats *tracker.Tracker, radius float64, interval time.Duration, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		model:    model,
		anim:     anim,
		picks:    picks,
		focus:    focus,
		stats:    stats,
		log:      log,
		interval: interval,
		requests: make(chan focusRequest, 16),
		radius:   radius,
	}
	picks.OnSelect(func(ev picking.SelectEvent) {
		e.RequestFocus(ev.Position)
	})
	return e
}

// AddSink registers a frame-value consumer.
func (e *Engine) AddSink(s Sink) {
	e.mu.Lock()
	e.sinks = append(e.sinks, s)
	e.mu.Unlock()
}

// SetOrbitRig attaches the external orbit widget adapter.
func (e *Engine) SetOrbitRig(rig OrbitRig) {
	e.mu.Lock()
	e.rig = rig
	e.mu.Unlock()
}

// RequestFocus enqueues a camera focus change toward the given surface
// position. It never blocks: if the queue is full the newest request
// wins, since a later selection overwrites an earlier one anyway.
func (e *Engine) RequestFocus(position geom.Vec3) {
	for {
		select {
		case e.requests <- focusRequest{position: position}:
			return
		default:
			select {
			case <-e.requests:
			default:
			}
		}
	}
}

// SetRadius rebuilds the scene for a new sphere radius and swaps it into
// the animator and picking controller. The route model memoizes, so a
// repeated radius is free.
func (e *Engine) SetRadius(radius float64) {
	scene := e.model.Build(radius)
	e.mu.Lock()
	e.radius = radius
	e.mu.Unlock()
	e.anim.SetScene(scene)
	e.picks.SetScene(scene)
	e.log.Info("scene rebuilt", "radius", radius, "arcs", len(scene.Arcs), "pins", len(scene.Pins))
}

// Clock returns the engine's monotonic elapsed time in seconds. It
// advances once per tick and is never reset.
func (e *Engine) Clock() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

// Run drives the frame loop until the context is cancelled. The frame
// interval dt is measured, not assumed, so a stalled tick produces one
// proportionally larger step instead of a slowdown.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("engine started", "interval", e.interval)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine stopped")
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			e.Step(dt)
		}
	}
}

// Step advances the engine by one frame of dt seconds. Exposed so tests
// and embedders can drive the loop manually.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	e.clock += dt
	clock := e.clock
	sinks := append([]Sink(nil), e.sinks...)
	rig := e.rig
	e.mu.Unlock()

	e.drainRequests()

	frame := e.anim.Advance(clock, dt)
	pose, converging, settled := e.focus.Update(dt)

	if (converging || settled) && rig != nil {
		rig.SetTarget(pose.LookAt)
		rig.Recompute()
	}
	if settled {
		e.stats.TrackFocusSettled()
	}
	e.stats.TrackFrame()

	for _, s := range sinks {
		s.PublishFrame(&frame)
		s.PublishCamera(pose, converging)
	}
}

func (e *Engine) drainRequests() {
	for {
		select {
		case req := <-e.requests:
			e.focus.Focus(req.position)
		default:
			return
		}
	}
}
