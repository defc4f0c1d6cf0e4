// Package tracker counts engine and interaction events for the stats
// endpoint.
package tracker

import "sync/atomic"

// Stats is a snapshot of the counters.
type Stats struct {
	Frames        int64 `json:"frames"`
	Hovers        int64 `json:"hovers"`
	Selects       int64 `json:"selects"`
	FocusSettled  int64 `json:"focusSettled"`
	StreamClients int64 `json:"streamClients"`
}

// Tracker tracks counters across the engine and the API boundary.
// Fields are accessed atomically; methods are safe from any goroutine.
type Tracker struct {
	frames       int64
	hovers       int64
	selects      int64
	focusSettled int64
	streamConns  int64
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{}
}

// TrackFrame increments the rendered-frame counter.
func (t *Tracker) TrackFrame() {
	atomic.AddInt64(&t.frames, 1)
}

// TrackHover increments the hover-event counter.
func (t *Tracker) TrackHover() {
	atomic.AddInt64(&t.hovers, 1)
}

// TrackSelect increments the selection counter.
func (t *Tracker) TrackSelect() {
	atomic.AddInt64(&t.selects, 1)
}

// TrackFocusSettled increments the completed-convergence counter.
func (t *Tracker) TrackFocusSettled() {
	atomic.AddInt64(&t.focusSettled, 1)
}

// TrackStreamOpen and TrackStreamClose maintain the live websocket
// client gauge.
func (t *Tracker) TrackStreamOpen() {
	atomic.AddInt64(&t.streamConns, 1)
}

func (t *Tracker) TrackStreamClose() {
	atomic.AddInt64(&t.streamConns, -1)
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Stats {
	return Stats{
		Frames:        atomic.LoadInt64(&t.frames),
		Hovers:        atomic.LoadInt64(&t.hovers),
		Selects:       atomic.LoadInt64(&t.selects),
		FocusSettled:  atomic.LoadInt64(&t.focusSettled),
		StreamClients: atomic.LoadInt64(&t.streamConns),
	}
}
