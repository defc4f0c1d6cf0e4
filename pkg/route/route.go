// Package route derives the renderable scene (arc segments and pins)
// from the ordered tour of waypoint names.
package route

import (
	"fmt"
	"log/slog"
	"sync"

	orbgeo "github.com/paulmach/orb/geo"

	"globed/pkg/arc"
	"globed/pkg/geo"
	"globed/pkg/geom"
)

// ArcSegment is one leg of the tour, immutable once built for a radius.
type ArcSegment struct {
	ID     string      `json:"id"`
	From   string      `json:"from"`
	To     string      `json:"to"`
	Phase  float64     `json:"phase"`
	Points []geom.Vec3 `json:"points"`
	Curve  *arc.Curve  `json:"-"`
}

// Pin marks one distinct waypoint of the tour on the globe.
type Pin struct {
	Name     string    `json:"name"`
	Position geom.Vec3 `json:"position"`
}

// Scene is the derived model the renderer and animator consume.
type Scene struct {
	Radius   float64      `json:"radius"`
	GroundKm float64      `json:"groundKm"`
	Arcs     []ArcSegment `json:"arcs"`
	Pins     []Pin        `json:"pins"`
}

// Params controls scene derivation.
type Params struct {
	// LiftRatio is how far arc control points are pushed above the chord
	// midpoint, relative to its distance from the sphere center.
	LiftRatio float64
	// SampleCount is the fixed number of points per arc polyline.
	SampleCount int
	// PhaseStep staggers comet animation between consecutive tour legs.
	PhaseStep float64
	// PinLift scales the pin render radius slightly above the surface so
	// pins do not z-fight with the sphere.
	PinLift float64
}

// Model builds scenes from the static waypoint table and tour. The build
// is deterministic and memoized on radius; it is never recomputed
// per frame.
type Model struct {
	table *geo.Table
	tour  []string
	prm   Params
	log   *slog.Logger

	mu     sync.Mutex
	cached *Scene
}

// New creates a route model. The tour may reference names missing from
// the table and may repeat names; both are handled at build time.
func New(table *geo.Table, tour []string, prm Params, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	if prm.SampleCount < 2 {
		prm.SampleCount = 2
	}
	return &Model{
		table: table,
		tour:  append([]string(nil), tour...),
		prm:   prm,
		log:   log,
	}
}

// Tour returns the configured ordered waypoint names.
func (m *Model) Tour() []string {
	return append([]string(nil), m.tour...)
}

// Build derives the scene for the given sphere radius. Consecutive pairs
// with an unresolved name are skipped silently, as are zero-length legs;
// neither is an error. The result is cached until the radius changes.
func (m *Model) Build(radius float64) *Scene {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && m.cached.Radius == radius {
		return m.cached
	}

	scene := &Scene{Radius: radius}

	for i := 0; i+1 < len(m.tour); i++ {
		fromName, toName := m.tour[i], m.tour[i+1]
		from, okFrom := m.table.Lookup(fromName)
		to, okTo := m.table.Lookup(toName)
		if !okFrom || !okTo {
			m.log.Debug("skipping unresolved tour leg", "from", fromName, "to", toName)
			continue
		}

		a := from.Position(radius)
		b := to.Position(radius)
		if a.DistanceTo(b) < 1e-9 {
			m.log.Debug("skipping zero-length tour leg", "name", fromName)
			continue
		}

		curve := arc.Build(a, b, m.prm.LiftRatio)
		scene.Arcs = append(scene.Arcs, ArcSegment{
			ID:     fmt.Sprintf("%s-%s#%d", fromName, toName, i),
			From:   fromName,
			To:     toName,
			Phase:  float64(i) * m.prm.PhaseStep,
			Points: curve.Sample(m.prm.SampleCount),
			Curve:  curve,
		})
		scene.GroundKm += orbgeo.DistanceHaversine(from.Coord, to.Coord) / 1000.0
	}

	seen := make(map[string]bool, len(m.tour))
	for _, name := range m.tour {
		if seen[name] {
			continue
		}
		w, ok := m.table.Lookup(name)
		if !ok {
			continue
		}
		seen[name] = true
		scene.Pins = append(scene.Pins, Pin{
			Name:     name,
			Position: w.Position(radius * m.prm.PinLift),
		})
	}

	m.cached = scene
	return scene
}
