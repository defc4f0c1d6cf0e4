// Package geo holds the waypoint table and the spherical projection that
// places geographic coordinates on the rendered globe.
package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"globed/pkg/geom"
)

const degToRad = math.Pi / 180.0

// Waypoint is a named geographic point usable as an arc endpoint or pin.
// Coord follows the orb convention: Coord[0] is longitude, Coord[1] latitude.
type Waypoint struct {
	Name  string
	Coord orb.Point
}

// Lat returns the waypoint latitude in degrees.
func (w Waypoint) Lat() float64 { return w.Coord[1] }

// Lon returns the waypoint longitude in degrees.
func (w Waypoint) Lon() float64 { return w.Coord[0] }

// Position projects the waypoint onto a sphere of the given radius.
func (w Waypoint) Position(radius float64) geom.Vec3 {
	return Project(w.Lat(), w.Lon(), radius)
}

// Project maps (latitude, longitude, radius) to a Cartesian point on a
// Y-up sphere. Latitude 90° maps to the north pole (+Y); the 180° offset
// on longitude aligns the texture seam with the antimeridian. All callers
// go through this single function so that pins and arc endpoints computed
// independently from the same coordinates coincide exactly.
func Project(lat, lon, radius float64) geom.Vec3 {
	phi := (90 - lat) * degToRad
	theta := (lon + 180) * degToRad

	sinPhi := math.Sin(phi)
	return geom.Vec3{
		X: -radius * sinPhi * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Sin(theta),
	}
}

// Table is an immutable waypoint lookup built once at startup.
type Table struct {
	byName map[string]Waypoint
	names  []string
}

// NewTable builds a waypoint table. Names must be unique and coordinates
// must be within valid ranges; the table is static configuration, so a
// bad entry is a startup error rather than something to recover from.
func NewTable(waypoints []Waypoint) (*Table, error) {
	t := &Table{byName: make(map[string]Waypoint, len(waypoints))}
	for _, w := range waypoints {
		if w.Name == "" {
			return nil, fmt.Errorf("waypoint with empty name")
		}
		if _, dup := t.byName[w.Name]; dup {
			return nil, fmt.Errorf("duplicate waypoint name %q", w.Name)
		}
		if lat := w.Lat(); lat < -90 || lat > 90 {
			return nil, fmt.Errorf("waypoint %q: latitude %v out of range [-90, 90]", w.Name, lat)
		}
		if lon := w.Lon(); lon < -180 || lon > 180 {
			return nil, fmt.Errorf("waypoint %q: longitude %v out of range [-180, 180]", w.Name, lon)
		}
		t.byName[w.Name] = w
		t.names = append(t.names, w.Name)
	}
	return t, nil
}

// Lookup returns the waypoint for a name, if present.
func (t *Table) Lookup(name string) (Waypoint, bool) {
	w, ok := t.byName[name]
	return w, ok
}

// Names returns the waypoint names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of waypoints in the table.
func (t *Table) Len() int { return len(t.byName) }
