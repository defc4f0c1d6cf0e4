package route

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globed/pkg/geo"
)

func testTable(t *testing.T) *geo.Table {
	t.Helper()
	table, err := geo.NewTable([]geo.Waypoint{
		{Name: "Paris", Coord: orb.Point{2.3522, 48.8566}},
		{Name: "Casablanca", Coord: orb.Point{-7.5898, 33.5731}},
		{Name: "Dakar", Coord: orb.Point{-17.4677, 14.7167}},
		{Name: "Lome", Coord: orb.Point{1.2228, 6.1319}},
	})
	require.NoError(t, err)
	return table
}

func testParams() Params {
	return Params{LiftRatio: 0.45, SampleCount: 64, PhaseStep: 0.13, PinLift: 1.01}
}

func TestBuildBasics(t *testing.T) {
	tour := []string{"Paris", "Casablanca", "Dakar", "Lome", "Paris"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)
	require.Len(t, scene.Arcs, 4)
	require.Len(t, scene.Pins, 4, "pins are deduplicated per distinct waypoint")

	for _, a := range scene.Arcs {
		assert.Len(t, a.Points, 64)
		assert.NotNil(t, a.Curve)
		assert.Equal(t, a.Points[0], a.Curve.Start())
		assert.Equal(t, a.Points[len(a.Points)-1], a.Curve.End())
	}

	assert.Greater(t, scene.GroundKm, 1000.0, "tour spans thousands of km")
	assert.Equal(t, 100.0, scene.Radius)
}

func TestBuildSkipsUnresolvedLegs(t *testing.T) {
	tour := []string{"Paris", "Nowhere", "Dakar", "Lome"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)

	// Both legs touching the unknown name drop out; the rest survive.
	require.Len(t, scene.Arcs, 1)
	assert.Equal(t, "Dakar", scene.Arcs[0].From)
	assert.Equal(t, "Lome", scene.Arcs[0].To)

	for _, p := range scene.Pins {
		assert.NotEqual(t, "Nowhere", p.Name)
	}
}

func TestBuildSkipsZeroLengthLegs(t *testing.T) {
	tour := []string{"Paris", "Paris", "Dakar"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)
	require.Len(t, scene.Arcs, 1)
	assert.Equal(t, "Paris", scene.Arcs[0].From)
	assert.Equal(t, "Dakar", scene.Arcs[0].To)
}

func TestPhaseStaggering(t *testing.T) {
	tour := []string{"Paris", "Casablanca", "Dakar", "Lome"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)
	require.Len(t, scene.Arcs, 3)

	// Phases are distinct and strictly increasing along the tour, so
	// comets on consecutive legs never move in lockstep.
	for i := 1; i < len(scene.Arcs); i++ {
		assert.Greater(t, scene.Arcs[i].Phase, scene.Arcs[i-1].Phase)
	}
	assert.Equal(t, 0.0, scene.Arcs[0].Phase)
}

func TestArcIDsUniqueForRepeatedLegs(t *testing.T) {
	tour := []string{"Paris", "Dakar", "Paris", "Dakar"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)
	require.Len(t, scene.Arcs, 3)

	seen := make(map[string]bool)
	for _, a := range scene.Arcs {
		assert.False(t, seen[a.ID], "duplicate arc id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestBuildMemoization(t *testing.T) {
	tour := []string{"Paris", "Dakar"}
	m := New(testTable(t), tour, testParams(), nil)

	first := m.Build(100)
	second := m.Build(100)
	assert.Same(t, first, second, "same radius reuses the cached scene")

	resized := m.Build(200)
	assert.NotSame(t, first, resized)
	assert.Equal(t, 200.0, resized.Radius)
}

func TestPinLift(t *testing.T) {
	tour := []string{"Paris", "Dakar"}
	m := New(testTable(t), tour, testParams(), nil)

	scene := m.Build(100)
	for _, p := range scene.Pins {
		assert.InDelta(t, 101.0, p.Position.Norm(), 1e-9, "pin %s sits just above the surface", p.Name)
	}
}
