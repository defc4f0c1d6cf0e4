package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"globed/pkg/animator"
	"globed/pkg/camera"
	"globed/pkg/geo"
	"globed/pkg/geom"
	"globed/pkg/picking"
	"globed/pkg/route"
	"globed/pkg/tracker"
)

func testModel(t *testing.T) *route.Model {
	t.Helper()
	table, err := geo.NewTable([]geo.Waypoint{
		{Name: "Paris", Coord: orb.Point{2.3522, 48.8566}},
		{Name: "Lome", Coord: orb.Point{1.2228, 6.1319}},
	})
	require.NoError(t, err)
	return route.New(table, []string{"Paris", "Lome"}, route.Params{
		LiftRatio: 0.45, SampleCount: 8, PhaseStep: 0.13, PinLift: 1.01,
	}, nil)
}

func testServer(t *testing.T) (*http.Server, *picking.Controller, *StateHandler, *tracker.Tracker) {
	t.Helper()
	model := testModel(t)
	scene := model.Build(100)
	picks := picking.New(scene)
	stats := tracker.New()
	state := NewStateHandler(camera.Pose{Position: geom.Vec3{Z: 280}})
	stream := NewStreamHandler(stats)

	srv := NewServer("localhost:0",
		NewSceneHandler(model, 100),
		state,
		NewPickHandler(picks, stats),
		stream,
		NewStatsHandler(stats),
		func() {},
	)
	return srv, picks, state, stats
}

func TestHealthAndVersion(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}

func TestSceneEndpoint(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scene", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var scene route.Scene
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scene))
	assert.Equal(t, 100.0, scene.Radius)
	require.Len(t, scene.Arcs, 1)
	assert.Len(t, scene.Arcs[0].Points, 8)
	assert.Len(t, scene.Pins, 2)
	assert.Greater(t, scene.GroundKm, 0.0)
}

func TestFrameAndCameraEndpoints(t *testing.T) {
	srv, _, state, _ := testServer(t)

	// Before any engine publish the endpoints serve zero values, not
	// errors.
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/frame", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	state.PublishFrame(&animator.FrameSnapshot{Clock: 1.25})
	state.PublishCamera(camera.Pose{Position: geom.Vec3{X: 1, Z: 279}}, true)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/frame", nil))
	var frame animator.FrameSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frame))
	assert.Equal(t, 1.25, frame.Clock)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/camera", nil))
	var cam CameraResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cam))
	assert.Equal(t, camera.StateConverging, cam.State)
	assert.Equal(t, 279.0, cam.Position.Z)
}

func TestHoverEndpoint(t *testing.T) {
	srv, picks, _, stats := testServer(t)

	body, _ := json.Marshal(HoverRequest{Name: "Lome", ScreenX: 10, ScreenY: 20})
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/pick/hover", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Lome", picks.Hovered())
	assert.Equal(t, int64(1), stats.Snapshot().Hovers)

	// Empty name is the hover-exit signal.
	body, _ = json.Marshal(HoverRequest{})
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/pick/hover", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "", picks.Hovered())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/pick/hover", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectEndpoint(t *testing.T) {
	srv, picks, _, stats := testServer(t)

	var got picking.SelectEvent
	picks.OnSelect(func(ev picking.SelectEvent) { got = ev })

	body, _ := json.Marshal(SelectRequest{Name: "Paris", ScreenX: 320, ScreenY: 240})
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/pick/select", bytes.NewReader(body)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Paris", got.Name)
	assert.Equal(t, int64(1), stats.Snapshot().Selects)

	// A select without a name is a client bug, not an exit signal.
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/pick/select", strings.NewReader("{}")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv, _, _, stats := testServer(t)
	stats.TrackFrame()
	stats.TrackFrame()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap tracker.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, int64(2), snap.Frames)
}

func TestSPAFallback(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")

	// Unknown client-side routes fall back to the index page.
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/some/client/route", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}
