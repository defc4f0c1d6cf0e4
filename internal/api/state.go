package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"globed/pkg/animator"
	"globed/pkg/camera"
)

// CameraResponse is the /api/camera payload.
type CameraResponse struct {
	camera.Pose
	State string `json:"state"`
}

// StateHandler keeps the latest frame and camera values published by the
// engine and serves them as a poll fallback for clients that cannot hold
// a websocket open. It implements engine.Sink.
type StateHandler struct {
	mu         sync.RWMutex
	frame      animator.FrameSnapshot
	pose       camera.Pose
	converging bool
}

func NewStateHandler(initial camera.Pose) *StateHandler {
	return &StateHandler{pose: initial}
}

// PublishFrame implements engine.Sink.
func (h *StateHandler) PublishFrame(f *animator.FrameSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = *f
}

// PublishCamera implements engine.Sink.
func (h *StateHandler) PublishCamera(p camera.Pose, converging bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pose = p
	h.converging = converging
}

func (h *StateHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	frame := h.frame
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frame); err != nil {
		slog.Error("Failed to encode frame response", "error", err)
	}
}

func (h *StateHandler) HandleCamera(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	resp := CameraResponse{Pose: h.pose, State: camera.StateIdle}
	if h.converging {
		resp.State = camera.StateConverging
	}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode camera response", "error", err)
	}
}
