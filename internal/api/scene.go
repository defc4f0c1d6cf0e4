package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"globed/pkg/route"
)

// SceneHandler serves the derived scene the renderer sets itself up
// from. The route model memoizes on radius, so this is cheap to poll.
type SceneHandler struct {
	model  *route.Model
	radius float64
}

func NewSceneHandler(model *route.Model, radius float64) *SceneHandler {
	return &SceneHandler{model: model, radius: radius}
}

func (h *SceneHandler) HandleScene(w http.ResponseWriter, r *http.Request) {
	scene := h.model.Build(h.radius)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(scene); err != nil {
		slog.Error("Failed to encode scene response", "error", err)
	}
}
