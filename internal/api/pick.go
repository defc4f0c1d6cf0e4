package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"globed/pkg/picking"
	"globed/pkg/tracker"
)

// HoverRequest is the /api/pick/hover payload. An empty name reports the
// pointer leaving the hovered pin.
type HoverRequest struct {
	Name    string  `json:"name"`
	ScreenX float64 `json:"screenX"`
	ScreenY float64 `json:"screenY"`
}

// SelectRequest is the /api/pick/select payload.
type SelectRequest struct {
	Name    string  `json:"name"`
	ScreenX float64 `json:"screenX"`
	ScreenY float64 `json:"screenY"`
}

// PickHandler is the ingress for the pointer-interaction boundary. The
// renderer does the raycasting; it reports pin-level events here and the
// controller fans them out.
type PickHandler struct {
	ctrl  *picking.Controller
	stats *tracker.Tracker
}

func NewPickHandler(ctrl *picking.Controller, stats *tracker.Tracker) *PickHandler {
	return &PickHandler{ctrl: ctrl, stats: stats}
}

func (h *PickHandler) HandleHover(w http.ResponseWriter, r *http.Request) {
	var req HoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid hover payload", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		h.ctrl.HoverExit()
	} else {
		h.ctrl.HoverEnter(req.Name, req.ScreenX, req.ScreenY)
		h.stats.TrackHover()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PickHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid select payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "missing pin name", http.StatusBadRequest)
		return
	}

	slog.Debug("pin selected", "name", req.Name)
	h.ctrl.Click(req.Name, req.ScreenX, req.ScreenY)
	h.stats.TrackSelect()
	w.WriteHeader(http.StatusNoContent)
}
