package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"globed/pkg/tracker"
)

// StatsHandler serves the interaction and frame counters.
type StatsHandler struct {
	stats *tracker.Tracker
}

func NewStatsHandler(stats *tracker.Tracker) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.stats.Snapshot()); err != nil {
		slog.Error("Failed to encode stats response", "error", err)
	}
}
