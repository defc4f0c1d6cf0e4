package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"globed/internal/ui"
	"globed/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, scene *SceneHandler, state *StateHandler, pick *PickHandler, stream *StreamHandler, stats *StatsHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Scene Endpoint (static arcs and pins, rebuilt only on radius change)
	mux.HandleFunc("GET /api/scene", scene.HandleScene)

	// 4. Frame Value Endpoints
	mux.HandleFunc("GET /api/frame", state.HandleFrame)
	mux.HandleFunc("GET /api/camera", state.HandleCamera)
	mux.HandleFunc("GET /api/stream", stream.HandleWS)

	// 5. Pointer Boundary
	mux.HandleFunc("POST /api/pick/hover", pick.HandleHover)
	mux.HandleFunc("POST /api/pick/select", pick.HandleSelect)

	// 6. Stats Endpoint
	mux.Handle("GET /api/stats", stats)

	// 7. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow the response to flush.
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 8. Static Frontend Serving (SPA)
	staticFS, err := fs.Sub(ui.StaticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree static from embedded assets: %v", err))
	}
	spaFS := &spaFileSystem{root: http.FS(staticFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
