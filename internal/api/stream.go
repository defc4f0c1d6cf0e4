package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"globed/pkg/animator"
	"globed/pkg/camera"
	"globed/pkg/tracker"
)

// streamMessage is the websocket envelope. Type is "frame" or "camera".
type streamMessage struct {
	Type   string                  `json:"type"`
	Frame  *animator.FrameSnapshot `json:"frame,omitempty"`
	Camera *CameraResponse         `json:"camera,omitempty"`
}

// StreamHandler pushes the engine's per-frame values to websocket
// clients. It implements engine.Sink; publishes are fan-out with a
// drop-oldest policy so a slow client can never stall the frame loop.
type StreamHandler struct {
	upgrader websocket.Upgrader
	stats    *tracker.Tracker

	mu      sync.Mutex
	clients map[string]chan []byte
}

func NewStreamHandler(stats *tracker.Tracker) *StreamHandler {
	return &StreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
			// The viewer is served from this same server; cross-origin
			// embedding is not a supported deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		stats:   stats,
		clients: make(map[string]chan []byte),
	}
}

// PublishFrame implements engine.Sink.
func (h *StreamHandler) PublishFrame(f *animator.FrameSnapshot) {
	h.broadcast(streamMessage{Type: "frame", Frame: f})
}

// PublishCamera implements engine.Sink.
func (h *StreamHandler) PublishCamera(p camera.Pose, converging bool) {
	resp := CameraResponse{Pose: p, State: camera.StateIdle}
	if converging {
		resp.State = camera.StateConverging
	}
	h.broadcast(streamMessage{Type: "camera", Camera: &resp})
}

func (h *StreamHandler) broadcast(msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal stream message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client is behind; drop its oldest pending message.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- data:
			default:
				slog.Debug("stream client stalled", "client", id)
			}
		}
	}
}

// HandleWS upgrades the connection and streams messages until the
// client disconnects.
func (h *StreamHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	ch := make(chan []byte, 8)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	h.stats.TrackStreamOpen()
	slog.Info("Stream client connected", "client", id)

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		h.stats.TrackStreamClose()
		conn.Close()
		slog.Info("Stream client disconnected", "client", id)
	}()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case data := <-ch:
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
