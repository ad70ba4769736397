// Package wsnotifier delivers recording notifications to presentation
// clients over websockets. Delivery is best effort; the retention workflow
// never blocks on a slow viewer.
package wsnotifier

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/zanzhit/camera_vault/internal/lib/sl"
)

type Event struct {
	CameraID  int   `json:"camera_id"`
	SegmentID int64 `json:"segment_id"`
}

type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func New(log *slog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the request and keeps the connection registered until the
// client goes away.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	const op = "notifier.ws.Handle"

	log := h.log.With(slog.String("op", op))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", sl.Err(err))

		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	log.Info("client subscribed", slog.String("remote", conn.RemoteAddr().String()))

	go func() {
		defer h.drop(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify broadcasts the event to every subscribed client. Dead connections
// are dropped on the spot.
func (h *Hub) Notify(cameraID int, segmentID int64) error {
	const op = "notifier.ws.Notify"

	event := Event{
		CameraID:  cameraID,
		SegmentID: segmentID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			h.log.Warn("failed to deliver event",
				slog.String("op", op),
				slog.String("remote", conn.RemoteAddr().String()),
				sl.Err(err),
			)

			conn.Close()
			delete(h.clients, conn)
		}
	}

	return nil
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	delete(h.clients, conn)
}
