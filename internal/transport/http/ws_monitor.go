package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

// MonitorHandler streams session status snapshots to host dashboards over
// a websocket. The core stays pull-only: this handler polls Status on a
// ticker and forwards the snapshot, so a dashboard keeps one connection
// instead of hammering the status endpoint.
type MonitorHandler struct {
	service  *app.SessionService
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewMonitorHandler(service *app.SessionService, interval time.Duration) *MonitorHandler {
	if interval <= 0 {
		interval = time.Second
	}
	return &MonitorHandler{
		service:  service,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type monitorFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades the request and pushes a status frame immediately and
// then on every tick until the client disconnects or the session is gone.
func (h *MonitorHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		snapshot, err := h.service.Status(r.Context(), code)
		if err != nil {
			reason := "internal_error"
			if errors.Is(err, domain.ErrSessionNotFound) {
				reason = "not_found"
			}
			_ = conn.WriteJSON(monitorFrame{Type: "error", Payload: map[string]string{"reason": reason}})
			return
		}
		if err := conn.WriteJSON(monitorFrame{Type: "status", Payload: snapshot}); err != nil {
			return
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
