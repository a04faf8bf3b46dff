package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"quizhost/internal/app"
	"quizhost/internal/pkg/logger"
)

// WSHandler streams countdown ticks and terminal events for a live attempt
// session over a websocket.
type WSHandler struct {
	take     *app.TakeService
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(take *app.TakeService, log *logger.Logger) *WSHandler {
	return &WSHandler{
		take: take,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and forwards session events until the session
// reaches a terminal state or the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.take.Watch(r.Context(), sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Reader goroutine exists only to observe the close handshake; the stream
	// is server-push.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.log.Warn("ws write error", "err", err)
				return
			}
			if event.Type == "submitted" {
				return
			}
		case <-clientGone:
			return
		}
	}
}
