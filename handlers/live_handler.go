package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/courtside/league-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The site runs on community hosting behind changing domains, so
		// origin filtering happens at the proxy instead.
		return true
	},
}

type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// ServeLive upgrades the connection and subscribes it to the named channel
// until the client goes away.
func (h *LiveHandler) ServeLive(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if !live.KnownChannel(channel) {
		badRequestResponse(w, r, fmt.Errorf("unknown live channel %q", channel))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("websocket upgrade failed",
			slog.String("channel", channel), slog.Any("error", err))
		return
	}

	h.hub.Serve(conn, channel)
}
