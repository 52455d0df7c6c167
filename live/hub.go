// Package live pushes league events to websocket subscribers. Clients
// subscribe to a channel ("scoreboard" or "announcements") and receive every
// event published there; inbound client messages are ignored.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Channels clients can subscribe to.
const (
	ChannelScoreboard    = "scoreboard"
	ChannelAnnouncements = "announcements"
)

// Event types.
const (
	EventScheduleChanged    = "schedule_changed"
	EventScoreVerified      = "score_verified"
	EventStandingsUpdated   = "standings_updated"
	EventAnnouncementPosted = "announcement_posted"
)

// KnownChannel reports whether name is a subscribable channel.
func KnownChannel(name string) bool {
	return name == ChannelScoreboard || name == ChannelAnnouncements
}

// Event is the wire shape pushed to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// publishBuffer bounds how many events can queue before publishers
	// start dropping; subscribers this far behind are beyond saving.
	publishBuffer = 64
)

type outbound struct {
	channel string
	message []byte
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	channel string
}

// Hub fans events out to subscribed clients. All subscription state is owned
// by the Run goroutine; every mutation flows through the channels.
type Hub struct {
	logger *slog.Logger

	register   chan *client
	unregister chan *client
	events     chan outbound
	done       chan struct{}

	channels map[string]map[*client]bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan outbound, publishBuffer),
		done:       make(chan struct{}),
		channels:   make(map[string]map[*client]bool),
	}
}

// Run owns the subscription maps until ctx is cancelled, then closes every
// client send channel so the write pumps drain and exit.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.channels {
				for c := range clients {
					close(c.send)
				}
			}
			h.channels = make(map[string]map[*client]bool)
			return

		case c := <-h.register:
			if _, ok := h.channels[c.channel]; !ok {
				h.channels[c.channel] = make(map[*client]bool)
			}
			h.channels[c.channel][c] = true
			h.logger.Debug("live client subscribed",
				slog.String("channel", c.channel),
				slog.Int("subscribers", len(h.channels[c.channel])))

		case c := <-h.unregister:
			if clients, ok := h.channels[c.channel]; ok && clients[c] {
				delete(clients, c)
				close(c.send)
				if len(clients) == 0 {
					delete(h.channels, c.channel)
				}
				h.logger.Debug("live client unsubscribed", slog.String("channel", c.channel))
			}

		case out := <-h.events:
			for c := range h.channels[out.channel] {
				select {
				case c.send <- out.message:
				default:
					// Slow consumer; drop the event rather than stall the hub.
					h.logger.Warn("live client lagging, dropping event",
						slog.String("channel", out.channel))
				}
			}
		}
	}
}

// Publish queues an event for every subscriber of its channel. Safe to call
// from any goroutine; never blocks the caller.
func (h *Hub) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal live event",
			slog.String("type", event.Type), slog.Any("error", err))
		return
	}
	select {
	case h.events <- outbound{channel: event.Channel, message: message}:
	default:
		h.logger.Warn("live event queue full, dropping event", slog.String("type", event.Type))
	}
}

// Serve registers the connection on a channel and runs its pumps. It returns
// when the client disconnects; the handler should not touch conn afterwards.
func (h *Hub) Serve(conn *websocket.Conn, channel string) {
	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 16),
		channel: channel,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

// readPump discards inbound frames and keeps the pong deadline fresh. It
// unregisters the client on any read error, which is also how normal closes
// surface.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("live client read error",
					slog.String("channel", c.channel), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
