// Package realtime is the push channel that fans sale mutations out to every
// connected client over a shared websocket transport.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Envelope is the wire format of one channel event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Hub owns the set of connected clients and serializes registration and
// fan-out through a single goroutine, so every client observes events in
// server emission order. Delivery is at-most-once: there is no replay
// buffer, and a client that connects after an event missed it.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[*Client]struct{}),
	}
}

// Run processes hub events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			slog.Info("client connected", "client", c.id, "connected", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				slog.Info("client disconnected", "client", c.id, "connected", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// A client that cannot keep up is dropped rather than
					// allowed to stall the fan-out.
					h.drop(c)
					slog.Warn("dropping slow client", "client", c.id)
				}
			}

		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}

			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

// Register adds a connected client to the fan-out set.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client; safe to call for an already-removed client.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish broadcasts one event to every connected client. It is
// fire-and-forget: marshalling failures and a full broadcast queue are
// logged and swallowed, never surfaced to the originating mutation.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal event payload", "event", event, "error", err)
		return
	}

	buf, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		slog.Warn("failed to marshal event envelope", "event", event, "error", err)
		return
	}

	select {
	case h.broadcast <- buf:
	default:
		slog.Warn("broadcast queue full, dropping event", "event", event)
	}
}
