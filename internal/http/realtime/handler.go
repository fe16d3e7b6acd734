package realtime

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/salestream/server/internal/realtime"
)

// Handler upgrades HTTP requests into hub-registered websocket connections.
type Handler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *realtime.Hub, allowedOrigin string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin clients (no Origin header) and the one
				// configured browser origin are allowed; nothing else.
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}

	c := realtime.NewClient(h.hub, conn)
	h.hub.Register(c)

	go c.WritePump()
	go c.ReadPump()
}
