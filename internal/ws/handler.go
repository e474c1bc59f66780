package ws

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
)

// Handler upgrades /ws/sync requests and attaches the connection to the hub.
type Handler struct {
	hub      *Hub
	logger   arbor.ILogger
	upgrader websocket.Upgrader
}

// NewHandler accepts any origin when allowedOrigins is empty; otherwise the
// Origin header must match one entry, compared case-insensitively.
func NewHandler(hub *Hub, logger arbor.ILogger, allowedOrigins ...string) *Handler {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/")); o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		if len(set) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}

// HandleSyncWS streams sync events to the connected browser.
func (h *Handler) HandleSyncWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Str("origin", r.Header.Get("Origin")).Msg("ws upgrade failed")
			return
		}

		client := NewClient(h.hub, conn)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}
