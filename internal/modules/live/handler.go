package live

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/events", h.Events)
}

// Events streams hotel events over a WebSocket.
//
// Endpoint: GET /ws/events?rooms=101,102
//
// Without the rooms parameter the client receives events for every room.
// Clients may send {"type":"subscribe","roomNo":"103"} or "unsubscribe"
// later on.
func (h *Handler) Events(c *gin.Context) {
	var rooms []string
	if q := c.Query("rooms"); q != "" {
		for _, r := range strings.Split(q, ",") {
			rooms = append(rooms, strings.TrimSpace(r))
		}
	}
	if err := h.hub.ServeWS(c.Writer, c.Request, rooms); err != nil {
		// The upgrader has already written the HTTP error.
		h.hub.logger.Warn("websocket upgrade failed", "error", err)
	}
}
