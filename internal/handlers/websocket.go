package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/thereayou/watchparty/internal/membership"
	"github.com/thereayou/watchparty/internal/middleware"
	ws "github.com/thereayou/watchparty/internal/websocket"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	gate     Joiner
	bus      Publisher
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, gate Joiner, bus Publisher) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		gate: gate,
		bus:  bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Subscribe admits the caller through the membership gate, then upgrades
// the connection into a live subscription for the room. Admission errors
// surface as plain HTTP before the upgrade.
func (h *WebSocketHandler) Subscribe(c *gin.Context) {
	roomID := c.Query("room")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room query parameter is required"})
		return
	}

	memberKey := middleware.MemberKey(c)

	result, err := h.gate.Join(c.Request.Context(), roomID, memberKey)
	if err != nil {
		respondError(c, err, "failed to join room")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, roomID)
	h.hub.Register(client)

	// A fresh join changes the member list every subscriber can see.
	if result == membership.Joined {
		h.bus.PublishRoomChanged(c.Request.Context(), roomID)
	}

	go client.WritePump()
	go client.ReadPump()
}
