package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gitomatikus/signail/internal/ws"
)

type WSHandler struct {
	coordinator *ws.Coordinator
}

func NewWSHandler(coordinator *ws.Coordinator) *WSHandler {
	return &WSHandler{coordinator: coordinator}
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for game events
// @Description  Connect via WebSocket to send and receive real-time game events
// @Tags         websocket
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	h.coordinator.ServeWS(c.Writer, c.Request)
}
