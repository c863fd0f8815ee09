package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS для вебсокета проверяется на уровне reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler принимает подключения для живой трансляции результатов опросов.
type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Handle GET /ws
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithComponent("ws").WithError(err).Warn("не удалось обновить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub)

	// Блокируемся до закрытия соединения, чтобы контекст запроса жил
	// вместе с подключением.
	client.Run(c.Request.Context())
}
