package ws

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kinopitch/trailers-backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// clientCommand - входящее сообщение клиента: подписка на опрос или отписка.
type clientCommand struct {
	Action string    `json:"action"` // "subscribe" | "unsubscribe"
	PollID uuid.UUID `json:"poll_id"`
}

// Client представляет одно подключение WebSocket.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

// NewClient создаёт нового клиента.
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		conn: conn,
		hub:  hub,
		send: make(chan []byte, 16),
	}
}

// Run запускает обработку входящих и исходящих сообщений.
func (c *Client) Run(ctx context.Context) {
	go c.writePumpSafe()
	c.readPump(ctx)
}

// writePumpSafe запускает writePump с обработкой panic.
func (c *Client) writePumpSafe() {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("ws").Errorf("writePump panic: %v\n%s", r, debug.Stack())
			c.Close()
		}
	}()
	c.writePump()
}

// Close закрывает соединение.
func (c *Client) Close() {
	c.hub.Unregister(c)
	c.conn.Close()
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent("ws").Errorf("readPump panic: %v\n%s", r, debug.Stack())
		}
		c.Close()
	}()

	c.conn.SetReadLimit(4 * 1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				return
			}

			var cmd clientCommand
			if err := json.Unmarshal(raw, &cmd); err != nil || cmd.PollID == uuid.Nil {
				continue
			}

			switch cmd.Action {
			case "subscribe":
				c.hub.Subscribe(c, cmd.PollID)
			case "unsubscribe":
				c.hub.Unsubscribe(c, cmd.PollID)
			}
		}
	}
}

func (c *Client) writePump() {
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
