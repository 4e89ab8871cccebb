package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"slotzi.backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	businessID uuid.UUID
	send       chan []byte
}

func newClient(h *Hub, conn *websocket.Conn, businessID uuid.UUID, buffer int) *client {
	return &client{
		hub:        h,
		conn:       conn,
		businessID: businessID,
		send:       make(chan []byte, buffer),
	}
}

// readPump handles inbound envelopes until the connection fails.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
		logger.Debug(ctx, "Realtime client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(ctx, "Realtime read failed", zap.Error(err))
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.emit(ctx, outbound{Event: eventError, Data: ackData{Success: false, Message: "Malformed message"}})
			continue
		}
		c.hub.dispatch(ctx, c, &msg)
	}
}

// writePump owns every write to the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *client) emit(ctx context.Context, msg outbound) {
	body, err := json.Marshal(msg)
	if err != nil {
		logger.Error(ctx, "Failed to encode realtime reply", zap.String("event", msg.Event), zap.Error(err))
		return
	}
	c.hub.sendTo(ctx, c, body)
}
