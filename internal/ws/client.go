package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// Client is one websocket connection. The hub owns c.room; the read pump
// never touches it directly.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room string
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 32),
	}
}

// readPump decodes inbound envelopes and dispatches them. It exits on any
// read error, deregistering the client from its room.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.logger.Debug("malformed websocket frame", zap.Error(err))
			continue
		}

		switch env.Event {
		case "join-classroom":
			var code string
			if err := json.Unmarshal(env.Data, &code); err != nil || code == "" {
				continue
			}
			c.hub.Join(c, code)

		case "send-message":
			var payload sendMessagePayload
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				continue
			}
			if payload.ClassroomID == "" || payload.Content == "" {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			c.hub.Send(ctx, payload.ClassroomID, payload.Author, payload.Content)
			cancel()
		}
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. The hub closes c.send on deregistration, which ends
// the loop.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
