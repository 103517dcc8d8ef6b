package websocket

import (
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// pongWait bounds how long a silent connection stays registered;
	// pings go out well inside that window.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 10 * time.Second

	// Clients never send meaningful payloads, so the read limit is tiny.
	maxMessageSize = 512
)

// Client ties one websocket connection to a user in the hub. A user can
// hold several clients at once (multiple tabs).
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	UserID uuid.UUID

	// Buffered channel of outbound notices, already JSON-encoded.
	Send chan []byte
}

// readMessages drains the connection until it closes, keeping the pong
// deadline alive. Inbound content is ignored; the notice channel is
// push-only.
func (c *Client) readMessages() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.resetReadDeadline()
	c.Conn.SetPongHandler(func(string) error {
		c.resetReadDeadline()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error for user %s: %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *Client) resetReadDeadline() {
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
}

// writeMessages pushes notices to the connection. Each notice goes out as
// its own text frame so the client can json-decode frames independently.
func (c *Client) writeMessages() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case notice, open := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				// The hub evicted this client.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, notice); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("websocket ping error for user %s: %v", c.UserID, err)
				return
			}
		}
	}
}
