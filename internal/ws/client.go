package ws

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Login payloads carry avatar
	// URLs, so this is roomier than a chat frame.
	maxMessageSize = 4096

	// Outbound frames buffered per connection before the peer is considered
	// stalled and dropped.
	sendBufferSize = 256
)

// Client is one websocket connection admitted to the broadcast domain. The
// id only identifies the connection in logs; participant identity lives in
// the coordinator's binding table.
type Client struct {
	id          string
	coordinator *Coordinator
	conn        *websocket.Conn
	send        chan []byte
}

func newClient(coordinator *Coordinator, conn *websocket.Conn) *Client {
	return &Client{
		id:          uuid.NewString(),
		coordinator: coordinator,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
	}
}

// readPump forwards inbound frames to the coordinator loop and reports the
// connection gone when the read side fails.
func (c *Client) readPump() {
	defer func() {
		c.coordinator.disconnect <- c
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read error on %s: %v", c.id, err)
			}
			break
		}
		c.coordinator.inbound <- inboundFrame{client: c, raw: raw}
	}
}

// writePump drains the send buffer to the peer and keeps the connection
// alive with pings. It exits when the coordinator closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
