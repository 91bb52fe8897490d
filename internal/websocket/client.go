package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one WebSocket connection bound to a workspace
type Client struct {
	id          string
	workspaceID int32
	conn        *websocket.Conn
	hub         *Hub
	send        chan []byte
	mu          sync.RWMutex
	closed      bool
	closeOnce   sync.Once
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, workspaceID int32, hub *Hub) *Client {
	return &Client{
		id:          uuid.New().String(),
		workspaceID: workspaceID,
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, 256),
	}
}

func (c *Client) ID() string         { return c.id }
func (c *Client) WorkspaceID() int32 { return c.workspaceID }

// Send queues a message for delivery. A full buffer means the client is
// too slow to keep up and is treated as gone.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientClosed
	}
}

// Close shuts the connection down; safe to call multiple times
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// ReadPump drains inbound frames to service pings and detect closes.
// Clients do not send application messages. Run in a goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket unexpected close")
			}
			return
		}
	}
}

// WritePump delivers queued messages and keepalive pings. Run in a
// goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
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
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write error")
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
