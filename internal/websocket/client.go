// internal/websocket/client.go
package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	wstypes "entitlement-service/internal/domain/websocket"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var ErrWorkspaceForbidden = errors.New("token does not grant this workspace")

// ClientAuth holds authentication information
type ClientAuth struct {
	IdentityID  int64
	WorkspaceID int64
	Roles       []string
}

type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	identityID  int64
	workspaceID int64
	roles       []string

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, auth *ClientAuth) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 64),
		identityID:  auth.IdentityID,
		workspaceID: auth.WorkspaceID,
		roles:       auth.Roles,
	}
}

// SendMessage queues a message for delivery. The frame is dropped when
// the client's buffer is full or already closed; nothing here may
// block, since the hub goroutine calls in while holding its lock.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws marshal failed: %v", err)
		return
	}
	c.trySend(data)
}

// trySend reports whether the frame was queued. False means the buffer
// is full or the client is closed; the hub uses that to evict slow
// clients instead of stalling deliveries.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close releases the send channel exactly once. Safe to race with
// trySend: both hold the same lock.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump drains incoming frames. The only client-initiated message
// this service understands is ping.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}

		msg, err := wstypes.ParseMessage(message)
		if err != nil {
			c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, map[string]interface{}{
				"error": err.Error(),
			}))
			continue
		}

		if msg.Type == wstypes.EventTypePing {
			c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))
		}
	}
}

// WritePump flushes queued messages and keeps the connection alive.
func (c *Client) WritePump() {
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
