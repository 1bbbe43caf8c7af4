package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/natichat/natichat/pkg/logx"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one live websocket connection. UserID is empty when the link was
// established without a valid session.
type Client struct {
	ID          string
	UserID      string
	DisplayName string
	Send        chan []byte

	hub  *Hub
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool // Send has been closed; no further enqueues
}

// NewClient wraps an upgraded connection.
func NewClient(id string, h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Send: make(chan []byte, 256),
		hub:  h,
		conn: conn,
	}
}

// SendMessage queues a message for this connection only. Messages to slow
// or already-departed clients are dropped rather than blocking the caller.
func (c *Client) SendMessage(message Outbound) {
	payload, err := json.Marshal(message)
	if err != nil {
		logx.L().Error().Err(err).Str(logx.FieldConnectionID, c.ID).Msg("marshal unicast")
		return
	}

	c.enqueue(payload)
}

// enqueue places a payload on the send queue. Reports false when the queue
// is full or already closed; it never blocks and never sends on a closed
// channel. The read goroutine can still be replying while the hub evicts
// this client, so both paths go through the same guard.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// closeSend closes the send queue exactly once. Called by the hub when the
// client is unregistered.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// ReadPump consumes inbound frames, invoking onMessage per frame and onClose
// exactly once when the connection ends. Runs in its own goroutine.
func (c *Client) ReadPump(onMessage func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logx.L().Warn().Err(err).Str(logx.FieldConnectionID, c.ID).Msg("websocket read")
			}
			return
		}
		onMessage(c, message)
	}
}

// WritePump flushes the send queue and keeps the connection alive with
// pings. Runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
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
