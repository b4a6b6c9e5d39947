package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mercy-korir600/LiveDev/internal/config"
	"github.com/mercy-korir600/LiveDev/internal/registry"
	"github.com/mercy-korir600/LiveDev/pkg/log"
)

// Client is one WebSocket connection. It shuttles frames between the socket
// and the relay: inbound frames go to the handler, outbound frames come from
// either direct replies or the session's event feed.
type Client struct {
	ID   string
	Conn *websocket.Conn

	// Session is nil until the join handshake completes. It is only
	// written and read from the read-pump goroutine.
	Session *registry.Session

	send   chan []byte
	config config.WebSocketConfig

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded connection.
func NewClient(id string, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:     id,
		Conn:   conn,
		send:   make(chan []byte, 256),
		config: cfg,
	}
}

// ReadPump reads frames until the connection drops, dispatching each to
// handler. onClose runs exactly once on the way out, before the socket
// closes.
func (c *Client) ReadPump(handler func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Err(err).Str(log.FieldSessionID, c.ID).Msg("websocket read error")
			}
			return
		}

		handler(c, message)
	}
}

// WritePump drains the outbound queue into the socket and keeps the
// connection alive with pings. It exits once Close is called or a write
// fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage marshals v and queues it for delivery. A client that cannot
// keep up with its own queue is closed rather than blocked on.
func (c *Client) SendMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	select {
	case c.send <- data:
		c.mu.Unlock()
		return nil
	default:
		c.mu.Unlock()
		c.Close()
		return nil
	}
}

// Close shuts the outbound queue, which lets WritePump send a close frame
// and exit. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
