package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// Close codes sent to clients
const (
	CloseTooManyConnections = 4000
	CloseTooManyMessages    = 4001
)

// client is one open real-time connection.
// All writes of data frames go through writePump; close frames may be sent from any goroutine.
type client struct {
	id     string
	origin string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}

	closeOnce sync.Once
	alive     atomic.Bool
}

func newClient(id string, origin string, hub *Hub, conn *websocket.Conn) *client {
	return &client{
		id:     id,
		origin: origin,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, hub.config.SendQueueSize),
		done:   make(chan struct{}),
	}
}

// enqueue hands msg to the writer. A client whose queue is full is closed
// so a slow consumer never holds up delivery to the others.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		logger.Warn("Closing slow websocket client", zap.String("client_id", c.id), zap.String("origin", c.origin))
		go c.close(websocket.ClosePolicyViolation, "Client too slow")
		return false
	}
}

// close sends a close frame with code and reason and tears the connection down
func (c *client) close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := c.hub.clock.Now().Add(c.hub.config.WriteTimeout)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = c.conn.Close()
	})
}

// readPump consumes client messages until the connection fails
func (c *client) readPump() {
	defer func() {
		c.close(websocket.CloseNormalClosure, "")
		c.hub.unregister(c)
	}()

	c.conn.SetReadLimit(c.hub.config.MaxMessageBytes)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Debug("Websocket read failed", zap.String("client_id", c.id), zap.String("error", logger.Truncate(err)))
			}
			return
		}

		if !c.hub.registry.Allow(c.origin) {
			logger.Warn("Too many messages from origin", zap.String("origin", c.origin), zap.String("client_id", c.id))
			c.close(CloseTooManyMessages, "Too many messages in short time")
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("Ignoring unparsable websocket message", zap.String("client_id", c.id), zap.String("error", logger.Truncate(err)))
			continue
		}

		if msg.Type == domain.MESSAGE_TYPE_KEEP_ALIVE {
			c.alive.Store(true)
		}
	}
}

// writePump delivers queued messages and runs the liveness sweep.
// The liveness flag starts false: a client that has not sent keepAlive since
// the previous sweep is closed.
func (c *client) writePump() {
	ticker := c.hub.clock.NewTicker(c.hub.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(c.hub.clock.Now().Add(c.hub.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("Websocket send failed", zap.String("client_id", c.id), zap.String("error", logger.Truncate(err)))
				c.close(websocket.CloseInternalServerErr, "")
				return
			}

		case <-ticker.C():
			if !c.alive.Swap(false) {
				logger.Info("Client inactive, closing connection", zap.String("client_id", c.id), zap.String("origin", c.origin))
				c.close(websocket.CloseNormalClosure, "Inactive")
				return
			}
		}
	}
}
