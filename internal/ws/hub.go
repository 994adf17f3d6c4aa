package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/adapter"
	"github.com/mammothos/mamoart-backend/internal/domain"
	"github.com/mammothos/mamoart-backend/internal/logger"
)

// Config holds configuration for the real-time hub
type Config struct {
	MaxConnectionsPerOrigin int
	MaxMessagesPerMinute    int
	HeartbeatInterval       time.Duration
	SendQueueSize           int
	WriteTimeout            time.Duration
	MaxMessageBytes         int64
}

// SnapshotProvider supplies the state sent to a client when it connects
//
//go:generate mockgen -source=hub.go -destination=../mocks/snapshot_provider.go -package=mocks -mock_names=SnapshotProvider=MockSnapshotProvider
type SnapshotProvider interface {
	Snapshot() domain.InitPayload
}

// Hub accepts real-time connections and fans messages out to them
type Hub struct {
	config    *Config
	clock     adapter.Clock
	snapshot  SnapshotProvider
	upgrader  websocket.Upgrader
	registry  *originRegistry
	mu        sync.RWMutex
	clients   map[*client]struct{}
	closed    bool
	closeWait sync.WaitGroup
}

// NewHub creates a new hub
func NewHub(config *Config, snapshot SnapshotProvider, clock adapter.Clock) *Hub {
	cfg := *config
	if cfg.SendQueueSize <= 0 {
		cfg.SendQueueSize = 16
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 4096
	}

	return &Hub{
		config:   &cfg,
		clock:    clock,
		snapshot: snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		registry: newOriginRegistry(clock, cfg.MaxConnectionsPerOrigin, cfg.MaxMessagesPerMinute),
		clients:  make(map[*client]struct{}),
	}
}

// IsUpgrade reports whether r asks for a websocket upgrade
func IsUpgrade(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}

// ServeWS upgrades the request and serves the connection until it closes
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := ClientOrigin(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already answered with an HTTP error
		logger.Debug("Websocket upgrade failed", zap.String("origin", origin), zap.String("error", logger.Truncate(err)))
		return
	}

	if !h.registry.Acquire(origin) {
		logger.Warn("Too many connections from origin", zap.String("origin", origin))
		deadline := h.clock.Now().Add(h.config.WriteTimeout)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(CloseTooManyConnections, "Too many connections from same IP"), deadline)
		_ = conn.Close()
		return
	}

	c := newClient(ulid.MustNewDefault(h.clock.Now()).String(), origin, h, conn)
	if err := h.register(c); err != nil {
		h.registry.Release(origin)
		c.close(websocket.CloseGoingAway, "Server shutting down")
		return
	}

	logger.Info("New websocket client connected",
		zap.String("client_id", c.id),
		zap.String("origin", origin),
		zap.Int("clients", h.Count()),
	)

	go c.writePump()
	go c.readPump()
}

// register adds c to the hub and queues its init snapshot.
// Holding the hub lock keeps broadcasts from overtaking the snapshot.
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return fmt.Errorf("hub is closed")
	}

	msg, err := encode(domain.MESSAGE_TYPE_INIT, h.snapshot.Snapshot())
	if err != nil {
		logger.Error(fmt.Errorf("failed to encode init payload: %w", err))
	} else {
		c.enqueue(msg)
	}

	h.clients[c] = struct{}{}
	h.closeWait.Add(1)
	return nil
}

// unregister removes c from the hub and frees its origin slot
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.registry.Release(c.origin)
	h.closeWait.Done()

	logger.Info("Websocket connection closed",
		zap.String("client_id", c.id),
		zap.String("origin", c.origin),
		zap.Int("clients", h.Count()),
	)
}

// Broadcast sends a message to every connected client.
// The message is encoded once; a failed delivery never stops delivery to the others.
func (h *Hub) Broadcast(msgType string, payload any) error {
	msg, err := encode(msgType, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msgType, err)
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	dropped := 0
	for _, c := range clients {
		if !c.enqueue(msg) {
			dropped++
		}
	}
	if dropped > 0 {
		logger.Warn("Broadcast not delivered to every client",
			zap.String("type", msgType),
			zap.Int("dropped", dropped),
			zap.Int("clients", len(clients)),
		)
	}
	return nil
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every connection and waits for them to be released
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close(websocket.CloseGoingAway, "Server shutting down")
	}

	done := make(chan struct{})
	go func() {
		h.closeWait.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
