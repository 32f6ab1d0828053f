package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Iamanointing/mvv/config"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

// Hub keeps the set of connected websocket clients and broadcasts frames to
// them. Delivery is best effort: a client whose send buffer is full is
// disconnected instead of blocking the broadcaster.
type Hub struct {
	upgrader     websocket.Upgrader
	sendBuffer   int
	writeTimeout time.Duration
	pingInterval time.Duration
	logger       *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a Hub. allowOrigins restricts browser origins; an empty list
// accepts any origin.
func NewHub(cfg *config.RealtimeConfig, allowOrigins []string, logger *zap.Logger) *Hub {
	h := &Hub{
		sendBuffer:   cfg.SendBuffer,
		writeTimeout: cfg.WriteTimeout,
		pingInterval: cfg.PingInterval,
		logger:       logger,
		clients:      make(map[*client]struct{}),
	}
	if h.sendBuffer <= 0 {
		h.sendBuffer = 32
	}
	if h.writeTimeout <= 0 {
		h.writeTimeout = 10 * time.Second
	}
	if h.pingInterval <= 0 || h.pingInterval >= pongWait {
		h.pingInterval = pongWait * 9 / 10
	}

	origins := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		origins[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(origins) == 0 || origin == "" || origins[origin]
		},
	}
	return h
}

// Publish encodes the event and broadcasts it to local clients.
func (h *Hub) Publish(_ context.Context, name string, data interface{}) error {
	frame, err := Encode(name, data)
	if err != nil {
		return err
	}
	h.Broadcast(frame)
	return nil
}

// Broadcast queues frame on every client.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client", zap.String("remote", c.remote))
		h.remove(c)
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and serves the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, h.sendBuffer),
		remote: r.RemoteAddr,
	}
	if !h.add(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		close(c.send)
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Debug("websocket client connected", zap.String("remote", c.remote), zap.Int("clients", len(h.clients)))
	return true
}

// remove closes c.send exactly once; the write pump then closes the socket.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Debug("websocket client disconnected", zap.String("remote", c.remote), zap.Int("clients", len(h.clients)))
}
