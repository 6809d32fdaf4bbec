// Package dashboard is the ambient fleet-operator feed: a small WebSocket
// broadcast hub that mirrors the same session events published to Redis
// (internal/bridge) to every connected operator. It is strictly read-only —
// a dashboard client never writes a command back into a session — and its
// absence or failure has zero effect on any robot connection.
package dashboard

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one connected dashboard WebSocket.
type Client struct {
	ID   string
	Conn *websocket.Conn
	// Send is the per-client outbound buffer; writePump drains it. Buffered
	// so a slow dashboard client never blocks the hub's broadcast loop.
	Send chan []byte
}

// Hub manages connected dashboard clients and broadcasts event frames to all
// of them. clients is only ever touched from Run's goroutine; Register and
// Unregister hand off through channels so callers never need their own lock.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu     sync.RWMutex
	logger *zap.Logger
}

// NewHub returns a Hub; call go hub.Run() once before use.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Broadcast enqueues a frame for every currently connected dashboard client.
// Never blocks: a client whose Send buffer is full is simply skipped for
// this frame.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("dashboard broadcast channel full, dropping event")
	}
}

// Run is the hub's event loop; run it in its own goroutine for the life of
// the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("dashboard client registered", zap.String("client_id", client.ID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("dashboard client unregistered", zap.String("client_id", client.ID))

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.logger.Warn("dashboard client send buffer full", zap.String("client_id", client.ID))
				}
			}
			h.mu.RUnlock()
		}
	}
}
