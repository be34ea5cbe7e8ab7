package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/numbermaster/internal/model"
)

// Hub tracks open WebSocket clients by connection id and delivers events to
// them. It implements the coordinator's Notifier.
type Hub struct {
	clients map[model.ConnID]*Client
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client registered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", clientCount))
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("conn_id", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
}

// Send queues an event for a connection. It never blocks. Events for unknown
// connections are dropped. A client whose buffer is full has missed an event,
// so its connection is closed and every later event for it is dropped; the
// player then reconnects and resumes from a fresh snapshot.
func (h *Hub) Send(conn model.ConnID, event model.Event) {
	message, err := Encode(event)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[conn]
	if !ok {
		h.logger.Debug("ws event for unknown connection dropped",
			slog.String("conn_id", string(conn)),
			slog.String("type", string(event.Type)))
		return
	}
	if client.overflowed.Load() {
		return
	}
	select {
	case client.send <- message:
	default:
		client.overflowed.Store(true)
		h.logger.Warn("ws client buffer full - closing connection",
			slog.String("conn_id", string(conn)),
			slog.String("type", string(event.Type)))
		client.close()
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", len(clients)))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
