package ws

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/numbermaster/internal/dependencies/ident"
	"github.com/mcoot/numbermaster/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Handler receives connection lifecycle and inbound messages
type Handler interface {
	Connect(conn model.ConnID)
	HandleMessage(conn model.ConnID, env model.Envelope)
	Disconnect(conn model.ConnID)
}

// Client is one WebSocket connection
type Client struct {
	id          model.ConnID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time

	// set once an event could not be buffered
	overflowed atomic.Bool
}

// close shuts the underlying connection, which ends the read pump and
// unregisters the client
func (c *Client) close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers on any origin may play
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server upgrades HTTP requests to WebSocket clients
type Server struct {
	hub     *Hub
	handler Handler
	ids     ident.Generator
	logger  *slog.Logger
}

// NewServer creates a WebSocket endpoint feeding handler
func NewServer(hub *Hub, handler Handler, ids ident.Generator, logger *slog.Logger) *Server {
	return &Server{
		hub:     hub,
		handler: handler,
		ids:     ids,
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the connection and runs its pumps until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &Client{
		id:          model.ConnID(s.ids.NewID("conn")),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
	s.hub.Register(client)
	s.handler.Connect(client.id)

	go s.writePump(client)
	s.readPump(client)
}

// readPump feeds inbound frames to the handler until the connection fails.
// Frames from one connection are handled in order.
func (s *Server) readPump(c *Client) {
	defer func() {
		s.handler.Disconnect(c.id)
		s.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info("websocket closed unexpectedly",
					slog.String("conn_id", string(c.id)),
					slog.Any("error", err))
			}
			return
		}

		env, err := Decode(data)
		if err != nil {
			s.hub.Send(c.id, model.Event{
				Type:    model.EventInvalidRequest,
				Payload: model.ErrorPayload{Message: err.Error()},
			})
			continue
		}
		s.handler.HandleMessage(c.id, env)
	}
}

// writePump drains the send channel and keeps the connection alive with pings
func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					s.logger.Debug("websocket write failed",
						slog.String("conn_id", string(c.id)),
						slog.Any("error", err))
				}
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
