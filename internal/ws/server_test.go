package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/numbermaster/internal/dependencies/mocks"
	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/testutil"
)

// echoHandler replies to every message with a number-suggestion carrying the
// inbound type, and records lifecycle calls
type echoHandler struct {
	hub *Hub

	mu           sync.Mutex
	connected    []model.ConnID
	disconnected []model.ConnID
}

func (h *echoHandler) Connect(conn model.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connected = append(h.connected, conn)
}

func (h *echoHandler) HandleMessage(conn model.ConnID, env model.Envelope) {
	h.hub.Send(conn, model.Event{
		Type:    model.EventNumberSuggestion,
		Payload: model.NumberSuggestionPayload{Number: env.Type},
	})
}

func (h *echoHandler) Disconnect(conn model.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnected = append(h.disconnected, conn)
}

func (h *echoHandler) disconnectedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.disconnected)
}

type ServerSuite struct {
	suite.Suite
	hub     *Hub
	handler *echoHandler
	server  *httptest.Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.hub = NewHub(logger)
	s.handler = &echoHandler{hub: s.hub}
	s.server = httptest.NewServer(NewServer(s.hub, s.handler, mocks.NewMockIDs(), logger))
}

func (s *ServerSuite) TearDownTest() {
	s.server.Close()
}

func (s *ServerSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *ServerSuite) read(conn *websocket.Conn) map[string]any {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *ServerSuite) TestRoundTrip() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]any{"type": "request-random-number"}))

	msg := s.read(conn)
	s.Equal("number-suggestion", msg["type"])
	s.Equal(map[string]any{"number": "request-random-number"}, msg["payload"])
	s.Equal(1, s.hub.ClientCount())
}

func (s *ServerSuite) TestMalformedFrameGetsInvalidRequest() {
	conn := s.dial()
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("{oops")))

	msg := s.read(conn)
	s.Equal("invalid-request", msg["type"])

	// The connection survives
	s.Require().NoError(conn.WriteJSON(map[string]any{"type": "ping"}))
	s.Equal("number-suggestion", s.read(conn)["type"])
}

func (s *ServerSuite) TestCloseNotifiesHandler() {
	conn := s.dial()
	s.Require().NoError(conn.WriteJSON(map[string]any{"type": "hello"}))
	s.read(conn)

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	s.Eventually(func() bool {
		return s.handler.disconnectedCount() == 1 && s.hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
	s.Equal([]model.ConnID{"conn_1"}, s.handler.connected)
}

func (s *ServerSuite) TestClosingClientDisconnectsPeer() {
	conn := s.dial()
	defer conn.Close()
	s.Require().NoError(conn.WriteJSON(map[string]any{"type": "hello"}))
	s.read(conn)

	s.hub.mu.RLock()
	client := s.hub.clients["conn_1"]
	s.hub.mu.RUnlock()
	s.Require().NotNil(client)
	client.close()

	s.Eventually(func() bool {
		return s.handler.disconnectedCount() == 1 && s.hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	s.Error(err)
}
