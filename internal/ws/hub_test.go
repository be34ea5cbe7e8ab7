package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/testutil"
)

func newTestClient(id model.ConnID, buffer int) *Client {
	return &Client{
		id:          id,
		send:        make(chan []byte, buffer),
		connectedAt: time.Now(),
	}
}

func TestHubSendDeliversEncodedEvent(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	client := newTestClient("conn_1", 4)
	hub.Register(client)

	hub.Send("conn_1", model.Event{
		Type:    model.EventWaiting,
		Payload: model.WaitingPayload{SessionID: "s_1"},
	})

	require.Len(t, client.send, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(<-client.send, &got))
	assert.Equal(t, "waiting", got["type"])
	assert.Equal(t, map[string]any{"sessionId": "s_1"}, got["payload"])
}

func TestHubSendToUnknownConnection(t *testing.T) {
	hub := NewHub(testutil.NopLogger())

	assert.NotPanics(t, func() {
		hub.Send("conn_missing", model.Event{Type: model.EventWaiting})
	})
}

func TestHubSendOverflowStopsDelivery(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	client := newTestClient("conn_1", 1)
	hub.Register(client)

	hub.Send("conn_1", model.Event{Type: model.EventWaiting})
	hub.Send("conn_1", model.Event{Type: model.EventGameFound})

	require.Len(t, client.send, 1)
	assert.Contains(t, string(<-client.send), "waiting")
	assert.True(t, client.overflowed.Load())

	// Nothing after the gap is delivered, even with room in the buffer
	hub.Send("conn_1", model.Event{Type: model.EventGuessMade})
	assert.Empty(t, client.send)
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	client := newTestClient("conn_1", 1)
	hub.Register(client)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	_, ok := <-client.send
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		hub.Send("conn_1", model.Event{Type: model.EventWaiting})
	})
}

func TestDecode(t *testing.T) {
	env, err := Decode([]byte(`{"type":"submit-guess","payload":{"gameId":"g","guess":"01234"}}`))
	require.NoError(t, err)
	assert.Equal(t, "submit-guess", env.Type)
	assert.JSONEq(t, `{"gameId":"g","guess":"01234"}`, string(env.Payload))

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, model.ErrInvalidCommand)

	_, err = Decode([]byte(`{"payload":{}}`))
	assert.ErrorIs(t, err, model.ErrInvalidCommand)
}
