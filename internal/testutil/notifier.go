package testutil

import (
	"sync"

	"github.com/mcoot/numbermaster/internal/model"
)

// RecordingNotifier captures every event sent to each connection
type RecordingNotifier struct {
	mu     sync.Mutex
	events map[model.ConnID][]model.Event
}

// NewRecordingNotifier creates an empty RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{events: make(map[model.ConnID][]model.Event)}
}

// Send records the event
func (n *RecordingNotifier) Send(conn model.ConnID, event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[conn] = append(n.events[conn], event)
}

// Events returns everything sent to conn, in order
func (n *RecordingNotifier) Events(conn model.ConnID) []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Event(nil), n.events[conn]...)
}

// Types returns the event types sent to conn, in order
func (n *RecordingNotifier) Types(conn model.ConnID) []model.EventType {
	var types []model.EventType
	for _, e := range n.Events(conn) {
		types = append(types, e.Type)
	}
	return types
}

// Last returns the most recent event sent to conn, or false if none
func (n *RecordingNotifier) Last(conn model.ConnID) (model.Event, bool) {
	events := n.Events(conn)
	if len(events) == 0 {
		return model.Event{}, false
	}
	return events[len(events)-1], true
}

// Reset forgets all recorded events
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = make(map[model.ConnID][]model.Event)
}
