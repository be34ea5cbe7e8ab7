package matchmaking

import (
	"time"

	"github.com/mcoot/numbermaster/internal/model"
)

// Entry is a participant waiting for an opponent
type Entry struct {
	ConnID    model.ConnID
	SessionID model.SessionID
	Name      string
	QueuedAt  time.Time
}

// Queue is a FIFO of waiting participants keyed by connection. It is not safe
// for concurrent use.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty Queue
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends an entry. A connection already queued is moved to the back.
func (q *Queue) Enqueue(e Entry) {
	q.Remove(e.ConnID)
	q.entries = append(q.entries, e)
}

// DequeueOldest removes and returns the longest-waiting entry
func (q *Queue) DequeueOldest() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// Remove drops the entry for conn. Returns true if it was queued.
func (q *Queue) Remove(conn model.ConnID) bool {
	for i, e := range q.entries {
		if e.ConnID == conn {
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains returns true if conn is queued
func (q *Queue) Contains(conn model.ConnID) bool {
	for _, e := range q.entries {
		if e.ConnID == conn {
			return true
		}
	}
	return false
}

// Len returns the number of waiting entries
func (q *Queue) Len() int {
	return len(q.entries)
}
