package model

import "time"

// Session links a durable client handle to a participant and its current connection
type Session struct {
	ID            SessionID
	ParticipantID ParticipantID
	ConnID        ConnID // empty while disconnected
	DisplayName   string
	GameID        GameID // empty while queued
	CreatedAt     time.Time
}

// Connected returns true if the session is bound to a live connection
func (s *Session) Connected() bool {
	return s.ConnID != ""
}

// InGame returns true if the session has been paired into a game
func (s *Session) InGame() bool {
	return s.GameID != ""
}

// DisconnectionRecord tracks a participant who dropped out of an unended game
type DisconnectionRecord struct {
	SessionID      SessionID
	DisconnectedAt time.Time
	GameID         GameID
	Snapshot       *Participant
}
