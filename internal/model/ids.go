package model

// ParticipantID identifies a participant for the lifetime of a game.
// It never changes when the participant reconnects.
type ParticipantID string

// SessionID is the durable client-side handle used to resume a game
type SessionID string

// GameID uniquely identifies a game
type GameID string

// ConnID identifies a single transport connection. A participant gets a new
// ConnID every time it reconnects.
type ConnID string
