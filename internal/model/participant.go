package model

import "strings"

// Feedback is the result of comparing a guess against a secret number
type Feedback struct {
	CorrectPosition           int `json:"correctPosition"`
	CorrectDigitWrongPosition int `json:"correctDigitWrongPosition"`
}

// IsWin returns true if every digit was in the correct position
func (f Feedback) IsWin() bool {
	return f.CorrectPosition == NumberLength
}

// GuessRecord is a single guess made by a participant in the current round
type GuessRecord struct {
	Guess         string        `json:"guess"`
	Feedback      Feedback      `json:"feedback"`
	ParticipantID ParticipantID `json:"participantId"`
	PlayerName    string        `json:"player"`
	Turn          int           `json:"turn"` // 1-based, per participant
}

// Participant is one of the two players in a game
type Participant struct {
	ID          ParticipantID
	SessionID   SessionID
	DisplayName string
	Number      string // empty until committed
	Ready       bool
	Guesses     []GuessRecord
	GamesWon    int
	HasWon      bool // satisfied the win condition this round
}

// NewParticipant creates a participant with no committed number
func NewParticipant(id ParticipantID, sessionID SessionID, displayName string) *Participant {
	return &Participant{
		ID:          id,
		SessionID:   sessionID,
		DisplayName: displayName,
		Guesses:     []GuessRecord{},
	}
}

// GuessCount returns the number of guesses made this round
func (p *Participant) GuessCount() int {
	return len(p.Guesses)
}

// ResetRound clears all per-round state, keeping the win counter
func (p *Participant) ResetRound() {
	p.Number = ""
	p.Ready = false
	p.Guesses = []GuessRecord{}
	p.HasWon = false
}

// Clone returns a deep copy of the participant
func (p *Participant) Clone() *Participant {
	c := *p
	c.Guesses = make([]GuessRecord, len(p.Guesses))
	copy(c.Guesses, p.Guesses)
	return &c
}

// NormalizeName canonicalises a display name for uniqueness checks
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
