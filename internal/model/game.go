package model

import (
	"sort"
	"time"
)

// NumberLength is the number of digits in a secret number or guess
const NumberLength = 5

// GamePhase represents the current phase of a game round
type GamePhase string

const (
	GamePhaseSetup      GamePhase = "setup"       // Waiting for both numbers
	GamePhaseInProgress GamePhase = "in_progress" // Participants alternate guesses
	GamePhaseEnded      GamePhase = "ended"       // Round resolved, awaiting rematch or teardown
)

// Game is a match between exactly two participants. A game hosts successive
// rounds until it is torn down.
type Game struct {
	ID GameID

	// Participants in join order; never replaced during the game's lifetime
	Order        [2]ParticipantID
	Participants map[ParticipantID]*Participant

	// Turn management
	CurrentTurn       ParticipantID
	RoundStarter      ParticipantID
	Round             int
	ProvisionalWinner ParticipantID // set while the opponent gets one more guess

	Started bool
	Ended   bool
	Winner  string // winner's display name, empty for draw or unresolved
	IsDraw  bool

	// RematchRequestedBy is set when one side asks for a rematch after the round ended
	RematchRequestedBy ParticipantID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Phase derives the lifecycle phase from the game flags
func (g *Game) Phase() GamePhase {
	switch {
	case g.Ended:
		return GamePhaseEnded
	case g.Started:
		return GamePhaseInProgress
	default:
		return GamePhaseSetup
	}
}

// Participant returns the participant with the given id, or nil if not in this game
func (g *Game) Participant(id ParticipantID) *Participant {
	return g.Participants[id]
}

// Opponent returns the other participant, or nil if id is not in this game
func (g *Game) Opponent(id ParticipantID) *Participant {
	if _, ok := g.Participants[id]; !ok {
		return nil
	}
	for _, pid := range g.Order {
		if pid != id {
			return g.Participants[pid]
		}
	}
	return nil
}

// Has returns true if the participant belongs to this game
func (g *Game) Has(id ParticipantID) bool {
	_, ok := g.Participants[id]
	return ok
}

// Roster returns both participants in join order
func (g *Game) Roster() []*Participant {
	roster := make([]*Participant, 0, len(g.Order))
	for _, pid := range g.Order {
		if p, ok := g.Participants[pid]; ok {
			roster = append(roster, p)
		}
	}
	return roster
}

// AllReady returns true if every participant has committed a number
func (g *Game) AllReady() bool {
	for _, p := range g.Participants {
		if !p.Ready {
			return false
		}
	}
	return true
}

// MergedGuesses returns both participants' guesses ordered by turn. Within a
// turn the round starter's guess comes first, matching the order they were made.
func (g *Game) MergedGuesses() []GuessRecord {
	var all []GuessRecord
	for _, p := range g.Roster() {
		all = append(all, p.Guesses...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Turn != all[j].Turn {
			return all[i].Turn < all[j].Turn
		}
		return all[i].ParticipantID == g.RoundStarter && all[j].ParticipantID != g.RoundStarter
	})
	return all
}
