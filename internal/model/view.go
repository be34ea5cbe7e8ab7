package model

// PlayerView is a participant as seen by one particular viewer
type PlayerView struct {
	ID       ParticipantID `json:"id"`
	Name     string        `json:"name"`
	Ready    bool          `json:"ready"`
	Number   string        `json:"number,omitempty"`
	Guesses  []GuessRecord `json:"guesses"`
	GamesWon int           `json:"gamesWon"`
	HasWon   bool          `json:"hasWon"`
}

// GameView is the full game state as seen by one particular viewer
type GameView struct {
	GameID            GameID        `json:"gameId"`
	You               ParticipantID `json:"you,omitempty"`
	Round             int           `json:"round"`
	Phase             GamePhase     `json:"phase"`
	CurrentTurn       ParticipantID `json:"currentTurn"`
	CurrentTurnName   string        `json:"currentTurnName"`
	RoundStarter      ParticipantID `json:"roundStarter"`
	Started           bool          `json:"gameStarted"`
	Ended             bool          `json:"gameEnded"`
	Winner            string        `json:"winner,omitempty"`
	IsDraw            bool          `json:"isDraw"`
	ProvisionalWinner ParticipantID `json:"provisionalWinner,omitempty"`
	Players           []PlayerView  `json:"players"`
	AllGuesses        []GuessRecord `json:"allGuesses"`
}

// View builds the game state for the given viewer. Committed numbers are only
// revealed to their owner until the round has ended.
func (g *Game) View(viewer ParticipantID) GameView {
	view := GameView{
		GameID:            g.ID,
		You:               viewer,
		Round:             g.Round,
		Phase:             g.Phase(),
		CurrentTurn:       g.CurrentTurn,
		RoundStarter:      g.RoundStarter,
		Started:           g.Started,
		Ended:             g.Ended,
		Winner:            g.Winner,
		IsDraw:            g.IsDraw,
		ProvisionalWinner: g.ProvisionalWinner,
		AllGuesses:        g.MergedGuesses(),
	}
	if view.AllGuesses == nil {
		view.AllGuesses = []GuessRecord{}
	}
	if p := g.Participant(g.CurrentTurn); p != nil {
		view.CurrentTurnName = p.DisplayName
	}

	for _, p := range g.Roster() {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.DisplayName,
			Ready:    p.Ready,
			Guesses:  append([]GuessRecord{}, p.Guesses...),
			GamesWon: p.GamesWon,
			HasWon:   p.HasWon,
		}
		if p.ID == viewer || g.Ended {
			pv.Number = p.Number
		}
		view.Players = append(view.Players, pv)
	}
	return view
}
