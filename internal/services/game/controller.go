package game

import (
	"log/slog"

	"github.com/mcoot/numbermaster/internal/dependencies/clock"
	"github.com/mcoot/numbermaster/internal/dependencies/random"
	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/services/numbers"
)

// OutcomeKind classifies what a guess did to the round
type OutcomeKind string

const (
	OutcomeContinue        OutcomeKind = "continue"         // turn passed to the opponent
	OutcomePendingResponse OutcomeKind = "pending_response" // submitter won, opponent gets one more guess
	OutcomeWon             OutcomeKind = "won"
	OutcomeDraw            OutcomeKind = "draw"
)

// GuessOutcome is the result of an accepted guess
type GuessOutcome struct {
	Record model.GuessRecord
	Kind   OutcomeKind
	Winner *model.Participant // set when Kind is OutcomeWon
}

// RoundEnded returns true if the guess resolved the round
func (o GuessOutcome) RoundEnded() bool {
	return o.Kind == OutcomeWon || o.Kind == OutcomeDraw
}

// Controller drives the game state machine. It operates on games owned by the
// caller and never retains them.
type Controller struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// NewController creates a new game Controller
func NewController(clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		clock:  clock,
		random: random,
		logger: logger,
	}
}

// NewGame creates a game between two participants in setup. The first turn is
// decided by a coin flip.
func (c *Controller) NewGame(id model.GameID, first, second *model.Participant) *model.Game {
	now := c.clock.Now()
	game := &model.Game{
		ID:    id,
		Order: [2]model.ParticipantID{first.ID, second.ID},
		Participants: map[model.ParticipantID]*model.Participant{
			first.ID:  first,
			second.ID: second,
		},
		Round:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	game.CurrentTurn = game.Order[random.CoinFlip(c.random)]
	game.RoundStarter = game.CurrentTurn

	c.logger.Info("game created",
		slog.String("game_id", string(id)),
		slog.String("first_turn", string(game.CurrentTurn)),
	)

	return game
}

// CommitNumber records a participant's secret number. Returns true if this
// commit made both participants ready and started the round.
func (c *Controller) CommitNumber(game *model.Game, participantID model.ParticipantID, number string) (bool, error) {
	p := game.Participant(participantID)
	if p == nil {
		return false, model.ErrNotInGame
	}
	if game.Phase() != model.GamePhaseSetup {
		return false, model.ErrRoundNotInSetup
	}
	if !numbers.Valid(number) {
		return false, model.ErrInvalidNumber
	}

	p.Number = number
	p.Ready = true
	game.UpdatedAt = c.clock.Now()

	if !game.AllReady() {
		return false, nil
	}

	game.Started = true
	c.logger.Info("round started",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.Round),
		slog.String("current_turn", string(game.CurrentTurn)),
	)
	return true, nil
}

// SubmitGuess scores a guess and advances the round. Out-of-turn and
// out-of-phase guesses are rejected before the guess itself is validated.
func (c *Controller) SubmitGuess(game *model.Game, participantID model.ParticipantID, guess string) (GuessOutcome, error) {
	submitter := game.Participant(participantID)
	if submitter == nil {
		return GuessOutcome{}, model.ErrNotInGame
	}
	if game.Phase() != model.GamePhaseInProgress {
		return GuessOutcome{}, model.ErrRoundNotInProgress
	}
	if game.CurrentTurn != participantID {
		return GuessOutcome{}, model.ErrNotParticipantTurn
	}
	if !numbers.Valid(guess) {
		return GuessOutcome{}, model.ErrInvalidGuess
	}

	opponent := game.Opponent(participantID)
	record := model.GuessRecord{
		Guess:         guess,
		Feedback:      numbers.Score(guess, opponent.Number),
		ParticipantID: submitter.ID,
		PlayerName:    submitter.DisplayName,
		Turn:          submitter.GuessCount() + 1,
	}
	submitter.Guesses = append(submitter.Guesses, record)
	game.UpdatedAt = c.clock.Now()

	outcome := GuessOutcome{Record: record}

	switch {
	case record.Feedback.IsWin():
		submitter.HasWon = true
		if opponent.GuessCount() >= submitter.GuessCount() {
			if opponent.HasWon {
				c.endRound(game, nil)
				outcome.Kind = OutcomeDraw
			} else {
				c.endRound(game, submitter)
				outcome.Kind = OutcomeWon
				outcome.Winner = submitter
			}
		} else {
			game.ProvisionalWinner = submitter.ID
			game.CurrentTurn = opponent.ID
			outcome.Kind = OutcomePendingResponse
		}

	case game.ProvisionalWinner != "" && game.ProvisionalWinner != submitter.ID:
		winner := game.Participant(game.ProvisionalWinner)
		c.endRound(game, winner)
		outcome.Kind = OutcomeWon
		outcome.Winner = winner

	default:
		game.CurrentTurn = opponent.ID
		outcome.Kind = OutcomeContinue
	}

	return outcome, nil
}

// endRound marks the round resolved. A nil winner is a draw.
func (c *Controller) endRound(game *model.Game, winner *model.Participant) {
	game.Ended = true
	game.ProvisionalWinner = ""
	if winner == nil {
		game.IsDraw = true
		game.Winner = ""
	} else {
		game.IsDraw = false
		game.Winner = winner.DisplayName
		winner.GamesWon++
	}

	c.logger.Info("round ended",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.Round),
		slog.String("winner", game.Winner),
		slog.Bool("draw", game.IsDraw),
	)
}

// ResetRound starts a new round in the same game. The participant who did
// not start the previous round starts this one.
func (c *Controller) ResetRound(game *model.Game) error {
	if !game.Ended {
		return model.ErrRoundNotEnded
	}

	for _, p := range game.Roster() {
		p.ResetRound()
	}

	next := game.Order[0]
	if game.RoundStarter == game.Order[0] {
		next = game.Order[1]
	}
	game.RoundStarter = next
	game.CurrentTurn = next
	game.Round++
	game.Started = false
	game.Ended = false
	game.Winner = ""
	game.IsDraw = false
	game.ProvisionalWinner = ""
	game.RematchRequestedBy = ""
	game.UpdatedAt = c.clock.Now()

	c.logger.Info("round reset",
		slog.String("game_id", string(game.ID)),
		slog.Int("round", game.Round),
		slog.String("current_turn", string(next)),
	)
	return nil
}

// LoserNumber returns the secret number of the participant who did not win the
// round, i.e. the number the winner deduced. Empty for a draw or unresolved round.
func LoserNumber(game *model.Game) string {
	if !game.Ended || game.IsDraw {
		return ""
	}
	for _, p := range game.Roster() {
		if p.DisplayName != game.Winner {
			return p.Number
		}
	}
	return ""
}
