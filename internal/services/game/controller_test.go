package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/numbermaster/internal/dependencies/mocks"
	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	alice      *model.Participant
	bob        *model.Participant
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.clock, s.random, testutil.NopLogger())
	s.alice = model.NewParticipant("p_alice", "s_alice", "Alice")
	s.bob = model.NewParticipant("p_bob", "s_bob", "Bob")
}

// startedGame returns a game in progress where Alice guesses first.
// Alice's secret is 12345 and Bob's is 67890.
func (s *ControllerSuite) startedGame() *model.Game {
	s.random.QueueIntn(0)
	game := s.controller.NewGame("game_1", s.alice, s.bob)
	_, err := s.controller.CommitNumber(game, s.alice.ID, "12345")
	s.Require().NoError(err)
	started, err := s.controller.CommitNumber(game, s.bob.ID, "67890")
	s.Require().NoError(err)
	s.Require().True(started)
	return game
}

func (s *ControllerSuite) guess(game *model.Game, p *model.Participant, guess string) GuessOutcome {
	outcome, err := s.controller.SubmitGuess(game, p.ID, guess)
	s.Require().NoError(err)
	return outcome
}

// NewGame tests

func (s *ControllerSuite) TestNewGameStartsInSetup() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	s.Equal(model.GamePhaseSetup, game.Phase())
	s.Equal(1, game.Round)
	s.Equal([2]model.ParticipantID{"p_alice", "p_bob"}, game.Order)
	s.False(game.Started)
	s.False(game.Ended)
	s.Equal(s.clock.Now(), game.CreatedAt)
}

func (s *ControllerSuite) TestNewGameCoinFlipPicksFirstTurn() {
	s.random.QueueIntn(1)
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	s.Equal(s.bob.ID, game.CurrentTurn)
	s.Equal(s.bob.ID, game.RoundStarter)
}

// CommitNumber tests

func (s *ControllerSuite) TestCommitNumberMarksReady() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	started, err := s.controller.CommitNumber(game, s.alice.ID, "01234")
	s.Require().NoError(err)

	s.False(started)
	s.True(s.alice.Ready)
	s.Equal("01234", s.alice.Number)
	s.False(game.Started)
}

func (s *ControllerSuite) TestCommitNumberBothReadyStartsGame() {
	game := s.startedGame()

	s.True(game.Started)
	s.Equal(model.GamePhaseInProgress, game.Phase())
}

func (s *ControllerSuite) TestCommitNumberInvalidLeavesStateUntouched() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	_, err := s.controller.CommitNumber(game, s.alice.ID, "11234")
	s.ErrorIs(err, model.ErrInvalidNumber)
	s.False(s.alice.Ready)
	s.Empty(s.alice.Number)
}

func (s *ControllerSuite) TestCommitNumberOverwritesBeforeStart() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	_, _ = s.controller.CommitNumber(game, s.alice.ID, "01234")
	_, err := s.controller.CommitNumber(game, s.alice.ID, "56789")
	s.Require().NoError(err)
	s.Equal("56789", s.alice.Number)
}

func (s *ControllerSuite) TestCommitNumberAfterStartIsRejected() {
	game := s.startedGame()

	_, err := s.controller.CommitNumber(game, s.alice.ID, "98765")
	s.ErrorIs(err, model.ErrRoundNotInSetup)
	s.Equal("12345", s.alice.Number)
}

func (s *ControllerSuite) TestCommitNumberUnknownParticipant() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	_, err := s.controller.CommitNumber(game, "p_mallory", "01234")
	s.ErrorIs(err, model.ErrNotInGame)
}

// SubmitGuess tests

func (s *ControllerSuite) TestSubmitGuessBeforeStartIsRejected() {
	game := s.controller.NewGame("game_1", s.alice, s.bob)

	_, err := s.controller.SubmitGuess(game, game.CurrentTurn, "01234")
	s.ErrorIs(err, model.ErrRoundNotInProgress)
}

func (s *ControllerSuite) TestSubmitGuessOutOfTurnIsRejected() {
	game := s.startedGame()

	_, err := s.controller.SubmitGuess(game, s.bob.ID, "12345")
	s.ErrorIs(err, model.ErrNotParticipantTurn)
	s.Empty(s.bob.Guesses)
	s.Equal(s.alice.ID, game.CurrentTurn)
}

func (s *ControllerSuite) TestSubmitGuessInvalidDoesNotConsumeTurn() {
	game := s.startedGame()

	_, err := s.controller.SubmitGuess(game, s.alice.ID, "1234a")
	s.ErrorIs(err, model.ErrInvalidGuess)
	s.Empty(s.alice.Guesses)
	s.Equal(s.alice.ID, game.CurrentTurn)
}

func (s *ControllerSuite) TestSubmitGuessPassesTurn() {
	game := s.startedGame()

	outcome := s.guess(game, s.alice, "67801")

	s.Equal(OutcomeContinue, outcome.Kind)
	s.False(outcome.RoundEnded())
	s.Equal(s.bob.ID, game.CurrentTurn)
	s.Equal(1, outcome.Record.Turn)
	s.Equal("Alice", outcome.Record.PlayerName)
	s.Equal(model.Feedback{CorrectPosition: 3, CorrectDigitWrongPosition: 1}, outcome.Record.Feedback)
	s.Len(s.alice.Guesses, 1)
}

func (s *ControllerSuite) TestSecondPlayerWinsImmediatelyWhenCountsMatch() {
	game := s.startedGame()

	s.guess(game, s.alice, "01234")
	outcome := s.guess(game, s.bob, "12345")

	s.Equal(OutcomeWon, outcome.Kind)
	s.Equal(s.bob, outcome.Winner)
	s.True(game.Ended)
	s.Equal("Bob", game.Winner)
	s.Equal(1, s.bob.GamesWon)
	s.Equal("12345", LoserNumber(game))
}

func (s *ControllerSuite) TestFirstPlayerWinIsProvisional() {
	game := s.startedGame()

	outcome := s.guess(game, s.alice, "67890")

	s.Equal(OutcomePendingResponse, outcome.Kind)
	s.False(game.Ended)
	s.Equal(s.alice.ID, game.ProvisionalWinner)
	s.Equal(s.bob.ID, game.CurrentTurn)
	s.True(s.alice.HasWon)
	s.Equal(0, s.alice.GamesWon)
}

func (s *ControllerSuite) TestProvisionalWinConvertedWhenOpponentMisses() {
	game := s.startedGame()

	s.guess(game, s.alice, "67890")
	outcome := s.guess(game, s.bob, "54321")

	s.Equal(OutcomeWon, outcome.Kind)
	s.Equal(s.alice, outcome.Winner)
	s.True(game.Ended)
	s.False(game.IsDraw)
	s.Equal("Alice", game.Winner)
	s.Equal(1, s.alice.GamesWon)
	s.Empty(game.ProvisionalWinner)
}

func (s *ControllerSuite) TestSimultaneousFinalRoundIsDraw() {
	game := s.startedGame()

	s.guess(game, s.alice, "01234")
	s.guess(game, s.bob, "54321")
	s.Equal(OutcomePendingResponse, s.guess(game, s.alice, "67890").Kind)
	outcome := s.guess(game, s.bob, "12345")

	s.Equal(OutcomeDraw, outcome.Kind)
	s.Nil(outcome.Winner)
	s.True(game.Ended)
	s.True(game.IsDraw)
	s.Empty(game.Winner)
	s.Equal(0, s.alice.GamesWon)
	s.Equal(0, s.bob.GamesWon)
	s.Empty(LoserNumber(game))
}

func (s *ControllerSuite) TestGuessesAfterEndAreIgnored() {
	game := s.startedGame()
	s.guess(game, s.alice, "01234")
	s.guess(game, s.bob, "12345")

	for _, p := range []*model.Participant{s.alice, s.bob} {
		_, err := s.controller.SubmitGuess(game, p.ID, "67890")
		s.ErrorIs(err, model.ErrRoundNotInProgress)
	}
	s.Len(s.alice.Guesses, 1)
	s.Len(s.bob.Guesses, 1)
	s.Equal("Bob", game.Winner)
	s.Equal(1, s.bob.GamesWon)
}

func (s *ControllerSuite) TestMergedGuessesOrderedByTurn() {
	s.random.QueueIntn(1)
	game := s.controller.NewGame("game_1", s.alice, s.bob)
	_, _ = s.controller.CommitNumber(game, s.alice.ID, "12345")
	_, _ = s.controller.CommitNumber(game, s.bob.ID, "67890")

	s.guess(game, s.bob, "01234")
	s.guess(game, s.alice, "54321")
	s.guess(game, s.bob, "13579")

	merged := game.MergedGuesses()
	s.Require().Len(merged, 3)
	s.Equal(s.bob.ID, merged[0].ParticipantID)
	s.Equal(s.alice.ID, merged[1].ParticipantID)
	s.Equal(2, merged[2].Turn)
}

// ResetRound tests

func (s *ControllerSuite) TestResetRoundRequiresEndedRound() {
	game := s.startedGame()

	s.ErrorIs(s.controller.ResetRound(game), model.ErrRoundNotEnded)
}

func (s *ControllerSuite) TestResetRoundAlternatesStarterAndClearsState() {
	game := s.startedGame()
	s.guess(game, s.alice, "01234")
	s.guess(game, s.bob, "12345")
	game.RematchRequestedBy = s.alice.ID

	s.Require().NoError(s.controller.ResetRound(game))

	s.Equal(2, game.Round)
	s.Equal(model.GamePhaseSetup, game.Phase())
	s.Equal(s.bob.ID, game.RoundStarter)
	s.Equal(s.bob.ID, game.CurrentTurn)
	s.Empty(game.Winner)
	s.False(game.IsDraw)
	s.Empty(game.RematchRequestedBy)
	for _, p := range game.Roster() {
		s.Empty(p.Number)
		s.False(p.Ready)
		s.Empty(p.Guesses)
		s.False(p.HasWon)
	}
	// Win counters survive the reset
	s.Equal(1, s.bob.GamesWon)
}
