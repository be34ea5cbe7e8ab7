package coordinator

import (
	"errors"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/services/game"
)

func (c *Coordinator) commitNumber(conn model.ConnID, cmd model.CommitNumber) error {
	g, p, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}

	started, err := c.engine.CommitNumber(g, p.ID, cmd.Number)
	if errors.Is(err, model.ErrInvalidNumber) {
		c.reply(conn, model.EventNumberRejected, err)
		return nil
	}
	if err != nil {
		return err
	}

	if started {
		c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
			return model.Event{
				Type:    model.EventGameStarted,
				Payload: model.GameStartedPayload{CurrentTurn: g.CurrentTurn, Game: view},
			}
		})
		return nil
	}

	c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
		return model.Event{
			Type:    model.EventPlayerReady,
			Payload: model.PlayerReadyPayload{ParticipantID: p.ID, Game: view},
		}
	})
	return nil
}

func (c *Coordinator) submitGuess(conn model.ConnID, cmd model.SubmitGuess) error {
	g, p, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}

	outcome, err := c.engine.SubmitGuess(g, p.ID, cmd.Guess)
	if errors.Is(err, model.ErrInvalidGuess) {
		c.reply(conn, model.EventGuessRejected, err)
		return nil
	}
	if err != nil {
		return err
	}

	switch outcome.Kind {
	case game.OutcomeContinue:
		c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
			return model.Event{
				Type: model.EventGuessMade,
				Payload: model.GuessMadePayload{
					Guess:       outcome.Record,
					CurrentTurn: g.CurrentTurn,
					AllGuesses:  view.AllGuesses,
					Game:        view,
				},
			}
		})

	case game.OutcomePendingResponse:
		c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
			return model.Event{
				Type: model.EventRoundPending,
				Payload: model.RoundPendingPayload{
					ProvisionalWinner: p.DisplayName,
					CurrentTurn:       g.CurrentTurn,
					AllGuesses:        view.AllGuesses,
					Game:              view,
				},
			}
		})

	case game.OutcomeWon, game.OutcomeDraw:
		winnerNumber := game.LoserNumber(g)
		c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
			return model.Event{
				Type: model.EventRoundEnded,
				Payload: model.RoundEndedPayload{
					Winner:       g.Winner,
					IsDraw:       g.IsDraw,
					WinnerNumber: winnerNumber,
					Game:         view,
				},
			}
		})
		c.recordResult(g)
	}
	return nil
}

func (c *Coordinator) requestNewRound(conn model.ConnID, cmd model.GameCommand) error {
	g, _, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}
	if err := c.engine.ResetRound(g); err != nil {
		return err
	}
	c.broadcastReset(g)
	return nil
}

func (c *Coordinator) requestRematch(conn model.ConnID, cmd model.GameCommand) error {
	g, p, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}
	if !g.Ended {
		return model.ErrRoundNotEnded
	}

	g.RematchRequestedBy = p.ID
	c.sendToOpponent(g, p.ID, model.Event{
		Type:    model.EventRematchRequested,
		Payload: model.RematchRequestedPayload{PlayerName: p.DisplayName},
	})
	return nil
}

func (c *Coordinator) acceptRematch(conn model.ConnID, cmd model.GameCommand) error {
	g, p, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}
	if !g.Ended {
		return model.ErrRoundNotEnded
	}
	if g.RematchRequestedBy == "" || g.RematchRequestedBy == p.ID {
		return model.ErrNoRematchRequested
	}

	if err := c.engine.ResetRound(g); err != nil {
		return err
	}
	c.broadcast(g, func(_ *model.Participant, _ model.GameView) model.Event {
		return model.Event{Type: model.EventRematchAccepted}
	})
	c.broadcastReset(g)
	return nil
}

func (c *Coordinator) broadcastReset(g *model.Game) {
	c.broadcast(g, func(_ *model.Participant, view model.GameView) model.Event {
		return model.Event{
			Type: model.EventRoundReset,
			Payload: model.RoundResetPayload{
				Round:       g.Round,
				CurrentTurn: g.CurrentTurn,
				Game:        view,
			},
		}
	})
}
