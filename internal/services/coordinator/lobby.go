package coordinator

import (
	"log/slog"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/services/matchmaking"
	"github.com/mcoot/numbermaster/internal/services/numbers"
)

func (c *Coordinator) joinLobby(conn model.ConnID, cmd model.JoinLobby) error {
	// A connection may rejoin while queued or after its round ended, but not
	// while a round is still being played
	current := c.sessions.ByConn(conn)
	if current != nil {
		if g := c.games[current.GameID]; g != nil && !g.Ended {
			return model.ErrAlreadyRegistered
		}
	}

	var existing *model.Session
	if cmd.SessionID != "" {
		existing = c.sessions.Lookup(cmd.SessionID)
	}
	if existing != nil {
		if g := c.games[existing.GameID]; g != nil && !g.Ended {
			if current != nil && current.ID != existing.ID {
				c.release(current)
			}
			return c.resume(conn, existing, g)
		}
		// Another live connection is waiting or finishing with this session
		if existing.Connected() && existing.ConnID != conn {
			c.reply(conn, model.EventNameError, model.ErrSessionInUse)
			return nil
		}
	}

	// Rejected names leave any previous registration untouched
	var releasing []model.SessionID
	for _, sess := range []*model.Session{current, existing} {
		if sess != nil {
			releasing = append(releasing, sess.ID)
		}
	}
	if err := c.sessions.Available(cmd.DisplayName, releasing...); err != nil {
		c.reply(conn, model.EventNameError, err)
		return nil
	}
	if current != nil {
		c.release(current)
	}
	if existing != nil && (current == nil || existing.ID != current.ID) {
		c.release(existing)
	}

	sess, err := c.sessions.Register(conn, cmd.SessionID, cmd.DisplayName)
	if err != nil {
		c.reply(conn, model.EventNameError, err)
		return nil
	}

	for {
		waiter, ok := c.queue.DequeueOldest()
		if !ok {
			break
		}
		other := c.sessions.Lookup(waiter.SessionID)
		if other == nil || other.ConnID != waiter.ConnID {
			continue
		}
		c.pair(other, sess)
		return nil
	}

	c.queue.Enqueue(matchmaking.Entry{
		ConnID:    conn,
		SessionID: sess.ID,
		Name:      sess.DisplayName,
		QueuedAt:  c.clock.Now(),
	})
	c.notifier.Send(conn, model.Event{
		Type:    model.EventWaiting,
		Payload: model.WaitingPayload{SessionID: sess.ID},
	})
	c.logger.Info("participant waiting for opponent",
		slog.String("session_id", string(sess.ID)),
		slog.String("name", sess.DisplayName),
		slog.Int("queue_length", c.queue.Len()),
	)
	return nil
}

// release drops a session that is not attached to a live round: it leaves the
// queue, and any ended game it was in is torn down
func (c *Coordinator) release(sess *model.Session) {
	if g := c.games[sess.GameID]; g != nil {
		c.teardown(g, sess.ParticipantID)
		return
	}
	if sess.ConnID != "" {
		c.queue.Remove(sess.ConnID)
	}
	c.sessions.Delete(sess.ID)
}

// pair creates a game for the longest-waiting participant and a new arrival
func (c *Coordinator) pair(waiting, arriving *model.Session) {
	gameID := model.GameID(c.ids.NewID("game"))
	first := model.NewParticipant(waiting.ParticipantID, waiting.ID, waiting.DisplayName)
	second := model.NewParticipant(arriving.ParticipantID, arriving.ID, arriving.DisplayName)

	g := c.engine.NewGame(gameID, first, second)
	c.games[gameID] = g
	waiting.GameID = gameID
	arriving.GameID = gameID

	c.broadcast(g, func(viewer *model.Participant, view model.GameView) model.Event {
		return model.Event{
			Type: model.EventGameFound,
			Payload: model.GameFoundPayload{
				GameID:      g.ID,
				SessionID:   viewer.SessionID,
				Players:     view.Players,
				CurrentTurn: g.CurrentTurn,
				Game:        view,
			},
		}
	})

	c.logger.Info("participants paired",
		slog.String("game_id", string(gameID)),
		slog.String("first", first.DisplayName),
		slog.String("second", second.DisplayName),
	)
}

func (c *Coordinator) resumeSession(conn model.ConnID, cmd model.ResumeSession) error {
	if current := c.sessions.ByConn(conn); current != nil && current.ID != cmd.SessionID {
		if g := c.games[current.GameID]; g != nil && !g.Ended {
			return model.ErrAlreadyRegistered
		}
		c.release(current)
	}

	sess := c.sessions.Lookup(cmd.SessionID)
	var g *model.Game
	if sess != nil {
		g = c.games[sess.GameID]
	}
	if g == nil {
		c.notifier.Send(conn, model.Event{Type: model.EventSessionNotFound})
		c.logger.Info("resume failed, session not found",
			slog.String("conn_id", string(conn)),
			slog.String("session_id", string(cmd.SessionID)),
		)
		return nil
	}
	return c.resume(conn, sess, g)
}

// resume rebinds a session to a new connection and restores the client's
// view. The stored display name wins over anything the client sends.
func (c *Coordinator) resume(conn model.ConnID, sess *model.Session, g *model.Game) error {
	previous := sess.ConnID
	c.sessions.Bind(sess, conn)
	c.sessions.ClearDisconnected(sess.ID)

	c.notifier.Send(conn, model.Event{
		Type: model.EventSessionResumed,
		Payload: model.SessionResumedPayload{
			SessionID: sess.ID,
			Game:      g.View(sess.ParticipantID),
		},
	})
	c.sendToOpponent(g, sess.ParticipantID, model.Event{
		Type:    model.EventOpponentReconnected,
		Payload: model.OpponentPayload{PlayerName: sess.DisplayName},
	})

	c.logger.Info("session resumed",
		slog.String("session_id", string(sess.ID)),
		slog.String("game_id", string(g.ID)),
		slog.String("conn_id", string(conn)),
		slog.String("previous_conn_id", string(previous)),
	)
	return nil
}

func (c *Coordinator) waitForOpponent(conn model.ConnID, cmd model.GameCommand) error {
	if _, _, err := c.participantFor(conn, cmd.GameID); err != nil {
		return err
	}
	sess := c.sessions.ByConn(conn)
	c.notifier.Send(conn, model.Event{
		Type:    model.EventOpponentWaiting,
		Payload: model.OpponentWaitingPayload{SessionID: sess.ID},
	})
	return nil
}

func (c *Coordinator) leaveGame(conn model.ConnID, cmd model.GameCommand) error {
	sess := c.sessions.ByConn(conn)
	if sess == nil {
		return model.ErrNotRegistered
	}
	if !sess.InGame() {
		c.release(sess)
		c.logger.Info("participant left the queue", slog.String("session_id", string(sess.ID)))
		return nil
	}

	g, p, err := c.participantFor(conn, cmd.GameID)
	if err != nil {
		return err
	}
	c.teardown(g, p.ID)
	c.logger.Info("participant left game",
		slog.String("session_id", string(sess.ID)),
		slog.String("game_id", string(g.ID)),
	)
	return nil
}

func (c *Coordinator) requestRandomNumber(conn model.ConnID) error {
	c.notifier.Send(conn, model.Event{
		Type:    model.EventNumberSuggestion,
		Payload: model.NumberSuggestionPayload{Number: numbers.Suggest(c.random)},
	})
	return nil
}
