package coordinator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/numbermaster/internal/dependencies/clock"
	"github.com/mcoot/numbermaster/internal/dependencies/ident"
	"github.com/mcoot/numbermaster/internal/dependencies/random"
	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/services/game"
	"github.com/mcoot/numbermaster/internal/services/matchmaking"
	"github.com/mcoot/numbermaster/internal/services/results"
	"github.com/mcoot/numbermaster/internal/services/session"
)

// DefaultGracePeriod is how long a disconnected participant may take to resume
const DefaultGracePeriod = 5 * time.Minute

// Notifier delivers outbound events to a connection. Send must not block and
// must not call back into the Coordinator.
type Notifier interface {
	Send(conn model.ConnID, event model.Event)
}

// ResultRecorder receives the outcome of every completed round
type ResultRecorder interface {
	Record(result *model.RoundResult)
}

// Config holds coordinator settings
type Config struct {
	GracePeriod time.Duration
}

// DefaultConfig returns the default coordinator settings
func DefaultConfig() Config {
	return Config{GracePeriod: DefaultGracePeriod}
}

// Stats is a point-in-time summary of coordinator state
type Stats struct {
	Waiting              int `json:"waiting"`
	Games                int `json:"games"`
	GamesInProgress      int `json:"games_in_progress"`
	Sessions             int `json:"sessions"`
	PendingReconnections int `json:"pending_reconnections"`
}

// Coordinator owns the matchmaking queue, every live game and the session
// registry. All inbound events and the expiry sweep are serialised by one
// lock, and each handler sends its notifications before releasing it.
type Coordinator struct {
	mu sync.Mutex

	cfg      Config
	games    map[model.GameID]*model.Game
	queue    *matchmaking.Queue
	sessions *session.Registry
	engine   *game.Controller

	notifier Notifier
	recorder ResultRecorder
	ids      ident.Generator
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// New creates a Coordinator. recorder may be nil.
func New(
	cfg Config,
	notifier Notifier,
	recorder ResultRecorder,
	ids ident.Generator,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Coordinator {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	logger = logger.With(slog.String("component", "coordinator"))
	return &Coordinator{
		cfg:      cfg,
		games:    make(map[model.GameID]*model.Game),
		queue:    matchmaking.NewQueue(),
		sessions: session.NewRegistry(ids, clock, logger),
		engine:   game.NewController(clock, random, logger),
		notifier: notifier,
		recorder: recorder,
		ids:      ids,
		clock:    clock,
		random:   random,
		logger:   logger,
	}
}

// HandleMessage decodes a wire envelope and handles the resulting command.
// Malformed envelopes get an invalid-request reply.
func (c *Coordinator) HandleMessage(conn model.ConnID, env model.Envelope) {
	cmd, err := model.DecodeCommand(env)
	if err != nil {
		c.logger.Debug("rejected malformed message",
			slog.String("conn_id", string(conn)),
			slog.String("type", env.Type),
			slog.Any("error", err),
		)
		c.notifier.Send(conn, model.Event{
			Type:    model.EventInvalidRequest,
			Payload: model.ErrorPayload{Message: err.Error()},
		})
		return
	}
	c.Handle(conn, cmd)
}

// Handle runs one command to completion. Protocol violations are logged and
// dropped; they never produce a reply.
func (c *Coordinator) Handle(conn model.ConnID, cmd model.Command) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	switch cmd := cmd.(type) {
	case model.JoinLobby:
		err = c.joinLobby(conn, cmd)
	case model.ResumeSession:
		err = c.resumeSession(conn, cmd)
	case model.CommitNumber:
		err = c.commitNumber(conn, cmd)
	case model.SubmitGuess:
		err = c.submitGuess(conn, cmd)
	case model.RequestRandomNumber:
		err = c.requestRandomNumber(conn)
	case model.GameCommand:
		switch cmd.Type {
		case model.CommandRequestNewRound:
			err = c.requestNewRound(conn, cmd)
		case model.CommandRequestRematch:
			err = c.requestRematch(conn, cmd)
		case model.CommandAcceptRematch:
			err = c.acceptRematch(conn, cmd)
		case model.CommandWaitForOpponent:
			err = c.waitForOpponent(conn, cmd)
		case model.CommandLeaveGame:
			err = c.leaveGame(conn, cmd)
		default:
			err = model.ErrInvalidCommand
		}
	default:
		err = model.ErrInvalidCommand
	}

	if err != nil {
		c.logger.Debug("dropped event",
			slog.String("conn_id", string(conn)),
			slog.String("type", string(cmd.CommandType())),
			slog.Any("error", err),
		)
	}
}

// Connect is called when a transport connection opens
func (c *Coordinator) Connect(conn model.ConnID) {
	c.logger.Debug("connection opened", slog.String("conn_id", string(conn)))
}

// Disconnect is called when a transport connection closes. Queued
// participants are dropped, participants in an unended game may resume within
// the grace period, and an ended game is torn down immediately.
func (c *Coordinator) Disconnect(conn model.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue.Remove(conn)
	sess := c.sessions.Unbind(conn)
	if sess == nil {
		return
	}

	logger := c.logger.With(
		slog.String("conn_id", string(conn)),
		slog.String("session_id", string(sess.ID)),
	)

	g := c.games[sess.GameID]
	if g == nil {
		c.sessions.Delete(sess.ID)
		logger.Info("waiting participant disconnected")
		return
	}

	if g.Ended {
		c.teardown(g, sess.ParticipantID)
		logger.Info("participant left after round ended", slog.String("game_id", string(g.ID)))
		return
	}

	p := g.Participant(sess.ParticipantID)
	c.sessions.MarkDisconnected(sess, p.Clone(), c.clock.Now())
	c.sendToOpponent(g, sess.ParticipantID, model.Event{
		Type: model.EventOpponentDisconnected,
		Payload: model.OpponentPayload{
			PlayerName:   sess.DisplayName,
			CanReconnect: true,
		},
	})
	logger.Info("participant disconnected, awaiting reconnection",
		slog.String("game_id", string(g.ID)),
		slog.Duration("grace_period", c.cfg.GracePeriod),
	)
}

// Sweep tears down games whose disconnected participant did not return within
// the grace period. Returns the number of expired disconnection records.
func (c *Coordinator) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := c.sessions.Expired(c.clock.Now(), c.cfg.GracePeriod)
	for _, rec := range expired {
		sess := c.sessions.Lookup(rec.SessionID)
		if sess == nil {
			continue
		}
		g := c.games[rec.GameID]
		if g == nil {
			c.sessions.Delete(sess.ID)
			continue
		}
		c.teardown(g, sess.ParticipantID)
		c.logger.Info("reconnection grace period expired",
			slog.String("session_id", string(sess.ID)),
			slog.String("game_id", string(g.ID)),
		)
	}
	return len(expired)
}

// Stats returns a snapshot of coordinator state
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Waiting:              c.queue.Len(),
		Games:                len(c.games),
		Sessions:             c.sessions.Len(),
		PendingReconnections: c.sessions.PendingReconnections(),
	}
	for _, g := range c.games {
		if g.Phase() == model.GamePhaseInProgress {
			stats.GamesInProgress++
		}
	}
	return stats
}

// GracePeriod returns the configured reconnection grace period
func (c *Coordinator) GracePeriod() time.Duration {
	return c.cfg.GracePeriod
}

// teardown destroys a game and both sessions. The participant who is not the
// leaver is told the opponent is gone.
func (c *Coordinator) teardown(g *model.Game, leaver model.ParticipantID) {
	delete(c.games, g.ID)

	leaverName := ""
	if p := g.Participant(leaver); p != nil {
		leaverName = p.DisplayName
	}
	for _, p := range g.Roster() {
		if p.ID != leaver {
			c.sendTo(p, model.Event{
				Type:    model.EventOpponentLeft,
				Payload: model.OpponentPayload{PlayerName: leaverName},
			})
		}
		if sess := c.sessions.Lookup(p.SessionID); sess != nil {
			c.queue.Remove(sess.ConnID)
			c.sessions.Delete(sess.ID)
		}
	}

	c.logger.Info("game torn down",
		slog.String("game_id", string(g.ID)),
		slog.Int("rounds", g.Round),
	)
}

// participantFor resolves the session bound to conn and checks it belongs to gameID
func (c *Coordinator) participantFor(conn model.ConnID, gameID model.GameID) (*model.Game, *model.Participant, error) {
	sess := c.sessions.ByConn(conn)
	if sess == nil {
		return nil, nil, model.ErrNotRegistered
	}
	g := c.games[gameID]
	if g == nil {
		return nil, nil, model.ErrGameNotFound
	}
	if sess.GameID != gameID {
		return nil, nil, model.ErrNotInGame
	}
	p := g.Participant(sess.ParticipantID)
	if p == nil {
		return nil, nil, model.ErrNotInGame
	}
	return g, p, nil
}

// sendTo delivers an event to a participant's current connection, if any
func (c *Coordinator) sendTo(p *model.Participant, event model.Event) {
	sess := c.sessions.Lookup(p.SessionID)
	if sess == nil || !sess.Connected() {
		return
	}
	c.notifier.Send(sess.ConnID, event)
}

func (c *Coordinator) sendToOpponent(g *model.Game, id model.ParticipantID, event model.Event) {
	if opp := g.Opponent(id); opp != nil {
		c.sendTo(opp, event)
	}
}

// broadcast sends each participant an event built for its own view of the game
func (c *Coordinator) broadcast(g *model.Game, build func(viewer *model.Participant, view model.GameView) model.Event) {
	for _, p := range g.Roster() {
		c.sendTo(p, build(p, g.View(p.ID)))
	}
}

func (c *Coordinator) reply(conn model.ConnID, eventType model.EventType, err error) {
	c.notifier.Send(conn, model.Event{
		Type:    eventType,
		Payload: model.ErrorPayload{Message: err.Error()},
	})
}

func (c *Coordinator) recordResult(g *model.Game) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(results.FromGame(g, c.clock.Now()))
}
