package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// Event is one message received from the game socket
type Event struct {
	Time    time.Time       `json:"time"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// eventPayload holds the fields the text output cares about across all event types
type eventPayload struct {
	SessionID         string     `json:"sessionId"`
	GameID            string     `json:"gameId"`
	Message           string     `json:"message"`
	PlayerName        string     `json:"playerName"`
	CanReconnect      bool       `json:"canReconnect"`
	Number            string     `json:"number"`
	Winner            string     `json:"winner"`
	IsDraw            bool       `json:"isDraw"`
	WinnerNumber      string     `json:"winnerNumber"`
	ProvisionalWinner string     `json:"provisionalWinner"`
	Round             int        `json:"round"`
	Guess             *guessView `json:"guess"`
	Game              *gameView  `json:"game"`
}

type guessView struct {
	Guess    string `json:"guess"`
	Player   string `json:"player"`
	Turn     int    `json:"turn"`
	Feedback struct {
		CorrectPosition           int `json:"correctPosition"`
		CorrectDigitWrongPosition int `json:"correctDigitWrongPosition"`
	} `json:"feedback"`
}

type gameView struct {
	GameID          string `json:"gameId"`
	You             string `json:"you"`
	Round           int    `json:"round"`
	CurrentTurn     string `json:"currentTurn"`
	CurrentTurnName string `json:"currentTurnName"`
	Players         []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		GamesWon int    `json:"gamesWon"`
	} `json:"players"`
}

func (g *gameView) opponent() string {
	for _, p := range g.Players {
		if p.ID != g.You {
			return p.Name
		}
	}
	return ""
}

func (g *gameView) turnLabel() string {
	if g.CurrentTurn == g.You {
		return "your turn"
	}
	return g.CurrentTurnName + "'s turn"
}

func decodePayload(evt Event) eventPayload {
	var p eventPayload
	if len(evt.Payload) > 0 {
		_ = json.Unmarshal(evt.Payload, &p)
	}
	return p
}

func (o *Output) printEvent(evt Event) {
	p := decodePayload(evt)
	timestamp := evt.Time.Format("15:04:05")
	var line string

	switch evt.Type {
	case "waiting":
		line = "waiting for an opponent (session " + p.SessionID + ")"
	case "game-found":
		line = "game found"
		if p.Game != nil {
			line = fmt.Sprintf("game %s found against %s, %s", p.GameID, p.Game.opponent(), p.Game.turnLabel())
		}
	case "session-resumed":
		line = "session resumed"
		if p.Game != nil {
			line = fmt.Sprintf("resumed game %s against %s, %s", p.Game.GameID, p.Game.opponent(), p.Game.turnLabel())
		}
	case "player-ready":
		line = "a player committed their number"
	case "game-started":
		line = "round started"
		if p.Game != nil {
			line += ", " + p.Game.turnLabel()
		}
	case "guess-made":
		if p.Guess != nil {
			line = fmt.Sprintf("%s guessed %s: %d correct position, %d wrong position",
				p.Guess.Player, p.Guess.Guess,
				p.Guess.Feedback.CorrectPosition, p.Guess.Feedback.CorrectDigitWrongPosition)
		}
	case "round-continues-pending-response":
		line = p.ProvisionalWinner + " found the number; one reply left"
	case "round-ended":
		switch {
		case p.IsDraw:
			line = "round ended in a draw"
		default:
			line = fmt.Sprintf("%s won the round (number %s)", p.Winner, p.WinnerNumber)
		}
	case "round-reset":
		line = fmt.Sprintf("round %d set up; commit a new number", p.Round)
	case "rematch-requested":
		line = p.PlayerName + " wants a rematch"
	case "rematch-accepted":
		line = "rematch accepted"
	case "opponent-disconnected":
		line = p.PlayerName + " disconnected"
		if p.CanReconnect {
			line += " and may reconnect"
		}
	case "opponent-reconnected":
		line = p.PlayerName + " reconnected"
	case "opponent-left":
		line = p.PlayerName + " left the game"
	case "opponent-waiting":
		line = "opponent is waiting for you"
	case "number-suggestion":
		line = "suggested number: " + p.Number
	case "name-error", "session-not-found", "number-rejected", "guess-rejected", "invalid-request":
		line = evt.Type + ": " + p.Message
	default:
		line = evt.Type + " " + string(evt.Payload)
	}

	fmt.Printf("[%s] %s\n", timestamp, line)
}

// gameSocket is an open game connection. A single goroutine reads events;
// commands are written from the caller's goroutine.
type gameSocket struct {
	conn *websocket.Conn
	out  *Output

	mu     sync.Mutex
	gameID string
}

func newGameSocket(conn *websocket.Conn, out *Output) *gameSocket {
	return &gameSocket{conn: conn, out: out}
}

func (s *gameSocket) send(msgType string, payload any) error {
	return s.conn.WriteJSON(envelope{Type: msgType, Payload: payload})
}

func (s *gameSocket) currentGame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

// readLoop prints events until the connection closes
func (s *gameSocket) readLoop() error {
	for {
		var evt Event
		if err := s.conn.ReadJSON(&evt); err != nil {
			return err
		}
		evt.Time = time.Now()
		s.track(evt)
		s.out.Print(evt)
	}
}

// track keeps the current game id and the saved session in step with the server
func (s *gameSocket) track(evt Event) {
	p := decodePayload(evt)

	switch evt.Type {
	case "waiting", "game-found", "session-resumed":
		if p.SessionID != "" {
			if err := cfg.SaveSession(p.SessionID); err != nil && cfg.Verbose {
				s.out.PrintError(fmt.Errorf("save session: %w", err))
			}
		}
	case "session-not-found", "opponent-left":
		_ = cfg.ClearSession()
	}

	gameID := p.GameID
	if gameID == "" && p.Game != nil {
		gameID = p.Game.GameID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case evt.Type == "opponent-left":
		s.gameID = ""
	case gameID != "":
		s.gameID = gameID
	}
}

func newPlayCmd() *cobra.Command {
	var (
		name   string
		resume bool
		linger time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game over the WebSocket connection",
		Long: `Connect to the game server and play interactively. Commands are read
from stdin, one per line:

  join <name>       join the matchmaking queue
  resume [session]  resume a session (default: the saved session)
  suggest           ask the server for a valid number
  commit <number>   commit your secret five-digit number
  guess <number>    guess the opponent's number
  new-round         start the next round after one ends
  rematch           ask the opponent for a rematch
  accept            accept the opponent's rematch request
  wait              tell the opponent you are waiting for them
  leave             leave the current game or queue
  quit              disconnect

The session id is saved so a dropped connection can be resumed with
"play --resume".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.InOrStdin(), name, resume, linger)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Join the queue with this display name on connect")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume the saved session on connect")
	cmd.Flags().DurationVar(&linger, "linger", time.Second, "How long to keep printing events after stdin closes")

	return cmd
}

func runPlay(in io.Reader, name string, resume bool, linger time.Duration) error {
	conn, err := client.Dial()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	out := NewOutput(cfg.Output)
	sock := newGameSocket(conn, out)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	readErr := make(chan error, 1)
	go func() {
		readErr <- sock.readLoop()
	}()

	if resume {
		if err := resumeSaved(sock, ""); err != nil {
			return err
		}
	} else if name != "" {
		if err := sock.send("join-lobby", map[string]string{"displayName": name}); err != nil {
			return err
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return closeSocket(conn)
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok {
				// stdin closed; drain events for a moment before leaving
				select {
				case <-time.After(linger):
				case <-ctx.Done():
				case <-readErr:
				}
				return closeSocket(conn)
			}
			quit, err := dispatchLine(sock, line)
			if err != nil {
				out.PrintError(err)
			}
			if quit {
				return closeSocket(conn)
			}
		}
	}
}

func closeSocket(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}

func resumeSaved(sock *gameSocket, sessionID string) error {
	if sessionID == "" {
		saved, err := cfg.LoadSession()
		if err != nil {
			return err
		}
		sessionID = saved
	}
	if sessionID == "" {
		return errors.New("no saved session to resume")
	}
	return sock.send("resume-session", map[string]string{"sessionId": sessionID})
}

var errUsage = errors.New("unknown command; try join, commit, guess, new-round, rematch, accept, wait, leave, suggest or quit")

// dispatchLine turns one input line into a socket command. Returns true when
// the user asked to quit.
func dispatchLine(sock *gameSocket, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	gameID := sock.currentGame()
	gameCmd := map[string]string{"gameId": gameID}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil
	case "join":
		if arg == "" {
			return false, errors.New("usage: join <name>")
		}
		return false, sock.send("join-lobby", map[string]string{"displayName": arg})
	case "resume":
		return false, resumeSaved(sock, arg)
	case "suggest":
		return false, sock.send("request-random-number", struct{}{})
	case "commit":
		if arg == "" {
			return false, errors.New("usage: commit <number>")
		}
		return false, sock.send("commit-number", map[string]string{"gameId": gameID, "number": arg})
	case "guess":
		if arg == "" {
			return false, errors.New("usage: guess <number>")
		}
		return false, sock.send("submit-guess", map[string]string{"gameId": gameID, "guess": arg})
	case "new-round":
		return false, sock.send("request-new-round", gameCmd)
	case "rematch":
		return false, sock.send("request-rematch", gameCmd)
	case "accept":
		return false, sock.send("accept-rematch", gameCmd)
	case "wait":
		return false, sock.send("wait-for-opponent", gameCmd)
	case "leave":
		return false, sock.send("leave-game", gameCmd)
	default:
		return false, errUsage
	}
}

func newSuggestCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the server for a valid secret number",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := client.Dial()
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := conn.WriteJSON(envelope{Type: "request-random-number", Payload: struct{}{}}); err != nil {
				return err
			}
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return err
			}
			for {
				var evt Event
				if err := conn.ReadJSON(&evt); err != nil {
					return fmt.Errorf("no suggestion received: %w", err)
				}
				if evt.Type != "number-suggestion" {
					continue
				}
				var s Suggestion
				if err := json.Unmarshal(evt.Payload, &s); err != nil {
					return fmt.Errorf("failed to parse suggestion: %w", err)
				}
				NewOutput(cfg.Output).Print(s)
				return closeSocket(conn)
			}
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the server")

	return cmd
}
