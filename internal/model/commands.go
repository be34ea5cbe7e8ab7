package model

import (
	"encoding/json"
	"fmt"
)

// CommandType identifies an inbound event sent by a client
type CommandType string

const (
	CommandJoinLobby           CommandType = "join-lobby"
	CommandResumeSession       CommandType = "resume-session"
	CommandCommitNumber        CommandType = "commit-number"
	CommandSubmitGuess         CommandType = "submit-guess"
	CommandRequestNewRound     CommandType = "request-new-round"
	CommandRequestRematch      CommandType = "request-rematch"
	CommandAcceptRematch       CommandType = "accept-rematch"
	CommandRequestRandomNumber CommandType = "request-random-number"
	CommandWaitForOpponent     CommandType = "wait-for-opponent"
	CommandLeaveGame           CommandType = "leave-game"
)

// Envelope is the wire frame for both directions
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command is a decoded, structurally valid inbound event
type Command interface {
	CommandType() CommandType
}

// JoinLobby registers a display name, optionally reusing a prior session id
type JoinLobby struct {
	DisplayName string    `json:"displayName"`
	SessionID   SessionID `json:"sessionId"`
}

// ResumeSession reattaches a connection to a session in a live game
type ResumeSession struct {
	SessionID   SessionID `json:"sessionId"`
	DisplayName string    `json:"displayName"`
}

// CommitNumber sets the sender's secret number for the current round
type CommitNumber struct {
	GameID GameID `json:"gameId"`
	Number string `json:"number"`
}

// SubmitGuess guesses the opponent's secret number
type SubmitGuess struct {
	GameID GameID `json:"gameId"`
	Guess  string `json:"guess"`
}

// GameCommand is any command that only names the target game
type GameCommand struct {
	Type   CommandType `json:"-"`
	GameID GameID      `json:"gameId"`
}

// RequestRandomNumber asks for a valid secret number suggestion
type RequestRandomNumber struct{}

func (JoinLobby) CommandType() CommandType           { return CommandJoinLobby }
func (ResumeSession) CommandType() CommandType       { return CommandResumeSession }
func (CommitNumber) CommandType() CommandType        { return CommandCommitNumber }
func (SubmitGuess) CommandType() CommandType         { return CommandSubmitGuess }
func (c GameCommand) CommandType() CommandType       { return c.Type }
func (RequestRandomNumber) CommandType() CommandType { return CommandRequestRandomNumber }

// DecodeCommand turns a wire envelope into a typed command. Unknown types,
// malformed payloads and missing identifiers wrap ErrInvalidCommand.
func DecodeCommand(env Envelope) (Command, error) {
	switch CommandType(env.Type) {
	case CommandJoinLobby:
		var c JoinLobby
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		return c, nil

	case CommandResumeSession:
		var c ResumeSession
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		if c.SessionID == "" {
			return nil, fmt.Errorf("%w: %s requires sessionId", ErrInvalidCommand, env.Type)
		}
		return c, nil

	case CommandCommitNumber:
		var c CommitNumber
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		if c.GameID == "" {
			return nil, fmt.Errorf("%w: %s requires gameId", ErrInvalidCommand, env.Type)
		}
		return c, nil

	case CommandSubmitGuess:
		var c SubmitGuess
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		if c.GameID == "" {
			return nil, fmt.Errorf("%w: %s requires gameId", ErrInvalidCommand, env.Type)
		}
		return c, nil

	case CommandRequestNewRound, CommandRequestRematch, CommandAcceptRematch,
		CommandWaitForOpponent, CommandLeaveGame:
		c := GameCommand{Type: CommandType(env.Type)}
		if err := decodePayload(env, &c); err != nil {
			return nil, err
		}
		// Leaving is also valid while still queued, before any game exists
		if c.GameID == "" && c.Type != CommandLeaveGame {
			return nil, fmt.Errorf("%w: %s requires gameId", ErrInvalidCommand, env.Type)
		}
		return c, nil

	case CommandRequestRandomNumber:
		return RequestRandomNumber{}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, env.Type)
	}
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrInvalidCommand, env.Type, err)
	}
	return nil
}
