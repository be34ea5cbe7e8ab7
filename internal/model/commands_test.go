package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, typ string, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Envelope{Type: typ, Payload: raw}
}

func TestDecodeJoinLobby(t *testing.T) {
	cmd, err := DecodeCommand(envelope(t, "join-lobby", map[string]string{"displayName": "Alice", "sessionId": "s_1"}))
	require.NoError(t, err)

	join, ok := cmd.(JoinLobby)
	require.True(t, ok)
	assert.Equal(t, "Alice", join.DisplayName)
	assert.Equal(t, SessionID("s_1"), join.SessionID)
	assert.Equal(t, CommandJoinLobby, join.CommandType())
}

func TestDecodeGameCommandKeepsType(t *testing.T) {
	cmd, err := DecodeCommand(envelope(t, "accept-rematch", map[string]string{"gameId": "game_1"}))
	require.NoError(t, err)
	assert.Equal(t, CommandAcceptRematch, cmd.CommandType())
	assert.Equal(t, GameID("game_1"), cmd.(GameCommand).GameID)
}

func TestDecodeLeaveWithoutGame(t *testing.T) {
	cmd, err := DecodeCommand(Envelope{Type: "leave-game"})
	require.NoError(t, err)
	assert.Equal(t, CommandLeaveGame, cmd.CommandType())
}

func TestDecodeRandomNumberIgnoresPayload(t *testing.T) {
	cmd, err := DecodeCommand(envelope(t, "request-random-number", map[string]int{"ignored": 1}))
	require.NoError(t, err)
	assert.Equal(t, RequestRandomNumber{}, cmd)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]Envelope{
		"unknown type":         {Type: "launch-missiles"},
		"empty type":           {},
		"resume without id":    envelope(t, "resume-session", map[string]string{"displayName": "Alice"}),
		"commit without game":  envelope(t, "commit-number", map[string]string{"number": "12345"}),
		"guess without game":   envelope(t, "submit-guess", map[string]string{"guess": "12345"}),
		"rematch without game": envelope(t, "request-rematch", map[string]string{}),
		"wrong payload shape":  {Type: "submit-guess", Payload: json.RawMessage(`{"gameId": 7}`)},
		"payload not object":   {Type: "join-lobby", Payload: json.RawMessage(`"Alice"`)},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommand(env)
			assert.ErrorIs(t, err, ErrInvalidCommand)
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidGuess))
	assert.True(t, IsValidationError(ErrInvalidDisplayName))
	assert.False(t, IsValidationError(ErrNotParticipantTurn))
	assert.False(t, IsValidationError(ErrGameNotFound))
}
