package model

import "errors"

// Common errors used across the application
var (
	// Validation errors (reported to the originating connection)
	ErrInvalidNumber      = errors.New("invalid number: must be 5 digits with no repeats")
	ErrInvalidGuess       = errors.New("invalid guess: must be 5 digits with no repeats")
	ErrInvalidDisplayName = errors.New("display name is required")
	ErrInvalidCommand     = errors.New("invalid command")

	// Conflict errors
	ErrNameTaken    = errors.New("this name is already in use, please choose a different name")
	ErrSessionInUse = errors.New("this session is active on another connection")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Protocol violations (silently dropped at the coordinator boundary)
	ErrGameNotFound       = errors.New("game not found")
	ErrNotInGame          = errors.New("participant is not in this game")
	ErrNotParticipantTurn = errors.New("not this participant's turn")
	ErrRoundNotInSetup    = errors.New("round is not accepting numbers")
	ErrRoundNotInProgress = errors.New("round is not in progress")
	ErrRoundNotEnded      = errors.New("round has not ended")
	ErrNoRematchRequested = errors.New("no rematch has been requested by the opponent")
	ErrNotRegistered      = errors.New("connection has not joined the lobby")
	ErrAlreadyRegistered  = errors.New("connection is already in a game")

	// Results archive errors
	ErrPlayerRecordNotFound = errors.New("player record not found")
)

// IsValidationError returns true for errors that should be reported back to the
// originator rather than dropped
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidNumber) ||
		errors.Is(err, ErrInvalidGuess) ||
		errors.Is(err, ErrInvalidDisplayName)
}
