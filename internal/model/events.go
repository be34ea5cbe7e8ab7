package model

// EventType identifies an outbound event sent to a client connection
type EventType string

const (
	// Lobby events
	EventWaiting         EventType = "waiting"
	EventGameFound       EventType = "game-found"
	EventNameError       EventType = "name-error"
	EventSessionResumed  EventType = "session-resumed"
	EventSessionNotFound EventType = "session-not-found"

	// Round events
	EventNumberRejected EventType = "number-rejected"
	EventPlayerReady    EventType = "player-ready"
	EventGameStarted    EventType = "game-started"
	EventGuessRejected  EventType = "guess-rejected"
	EventGuessMade      EventType = "guess-made"
	EventRoundPending   EventType = "round-continues-pending-response"
	EventRoundEnded     EventType = "round-ended"
	EventRoundReset     EventType = "round-reset"

	// Rematch events
	EventRematchRequested EventType = "rematch-requested"
	EventRematchAccepted  EventType = "rematch-accepted"

	// Opponent presence events
	EventOpponentDisconnected EventType = "opponent-disconnected"
	EventOpponentReconnected  EventType = "opponent-reconnected"
	EventOpponentLeft         EventType = "opponent-left"
	EventOpponentWaiting      EventType = "opponent-waiting"

	// Misc
	EventNumberSuggestion EventType = "number-suggestion"
	EventInvalidRequest   EventType = "invalid-request"
)

// Event is a single outbound message
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// WaitingPayload is sent to a participant queued for an opponent
type WaitingPayload struct {
	SessionID SessionID `json:"sessionId"`
}

// GameFoundPayload is sent to both participants when they are paired
type GameFoundPayload struct {
	GameID      GameID        `json:"gameId"`
	SessionID   SessionID     `json:"sessionId"` // the recipient's own session
	Players     []PlayerView  `json:"players"`
	CurrentTurn ParticipantID `json:"currentTurn"`
	Game        GameView      `json:"game"`
}

// ErrorPayload carries a human-readable rejection reason
type ErrorPayload struct {
	Message string `json:"message"`
}

// SessionResumedPayload restores a reconnected client's view of its game
type SessionResumedPayload struct {
	SessionID SessionID `json:"sessionId"`
	Game      GameView  `json:"game"`
}

// PlayerReadyPayload is broadcast when one participant commits a number
type PlayerReadyPayload struct {
	ParticipantID ParticipantID `json:"participantId"`
	Game          GameView      `json:"game"`
}

// GameStartedPayload is broadcast once both participants are ready
type GameStartedPayload struct {
	CurrentTurn ParticipantID `json:"currentTurn"`
	Game        GameView      `json:"game"`
}

// GuessMadePayload is broadcast after a non-winning guess passes the turn
type GuessMadePayload struct {
	Guess       GuessRecord   `json:"guess"`
	CurrentTurn ParticipantID `json:"currentTurn"`
	AllGuesses  []GuessRecord `json:"allGuesses"`
	Game        GameView      `json:"game"`
}

// RoundPendingPayload is broadcast when a participant has won but the opponent
// still gets one more guess
type RoundPendingPayload struct {
	ProvisionalWinner string        `json:"provisionalWinner"`
	CurrentTurn       ParticipantID `json:"currentTurn"`
	AllGuesses        []GuessRecord `json:"allGuesses"`
	Game              GameView      `json:"game"`
}

// RoundEndedPayload is broadcast when a round is resolved
type RoundEndedPayload struct {
	Winner       string   `json:"winner,omitempty"`
	IsDraw       bool     `json:"isDraw"`
	WinnerNumber string   `json:"winnerNumber,omitempty"` // the number the winner deduced
	Game         GameView `json:"game"`
}

// RoundResetPayload is broadcast when a new round begins in the same game
type RoundResetPayload struct {
	Round       int           `json:"round"`
	CurrentTurn ParticipantID `json:"currentTurn"`
	Game        GameView      `json:"game"`
}

// RematchRequestedPayload is sent to the opponent of the requesting participant
type RematchRequestedPayload struct {
	PlayerName string `json:"playerName"`
}

// OpponentPayload describes a change in the opponent's presence
type OpponentPayload struct {
	PlayerName   string `json:"playerName"`
	CanReconnect bool   `json:"canReconnect"`
}

// OpponentWaitingPayload acknowledges that a participant will wait for its opponent
type OpponentWaitingPayload struct {
	SessionID SessionID `json:"sessionId"`
}

// NumberSuggestionPayload carries a randomly generated valid number
type NumberSuggestionPayload struct {
	Number string `json:"number"`
}
