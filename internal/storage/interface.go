package storage

import (
	"context"

	"github.com/mcoot/numbermaster/internal/model"
)

// DefaultResultsLimit is how many recent round results a store keeps
const DefaultResultsLimit = 100

// Storage persists completed round results and per-player records. Live game
// state is never stored.
type Storage interface {
	// SaveRoundResult archives a result and updates each player's record
	SaveRoundResult(ctx context.Context, result *model.RoundResult) error

	// RecentResults returns up to limit results, newest first
	RecentResults(ctx context.Context, limit int) ([]*model.RoundResult, error)

	// GetPlayerRecord returns the aggregate record for a display name,
	// matched case-insensitively
	GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error)

	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}
