package redis

import (
	"fmt"

	"github.com/mcoot/numbermaster/internal/model"
)

// Key prefix for all archive data
const keyPrefix = "nmgame"

// Hash fields of a player record
const (
	fieldName   = "name"
	fieldWins   = "wins"
	fieldLosses = "losses"
	fieldDraws  = "draws"
)

// resultsKey returns the Redis key for the LIST of recent round results
func resultsKey() string {
	return fmt.Sprintf("%s:results", keyPrefix)
}

// recordKey returns the Redis key for a player's record HASH
func recordKey(name string) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, model.NormalizeName(name))
}

// outcomeField maps an outcome to its counter field
func outcomeField(o model.Outcome) string {
	switch o {
	case model.OutcomeWin:
		return fieldWins
	case model.OutcomeDraw:
		return fieldDraws
	default:
		return fieldLosses
	}
}
