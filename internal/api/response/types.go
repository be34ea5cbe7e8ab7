package response

import (
	"time"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/services/coordinator"
)

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Stats represents live coordinator state
type Stats struct {
	Waiting              int     `json:"waiting"`
	Games                int     `json:"games"`
	GamesInProgress      int     `json:"games_in_progress"`
	Sessions             int     `json:"sessions"`
	PendingReconnections int     `json:"pending_reconnections"`
	GracePeriodSeconds   float64 `json:"grace_period_seconds"`
}

// StatsFromCoordinator converts coordinator stats
func StatsFromCoordinator(s coordinator.Stats, grace time.Duration) Stats {
	return Stats{
		Waiting:              s.Waiting,
		Games:                s.Games,
		GamesInProgress:      s.GamesInProgress,
		Sessions:             s.Sessions,
		PendingReconnections: s.PendingReconnections,
		GracePeriodSeconds:   grace.Seconds(),
	}
}

// RoundResult represents an archived round
type RoundResult struct {
	GameID      string         `json:"game_id"`
	Round       int            `json:"round"`
	Players     []string       `json:"players"`
	Winner      *string        `json:"winner"`
	IsDraw      bool           `json:"is_draw"`
	GuessCounts map[string]int `json:"guess_counts"`
	GamesWon    map[string]int `json:"games_won"`
	CompletedAt time.Time      `json:"completed_at"`
}

// RoundResultFromModel converts model.RoundResult
func RoundResultFromModel(r *model.RoundResult) RoundResult {
	var winner *string
	if r.Winner != "" {
		w := r.Winner
		winner = &w
	}
	return RoundResult{
		GameID:      string(r.GameID),
		Round:       r.Round,
		Players:     r.Players,
		Winner:      winner,
		IsDraw:      r.IsDraw,
		GuessCounts: r.GuessCounts,
		GamesWon:    r.GamesWon,
		CompletedAt: r.CompletedAt,
	}
}

// Results is a page of recent round results
type Results struct {
	Results []RoundResult `json:"results"`
}

// ResultsFromModel converts a slice of results
func ResultsFromModel(results []*model.RoundResult) Results {
	out := make([]RoundResult, len(results))
	for i, r := range results {
		out[i] = RoundResultFromModel(r)
	}
	return Results{Results: out}
}

// PlayerRecord represents a player's aggregate record
type PlayerRecord struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Played int    `json:"played"`
}

// PlayerRecordFromModel converts model.PlayerRecord
func PlayerRecordFromModel(r *model.PlayerRecord) PlayerRecord {
	return PlayerRecord{
		Name:   r.Name,
		Wins:   r.Wins,
		Losses: r.Losses,
		Draws:  r.Draws,
		Played: r.Played(),
	}
}
