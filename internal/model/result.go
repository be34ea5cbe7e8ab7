package model

import "time"

// RoundResult is the archived outcome of one completed round
type RoundResult struct {
	GameID      GameID         `json:"game_id"`
	Round       int            `json:"round"`
	Players     []string       `json:"players"`
	Winner      string         `json:"winner,omitempty"`
	IsDraw      bool           `json:"is_draw"`
	GuessCounts map[string]int `json:"guess_counts"`
	GamesWon    map[string]int `json:"games_won"`
	CompletedAt time.Time      `json:"completed_at"`
}

// PlayerRecord aggregates archived round outcomes for one display name
type PlayerRecord struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Played returns the total number of archived rounds for the player
func (r PlayerRecord) Played() int {
	return r.Wins + r.Losses + r.Draws
}

// Outcome is one player's result in an archived round
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// OutcomeFor returns the outcome of the round for the named player
func (r *RoundResult) OutcomeFor(name string) Outcome {
	switch {
	case r.IsDraw:
		return OutcomeDraw
	case r.Winner == name:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

// Apply adds an outcome to the record
func (r *PlayerRecord) Apply(o Outcome) {
	switch o {
	case OutcomeWin:
		r.Wins++
	case OutcomeLoss:
		r.Losses++
	case OutcomeDraw:
		r.Draws++
	}
}
