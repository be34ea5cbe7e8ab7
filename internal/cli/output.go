package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	if _, ok := data.(Event); !ok {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case StatsResult:
		o.printStats(v)
	case ResultsList:
		o.printResults(v)
	case PlayerRecord:
		o.printPlayerRecord(v)
	case Suggestion:
		fmt.Println(v.Number)
	case Event:
		o.printEvent(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// StatsResult response type
type StatsResult struct {
	Waiting              int     `json:"waiting"`
	Games                int     `json:"games"`
	GamesInProgress      int     `json:"games_in_progress"`
	Sessions             int     `json:"sessions"`
	PendingReconnections int     `json:"pending_reconnections"`
	GracePeriodSeconds   float64 `json:"grace_period_seconds"`
}

// RoundResult response type
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

// ResultsList response type
type ResultsList struct {
	Results []RoundResult `json:"results"`
}

// PlayerRecord response type
type PlayerRecord struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
	Played int    `json:"played"`
}

// Suggestion is a server-generated valid number
type Suggestion struct {
	Number string `json:"number"`
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	if h.Store != "" {
		fmt.Printf("Store: %s\n", h.Store)
	}
}

func (o *Output) printStats(s StatsResult) {
	fmt.Printf("Waiting: %d\n", s.Waiting)
	fmt.Printf("Games: %d (%d in progress)\n", s.Games, s.GamesInProgress)
	fmt.Printf("Sessions: %d\n", s.Sessions)
	fmt.Printf("Pending reconnections: %d\n", s.PendingReconnections)
	fmt.Printf("Grace period: %s\n", time.Duration(s.GracePeriodSeconds*float64(time.Second)))
}

func (o *Output) printResults(r ResultsList) {
	if len(r.Results) == 0 {
		fmt.Println("No completed rounds")
		return
	}
	for _, res := range r.Results {
		outcome := "draw"
		if res.Winner != nil {
			outcome = "won by " + *res.Winner
		}
		counts := make([]string, 0, len(res.Players))
		for _, name := range res.Players {
			counts = append(counts, fmt.Sprintf("%s=%d", name, res.GuessCounts[name]))
		}
		fmt.Printf("%s  %s round %d: %s vs %s, %s (guesses: %s)\n",
			res.CompletedAt.Format("2006-01-02 15:04:05"),
			res.GameID,
			res.Round,
			playerAt(res.Players, 0),
			playerAt(res.Players, 1),
			outcome,
			strings.Join(counts, ", "),
		)
	}
}

func playerAt(players []string, i int) string {
	if i < len(players) {
		return players[i]
	}
	return "?"
}

func (o *Output) printPlayerRecord(r PlayerRecord) {
	fmt.Printf("Player: %s\n", r.Name)
	fmt.Printf("Played: %d\n", r.Played)
	fmt.Printf("Wins: %d  Losses: %d  Draws: %d\n", r.Wins, r.Losses, r.Draws)
}
