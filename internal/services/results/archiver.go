package results

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/storage"
)

const (
	defaultBuffer = 64
	writeTimeout  = 5 * time.Second
)

// Archiver writes completed round results to storage off the caller's
// goroutine. Record never blocks; results are dropped with a warning when the
// buffer is full.
type Archiver struct {
	storage storage.Storage
	logger  *slog.Logger

	queue chan *model.RoundResult
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewArchiver creates an Archiver with the given buffer size
func NewArchiver(storage storage.Storage, buffer int, logger *slog.Logger) *Archiver {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Archiver{
		storage: storage,
		logger:  logger.With(slog.String("component", "archiver")),
		queue:   make(chan *model.RoundResult, buffer),
	}
}

// Start runs the background writer until Stop is called
func (a *Archiver) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for result := range a.queue {
			a.write(result)
		}
	}()
}

// Stop drains pending results and waits for the writer to exit
func (a *Archiver) Stop() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// Record queues a result for archiving
func (a *Archiver) Record(result *model.RoundResult) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.Warn("archiver stopped, dropping result",
			slog.String("game_id", string(result.GameID)),
		)
		return
	}
	select {
	case a.queue <- result:
	default:
		a.logger.Warn("archive buffer full, dropping result",
			slog.String("game_id", string(result.GameID)),
			slog.Int("round", result.Round),
		)
	}
}

func (a *Archiver) write(result *model.RoundResult) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := a.storage.SaveRoundResult(ctx, result); err != nil {
		a.logger.Error("failed to archive round result",
			slog.String("game_id", string(result.GameID)),
			slog.Int("round", result.Round),
			slog.Any("error", err),
		)
		return
	}
	a.logger.Debug("round result archived",
		slog.String("game_id", string(result.GameID)),
		slog.Int("round", result.Round),
	)
}

// Recent returns up to limit archived results, newest first
func (a *Archiver) Recent(ctx context.Context, limit int) ([]*model.RoundResult, error) {
	return a.storage.RecentResults(ctx, limit)
}

// PlayerRecord returns the aggregate record for a display name
func (a *Archiver) PlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error) {
	return a.storage.GetPlayerRecord(ctx, name)
}

// FromGame builds a result for the round that just ended in game
func FromGame(game *model.Game, completedAt time.Time) *model.RoundResult {
	result := &model.RoundResult{
		GameID:      game.ID,
		Round:       game.Round,
		Winner:      game.Winner,
		IsDraw:      game.IsDraw,
		GuessCounts: make(map[string]int, 2),
		GamesWon:    make(map[string]int, 2),
		CompletedAt: completedAt,
	}
	for _, p := range game.Roster() {
		result.Players = append(result.Players, p.DisplayName)
		result.GuessCounts[p.DisplayName] = p.GuessCount()
		result.GamesWon[p.DisplayName] = p.GamesWon
	}
	return result
}
