package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/numbermaster/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResultsLimit = 3
	cfg.RecordTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func result(round int, winner string, draw bool) *model.RoundResult {
	return &model.RoundResult{
		GameID:      "game_1",
		Round:       round,
		Players:     []string{"Alice", "Bob"},
		Winner:      winner,
		IsDraw:      draw,
		GuessCounts: map[string]int{"Alice": 3, "Bob": 2},
		GamesWon:    map[string]int{"Alice": 1, "Bob": 0},
		CompletedAt: time.Date(2024, 1, 1, 12, round, 0, 0, time.UTC),
	}
}

// Result tests

func (s *StorageSuite) TestSaveAndListResults() {
	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, result(1, "Alice", false)))
	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, result(2, "", true)))

	results, err := s.storage.RecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(2, results[0].Round)
	s.True(results[0].IsDraw)
	s.Equal("Alice", results[1].Winner)
	s.Equal(3, results[1].GuessCounts["Alice"])
	s.True(results[1].CompletedAt.Equal(time.Date(2024, 1, 1, 12, 1, 0, 0, time.UTC)))
}

func (s *StorageSuite) TestResultsListIsTrimmed() {
	for i := 1; i <= 5; i++ {
		_ = s.storage.SaveRoundResult(s.ctx, result(i, "Alice", false))
	}

	length, err := s.storage.client.LLen(s.ctx, resultsKey()).Result()
	s.Require().NoError(err)
	s.Equal(int64(3), length)

	results, _ := s.storage.RecentResults(s.ctx, 0)
	s.Require().Len(results, 3)
	s.Equal(5, results[0].Round)
}

func (s *StorageSuite) TestRecentResultsHonoursLimit() {
	for i := 1; i <= 3; i++ {
		_ = s.storage.SaveRoundResult(s.ctx, result(i, "Alice", false))
	}

	results, err := s.storage.RecentResults(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(3, results[0].Round)
}

func (s *StorageSuite) TestRecentResultsEmpty() {
	results, err := s.storage.RecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

// Record tests

func (s *StorageSuite) TestPlayerRecordsAccumulate() {
	_ = s.storage.SaveRoundResult(s.ctx, result(1, "Alice", false))
	_ = s.storage.SaveRoundResult(s.ctx, result(2, "Bob", false))
	_ = s.storage.SaveRoundResult(s.ctx, result(3, "", true))

	alice, err := s.storage.GetPlayerRecord(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal(model.PlayerRecord{Name: "Alice", Wins: 1, Losses: 1, Draws: 1}, *alice)

	bob, err := s.storage.GetPlayerRecord(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.PlayerRecord{Name: "Bob", Wins: 1, Losses: 1, Draws: 1}, *bob)
}

func (s *StorageSuite) TestPlayerRecordNotFound() {
	_, err := s.storage.GetPlayerRecord(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerRecordNotFound)
}

func (s *StorageSuite) TestPlayerRecordExpires() {
	_ = s.storage.SaveRoundResult(s.ctx, result(1, "Alice", false))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayerRecord(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrPlayerRecordNotFound)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}
