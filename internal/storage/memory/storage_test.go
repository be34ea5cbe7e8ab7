package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/numbermaster/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New(3)
	s.ctx = context.Background()
}

func result(round int, winner string, draw bool) *model.RoundResult {
	return &model.RoundResult{
		GameID:      "game_1",
		Round:       round,
		Players:     []string{"Alice", "Bob"},
		Winner:      winner,
		IsDraw:      draw,
		GuessCounts: map[string]int{"Alice": 4, "Bob": 4},
		CompletedAt: time.Date(2024, 1, 1, 12, round, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestRecentResultsNewestFirst() {
	for i := 1; i <= 3; i++ {
		s.Require().NoError(s.storage.SaveRoundResult(s.ctx, result(i, "Alice", false)))
	}

	results, err := s.storage.RecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(3, results[0].Round)
	s.Equal(1, results[2].Round)
}

func (s *StorageSuite) TestRecentResultsHonoursLimit() {
	for i := 1; i <= 3; i++ {
		_ = s.storage.SaveRoundResult(s.ctx, result(i, "Alice", false))
	}

	results, err := s.storage.RecentResults(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(results, 2)
	s.Equal(3, results[0].Round)
}

func (s *StorageSuite) TestOldResultsAreTrimmed() {
	for i := 1; i <= 5; i++ {
		_ = s.storage.SaveRoundResult(s.ctx, result(i, "Alice", false))
	}

	results, _ := s.storage.RecentResults(s.ctx, 0)
	s.Require().Len(results, 3)
	s.Equal(5, results[0].Round)
	s.Equal(3, results[2].Round)
}

func (s *StorageSuite) TestRecentResultsEmpty() {
	results, err := s.storage.RecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(results)
}

func (s *StorageSuite) TestPlayerRecordsAccumulate() {
	_ = s.storage.SaveRoundResult(s.ctx, result(1, "Alice", false))
	_ = s.storage.SaveRoundResult(s.ctx, result(2, "Bob", false))
	_ = s.storage.SaveRoundResult(s.ctx, result(3, "", true))
	_ = s.storage.SaveRoundResult(s.ctx, result(4, "Alice", false))

	alice, err := s.storage.GetPlayerRecord(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerRecord{Name: "Alice", Wins: 2, Losses: 1, Draws: 1}, *alice)
	s.Equal(4, alice.Played())

	bob, err := s.storage.GetPlayerRecord(s.ctx, " BOB ")
	s.Require().NoError(err)
	s.Equal(model.PlayerRecord{Name: "Bob", Wins: 1, Losses: 2, Draws: 1}, *bob)
}

func (s *StorageSuite) TestPlayerRecordNotFound() {
	_, err := s.storage.GetPlayerRecord(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerRecordNotFound)
}

func (s *StorageSuite) TestDefaultLimit() {
	store := New(0)
	for i := 0; i < 105; i++ {
		r := result(i, "Alice", false)
		r.GameID = model.GameID(fmt.Sprintf("game_%d", i))
		_ = store.SaveRoundResult(s.ctx, r)
	}

	results, _ := store.RecentResults(s.ctx, 0)
	s.Len(results, 100)
}
